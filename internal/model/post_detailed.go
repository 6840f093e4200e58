package model

// PostDetailed is a post enriched with its author and group. Author and
// Group stay nil when the referenced record no longer exists.
type PostDetailed struct {
	Post   *Post  `json:"post"`
	Author *User  `json:"author,omitempty"`
	Group  *Group `json:"group,omitempty"`
}
