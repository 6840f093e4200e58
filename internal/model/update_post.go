package model

type UpdatePostDTO struct {
	Text *string `json:"text,omitempty"`

	// GroupID is tri-state: nil leaves the group untouched, a pointer to
	// nil clears it, a pointer to an id moves the post into that group.
	GroupID **int64 `json:"-"`

	Image *ImageUpload `json:"image,omitempty"`

	// ImagePath is filled in by the service after the upload is validated
	// and stored; it never comes from the client.
	ImagePath *string `json:"-"`
}
