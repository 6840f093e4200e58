package model

import "github.com/jackc/pgx/v5/pgtype"

// Comment keeps nullable post and author references: deleting either
// endpoint nulls the reference instead of cascading into the comment.
type Comment struct {
	ID       int64              `json:"id"`
	PostID   *int64             `json:"post_id,omitempty"`
	AuthorID *int64             `json:"author_id,omitempty"`
	Text     string             `json:"text"`
	Created  pgtype.Timestamptz `json:"created"`
}

type CommentDetailed struct {
	Comment *Comment `json:"comment"`
	Author  *User    `json:"author,omitempty"`
}
