package model

import "github.com/jackc/pgx/v5/pgtype"

type Post struct {
	ID        int64              `json:"id"`
	Text      string             `json:"text"`
	PubDate   pgtype.Timestamptz `json:"pub_date"`
	AuthorID  int64              `json:"author_id"`
	GroupID   *int64             `json:"group_id,omitempty"`
	ImagePath *string            `json:"image_path,omitempty"`
}
