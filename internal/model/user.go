package model

import "github.com/jackc/pgx/v5/pgtype"

type User struct {
	ID          int64              `json:"id"`
	Username    string             `json:"username"`
	DisplayName *string            `json:"display_name,omitempty"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}
