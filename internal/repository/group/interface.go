package group_repository

import (
	"context"

	"inkwell-feed-service/internal/model"
)

// Repository stores post groups. Groups are created administratively and
// never deleted in the normal flow.
type Repository interface {
	Create(ctx context.Context, group *model.Group) (*model.Group, error)
	GetByID(ctx context.Context, id int64) (*model.Group, error)
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
}
