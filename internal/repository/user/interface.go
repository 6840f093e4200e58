package user_repository

import (
	"context"

	"inkwell-feed-service/internal/model"
)

// Repository reads user identities. Accounts are owned by the auth service;
// this service only resolves them for display and follow targets. Create
// exists for seeding and tests.
type Repository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}
