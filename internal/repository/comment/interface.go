package comment_repository

import (
	"context"

	"inkwell-feed-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, comment *model.Comment) (*model.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error)
}
