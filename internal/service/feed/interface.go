package feed_service

import (
	"context"

	"inkwell-feed-service/internal/model"
)

// Service composes post listings for the public pages. Index may be served
// from a short-lived cache; the other listings are always fresh.
type Service interface {
	Index(ctx context.Context, page int) (*model.PostPage, error)
	GroupPosts(ctx context.Context, slug string, page int) (*model.GroupPage, error)
	FollowFeed(ctx context.Context, userID int64, page int) (*model.PostPage, error)
	InvalidateIndex(ctx context.Context) error
}
