package follow_repository

import "context"

// Repository stores the directed follow graph. Create is get-or-create:
// the (user, author) uniqueness invariant is enforced by the storage layer,
// not by a check-then-act in application code.
type Repository interface {
	Create(ctx context.Context, userID, authorID int64) error
	Delete(ctx context.Context, userID, authorID int64) error
	Exists(ctx context.Context, userID, authorID int64) (bool, error)
	CountFollowers(ctx context.Context, authorID int64) (int64, error)
	CountFollowing(ctx context.Context, userID int64) (int64, error)
	Following(ctx context.Context, userID int64) ([]int64, error)
}
