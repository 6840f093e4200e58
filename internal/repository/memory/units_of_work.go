package memory

import (
	"context"

	comment_repository "inkwell-feed-service/internal/repository/comment"
	group_repository "inkwell-feed-service/internal/repository/group"
	post_repository "inkwell-feed-service/internal/repository/post"
	"inkwell-feed-service/internal/repository/postgres"
)

// UnitOfWork hands out the shared in-memory repositories without any real
// transaction boundary. Commit and Rollback are no-ops; tests that need
// rollback semantics assert on observable state instead.
type UnitOfWork struct {
	posts    post_repository.Repository
	groups   group_repository.Repository
	comments comment_repository.Repository
}

func NewUnitOfWork(
	posts post_repository.Repository,
	groups group_repository.Repository,
	comments comment_repository.Repository,
) *UnitOfWork {
	return &UnitOfWork{
		posts:    posts,
		groups:   groups,
		comments: comments,
	}
}

func (u *UnitOfWork) Begin(ctx context.Context) (postgres.Transaction, error) {
	return &transaction{uow: u}, nil
}

type transaction struct {
	uow *UnitOfWork
}

func (t *transaction) Commit(ctx context.Context) error   { return nil }
func (t *transaction) Rollback(ctx context.Context) error { return nil }

func (t *transaction) PostRepository() post_repository.Repository {
	return t.uow.posts
}

func (t *transaction) GroupRepository() group_repository.Repository {
	return t.uow.groups
}

func (t *transaction) CommentRepository() comment_repository.Repository {
	return t.uow.comments
}
