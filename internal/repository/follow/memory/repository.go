package memory

import (
	"context"
	"sync"

	"inkwell-feed-service/internal/logger"
)

type edge struct {
	userID   int64
	authorID int64
}

type FollowRepository struct {
	log   *logger.Logger
	mu    sync.RWMutex
	edges map[edge]struct{}
}

func NewFollowRepository(log *logger.Logger) *FollowRepository {
	return &FollowRepository{
		log:   log,
		edges: make(map[edge]struct{}),
	}
}

func (f *FollowRepository) Create(ctx context.Context, userID, authorID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.edges[edge{userID, authorID}] = struct{}{}
	return nil
}

func (f *FollowRepository) Delete(ctx context.Context, userID, authorID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.edges, edge{userID, authorID})
	return nil
}

func (f *FollowRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	_, exists := f.edges[edge{userID, authorID}]
	return exists, nil
}

func (f *FollowRepository) CountFollowers(ctx context.Context, authorID int64) (int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var count int64
	for e := range f.edges {
		if e.authorID == authorID {
			count++
		}
	}
	return count, nil
}

func (f *FollowRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var count int64
	for e := range f.edges {
		if e.userID == userID {
			count++
		}
	}
	return count, nil
}

func (f *FollowRepository) Following(ctx context.Context, userID int64) ([]int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var authorIDs []int64
	for e := range f.edges {
		if e.userID == userID {
			authorIDs = append(authorIDs, e.authorID)
		}
	}
	return authorIDs, nil
}
