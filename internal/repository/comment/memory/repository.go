package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"inkwell-feed-service/internal/logger"
	"inkwell-feed-service/internal/model"
)

type CommentRepository struct {
	log      *logger.Logger
	mu       sync.RWMutex
	comments map[int64]*model.Comment
	nextID   int64
}

func NewCommentRepository(log *logger.Logger) *CommentRepository {
	return &CommentRepository{
		log:      log,
		comments: make(map[int64]*model.Comment),
		nextID:   1,
	}
}

func (c *CommentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	newComment := &model.Comment{
		ID:       c.nextID,
		PostID:   comment.PostID,
		AuthorID: comment.AuthorID,
		Text:     comment.Text,
		Created:  pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}
	c.nextID++

	c.comments[newComment.ID] = newComment

	result := *newComment
	return &result, nil
}

func (c *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var result []*model.Comment
	for _, comment := range c.comments {
		if comment.PostID != nil && *comment.PostID == postID {
			commentCopy := *comment
			result = append(result, &commentCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Created.Time.Equal(result[j].Created.Time) {
			return result[i].ID < result[j].ID
		}
		return result[i].Created.Time.Before(result[j].Created.Time)
	})

	return result, nil
}
