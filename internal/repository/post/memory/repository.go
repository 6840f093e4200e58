package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"inkwell-feed-service/internal/custom_errors"
	"inkwell-feed-service/internal/logger"
	"inkwell-feed-service/internal/model"
)

type PostRepository struct {
	log    *logger.Logger
	mu     sync.RWMutex
	posts  map[int64]*model.Post
	nextID int64
}

func NewPostRepository(log *logger.Logger) *PostRepository {
	return &PostRepository{
		log:    log,
		posts:  make(map[int64]*model.Post),
		nextID: 1,
	}
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	newPost := &model.Post{
		ID:        p.nextID,
		Text:      post.Text,
		PubDate:   pgtype.Timestamptz{Time: time.Now(), Valid: true},
		AuthorID:  post.AuthorID,
		GroupID:   post.GroupID,
		ImagePath: post.ImagePath,
	}
	p.nextID++

	p.posts[newPost.ID] = newPost

	result := *newPost
	return &result, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	post, exists := p.posts[id]
	if !exists {
		p.log.Debug("Post not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrPostNotFound
	}

	result := *post
	return &result, nil
}

func (p *PostRepository) Update(ctx context.Context, id int64, update *model.UpdatePostDTO) (*model.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	post, exists := p.posts[id]
	if !exists {
		return nil, custom_errors.ErrPostNotFound
	}

	if update.Text != nil {
		post.Text = *update.Text
	}
	if update.GroupID != nil {
		if *update.GroupID == nil {
			post.GroupID = nil
		} else {
			groupID := **update.GroupID
			post.GroupID = &groupID
		}
	}
	if update.ImagePath != nil {
		imagePath := *update.ImagePath
		post.ImagePath = &imagePath
	}

	result := *post
	return &result, nil
}

func (p *PostRepository) Delete(ctx context.Context, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.posts[id]; !exists {
		return custom_errors.ErrPostNotFound
	}

	delete(p.posts, id)
	return nil
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var filtered []*model.Post
	for _, post := range p.posts {
		if filters.AuthorID != nil && post.AuthorID != *filters.AuthorID {
			continue
		}
		if len(filters.AuthorIDs) > 0 && !containsID(filters.AuthorIDs, post.AuthorID) {
			continue
		}
		if filters.GroupID != nil && (post.GroupID == nil || *post.GroupID != *filters.GroupID) {
			continue
		}

		postCopy := *post
		filtered = append(filtered, &postCopy)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].PubDate.Time.Equal(filtered[j].PubDate.Time) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].PubDate.Time.After(filtered[j].PubDate.Time)
	})

	total := len(filtered)

	if filters.Offset != nil {
		offset := *filters.Offset
		if offset >= len(filtered) {
			return []*model.Post{}, total, nil
		}
		filtered = filtered[offset:]
	}

	if filters.Limit != nil {
		limit := *filters.Limit
		if limit < len(filtered) {
			filtered = filtered[:limit]
		}
	}

	return filtered, total, nil
}

func (p *PostRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var count int64
	for _, post := range p.posts {
		if post.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
