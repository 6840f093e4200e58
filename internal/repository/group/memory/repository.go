package memory

import (
	"context"
	"log/slog"
	"sync"

	"inkwell-feed-service/internal/custom_errors"
	"inkwell-feed-service/internal/logger"
	"inkwell-feed-service/internal/model"
)

type GroupRepository struct {
	log    *logger.Logger
	mu     sync.RWMutex
	groups map[int64]*model.Group
	nextID int64
}

func NewGroupRepository(log *logger.Logger) *GroupRepository {
	return &GroupRepository{
		log:    log,
		groups: make(map[int64]*model.Group),
		nextID: 1,
	}
}

func (g *GroupRepository) Create(ctx context.Context, group *model.Group) (*model.Group, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, existing := range g.groups {
		if existing.Slug == group.Slug {
			return nil, custom_errors.ErrGroupAlreadyExists
		}
	}

	newGroup := &model.Group{
		ID:          g.nextID,
		Title:       group.Title,
		Slug:        group.Slug,
		Description: group.Description,
	}
	g.nextID++

	g.groups[newGroup.ID] = newGroup

	result := *newGroup
	return &result, nil
}

func (g *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	group, exists := g.groups[id]
	if !exists {
		g.log.Debug("Group not found by id", slog.Int64("id", id))
		return nil, custom_errors.ErrGroupNotFound
	}

	result := *group
	return &result, nil
}

func (g *GroupRepository) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, group := range g.groups {
		if group.Slug == slug {
			result := *group
			return &result, nil
		}
	}

	g.log.Debug("Group not found by slug", slog.String("slug", slug))
	return nil, custom_errors.ErrGroupNotFound
}
