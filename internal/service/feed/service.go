package feed_service

import (
	"context"
	"errors"
	"log/slog"

	"inkwell-feed-service/internal/custom_errors"
	"inkwell-feed-service/internal/logger"
	"inkwell-feed-service/internal/metrics"
	"inkwell-feed-service/internal/model"
	"inkwell-feed-service/internal/pagination"
	follow_repository "inkwell-feed-service/internal/repository/follow"
	group_repository "inkwell-feed-service/internal/repository/group"
	post_repository "inkwell-feed-service/internal/repository/post"
	user_repository "inkwell-feed-service/internal/repository/user"
)

type FeedService struct {
	postRepo   post_repository.Repository
	groupRepo  group_repository.Repository
	userRepo   user_repository.Repository
	followRepo follow_repository.Repository
	log        *logger.Logger
	metrics    metrics.Provider
}

func NewFeedService(
	postRepo post_repository.Repository,
	groupRepo group_repository.Repository,
	userRepo user_repository.Repository,
	followRepo follow_repository.Repository,
	log *logger.Logger,
	metrics metrics.Provider,
) *FeedService {
	return &FeedService{
		postRepo:   postRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		log:        log,
		metrics:    metrics,
	}
}

func (s *FeedService) Index(ctx context.Context, page int) (result *model.PostPage, err error) {
	defer func() { s.metrics.IncrementFeedOperations("index", err == nil) }()
	return s.page(ctx, model.PostFilters{}, page)
}

func (s *FeedService) GroupPosts(ctx context.Context, slug string, page int) (result *model.GroupPage, err error) {
	defer func() { s.metrics.IncrementFeedOperations("group", err == nil) }()

	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, custom_errors.ErrGroupNotFound) {
			s.log.Debug("Group not found", slog.String("slug", slug))
			return nil, custom_errors.ErrGroupNotFound
		}
		s.log.Error("Failed to get group", slog.String("slug", slug), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	posts, err := s.page(ctx, model.PostFilters{GroupID: &group.ID}, page)
	if err != nil {
		return nil, err
	}

	return &model.GroupPage{Group: group, Posts: posts}, nil
}

// FollowFeed lists the posts of the authors the user currently follows.
// Membership is resolved at query time, so an unfollow takes effect on the
// very next request.
func (s *FeedService) FollowFeed(ctx context.Context, userID int64, page int) (result *model.PostPage, err error) {
	defer func() { s.metrics.IncrementFeedOperations("follow", err == nil) }()

	if userID == 0 {
		return nil, custom_errors.ErrUnauthenticated
	}

	authorIDs, err := s.followRepo.Following(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list followed authors", slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	if len(authorIDs) == 0 {
		return &model.PostPage{Posts: []*model.PostDetailed{}, Page: pagination.New(1, 0)}, nil
	}

	return s.page(ctx, model.PostFilters{AuthorIDs: authorIDs}, page)
}

// InvalidateIndex is a no-op here; the cache decorator overrides it.
func (s *FeedService) InvalidateIndex(ctx context.Context) error {
	return nil
}

// page runs a filtered listing with clamped pagination. A page number past
// the end re-queries for the last page instead of returning an empty slice.
func (s *FeedService) page(ctx context.Context, filters model.PostFilters, page int) (*model.PostPage, error) {
	if page < 1 {
		page = 1
	}

	limit := pagination.PageSize
	offset := (page - 1) * pagination.PageSize
	filters.Limit = &limit
	filters.Offset = &offset

	posts, total, err := s.postRepo.List(ctx, filters)
	if err != nil {
		s.log.Error("Failed to list posts", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	if clamped := pagination.Clamp(page, total); clamped != page {
		page = clamped
		offset = (page - 1) * pagination.PageSize
		posts, total, err = s.postRepo.List(ctx, filters)
		if err != nil {
			s.log.Error("Failed to list posts", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseQuery
		}
	}

	detailed, err := s.enrich(ctx, posts)
	if err != nil {
		return nil, err
	}

	return &model.PostPage{Posts: detailed, Page: pagination.New(page, total)}, nil
}

// enrich attaches author and group records to raw posts, memoizing lookups
// within one listing.
func (s *FeedService) enrich(ctx context.Context, posts []*model.Post) ([]*model.PostDetailed, error) {
	authors := make(map[int64]*model.User)
	groups := make(map[int64]*model.Group)

	detailed := make([]*model.PostDetailed, 0, len(posts))
	for _, post := range posts {
		author, ok := authors[post.AuthorID]
		if !ok {
			var err error
			author, err = s.userRepo.GetByID(ctx, post.AuthorID)
			if err != nil {
				if !errors.Is(err, custom_errors.ErrUserNotFound) {
					s.log.Error("Failed to get author", slog.Int64("author_id", post.AuthorID), slog.String("error", err.Error()))
					return nil, custom_errors.ErrDatabaseQuery
				}
				author = nil
			}
			authors[post.AuthorID] = author
		}

		var group *model.Group
		if post.GroupID != nil {
			group, ok = groups[*post.GroupID]
			if !ok {
				var err error
				group, err = s.groupRepo.GetByID(ctx, *post.GroupID)
				if err != nil {
					if !errors.Is(err, custom_errors.ErrGroupNotFound) {
						s.log.Error("Failed to get group", slog.Int64("group_id", *post.GroupID), slog.String("error", err.Error()))
						return nil, custom_errors.ErrDatabaseQuery
					}
					group = nil
				}
				groups[*post.GroupID] = group
			}
		}

		detailed = append(detailed, &model.PostDetailed{Post: post, Author: author, Group: group})
	}

	return detailed, nil
}
