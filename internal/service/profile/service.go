package profile_service

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

// ProfileService aggregates an author's page: their posts, live counts and
// the viewer's follow state. Counts are computed on every request rather
// than denormalized, so a profile never shows a stale number.
type ProfileService struct {
	postRepo   post_repository.Repository
	groupRepo  group_repository.Repository
	userRepo   user_repository.Repository
	followRepo follow_repository.Repository
	log        *logger.Logger
	metrics    metrics.Provider
}

func NewProfileService(
	postRepo post_repository.Repository,
	groupRepo group_repository.Repository,
	userRepo user_repository.Repository,
	followRepo follow_repository.Repository,
	log *logger.Logger,
	metrics metrics.Provider,
) *ProfileService {
	return &ProfileService{
		postRepo:   postRepo,
		groupRepo:  groupRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		log:        log,
		metrics:    metrics,
	}
}

func (s *ProfileService) Profile(ctx context.Context, viewerID int64, username string, page int) (result *model.Profile, err error) {
	defer func() { s.metrics.IncrementFeedOperations("profile", err == nil) }()

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("Profile author not found", slog.String("username", username))
			return nil, custom_errors.ErrUserNotFound
		}
		s.log.Error("Failed to get author", slog.String("username", username), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	posts, err := s.authorPosts(ctx, author, page)
	if err != nil {
		return nil, err
	}

	postCount, err := s.postRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		s.log.Error("Failed to count posts", slog.Int64("author_id", author.ID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	followerCount, err := s.followRepo.CountFollowers(ctx, author.ID)
	if err != nil {
		s.log.Error("Failed to count followers", slog.Int64("author_id", author.ID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	followingCount, err := s.followRepo.CountFollowing(ctx, author.ID)
	if err != nil {
		s.log.Error("Failed to count following", slog.Int64("author_id", author.ID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	var following bool
	if viewerID != 0 {
		following, err = s.followRepo.Exists(ctx, viewerID, author.ID)
		if err != nil {
			s.log.Error("Failed to check follow",
				slog.Int64("user_id", viewerID),
				slog.Int64("author_id", author.ID),
				slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseQuery
		}
	}

	return &model.Profile{
		Author:         author,
		Posts:          posts,
		PostCount:      postCount,
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
		Following:      following,
	}, nil
}

func (s *ProfileService) authorPosts(ctx context.Context, author *model.User, page int) (*model.PostPage, error) {
	if page < 1 {
		page = 1
	}

	limit := pagination.PageSize
	offset := (page - 1) * pagination.PageSize
	filters := model.PostFilters{
		AuthorID: &author.ID,
		Limit:    &limit,
		Offset:   &offset,
	}

	posts, total, err := s.postRepo.List(ctx, filters)
	if err != nil {
		s.log.Error("Failed to list posts", slog.Int64("author_id", author.ID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	if clamped := pagination.Clamp(page, total); clamped != page {
		page = clamped
		offset = (page - 1) * pagination.PageSize
		posts, total, err = s.postRepo.List(ctx, filters)
		if err != nil {
			s.log.Error("Failed to list posts", slog.Int64("author_id", author.ID), slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseQuery
		}
	}

	detailed := make([]*model.PostDetailed, 0, len(posts))
	groups := make(map[int64]*model.Group)
	for _, post := range posts {
		var group *model.Group
		if post.GroupID != nil {
			var ok bool
			group, ok = groups[*post.GroupID]
			if !ok {
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

	return &model.PostPage{Posts: detailed, Page: pagination.New(page, total)}, nil
}
