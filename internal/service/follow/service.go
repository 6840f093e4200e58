package follow_service

import (
	"context"
	"errors"
	"log/slog"

	"inkwell-feed-service/internal/custom_errors"
	"inkwell-feed-service/internal/logger"
	"inkwell-feed-service/internal/metrics"
	"inkwell-feed-service/internal/model"
	follow_repository "inkwell-feed-service/internal/repository/follow"
	user_repository "inkwell-feed-service/internal/repository/user"
)

type FollowService struct {
	followRepo follow_repository.Repository
	userRepo   user_repository.Repository
	log        *logger.Logger
	metrics    metrics.Provider
}

func NewFollowService(
	followRepo follow_repository.Repository,
	userRepo user_repository.Repository,
	log *logger.Logger,
	metrics metrics.Provider,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		log:        log,
		metrics:    metrics,
	}
}

// Follow subscribes the user to the named author. Repeating a follow is a
// no-op; the edge is unique in storage.
func (s *FollowService) Follow(ctx context.Context, userID int64, targetUsername string) (err error) {
	defer func() { s.metrics.IncrementFollowOperations("follow", err == nil) }()

	target, err := s.resolve(ctx, userID, targetUsername)
	if err != nil {
		return err
	}

	if err = s.followRepo.Create(ctx, userID, target.ID); err != nil {
		s.log.Error("Failed to create follow",
			slog.Int64("user_id", userID),
			slog.Int64("author_id", target.ID),
			slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	s.log.Info("User followed author",
		slog.Int64("user_id", userID),
		slog.String("author", target.Username))
	return nil
}

// Unfollow removes the subscription. Unfollowing someone the user never
// followed is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, userID int64, targetUsername string) (err error) {
	defer func() { s.metrics.IncrementFollowOperations("unfollow", err == nil) }()

	target, err := s.resolve(ctx, userID, targetUsername)
	if err != nil {
		return err
	}

	if err = s.followRepo.Delete(ctx, userID, target.ID); err != nil {
		s.log.Error("Failed to delete follow",
			slog.Int64("user_id", userID),
			slog.Int64("author_id", target.ID),
			slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	s.log.Info("User unfollowed author",
		slog.Int64("user_id", userID),
		slog.String("author", target.Username))
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, userID int64, targetUsername string) (bool, error) {
	if userID == 0 {
		return false, nil
	}

	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			return false, custom_errors.ErrUserNotFound
		}
		s.log.Error("Failed to get author", slog.String("username", targetUsername), slog.String("error", err.Error()))
		return false, custom_errors.ErrDatabaseQuery
	}

	exists, err := s.followRepo.Exists(ctx, userID, target.ID)
	if err != nil {
		s.log.Error("Failed to check follow",
			slog.Int64("user_id", userID),
			slog.Int64("author_id", target.ID),
			slog.String("error", err.Error()))
		return false, custom_errors.ErrDatabaseQuery
	}
	return exists, nil
}

func (s *FollowService) resolve(ctx context.Context, userID int64, targetUsername string) (*model.User, error) {
	if userID == 0 {
		return nil, custom_errors.ErrUnauthenticated
	}

	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("Author not found", slog.String("username", targetUsername))
			return nil, custom_errors.ErrUserNotFound
		}
		s.log.Error("Failed to get author", slog.String("username", targetUsername), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	return target, nil
}
