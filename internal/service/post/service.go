package post_service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"inkwell-feed-service/internal/custom_errors"
	"inkwell-feed-service/internal/logger"
	"inkwell-feed-service/internal/media"
	"inkwell-feed-service/internal/metrics"
	"inkwell-feed-service/internal/model"
	comment_repository "inkwell-feed-service/internal/repository/comment"
	group_repository "inkwell-feed-service/internal/repository/group"
	post_repository "inkwell-feed-service/internal/repository/post"
	"inkwell-feed-service/internal/repository/postgres"
	user_repository "inkwell-feed-service/internal/repository/user"
)

type PostService struct {
	postRepo    post_repository.Repository
	groupRepo   group_repository.Repository
	commentRepo comment_repository.Repository
	userRepo    user_repository.Repository
	uow         postgres.UnitOfWork
	media       media.Storage
	log         *logger.Logger
	metrics     metrics.Provider
}

func NewPostService(
	postRepo post_repository.Repository,
	groupRepo group_repository.Repository,
	commentRepo comment_repository.Repository,
	userRepo user_repository.Repository,
	uow postgres.UnitOfWork,
	mediaStorage media.Storage,
	log *logger.Logger,
	metrics metrics.Provider,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		uow:         uow,
		media:       mediaStorage,
		log:         log,
		metrics:     metrics,
	}
}

func (s *PostService) CreatePost(ctx context.Context, authorID int64, post *model.CreatePostDTO) (result *model.PostDetailed, err error) {
	defer func() { s.metrics.IncrementPostOperations("create", err == nil) }()

	if authorID == 0 {
		return nil, custom_errors.ErrUnauthenticated
	}
	if strings.TrimSpace(post.Text) == "" {
		s.log.Debug("Rejected post with empty text", slog.Int64("author_id", authorID))
		return nil, custom_errors.ErrPostValidation
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("Author not found", slog.Int64("author_id", authorID))
			return nil, custom_errors.ErrUserNotFound
		}
		s.log.Error("Failed to get author", slog.Int64("author_id", authorID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	// The format is sniffed up front, but the file is only written once
	// every check has passed, so a rejected request persists nothing.
	var imageType *mimetype.MIME
	if post.Image != nil {
		imageType, err = s.sniffImage(post.Image)
		if err != nil {
			return nil, err
		}
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	var txCommitted bool
	defer func() {
		if !txCommitted && tx != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				if !strings.Contains(rollbackErr.Error(), "tx is closed") {
					s.log.Error("Failed to rollback transaction", slog.String("error", rollbackErr.Error()))
				}
			}
		}
	}()

	var group *model.Group
	if post.GroupID != nil {
		group, err = tx.GroupRepository().GetByID(ctx, *post.GroupID)
		if err != nil {
			if errors.Is(err, custom_errors.ErrGroupNotFound) {
				s.log.Debug("Group not found for new post", slog.Int64("group_id", *post.GroupID))
				return nil, custom_errors.ErrGroupNotFound
			}
			s.log.Error("Failed to get group", slog.Int64("group_id", *post.GroupID), slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseQuery
		}
	}

	var imagePath *string
	if post.Image != nil {
		stored, imgErr := s.storeImage(ctx, post.Image, imageType)
		if imgErr != nil {
			return nil, imgErr
		}
		imagePath = &stored
	}

	newPost := &model.Post{
		Text:      post.Text,
		AuthorID:  authorID,
		GroupID:   post.GroupID,
		ImagePath: imagePath,
	}
	created, err := tx.PostRepository().Create(ctx, newPost)
	if err != nil {
		s.log.Error("Failed to create post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	if err = tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	txCommitted = true

	return &model.PostDetailed{Post: created, Author: author, Group: group}, nil
}

func (s *PostService) EditPost(ctx context.Context, userID, postID int64, update *model.UpdatePostDTO) (result *model.PostDetailed, err error) {
	defer func() { s.metrics.IncrementPostOperations("edit", err == nil) }()

	if userID == 0 {
		return nil, custom_errors.ErrUnauthenticated
	}
	if update.Text != nil && strings.TrimSpace(*update.Text) == "" {
		s.log.Debug("Rejected edit with empty text", slog.Int64("post_id", postID))
		return nil, custom_errors.ErrPostValidation
	}

	var imageType *mimetype.MIME
	if update.Image != nil {
		imageType, err = s.sniffImage(update.Image)
		if err != nil {
			return nil, err
		}
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.log.Error("Failed to start transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	var txCommitted bool
	defer func() {
		if !txCommitted && tx != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				if !strings.Contains(rollbackErr.Error(), "tx is closed") {
					s.log.Error("Failed to rollback transaction", slog.String("error", rollbackErr.Error()))
				}
			}
		}
	}()

	postRepo := tx.PostRepository()

	existing, err := postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found for edit", slog.Int64("post_id", postID))
			return nil, custom_errors.ErrPostNotFound
		}
		s.log.Error("Failed to get post for edit", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	if existing.AuthorID != userID {
		s.log.Debug("User is not author of post",
			slog.Int64("user_id", userID),
			slog.Int64("author_id", existing.AuthorID))
		return nil, custom_errors.ErrForbidden
	}

	var group *model.Group
	if update.GroupID != nil && *update.GroupID != nil {
		group, err = tx.GroupRepository().GetByID(ctx, **update.GroupID)
		if err != nil {
			if errors.Is(err, custom_errors.ErrGroupNotFound) {
				s.log.Debug("Group not found for edit", slog.Int64("group_id", **update.GroupID))
				return nil, custom_errors.ErrGroupNotFound
			}
			s.log.Error("Failed to get group", slog.Int64("group_id", **update.GroupID), slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseQuery
		}
	}

	// The upload is written only after the author and group checks, so a
	// forbidden edit grants the caller no side effect.
	if update.Image != nil {
		stored, imgErr := s.storeImage(ctx, update.Image, imageType)
		if imgErr != nil {
			return nil, imgErr
		}
		update.ImagePath = &stored
	}

	updated, err := postRepo.Update(ctx, postID, update)
	if err != nil {
		if errors.Is(err, custom_errors.ErrNoUpdateRows) {
			return nil, custom_errors.ErrNoUpdateRows
		}
		s.log.Error("Failed to update post", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	if err = tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	txCommitted = true

	author, err := s.userRepo.GetByID(ctx, updated.AuthorID)
	if err != nil {
		s.log.Warn("Author lookup failed after edit", slog.Int64("author_id", updated.AuthorID))
		author = nil
		err = nil
	}

	// An edit that left the group untouched still reports it.
	if group == nil && updated.GroupID != nil {
		group, err = s.groupRepo.GetByID(ctx, *updated.GroupID)
		if err != nil {
			if !errors.Is(err, custom_errors.ErrGroupNotFound) {
				s.log.Error("Failed to get group", slog.Int64("group_id", *updated.GroupID), slog.String("error", err.Error()))
				return nil, custom_errors.ErrDatabaseQuery
			}
			group = nil
			err = nil
		}
	}

	return &model.PostDetailed{Post: updated, Author: author, Group: group}, nil
}

// GetPost resolves a post addressed by author username and post id. A post
// whose author does not match the username is reported as not found.
func (s *PostService) GetPost(ctx context.Context, username string, postID int64) (*model.PostView, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			s.log.Debug("Author not found", slog.String("username", username))
			return nil, custom_errors.ErrUserNotFound
		}
		s.log.Error("Failed to get author", slog.String("username", username), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found", slog.Int64("post_id", postID))
			return nil, custom_errors.ErrPostNotFound
		}
		s.log.Error("Failed to get post", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	if post.AuthorID != author.ID {
		s.log.Debug("Post does not belong to author",
			slog.Int64("post_id", postID),
			slog.String("username", username))
		return nil, custom_errors.ErrPostNotFound
	}

	var group *model.Group
	if post.GroupID != nil {
		group, err = s.groupRepo.GetByID(ctx, *post.GroupID)
		if err != nil {
			if !errors.Is(err, custom_errors.ErrGroupNotFound) {
				s.log.Error("Failed to get group", slog.Int64("group_id", *post.GroupID), slog.String("error", err.Error()))
				return nil, custom_errors.ErrDatabaseQuery
			}
			group = nil
		}
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		s.log.Error("Failed to list comments", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	detailed := make([]*model.CommentDetailed, 0, len(comments))
	authors := map[int64]*model.User{author.ID: author}
	for _, comment := range comments {
		var commentAuthor *model.User
		if comment.AuthorID != nil {
			commentAuthor, err = s.resolveUser(ctx, authors, *comment.AuthorID)
			if err != nil {
				return nil, err
			}
		}
		detailed = append(detailed, &model.CommentDetailed{Comment: comment, Author: commentAuthor})
	}

	count, err := s.postRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		s.log.Error("Failed to count author posts", slog.Int64("author_id", author.ID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	return &model.PostView{
		Post:            &model.PostDetailed{Post: post, Author: author, Group: group},
		Comments:        detailed,
		AuthorPostCount: count,
	}, nil
}

func (s *PostService) AddComment(ctx context.Context, authorID, postID int64, text string) (result *model.Comment, err error) {
	defer func() { s.metrics.IncrementPostOperations("comment", err == nil) }()

	if authorID == 0 {
		return nil, custom_errors.ErrUnauthenticated
	}
	if strings.TrimSpace(text) == "" {
		s.log.Debug("Rejected comment with empty text", slog.Int64("post_id", postID))
		return nil, custom_errors.ErrCommentValidation
	}

	if _, err = s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, custom_errors.ErrPostNotFound) {
			s.log.Debug("Post not found for comment", slog.Int64("post_id", postID))
			return nil, custom_errors.ErrPostNotFound
		}
		s.log.Error("Failed to get post for comment", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	comment := &model.Comment{
		PostID:   &postID,
		AuthorID: &authorID,
		Text:     text,
	}
	created, err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		s.log.Error("Failed to create comment", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	return created, nil
}

// sniffImage detects the upload's real format from its bytes and rejects
// anything that is not an image. The filename is never trusted.
func (s *PostService) sniffImage(image *model.ImageUpload) (*mimetype.MIME, error) {
	detected := mimetype.Detect(image.Data)
	if !strings.HasPrefix(detected.String(), "image/") {
		s.log.Debug("Rejected non-image upload",
			slog.String("filename", image.Filename),
			slog.String("detected", detected.String()))
		return nil, custom_errors.ErrInvalidImageFormat
	}
	return detected, nil
}

// storeImage persists an already-sniffed upload under a generated name.
func (s *PostService) storeImage(ctx context.Context, image *model.ImageUpload, detected *mimetype.MIME) (string, error) {
	name := "posts/" + uuid.New().String() + detected.Extension()
	stored, err := s.media.Save(ctx, name, image.Data)
	if err != nil {
		s.log.Error("Failed to store image", slog.String("name", name), slog.String("error", err.Error()))
		return "", custom_errors.ErrMediaSave
	}
	return stored, nil
}

func (s *PostService) resolveUser(ctx context.Context, memo map[int64]*model.User, id int64) (*model.User, error) {
	if user, ok := memo[id]; ok {
		return user, nil
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, custom_errors.ErrUserNotFound) {
			memo[id] = nil
			return nil, nil
		}
		s.log.Error("Failed to get user", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	memo[id] = user
	return user, nil
}
