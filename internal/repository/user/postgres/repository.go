package user_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"inkwell-feed-service/internal/custom_errors"
	"inkwell-feed-service/internal/logger"
	"inkwell-feed-service/internal/metrics"
	"inkwell-feed-service/internal/model"
	"inkwell-feed-service/internal/repository/postgres/db"
)

type UserRepository struct {
	log     *logger.Logger
	db      db.PgDB
	metrics metrics.Provider
}

func NewUserRepository(db db.PgDB, log *logger.Logger, metrics metrics.Provider) *UserRepository {
	return &UserRepository{db: db, log: log, metrics: metrics}
}

func (u *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	start := time.Now()

	args := pgx.NamedArgs{
		"username":     user.Username,
		"display_name": user.DisplayName,
		"created_at":   pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}

	query := `
		INSERT INTO users (username, display_name, created_at)
		VALUES (@username, @display_name, @created_at)
		RETURNING id, username, display_name, created_at`

	var created model.User
	err := u.db.QueryRow(ctx, query, args).Scan(
		&created.ID,
		&created.Username,
		&created.DisplayName,
		&created.CreatedAt,
	)
	if err != nil {
		u.metrics.IncrementDatabaseQueries("user_create", false)
		u.metrics.RecordDatabaseQueryDuration("user_create", time.Since(start))
		u.log.Error("Error creating user", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	u.metrics.IncrementDatabaseQueries("user_create", true)
	u.metrics.RecordDatabaseQueryDuration("user_create", time.Since(start))
	return &created, nil
}

func (u *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	start := time.Now()

	args := pgx.NamedArgs{"id": id}
	query := `SELECT id, username, display_name, created_at FROM users WHERE id = @id`

	user := &model.User{}
	err := u.db.QueryRow(ctx, query, args).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.CreatedAt,
	)
	if err != nil {
		u.metrics.IncrementDatabaseQueries("user_get_by_id", false)
		u.metrics.RecordDatabaseQueryDuration("user_get_by_id", time.Since(start))
		if errors.Is(err, pgx.ErrNoRows) {
			u.log.Debug("User not found by id", slog.Int64("id", id))
			return nil, custom_errors.ErrUserNotFound
		}
		u.log.Error("Error getting user by id", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	u.metrics.IncrementDatabaseQueries("user_get_by_id", true)
	u.metrics.RecordDatabaseQueryDuration("user_get_by_id", time.Since(start))
	return user, nil
}

func (u *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	start := time.Now()

	args := pgx.NamedArgs{"username": username}
	query := `SELECT id, username, display_name, created_at FROM users WHERE username = @username`

	user := &model.User{}
	err := u.db.QueryRow(ctx, query, args).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.CreatedAt,
	)
	if err != nil {
		u.metrics.IncrementDatabaseQueries("user_get_by_username", false)
		u.metrics.RecordDatabaseQueryDuration("user_get_by_username", time.Since(start))
		if errors.Is(err, pgx.ErrNoRows) {
			u.log.Debug("User not found by username", slog.String("username", username))
			return nil, custom_errors.ErrUserNotFound
		}
		u.log.Error("Error getting user by username", slog.String("username", username), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	u.metrics.IncrementDatabaseQueries("user_get_by_username", true)
	u.metrics.RecordDatabaseQueryDuration("user_get_by_username", time.Since(start))
	return user, nil
}
