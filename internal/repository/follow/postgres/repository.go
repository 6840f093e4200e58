package follow_repository_postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"inkwell-feed-service/internal/custom_errors"
	"inkwell-feed-service/internal/logger"
	"inkwell-feed-service/internal/metrics"
	"inkwell-feed-service/internal/repository/postgres/db"
)

type FollowRepository struct {
	log     *logger.Logger
	db      db.PgDB
	metrics metrics.Provider
}

func NewFollowRepository(db db.PgDB, log *logger.Logger, metrics metrics.Provider) *FollowRepository {
	return &FollowRepository{db: db, log: log, metrics: metrics}
}

// Create inserts the edge if absent. ON CONFLICT DO NOTHING makes the
// get-or-create atomic under concurrent calls for the same pair.
func (f *FollowRepository) Create(ctx context.Context, userID, authorID int64) error {
	start := time.Now()

	args := pgx.NamedArgs{"user_id": userID, "author_id": authorID}
	query := `
		INSERT INTO follows (user_id, author_id)
		VALUES (@user_id, @author_id)
		ON CONFLICT (user_id, author_id) DO NOTHING`

	if _, err := f.db.Exec(ctx, query, args); err != nil {
		f.metrics.IncrementDatabaseQueries("follow_create", false)
		f.metrics.RecordDatabaseQueryDuration("follow_create", time.Since(start))
		f.log.Error("Error creating follow edge",
			slog.Int64("user_id", userID),
			slog.Int64("author_id", authorID),
			slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	f.metrics.IncrementDatabaseQueries("follow_create", true)
	f.metrics.RecordDatabaseQueryDuration("follow_create", time.Since(start))
	return nil
}

// Delete removes the edge if present; deleting a missing edge is a no-op.
func (f *FollowRepository) Delete(ctx context.Context, userID, authorID int64) error {
	start := time.Now()

	args := pgx.NamedArgs{"user_id": userID, "author_id": authorID}
	query := `DELETE FROM follows WHERE user_id = @user_id AND author_id = @author_id`

	if _, err := f.db.Exec(ctx, query, args); err != nil {
		f.metrics.IncrementDatabaseQueries("follow_delete", false)
		f.metrics.RecordDatabaseQueryDuration("follow_delete", time.Since(start))
		f.log.Error("Error deleting follow edge",
			slog.Int64("user_id", userID),
			slog.Int64("author_id", authorID),
			slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	f.metrics.IncrementDatabaseQueries("follow_delete", true)
	f.metrics.RecordDatabaseQueryDuration("follow_delete", time.Since(start))
	return nil
}

func (f *FollowRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	start := time.Now()

	args := pgx.NamedArgs{"user_id": userID, "author_id": authorID}
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE user_id = @user_id AND author_id = @author_id)`

	var exists bool
	if err := f.db.QueryRow(ctx, query, args).Scan(&exists); err != nil {
		f.metrics.IncrementDatabaseQueries("follow_exists", false)
		f.metrics.RecordDatabaseQueryDuration("follow_exists", time.Since(start))
		f.log.Error("Error checking follow edge",
			slog.Int64("user_id", userID),
			slog.Int64("author_id", authorID),
			slog.String("error", err.Error()))
		return false, custom_errors.ErrDatabaseQuery
	}

	f.metrics.IncrementDatabaseQueries("follow_exists", true)
	f.metrics.RecordDatabaseQueryDuration("follow_exists", time.Since(start))
	return exists, nil
}

func (f *FollowRepository) CountFollowers(ctx context.Context, authorID int64) (int64, error) {
	start := time.Now()

	args := pgx.NamedArgs{"author_id": authorID}
	query := `SELECT COUNT(*) FROM follows WHERE author_id = @author_id`

	var count int64
	if err := f.db.QueryRow(ctx, query, args).Scan(&count); err != nil {
		f.metrics.IncrementDatabaseQueries("follow_count_followers", false)
		f.metrics.RecordDatabaseQueryDuration("follow_count_followers", time.Since(start))
		f.log.Error("Error counting followers", slog.Int64("author_id", authorID), slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}

	f.metrics.IncrementDatabaseQueries("follow_count_followers", true)
	f.metrics.RecordDatabaseQueryDuration("follow_count_followers", time.Since(start))
	return count, nil
}

func (f *FollowRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	start := time.Now()

	args := pgx.NamedArgs{"user_id": userID}
	query := `SELECT COUNT(*) FROM follows WHERE user_id = @user_id`

	var count int64
	if err := f.db.QueryRow(ctx, query, args).Scan(&count); err != nil {
		f.metrics.IncrementDatabaseQueries("follow_count_following", false)
		f.metrics.RecordDatabaseQueryDuration("follow_count_following", time.Since(start))
		f.log.Error("Error counting following", slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}

	f.metrics.IncrementDatabaseQueries("follow_count_following", true)
	f.metrics.RecordDatabaseQueryDuration("follow_count_following", time.Since(start))
	return count, nil
}

// Following returns the author ids the user currently follows. NULLed-out
// edges left behind by account deletion are skipped.
func (f *FollowRepository) Following(ctx context.Context, userID int64) ([]int64, error) {
	start := time.Now()

	args := pgx.NamedArgs{"user_id": userID}
	query := `SELECT author_id FROM follows WHERE user_id = @user_id AND author_id IS NOT NULL`

	rows, err := f.db.Query(ctx, query, args)
	if err != nil {
		f.metrics.IncrementDatabaseQueries("follow_following", false)
		f.metrics.RecordDatabaseQueryDuration("follow_following", time.Since(start))
		f.log.Error("Error listing followed authors", slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	var authorIDs []int64
	for rows.Next() {
		var authorID int64
		if err := rows.Scan(&authorID); err != nil {
			f.metrics.IncrementDatabaseQueries("follow_following", false)
			f.metrics.RecordDatabaseQueryDuration("follow_following", time.Since(start))
			f.log.Error("Error scanning followed author", slog.Int64("user_id", userID), slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseScan
		}
		authorIDs = append(authorIDs, authorID)
	}

	if err = rows.Err(); err != nil {
		f.metrics.IncrementDatabaseQueries("follow_following", false)
		f.metrics.RecordDatabaseQueryDuration("follow_following", time.Since(start))
		f.log.Error("Error iterating rows during Following", slog.Int64("user_id", userID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	f.metrics.IncrementDatabaseQueries("follow_following", true)
	f.metrics.RecordDatabaseQueryDuration("follow_following", time.Since(start))
	return authorIDs, nil
}
