package comment_repository_postgres

import (
	"context"
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

type CommentRepository struct {
	log     *logger.Logger
	db      db.PgDB
	metrics metrics.Provider
}

func NewCommentRepository(db db.PgDB, log *logger.Logger, metrics metrics.Provider) *CommentRepository {
	return &CommentRepository{db: db, log: log, metrics: metrics}
}

func (c *CommentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	start := time.Now()

	args := pgx.NamedArgs{
		"post_id":   comment.PostID,
		"author_id": comment.AuthorID,
		"text":      comment.Text,
		"created":   pgtype.Timestamptz{Time: time.Now(), Valid: true},
	}

	query := `
		INSERT INTO comments (post_id, author_id, text, created)
		VALUES (@post_id, @author_id, @text, @created)
		RETURNING id, post_id, author_id, text, created`

	var created model.Comment
	err := c.db.QueryRow(ctx, query, args).Scan(
		&created.ID,
		&created.PostID,
		&created.AuthorID,
		&created.Text,
		&created.Created,
	)
	if err != nil {
		c.metrics.IncrementDatabaseQueries("comment_create", false)
		c.metrics.RecordDatabaseQueryDuration("comment_create", time.Since(start))
		c.log.Error("Error creating comment", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	c.metrics.IncrementDatabaseQueries("comment_create", true)
	c.metrics.RecordDatabaseQueryDuration("comment_create", time.Since(start))
	return &created, nil
}

func (c *CommentRepository) ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error) {
	start := time.Now()

	args := pgx.NamedArgs{"post_id": postID}
	query := `SELECT id, post_id, author_id, text, created
				FROM comments WHERE post_id = @post_id ORDER BY created ASC, id ASC`

	rows, err := c.db.Query(ctx, query, args)
	if err != nil {
		c.metrics.IncrementDatabaseQueries("comment_list_by_post", false)
		c.metrics.RecordDatabaseQueryDuration("comment_list_by_post", time.Since(start))
		c.log.Error("Error listing comments", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		var comment model.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.AuthorID,
			&comment.Text,
			&comment.Created,
		)
		if err != nil {
			c.metrics.IncrementDatabaseQueries("comment_list_by_post", false)
			c.metrics.RecordDatabaseQueryDuration("comment_list_by_post", time.Since(start))
			c.log.Error("Error scanning comment during ListByPost", slog.Int64("post_id", postID), slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseScan
		}
		comments = append(comments, &comment)
	}

	if err = rows.Err(); err != nil {
		c.metrics.IncrementDatabaseQueries("comment_list_by_post", false)
		c.metrics.RecordDatabaseQueryDuration("comment_list_by_post", time.Since(start))
		c.log.Error("Error iterating rows during ListByPost", slog.Int64("post_id", postID), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	c.metrics.IncrementDatabaseQueries("comment_list_by_post", true)
	c.metrics.RecordDatabaseQueryDuration("comment_list_by_post", time.Since(start))
	return comments, nil
}
