package post_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"inkwell-feed-service/internal/custom_errors"
	"inkwell-feed-service/internal/logger"
	"inkwell-feed-service/internal/metrics"
	"inkwell-feed-service/internal/model"
	"inkwell-feed-service/internal/repository/postgres/db"
)

type PostRepository struct {
	log     *logger.Logger
	db      db.PgDB
	metrics metrics.Provider
}

func NewPostRepository(db db.PgDB, log *logger.Logger, metrics metrics.Provider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()

	args := pgx.NamedArgs{
		"text":       post.Text,
		"pub_date":   pgtype.Timestamptz{Time: time.Now(), Valid: true},
		"author_id":  post.AuthorID,
		"group_id":   post.GroupID,
		"image_path": post.ImagePath,
	}

	query := `
		INSERT INTO posts (text, pub_date, author_id, group_id, image_path)
		VALUES (@text, @pub_date, @author_id, @group_id, @image_path)
		RETURNING id, text, pub_date, author_id, group_id, image_path`

	var created model.Post
	err := p.db.QueryRow(ctx, query, args).Scan(
		&created.ID,
		&created.Text,
		&created.PubDate,
		&created.AuthorID,
		&created.GroupID,
		&created.ImagePath,
	)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_create", false)
		p.metrics.RecordDatabaseQueryDuration("post_create", time.Since(start))
		p.log.Error("Error creating post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_create", true)
	p.metrics.RecordDatabaseQueryDuration("post_create", time.Since(start))
	return &created, nil
}

func (p *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	start := time.Now()

	args := pgx.NamedArgs{"id": id}
	query := `SELECT id, text, pub_date, author_id, group_id, image_path
				FROM posts WHERE id = @id`

	post := &model.Post{}
	err := p.db.QueryRow(ctx, query, args).Scan(
		&post.ID,
		&post.Text,
		&post.PubDate,
		&post.AuthorID,
		&post.GroupID,
		&post.ImagePath,
	)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_get_by_id", false)
		p.metrics.RecordDatabaseQueryDuration("post_get_by_id", time.Since(start))
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error getting post by id", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_get_by_id", true)
	p.metrics.RecordDatabaseQueryDuration("post_get_by_id", time.Since(start))
	return post, nil
}

// Update never touches pub_date: publication time is immutable. A non-nil
// GroupID pointing at nil clears the group, per the tri-state DTO contract.
func (p *PostRepository) Update(ctx context.Context, id int64, update *model.UpdatePostDTO) (*model.Post, error) {
	start := time.Now()

	setClauses := []string{}
	args := pgx.NamedArgs{"id": id}

	if update.Text != nil {
		setClauses = append(setClauses, "text = @text")
		args["text"] = *update.Text
	}
	if update.GroupID != nil {
		if *update.GroupID == nil {
			setClauses = append(setClauses, "group_id = NULL")
		} else {
			setClauses = append(setClauses, "group_id = @group_id")
			args["group_id"] = **update.GroupID
		}
	}
	if update.ImagePath != nil {
		setClauses = append(setClauses, "image_path = @image_path")
		args["image_path"] = *update.ImagePath
	}

	if len(setClauses) == 0 {
		return nil, custom_errors.ErrNoUpdateRows
	}

	query := "UPDATE posts SET " + strings.Join(setClauses, ", ") +
		" WHERE id = @id RETURNING id, text, pub_date, author_id, group_id, image_path"

	var updated model.Post
	err := p.db.QueryRow(ctx, query, args).Scan(
		&updated.ID,
		&updated.Text,
		&updated.PubDate,
		&updated.AuthorID,
		&updated.GroupID,
		&updated.ImagePath,
	)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_update", false)
		p.metrics.RecordDatabaseQueryDuration("post_update", time.Since(start))
		if errors.Is(err, pgx.ErrNoRows) {
			p.log.Debug("Post not found by id during Update", slog.Int64("id", id))
			return nil, custom_errors.ErrPostNotFound
		}
		p.log.Error("Error updating post", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_update", true)
	p.metrics.RecordDatabaseQueryDuration("post_update", time.Since(start))
	return &updated, nil
}

func (p *PostRepository) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	args := pgx.NamedArgs{"id": id}
	query := `DELETE FROM posts WHERE id = @id`

	result, err := p.db.Exec(ctx, query, args)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_delete", false)
		p.metrics.RecordDatabaseQueryDuration("post_delete", time.Since(start))
		p.log.Error("Error deleting post", slog.Int64("id", id), slog.String("error", err.Error()))
		return custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_delete", true)
	p.metrics.RecordDatabaseQueryDuration("post_delete", time.Since(start))
	if result.RowsAffected() == 0 {
		return custom_errors.ErrPostNotFound
	}
	return nil
}

func (p *PostRepository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	start := time.Now()

	args := pgx.NamedArgs{}
	whereClauses := []string{}

	if filters.AuthorID != nil {
		whereClauses = append(whereClauses, "author_id = @author_id")
		args["author_id"] = *filters.AuthorID
	}
	if len(filters.AuthorIDs) > 0 {
		whereClauses = append(whereClauses, "author_id = ANY(@author_ids)")
		args["author_ids"] = filters.AuthorIDs
	}
	if filters.GroupID != nil {
		whereClauses = append(whereClauses, "group_id = @group_id")
		args["group_id"] = *filters.GroupID
	}

	condition := ""
	if len(whereClauses) > 0 {
		condition = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM posts" + condition
	if err := p.db.QueryRow(ctx, countQuery, args).Scan(&total); err != nil {
		p.metrics.IncrementDatabaseQueries("post_list", false)
		p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
		p.log.Error("Error counting posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	query := "SELECT id, text, pub_date, author_id, group_id, image_path FROM posts" +
		condition + " ORDER BY pub_date DESC, id DESC"

	if filters.Limit != nil {
		query += " LIMIT @limit"
		args["limit"] = *filters.Limit
	}
	if filters.Offset != nil {
		query += " OFFSET @offset"
		args["offset"] = *filters.Offset
	}

	rows, err := p.db.Query(ctx, query, args)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_list", false)
		p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		err := rows.Scan(
			&post.ID,
			&post.Text,
			&post.PubDate,
			&post.AuthorID,
			&post.GroupID,
			&post.ImagePath,
		)
		if err != nil {
			p.metrics.IncrementDatabaseQueries("post_list", false)
			p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
			p.log.Error("Error scanning post during List", slog.String("error", err.Error()))
			return nil, 0, custom_errors.ErrDatabaseScan
		}
		posts = append(posts, &post)
	}

	if err = rows.Err(); err != nil {
		p.metrics.IncrementDatabaseQueries("post_list", false)
		p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
		p.log.Error("Error iterating rows during List", slog.String("error", err.Error()))
		return nil, 0, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_list", true)
	p.metrics.RecordDatabaseQueryDuration("post_list", time.Since(start))
	return posts, total, nil
}

func (p *PostRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	start := time.Now()

	args := pgx.NamedArgs{"author_id": authorID}
	query := `SELECT COUNT(*) FROM posts WHERE author_id = @author_id`

	var count int64
	if err := p.db.QueryRow(ctx, query, args).Scan(&count); err != nil {
		p.metrics.IncrementDatabaseQueries("post_count_by_author", false)
		p.metrics.RecordDatabaseQueryDuration("post_count_by_author", time.Since(start))
		p.log.Error("Error counting posts by author", slog.Int64("author_id", authorID), slog.String("error", err.Error()))
		return 0, custom_errors.ErrDatabaseQuery
	}

	p.metrics.IncrementDatabaseQueries("post_count_by_author", true)
	p.metrics.RecordDatabaseQueryDuration("post_count_by_author", time.Since(start))
	return count, nil
}
