package group_repository_postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"inkwell-feed-service/internal/custom_errors"
	"inkwell-feed-service/internal/logger"
	"inkwell-feed-service/internal/metrics"
	"inkwell-feed-service/internal/model"
	"inkwell-feed-service/internal/repository/postgres/db"
)

const uniqueViolationCode = "23505"

type GroupRepository struct {
	log     *logger.Logger
	db      db.PgDB
	metrics metrics.Provider
}

func NewGroupRepository(db db.PgDB, log *logger.Logger, metrics metrics.Provider) *GroupRepository {
	return &GroupRepository{db: db, log: log, metrics: metrics}
}

func (g *GroupRepository) Create(ctx context.Context, group *model.Group) (*model.Group, error) {
	start := time.Now()

	args := pgx.NamedArgs{
		"title":       group.Title,
		"slug":        group.Slug,
		"description": group.Description,
	}

	query := `
		INSERT INTO groups (title, slug, description)
		VALUES (@title, @slug, @description)
		RETURNING id, title, slug, description`

	var created model.Group
	err := g.db.QueryRow(ctx, query, args).Scan(
		&created.ID,
		&created.Title,
		&created.Slug,
		&created.Description,
	)
	if err != nil {
		g.metrics.IncrementDatabaseQueries("group_create", false)
		g.metrics.RecordDatabaseQueryDuration("group_create", time.Since(start))
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			g.log.Debug("Group slug already taken", slog.String("slug", group.Slug))
			return nil, custom_errors.ErrGroupAlreadyExists
		}
		g.log.Error("Error creating group", slog.String("slug", group.Slug), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	g.metrics.IncrementDatabaseQueries("group_create", true)
	g.metrics.RecordDatabaseQueryDuration("group_create", time.Since(start))
	return &created, nil
}

func (g *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	start := time.Now()

	args := pgx.NamedArgs{"id": id}
	query := `SELECT id, title, slug, description FROM groups WHERE id = @id`

	group := &model.Group{}
	err := g.db.QueryRow(ctx, query, args).Scan(
		&group.ID,
		&group.Title,
		&group.Slug,
		&group.Description,
	)
	if err != nil {
		g.metrics.IncrementDatabaseQueries("group_get_by_id", false)
		g.metrics.RecordDatabaseQueryDuration("group_get_by_id", time.Since(start))
		if errors.Is(err, pgx.ErrNoRows) {
			g.log.Debug("Group not found by id", slog.Int64("id", id))
			return nil, custom_errors.ErrGroupNotFound
		}
		g.log.Error("Error getting group by id", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	g.metrics.IncrementDatabaseQueries("group_get_by_id", true)
	g.metrics.RecordDatabaseQueryDuration("group_get_by_id", time.Since(start))
	return group, nil
}

func (g *GroupRepository) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	start := time.Now()

	args := pgx.NamedArgs{"slug": slug}
	query := `SELECT id, title, slug, description FROM groups WHERE slug = @slug`

	group := &model.Group{}
	err := g.db.QueryRow(ctx, query, args).Scan(
		&group.ID,
		&group.Title,
		&group.Slug,
		&group.Description,
	)
	if err != nil {
		g.metrics.IncrementDatabaseQueries("group_get_by_slug", false)
		g.metrics.RecordDatabaseQueryDuration("group_get_by_slug", time.Since(start))
		if errors.Is(err, pgx.ErrNoRows) {
			g.log.Debug("Group not found by slug", slog.String("slug", slug))
			return nil, custom_errors.ErrGroupNotFound
		}
		g.log.Error("Error getting group by slug", slog.String("slug", slug), slog.String("error", err.Error()))
		return nil, custom_errors.ErrDatabaseQuery
	}

	g.metrics.IncrementDatabaseQueries("group_get_by_slug", true)
	g.metrics.RecordDatabaseQueryDuration("group_get_by_slug", time.Since(start))
	return group, nil
}
