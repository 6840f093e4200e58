package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"inkwell-feed-service/internal/cache/redis"
	"inkwell-feed-service/internal/config"
	http_delivery "inkwell-feed-service/internal/delivery/http"
	"inkwell-feed-service/internal/logger"
	media_fs "inkwell-feed-service/internal/media/fs"
	prometheus_metrics "inkwell-feed-service/internal/metrics/prometheus"
	comment_postgres "inkwell-feed-service/internal/repository/comment/postgres"
	follow_postgres "inkwell-feed-service/internal/repository/follow/postgres"
	group_postgres "inkwell-feed-service/internal/repository/group/postgres"
	post_postgres "inkwell-feed-service/internal/repository/post/postgres"
	"inkwell-feed-service/internal/repository/postgres"
	user_postgres "inkwell-feed-service/internal/repository/user/postgres"
	feed_service "inkwell-feed-service/internal/service/feed"
	follow_service "inkwell-feed-service/internal/service/follow"
	post_service "inkwell-feed-service/internal/service/post"
	profile_service "inkwell-feed-service/internal/service/profile"
)

func main() {
	cfg := config.MustLoad()
	dsn := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DbName)
	ctx := context.Background()
	log := logger.New(cfg.Env)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		log.Error("Failed to parse postgres poolConfig", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("Failed to create postgres pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	log.Info("Connecting to Redis",
		slog.String("address", cfg.Redis.Address),
		slog.Int("port", cfg.Redis.Port),
		slog.Int("db", cfg.Redis.DB))
	redisClient, err := redis.NewClient(cfg.Redis, log)
	if err != nil {
		log.Error("Failed to create Redis client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", slog.String("error", err.Error()))
		}
	}()

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()
	metrics.SetServiceHealth(true)

	userRepo := user_postgres.NewUserRepository(pool, log, metrics)
	groupRepo := group_postgres.NewGroupRepository(pool, log, metrics)
	postRepo := post_postgres.NewPostRepository(pool, log, metrics)
	commentRepo := comment_postgres.NewCommentRepository(pool, log, metrics)
	followRepo := follow_postgres.NewFollowRepository(pool, log, metrics)
	unitOfWork := postgres.NewPostgresUOW(pool, log, metrics)

	mediaStorage := media_fs.NewStorage(cfg.Media.Root, log)

	postService := post_service.NewPostService(postRepo, groupRepo, commentRepo, userRepo, unitOfWork, mediaStorage, log, metrics)
	followService := follow_service.NewFollowService(followRepo, userRepo, log, metrics)
	profileService := profile_service.NewProfileService(postRepo, groupRepo, userRepo, followRepo, log, metrics)

	baseFeedService := feed_service.NewFeedService(postRepo, groupRepo, userRepo, followRepo, log, metrics)
	feedService := feed_service.NewCacheDecorator(
		baseFeedService,
		redisClient,
		cfg.Cache.IndexTTL,
		log,
		metrics,
	)

	handler := http_delivery.New(feedService, postService, followService, profileService, cfg.Auth.JWTSecret, log, metrics)
	httpServer := http_delivery.NewServer(handler, cfg.HTTPServer.Address, cfg.HTTPServer.Port, log)

	metricsServer := prometheus_metrics.NewMetricsServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	done := make(chan bool, 1)
	metricsDone := make(chan bool, 1)

	go func() {
		if err := httpServer.Run(); err != nil {
			log.Error("HTTP server error", slog.String("error", err.Error()))
		}
		done <- true
	}()

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	metrics.SetServiceHealth(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	<-done
	<-metricsDone

	log.Info("Server exited")
}
