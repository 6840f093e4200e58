package http_delivery

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"inkwell-feed-service/internal/logger"
	"inkwell-feed-service/internal/metrics"
	feed_service "inkwell-feed-service/internal/service/feed"
	follow_service "inkwell-feed-service/internal/service/follow"
	post_service "inkwell-feed-service/internal/service/post"
	profile_service "inkwell-feed-service/internal/service/profile"
)

type Handler struct {
	feed      feed_service.Service
	posts     *post_service.PostService
	follows   *follow_service.FollowService
	profiles  *profile_service.ProfileService
	jwtSecret []byte
	validate  *validator.Validate
	log       *logger.Logger
	metrics   metrics.Provider
}

func New(
	feed feed_service.Service,
	posts *post_service.PostService,
	follows *follow_service.FollowService,
	profiles *profile_service.ProfileService,
	jwtSecret string,
	log *logger.Logger,
	metrics metrics.Provider,
) *Handler {
	return &Handler{
		feed:      feed,
		posts:     posts,
		follows:   follows,
		profiles:  profiles,
		jwtSecret: []byte(jwtSecret),
		validate:  validator.New(),
		log:       log,
		metrics:   metrics,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(h.metricsMiddleware)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	r.GET("/", h.authOptional, h.index)
	r.GET("/group/:slug", h.authOptional, h.groupPosts)
	r.GET("/profile/:username", h.authOptional, h.profile)

	r.GET("/follow", h.authRequired, h.followFeed)
	r.POST("/profile/:username/follow", h.authRequired, h.follow)
	r.POST("/profile/:username/unfollow", h.authRequired, h.unfollow)

	r.POST("/new", h.authRequired, h.postCreate)
	r.GET("/:username/:post_id", h.authOptional, h.postView)
	r.POST("/:username/:post_id/edit", h.authRequired, h.postEdit)
	r.POST("/:username/:post_id/comment", h.authRequired, h.commentCreate)

	r.POST("/internal/cache/clear", h.authRequired, h.cacheClear)

	return r
}
