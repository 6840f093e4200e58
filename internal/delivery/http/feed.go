package http_delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func pageNumber(c *gin.Context) int {
	// Bad page values fall back to the first page instead of erroring.
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (h *Handler) index(c *gin.Context) {
	result, err := h.feed.Index(c.Request.Context(), pageNumber(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) groupPosts(c *gin.Context) {
	result, err := h.feed.GroupPosts(c.Request.Context(), c.Param("slug"), pageNumber(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) followFeed(c *gin.Context) {
	result, err := h.feed.FollowFeed(c.Request.Context(), h.currentUserID(c), pageNumber(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) cacheClear(c *gin.Context) {
	if err := h.feed.InvalidateIndex(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
