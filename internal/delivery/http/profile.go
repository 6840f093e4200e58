package http_delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) profile(c *gin.Context) {
	result, err := h.profiles.Profile(c.Request.Context(), h.currentUserID(c), c.Param("username"), pageNumber(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) follow(c *gin.Context) {
	username := c.Param("username")
	if err := h.follows.Follow(c.Request.Context(), h.currentUserID(c), username); err != nil {
		h.respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+username)
}

func (h *Handler) unfollow(c *gin.Context) {
	username := c.Param("username")
	if err := h.follows.Unfollow(c.Request.Context(), h.currentUserID(c), username); err != nil {
		h.respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+username)
}
