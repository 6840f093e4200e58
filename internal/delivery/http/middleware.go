package http_delivery

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "user_id"

// authRequired resolves the caller from a Bearer token. Anonymous callers
// are redirected to the login page with the original path in `next`, the
// way the site's protected views behave.
func (h *Handler) authRequired(c *gin.Context) {
	userID := h.userIDFromToken(c)
	if userID == 0 {
		loginURL := "/auth/login?next=" + url.QueryEscape(c.Request.URL.Path)
		c.Redirect(http.StatusFound, loginURL)
		c.Abort()
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

// authOptional resolves the caller if a valid token is present and stays
// anonymous otherwise.
func (h *Handler) authOptional(c *gin.Context) {
	if userID := h.userIDFromToken(c); userID != 0 {
		c.Set(userIDKey, userID)
	}
	c.Next()
}

func (h *Handler) userIDFromToken(c *gin.Context) int64 {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return 0
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == "" {
		return 0
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0
	}

	switch id := claims["id"].(type) {
	case float64:
		return int64(id)
	case string:
		parsed, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func (h *Handler) metricsMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()

	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	h.metrics.IncrementHTTPRequests(c.Request.Method, path, strconv.Itoa(c.Writer.Status()))
	h.metrics.RecordHTTPRequestDuration(c.Request.Method, path, time.Since(start))
}

func (h *Handler) currentUserID(c *gin.Context) int64 {
	id, ok := c.Get(userIDKey)
	if !ok {
		return 0
	}
	userID, ok := id.(int64)
	if !ok {
		return 0
	}
	return userID
}
