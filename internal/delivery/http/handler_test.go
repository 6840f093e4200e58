package http_delivery_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cache_memory "inkwell-feed-service/internal/cache/memory"
	http_delivery "inkwell-feed-service/internal/delivery/http"
	"inkwell-feed-service/internal/logger"
	media_memory "inkwell-feed-service/internal/media/memory"
	prometheus_metrics "inkwell-feed-service/internal/metrics/prometheus"
	"inkwell-feed-service/internal/model"
	comment_memory "inkwell-feed-service/internal/repository/comment/memory"
	follow_memory "inkwell-feed-service/internal/repository/follow/memory"
	group_memory "inkwell-feed-service/internal/repository/group/memory"
	"inkwell-feed-service/internal/repository/memory"
	post_memory "inkwell-feed-service/internal/repository/post/memory"
	user_memory "inkwell-feed-service/internal/repository/user/memory"
	feed_service "inkwell-feed-service/internal/service/feed"
	follow_service "inkwell-feed-service/internal/service/follow"
	post_service "inkwell-feed-service/internal/service/post"
	profile_service "inkwell-feed-service/internal/service/profile"
)

const testJWTSecret = "test-secret"

type handlerFixture struct {
	router *gin.Engine
	users  *user_memory.UserRepository
	posts  *post_memory.PostRepository
}

func setupHandlerTest(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("test")
	metrics := prometheus_metrics.NewPrometheusMetricsProvider()

	users := user_memory.NewUserRepository(log)
	groups := group_memory.NewGroupRepository(log)
	posts := post_memory.NewPostRepository(log)
	comments := comment_memory.NewCommentRepository(log)
	follows := follow_memory.NewFollowRepository(log)
	uow := memory.NewUnitOfWork(posts, groups, comments)

	postService := post_service.NewPostService(posts, groups, comments, users, uow, media_memory.NewStorage(), log, metrics)
	followService := follow_service.NewFollowService(follows, users, log, metrics)
	profileService := profile_service.NewProfileService(posts, groups, users, follows, log, metrics)
	baseFeed := feed_service.NewFeedService(posts, groups, users, follows, log, metrics)
	feedService := feed_service.NewCacheDecorator(baseFeed, cache_memory.NewCache(), 20*time.Second, log, metrics)

	handler := http_delivery.New(feedService, postService, followService, profileService, testJWTSecret, log, metrics)

	return &handlerFixture{
		router: handler.InitRoutes(),
		users:  users,
		posts:  posts,
	}
}

func (f *handlerFixture) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), &model.User{Username: username})
	require.NoError(t, err)
	return user
}

func (f *handlerFixture) token(t *testing.T, userID int64) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": float64(userID)})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func (f *handlerFixture) do(t *testing.T, method, target, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_IndexIsPublic(t *testing.T) {
	f := setupHandlerTest(t)

	author := f.createUser(t, "writer")
	_, err := f.posts.Create(context.Background(), &model.Post{Text: "hello", AuthorID: author.ID})
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page model.PostPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "hello", page.Posts[0].Post.Text)
}

func TestHandler_ProtectedRoutesRedirectAnonymousToLogin(t *testing.T) {
	f := setupHandlerTest(t)

	tests := []struct {
		name   string
		method string
		target string
	}{
		{name: "create post", method: http.MethodPost, target: "/new"},
		{name: "follow feed", method: http.MethodGet, target: "/follow"},
		{name: "follow author", method: http.MethodPost, target: "/profile/writer/follow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.target, "", nil)
			require.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/auth/login?next="+url.QueryEscape(tt.target), rec.Header().Get("Location"))
		})
	}
}

func TestHandler_CreatePost(t *testing.T) {
	f := setupHandlerTest(t)
	author := f.createUser(t, "writer")

	form := url.Values{}
	form.Set("text", "posted over http")

	rec := f.do(t, http.MethodPost, "/new", f.token(t, author.ID), form)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.PostDetailed
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "posted over http", created.Post.Text)
	assert.Equal(t, "writer", created.Author.Username)
}

func TestHandler_CreatePostEmptyText(t *testing.T) {
	f := setupHandlerTest(t)
	author := f.createUser(t, "writer")

	form := url.Values{}
	form.Set("text", "")

	rec := f.do(t, http.MethodPost, "/new", f.token(t, author.ID), form)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_EditByNonAuthorRedirectsToPost(t *testing.T) {
	f := setupHandlerTest(t)
	ctx := context.Background()

	author := f.createUser(t, "writer")
	intruder := f.createUser(t, "intruder")
	created, err := f.posts.Create(ctx, &model.Post{Text: "original", AuthorID: author.ID})
	require.NoError(t, err)

	form := url.Values{}
	form.Set("text", "hijacked")

	rec := f.do(t, http.MethodPost, "/writer/1/edit", f.token(t, intruder.ID), form)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/writer/1", rec.Header().Get("Location"))

	unchanged, err := f.posts.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", unchanged.Text)
}

func TestHandler_PostViewUnknownIDIs404(t *testing.T) {
	f := setupHandlerTest(t)
	f.createUser(t, "writer")

	rec := f.do(t, http.MethodGet, "/writer/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/writer/not-a-number", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_FollowRedirectsBackToProfile(t *testing.T) {
	f := setupHandlerTest(t)

	reader := f.createUser(t, "reader")
	f.createUser(t, "writer")

	rec := f.do(t, http.MethodPost, "/profile/writer/follow", f.token(t, reader.ID), nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile/writer", rec.Header().Get("Location"))

	rec = f.do(t, http.MethodGet, "/profile/writer", f.token(t, reader.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile model.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.True(t, profile.Following)
	assert.Equal(t, int64(1), profile.FollowerCount)
}

func TestHandler_FollowUnknownAuthorIs404(t *testing.T) {
	f := setupHandlerTest(t)
	reader := f.createUser(t, "reader")

	rec := f.do(t, http.MethodPost, "/profile/ghost/follow", f.token(t, reader.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_CacheClearRequiresAuth(t *testing.T) {
	f := setupHandlerTest(t)
	operator := f.createUser(t, "operator")

	rec := f.do(t, http.MethodPost, "/internal/cache/clear", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login?next="+url.QueryEscape("/internal/cache/clear"), rec.Header().Get("Location"))

	rec = f.do(t, http.MethodPost, "/internal/cache/clear", f.token(t, operator.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_CreatePostRejectsNonImageUpload(t *testing.T) {
	f := setupHandlerTest(t)
	author := f.createUser(t, "writer")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("text", "looks fine"))
	part, err := mw.CreateFormFile("image", "script.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("#!/bin/sh\necho not a picture\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/new", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+f.token(t, author.ID))

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "image", resp.Field)
}
