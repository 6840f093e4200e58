package feed_service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell-feed-service/internal/custom_errors"
	"inkwell-feed-service/internal/logger"
	prometheus_metrics "inkwell-feed-service/internal/metrics/prometheus"
	"inkwell-feed-service/internal/model"
	follow_memory "inkwell-feed-service/internal/repository/follow/memory"
	group_memory "inkwell-feed-service/internal/repository/group/memory"
	post_memory "inkwell-feed-service/internal/repository/post/memory"
	user_memory "inkwell-feed-service/internal/repository/user/memory"
	feed_service "inkwell-feed-service/internal/service/feed"
)

type feedFixture struct {
	service *feed_service.FeedService
	users   *user_memory.UserRepository
	groups  *group_memory.GroupRepository
	posts   *post_memory.PostRepository
	follows *follow_memory.FollowRepository
}

func setupFeedTest(t *testing.T) *feedFixture {
	t.Helper()
	log := logger.New("test")
	metrics := prometheus_metrics.NewPrometheusMetricsProvider()

	users := user_memory.NewUserRepository(log)
	groups := group_memory.NewGroupRepository(log)
	posts := post_memory.NewPostRepository(log)
	follows := follow_memory.NewFollowRepository(log)

	return &feedFixture{
		service: feed_service.NewFeedService(posts, groups, users, follows, log, metrics),
		users:   users,
		groups:  groups,
		posts:   posts,
		follows: follows,
	}
}

func (f *feedFixture) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), &model.User{Username: username})
	require.NoError(t, err)
	return user
}

func (f *feedFixture) createPost(t *testing.T, authorID int64, text string, groupID *int64) *model.Post {
	t.Helper()
	post, err := f.posts.Create(context.Background(), &model.Post{Text: text, AuthorID: authorID, GroupID: groupID})
	require.NoError(t, err)
	return post
}

func TestFeedService_Index(t *testing.T) {
	f := setupFeedTest(t)
	ctx := context.Background()

	author := f.createUser(t, "leo")
	group, err := f.groups.Create(ctx, &model.Group{Title: "Cats", Slug: "cats"})
	require.NoError(t, err)

	f.createPost(t, author.ID, "older", nil)
	f.createPost(t, author.ID, "newer", &group.ID)

	page, err := f.service.Index(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)

	assert.Equal(t, "newer", page.Posts[0].Post.Text)
	assert.Equal(t, "older", page.Posts[1].Post.Text)

	require.NotNil(t, page.Posts[0].Author)
	assert.Equal(t, "leo", page.Posts[0].Author.Username)
	require.NotNil(t, page.Posts[0].Group)
	assert.Equal(t, "cats", page.Posts[0].Group.Slug)
	assert.Nil(t, page.Posts[1].Group)
}

func TestFeedService_IndexEmpty(t *testing.T) {
	f := setupFeedTest(t)

	page, err := f.service.Index(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 1, page.Page.Number)
	assert.Equal(t, 1, page.Page.TotalPages)
}

func TestFeedService_IndexPageClampsToLast(t *testing.T) {
	f := setupFeedTest(t)
	ctx := context.Background()

	author := f.createUser(t, "leo")
	for i := 0; i < 15; i++ {
		f.createPost(t, author.ID, "post", nil)
	}

	page, err := f.service.Index(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Number)
	assert.Len(t, page.Posts, 5)
	assert.False(t, page.Page.HasNext)
	assert.True(t, page.Page.HasPrev)
}

func TestFeedService_GroupPosts(t *testing.T) {
	f := setupFeedTest(t)
	ctx := context.Background()

	author := f.createUser(t, "leo")
	group, err := f.groups.Create(ctx, &model.Group{Title: "Cats", Slug: "cats"})
	require.NoError(t, err)

	f.createPost(t, author.ID, "in group", &group.ID)
	f.createPost(t, author.ID, "outside", nil)

	result, err := f.service.GroupPosts(ctx, "cats", 1)
	require.NoError(t, err)
	assert.Equal(t, "Cats", result.Group.Title)
	require.Len(t, result.Posts.Posts, 1)
	assert.Equal(t, "in group", result.Posts.Posts[0].Post.Text)
}

func TestFeedService_GroupPostsUnknownSlug(t *testing.T) {
	f := setupFeedTest(t)

	_, err := f.service.GroupPosts(context.Background(), "nope", 1)
	assert.ErrorIs(t, err, custom_errors.ErrGroupNotFound)
}

func TestFeedService_FollowFeedShowsFollowedAuthors(t *testing.T) {
	f := setupFeedTest(t)
	ctx := context.Background()

	reader := f.createUser(t, "reader")
	author := f.createUser(t, "writer")

	require.NoError(t, f.follows.Create(ctx, reader.ID, author.ID))
	f.createPost(t, author.ID, "новая запись", nil)

	page, err := f.service.FollowFeed(ctx, reader.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "новая запись", page.Posts[0].Post.Text)
}

func TestFeedService_FollowFeedHidesUnfollowedAuthors(t *testing.T) {
	f := setupFeedTest(t)
	ctx := context.Background()

	follower := f.createUser(t, "follower")
	bystander := f.createUser(t, "bystander")
	author := f.createUser(t, "writer")

	require.NoError(t, f.follows.Create(ctx, follower.ID, author.ID))
	f.createPost(t, author.ID, "moeow-meow", nil)

	page, err := f.service.FollowFeed(ctx, bystander.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
}

func TestFeedService_FollowFeedReflectsUnfollowImmediately(t *testing.T) {
	f := setupFeedTest(t)
	ctx := context.Background()

	reader := f.createUser(t, "reader")
	author := f.createUser(t, "writer")

	require.NoError(t, f.follows.Create(ctx, reader.ID, author.ID))
	f.createPost(t, author.ID, "visible for now", nil)

	page, err := f.service.FollowFeed(ctx, reader.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)

	require.NoError(t, f.follows.Delete(ctx, reader.ID, author.ID))

	page, err = f.service.FollowFeed(ctx, reader.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
}

func TestFeedService_FollowFeedAnonymous(t *testing.T) {
	f := setupFeedTest(t)

	_, err := f.service.FollowFeed(context.Background(), 0, 1)
	assert.ErrorIs(t, err, custom_errors.ErrUnauthenticated)
}
