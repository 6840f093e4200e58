package post_repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell-feed-service/internal/custom_errors"
	"inkwell-feed-service/internal/logger"
	"inkwell-feed-service/internal/model"
	post_repository "inkwell-feed-service/internal/repository/post"
	"inkwell-feed-service/internal/repository/post/memory"
)

func setupPostTest(t *testing.T) post_repository.Repository {
	t.Helper()
	log := logger.New("test")
	return memory.NewPostRepository(log)
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func createPosts(t *testing.T, repo post_repository.Repository, posts ...*model.Post) []*model.Post {
	t.Helper()
	created := make([]*model.Post, 0, len(posts))
	for _, post := range posts {
		result, err := repo.Create(context.Background(), post)
		require.NoError(t, err)
		created = append(created, result)
	}
	return created
}

func TestPostRepository_CreateAndGet(t *testing.T) {
	repo := setupPostTest(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Post{Text: "hello", AuthorID: 1})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, created.PubDate.Valid)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, int64(1), got.AuthorID)
}

func TestPostRepository_GetMissing(t *testing.T) {
	repo := setupPostTest(t)

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
}

func TestPostRepository_ListOrdersNewestFirst(t *testing.T) {
	repo := setupPostTest(t)
	ctx := context.Background()

	created := createPosts(t, repo,
		&model.Post{Text: "first", AuthorID: 1},
		&model.Post{Text: "second", AuthorID: 1},
		&model.Post{Text: "third", AuthorID: 2},
	)

	posts, total, err := repo.List(ctx, model.PostFilters{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, posts, 3)

	// Posts created in the same instant are ordered by id descending,
	// so the latest insert always comes first.
	assert.Equal(t, created[2].ID, posts[0].ID)
	assert.Equal(t, created[1].ID, posts[1].ID)
	assert.Equal(t, created[0].ID, posts[2].ID)
}

func TestPostRepository_ListFilters(t *testing.T) {
	repo := setupPostTest(t)
	ctx := context.Background()

	createPosts(t, repo,
		&model.Post{Text: "by author one", AuthorID: 1},
		&model.Post{Text: "by author two", AuthorID: 2},
		&model.Post{Text: "grouped", AuthorID: 1, GroupID: int64Ptr(5)},
		&model.Post{Text: "by author three", AuthorID: 3},
	)

	tests := []struct {
		name      string
		filters   model.PostFilters
		wantTotal int
		wantTexts []string
	}{
		{
			name:      "by author",
			filters:   model.PostFilters{AuthorID: int64Ptr(1)},
			wantTotal: 2,
			wantTexts: []string{"grouped", "by author one"},
		},
		{
			name:      "by author set",
			filters:   model.PostFilters{AuthorIDs: []int64{2, 3}},
			wantTotal: 2,
			wantTexts: []string{"by author three", "by author two"},
		},
		{
			name:      "by group",
			filters:   model.PostFilters{GroupID: int64Ptr(5)},
			wantTotal: 1,
			wantTexts: []string{"grouped"},
		},
		{
			name:      "no matches",
			filters:   model.PostFilters{AuthorID: int64Ptr(99)},
			wantTotal: 0,
			wantTexts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, total, err := repo.List(ctx, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			texts := make([]string, 0, len(posts))
			for _, post := range posts {
				texts = append(texts, post.Text)
			}
			assert.Equal(t, tt.wantTexts, texts)
		})
	}
}

func TestPostRepository_ListPagination(t *testing.T) {
	repo := setupPostTest(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		createPosts(t, repo, &model.Post{Text: "post", AuthorID: 1})
	}

	posts, total, err := repo.List(ctx, model.PostFilters{Limit: intPtr(10), Offset: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	assert.Len(t, posts, 10)

	posts, total, err = repo.List(ctx, model.PostFilters{Limit: intPtr(10), Offset: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	assert.Len(t, posts, 5)

	// Offset past the end yields an empty page but keeps the total.
	posts, total, err = repo.List(ctx, model.PostFilters{Limit: intPtr(10), Offset: intPtr(100)})
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	assert.Empty(t, posts)
}

func TestPostRepository_UpdateKeepsPubDate(t *testing.T) {
	repo := setupPostTest(t)
	ctx := context.Background()

	created := createPosts(t, repo, &model.Post{Text: "original", AuthorID: 1})[0]

	newText := "edited"
	updated, err := repo.Update(ctx, created.ID, &model.UpdatePostDTO{Text: &newText})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.Equal(t, created.PubDate.Time, updated.PubDate.Time)
	assert.Equal(t, created.AuthorID, updated.AuthorID)
}

func TestPostRepository_UpdateGroupTriState(t *testing.T) {
	repo := setupPostTest(t)
	ctx := context.Background()

	created := createPosts(t, repo, &model.Post{Text: "grouped", AuthorID: 1, GroupID: int64Ptr(5)})[0]

	// Nil leaves the group alone.
	newText := "still grouped"
	updated, err := repo.Update(ctx, created.ID, &model.UpdatePostDTO{Text: &newText})
	require.NoError(t, err)
	require.NotNil(t, updated.GroupID)
	assert.Equal(t, int64(5), *updated.GroupID)

	// A pointer to an id moves the post.
	target := int64Ptr(7)
	updated, err = repo.Update(ctx, created.ID, &model.UpdatePostDTO{GroupID: &target})
	require.NoError(t, err)
	require.NotNil(t, updated.GroupID)
	assert.Equal(t, int64(7), *updated.GroupID)

	// A pointer to nil clears the group.
	var cleared *int64
	updated, err = repo.Update(ctx, created.ID, &model.UpdatePostDTO{GroupID: &cleared})
	require.NoError(t, err)
	assert.Nil(t, updated.GroupID)
}

func TestPostRepository_UpdateMissing(t *testing.T) {
	repo := setupPostTest(t)

	newText := "edited"
	_, err := repo.Update(context.Background(), 999, &model.UpdatePostDTO{Text: &newText})
	assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
}

func TestPostRepository_Delete(t *testing.T) {
	repo := setupPostTest(t)
	ctx := context.Background()

	created := createPosts(t, repo, &model.Post{Text: "doomed", AuthorID: 1})[0]

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err := repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), custom_errors.ErrPostNotFound)
}

func TestPostRepository_CountByAuthor(t *testing.T) {
	repo := setupPostTest(t)
	ctx := context.Background()

	createPosts(t, repo,
		&model.Post{Text: "one", AuthorID: 1},
		&model.Post{Text: "two", AuthorID: 1},
		&model.Post{Text: "other", AuthorID: 2},
	)

	count, err := repo.CountByAuthor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByAuthor(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
