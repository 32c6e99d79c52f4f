package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withMiniredis points the cache package at an in-process Redis and restores
// the previous client when the test ends. Tests using it must not run in
// parallel.
func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	prev := cache.GetClient()
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(prev) })
	return mr
}

func TestHomeListingCacheFlow(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db, 20)
	mr := withMiniredis(t)

	author := models.User{Username: "homeauthor", Email: "homeauthor@example.com", Password: "pw"}
	require.NoError(t, db.Create(&author).Error)

	app := fiber.New()
	app.Get("/posts", s.GetPosts)
	app.Post("/admin/cache/clear", s.ClearHomeCache)

	getHome := func() listingResponse {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body listingResponse
		decodeBody(t, resp, &body)
		return body
	}

	require.NoError(t, db.Create(&models.Post{Text: "first", AuthorID: author.ID}).Error)
	assert.Len(t, getHome().Posts, 1)

	// A new post does not invalidate the cached page.
	require.NoError(t, db.Create(&models.Post{Text: "second", AuthorID: author.ID}).Error)
	assert.Len(t, getHome().Posts, 1)

	// After the TTL the entry expires and the listing is recomputed.
	mr.FastForward(21 * time.Second)
	assert.Len(t, getHome().Posts, 2)

	// An explicit clear cuts the staleness window short.
	require.NoError(t, db.Create(&models.Post{Text: "third", AuthorID: author.ID}).Error)
	assert.Len(t, getHome().Posts, 2)

	req := httptest.NewRequest(http.MethodPost, "/admin/cache/clear", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Len(t, getHome().Posts, 3)
}

func TestHomeListingCacheDisabled(t *testing.T) {
	db := setupHandlerTestDB(t)
	s := newTestServer(t, db, 0)
	mr := withMiniredis(t)

	author := models.User{Username: "uncached", Email: "uncached@example.com", Password: "pw"}
	require.NoError(t, db.Create(&author).Error)

	app := fiber.New()
	app.Get("/posts", s.GetPosts)

	getHome := func() listingResponse {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		var body listingResponse
		decodeBody(t, resp, &body)
		return body
	}

	require.NoError(t, db.Create(&models.Post{Text: "one", AuthorID: author.ID}).Error)
	assert.Len(t, getHome().Posts, 1)

	// New posts are visible immediately and nothing is written to Redis.
	require.NoError(t, db.Create(&models.Post{Text: "two", AuthorID: author.ID}).Error)
	assert.Len(t, getHome().Posts, 2)
	assert.False(t, mr.Exists(cache.TimelineKey))
}

func TestHomeListingPagination(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(t, db, 0)

	author := models.User{Username: "prolific", Email: "prolific@example.com", Password: "pw"}
	require.NoError(t, db.Create(&author).Error)

	base := time.Now().Add(-time.Hour)
	for i := 1; i <= 13; i++ {
		p := models.Post{Text: fmt.Sprintf("post %d", i), AuthorID: author.ID}
		require.NoError(t, db.Create(&p).Error)
		require.NoError(t, db.Model(&p).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	app := fiber.New()
	app.Get("/posts", s.GetPosts)

	getPage := func(query string) listingResponse {
		req := httptest.NewRequest(http.MethodGet, "/posts"+query, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body listingResponse
		decodeBody(t, resp, &body)
		return body
	}

	first := getPage("")
	require.Len(t, first.Posts, 10)
	assert.Equal(t, "post 13", first.Posts[0].Text)
	assert.Equal(t, "post 4", first.Posts[9].Text)
	assert.Equal(t, 2, first.Page.TotalPages)
	assert.True(t, first.Page.HasNext)

	second := getPage("?page=2")
	require.Len(t, second.Posts, 3)
	assert.Equal(t, "post 1", second.Posts[2].Text)
	assert.False(t, second.Page.HasNext)

	// Page numbers past the end clamp to the last page.
	clamped := getPage("?page=99")
	assert.Equal(t, 2, clamped.Page.Number)
	require.Len(t, clamped.Posts, 3)

	// And zero or negative numbers clamp to the first.
	zero := getPage("?page=0")
	assert.Equal(t, 1, zero.Page.Number)
	require.Len(t, zero.Posts, 10)
}

func TestUpdatePostOwnership(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(t, db, 0)

	author := models.User{Username: "owner", Email: "owner@example.com", Password: "pw"}
	intruder := models.User{Username: "intruder", Email: "intruder@example.com", Password: "pw"}
	require.NoError(t, db.Create(&author).Error)
	require.NoError(t, db.Create(&intruder).Error)

	post := models.Post{Text: "original", AuthorID: author.ID}
	require.NoError(t, db.Create(&post).Error)

	putPost := func(asUser uint, text string) (*http.Response, models.Post) {
		app := fiber.New()
		app.Use(authAs(asUser))
		app.Put("/posts/:id", s.UpdatePost)

		body, _ := json.Marshal(map[string]string{"text": text})
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/posts/%d", post.ID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)

		var got models.Post
		decodeBody(t, resp, &got)
		return resp, got
	}

	t.Run("non-author edit is absorbed", func(t *testing.T) {
		resp, got := putPost(intruder.ID, "hijacked")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "original", got.Text)

		var stored models.Post
		require.NoError(t, db.First(&stored, post.ID).Error)
		assert.Equal(t, "original", stored.Text)
	})

	t.Run("author edit is applied", func(t *testing.T) {
		resp, got := putPost(author.ID, "revised")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "revised", got.Text)

		var stored models.Post
		require.NoError(t, db.First(&stored, post.ID).Error)
		assert.Equal(t, "revised", stored.Text)
	})
}

func TestDeletePostOwnership(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(t, db, 0)

	author := models.User{Username: "deleter", Email: "deleter@example.com", Password: "pw"}
	other := models.User{Username: "bystander", Email: "bystander@example.com", Password: "pw"}
	admin := models.User{Username: "moderator", Email: "moderator@example.com", Password: "pw", IsAdmin: true}
	require.NoError(t, db.Create(&author).Error)
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&admin).Error)

	deletePost := func(asUser, postID uint) int {
		app := fiber.New()
		app.Use(authAs(asUser))
		app.Delete("/posts/:id", s.DeletePost)

		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/posts/%d", postID), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}

	post := models.Post{Text: "to delete", AuthorID: author.ID}
	require.NoError(t, db.Create(&post).Error)

	assert.Equal(t, http.StatusForbidden, deletePost(other.ID, post.ID))
	assert.Equal(t, http.StatusOK, deletePost(author.ID, post.ID))

	post2 := models.Post{Text: "moderated", AuthorID: author.ID}
	require.NoError(t, db.Create(&post2).Error)
	assert.Equal(t, http.StatusOK, deletePost(admin.ID, post2.ID))

	var count int64
	db.Model(&models.Post{}).Count(&count)
	assert.Zero(t, count)
}

func TestGroupPostsFlow(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(t, db, 0)

	author := models.User{Username: "grouped", Email: "grouped@example.com", Password: "pw"}
	require.NoError(t, db.Create(&author).Error)
	group := models.Group{Title: "Poetry", Slug: "poetry", Description: "verse"}
	require.NoError(t, db.Create(&group).Error)

	require.NoError(t, db.Create(&models.Post{Text: "in group", AuthorID: author.ID, GroupID: &group.ID}).Error)
	require.NoError(t, db.Create(&models.Post{Text: "outside group", AuthorID: author.ID}).Error)

	app := fiber.New()
	app.Get("/groups/:slug/posts", s.GetGroupPosts)

	req := httptest.NewRequest(http.MethodGet, "/groups/poetry/posts", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Group models.Group  `json:"group"`
		Posts []models.Post `json:"posts"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "Poetry", body.Group.Title)
	require.Len(t, body.Posts, 1)
	assert.Equal(t, "in group", body.Posts[0].Text)

	req = httptest.NewRequest(http.MethodGet, "/groups/missing/posts", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
