package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPage struct {
	Posts []string `json:"posts"`
	Page  int      `json:"page"`
}

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAsidePopulatesAndServesFromCache(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedPage) func() error {
		return func() error {
			fetches++
			dest.Posts = []string{"first", "second"}
			dest.Page = 1
			return nil
		}
	}

	var got cachedPage
	require.NoError(t, Aside(ctx, TimelineKey, &got, DefaultTimelineTTL, fetch(&got)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, []string{"first", "second"}, got.Posts)

	// Second lookup is served from the cache without refetching.
	var again cachedPage
	require.NoError(t, Aside(ctx, TimelineKey, &again, DefaultTimelineTTL, fetch(&again)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, got, again)
}

func TestAsideRecomputesAfterTTL(t *testing.T) {
	mr := setupTestRedis(t)
	ctx := context.Background()

	fetches := 0
	var got cachedPage
	fetch := func() error {
		fetches++
		got.Posts = []string{"post"}
		return nil
	}

	require.NoError(t, Aside(ctx, TimelineKey, &got, 20*time.Second, fetch))
	require.Equal(t, 1, fetches)

	mr.FastForward(21 * time.Second)

	require.NoError(t, Aside(ctx, TimelineKey, &got, 20*time.Second, fetch))
	assert.Equal(t, 2, fetches)
}

func TestClearTimelineForcesRecompute(t *testing.T) {
	setupTestRedis(t)
	ctx := context.Background()

	fetches := 0
	var got cachedPage
	fetch := func() error {
		fetches++
		return nil
	}

	require.NoError(t, Aside(ctx, TimelineKey, &got, DefaultTimelineTTL, fetch))
	require.NoError(t, Aside(ctx, TimelineKey, &got, DefaultTimelineTTL, fetch))
	require.Equal(t, 1, fetches)

	ClearTimeline(ctx)

	require.NoError(t, Aside(ctx, TimelineKey, &got, DefaultTimelineTTL, fetch))
	assert.Equal(t, 2, fetches)
}

func TestAsideWithoutClientFallsThrough(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	fetches := 0
	var got cachedPage
	fetch := func() error {
		fetches++
		return nil
	}

	require.NoError(t, Aside(ctx, TimelineKey, &got, DefaultTimelineTTL, fetch))
	require.NoError(t, Aside(ctx, TimelineKey, &got, DefaultTimelineTTL, fetch))
	assert.Equal(t, 2, fetches, "every request should hit the source when Redis is unavailable")
}
