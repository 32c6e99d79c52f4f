package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	// TimelineKey is the single fixed key for the cached home listing. The
	// home page is the same for every visitor, so one shared entry serves
	// all of them.
	TimelineKey = "timeline:home"

	UserKeyPrefix  = "user:%d"
	GroupKeyPrefix = "group:%s"
)

const (
	// DefaultTimelineTTL bounds home-page staleness when no TTL is configured.
	DefaultTimelineTTL = 20 * time.Second

	UserTTL  = 5 * time.Minute
	GroupTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func GroupKey(slug string) string {
	return fmt.Sprintf(GroupKeyPrefix, slug)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateGroup(ctx context.Context, slug string) {
	Invalidate(ctx, GroupKey(slug))
}

// ClearTimeline removes the cached home listing so the next request
// recomputes it. New posts do NOT call this: the home page tolerates
// staleness up to the TTL and only an explicit clear cuts it short.
func ClearTimeline(ctx context.Context) {
	Invalidate(ctx, TimelineKey)
}
