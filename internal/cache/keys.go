package cache

import (
	"context"
	"fmt"
	"time"
)

// TTLs for cached entities. Posts change rarely; users almost never.
const (
	PostTTL = 5 * time.Minute
	UserTTL = 15 * time.Minute
)

// PostsListKey caches the home page post listing.
const PostsListKey = "posts:list"

// PostKey returns the cache key for a single post.
func PostKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

// UserKey returns the cache key for a single user.
func UserKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// Invalidate removes the given keys. Best-effort; a miss or a dead client is not an error.
func Invalidate(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	_ = client.Del(ctx, keys...).Err()
}

// InvalidatePostsList drops the cached home page listing.
func InvalidatePostsList(ctx context.Context) {
	Invalidate(ctx, PostsListKey)
}
