// Package cache provides redis-backed read optimizations. The follower
// cache keeps each user's follower-id list as a redis list so paged
// follower reads avoid hitting the primary store; the fans table stays
// the source of truth and the cache is dropped on every relation write.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reelzy/backend/internal/model"
	"github.com/reelzy/backend/internal/repository"
)

const followerKeyFmt = "followers:index:%s"

type FollowerCache struct {
	rdb   *redis.Client
	fans  repository.FanRepository
	users repository.UserRepository
	ttl   time.Duration
}

func NewFollowerCache(rdb *redis.Client, fans repository.FanRepository, users repository.UserRepository, ttl time.Duration) *FollowerCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &FollowerCache{rdb: rdb, fans: fans, users: users, ttl: ttl}
}

// Followers returns a page of follower profiles, serving ids from the
// redis list when present and reloading the full index on a miss.
func (c *FollowerCache) Followers(ctx context.Context, userID string, page, size int) ([]model.PublicProfile, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	start := (page - 1) * size
	end := start + size - 1

	key := fmt.Sprintf(followerKeyFmt, userID)
	ids, err := c.rdb.LRange(ctx, key, int64(start), int64(end)).Result()
	if err != nil && err != redis.Nil {
		// redis unavailable: fall through to the primary store
		ids = nil
	}
	if len(ids) == 0 {
		all, err := c.reload(ctx, userID)
		if err != nil {
			return nil, err
		}
		if start >= len(all) {
			return []model.PublicProfile{}, nil
		}
		e := start + size
		if e > len(all) {
			e = len(all)
		}
		ids = all[start:e]
	}

	users, err := c.users.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]model.PublicProfile, 0, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			out = append(out, u.Public())
		}
	}
	return out, nil
}

// Invalidate drops the cached index after a follow/unfollow write.
func (c *FollowerCache) Invalidate(ctx context.Context, userID string) {
	_ = c.rdb.Del(ctx, fmt.Sprintf(followerKeyFmt, userID)).Err()
}

func (c *FollowerCache) reload(ctx context.Context, userID string) ([]string, error) {
	ids, err := c.fans.FanIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}
	key := fmt.Sprintf(followerKeyFmt, userID)
	vals := make([]interface{}, len(ids))
	for i, id := range ids {
		vals[i] = id
	}
	pipe := c.rdb.Pipeline()
	pipe.Del(ctx, key)
	pipe.RPush(ctx, key, vals...)
	pipe.Expire(ctx, key, c.ttl)
	// cache write failure is non-fatal
	_, _ = pipe.Exec(ctx)
	return ids, nil
}
