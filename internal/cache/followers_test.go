package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/reelzy/backend/internal/model"
	"github.com/reelzy/backend/internal/repository"
)

func setupCache(t *testing.T) (*FollowerCache, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Fan{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	c := NewFollowerCache(rdb, repository.NewFanRepository(db), repository.NewUserRepository(db), time.Minute)
	return c, db, mr
}

func seedFans(t *testing.T, db *gorm.DB, ownerID string, n int) []string {
	t.Helper()
	ctx := context.Background()
	fanRepo := repository.NewFanRepository(db)
	ids := make([]string, n)
	base := time.Now()
	for i := 0; i < n; i++ {
		u := &model.User{ID: uuid.NewString(), Username: fmt.Sprintf("fan%03d", i), Password: "p"}
		require.NoError(t, db.Create(u).Error)
		ids[i] = u.ID
		require.NoError(t, fanRepo.Create(ctx, ownerID, u.ID))
		// 拉开 created_at，保证排序稳定
		db.Model(&model.Fan{}).
			Where("user_id = ? AND fan_id = ?", ownerID, u.ID).
			Update("created_at", base.Add(-time.Duration(i)*time.Second))
	}
	return ids
}

func TestFollowers_PagedAndCached(t *testing.T) {
	c, db, mr := setupCache(t)
	ctx := context.Background()

	owner := &model.User{ID: "owner", Username: "owner", Password: "p"}
	require.NoError(t, db.Create(owner).Error)
	fans := seedFans(t, db, owner.ID, 30)

	p1, err := c.Followers(ctx, owner.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, p1, 20)
	// 最新的粉丝排在最前
	assert.Equal(t, fans[0], p1[0].ID)

	// 第一次读之后索引已进缓存
	assert.True(t, mr.Exists("followers:index:owner"))

	p2, err := c.Followers(ctx, owner.ID, 2, 20)
	require.NoError(t, err)
	require.Len(t, p2, 10)
	assert.Equal(t, fans[20], p2[0].ID)

	empty, err := c.Followers(ctx, owner.ID, 3, 20)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFollowers_InvalidateDropsIndex(t *testing.T) {
	c, db, mr := setupCache(t)
	ctx := context.Background()

	owner := &model.User{ID: "owner", Username: "owner", Password: "p"}
	require.NoError(t, db.Create(owner).Error)
	seedFans(t, db, owner.ID, 5)

	_, err := c.Followers(ctx, owner.ID, 1, 20)
	require.NoError(t, err)
	require.True(t, mr.Exists("followers:index:owner"))

	c.Invalidate(ctx, owner.ID)
	assert.False(t, mr.Exists("followers:index:owner"))

	// 失效后下一次读重建索引
	got, err := c.Followers(ctx, owner.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.True(t, mr.Exists("followers:index:owner"))
}

func TestFollowers_NoFans(t *testing.T) {
	c, db, _ := setupCache(t)
	ctx := context.Background()

	owner := &model.User{ID: "owner", Username: "owner", Password: "p"}
	require.NoError(t, db.Create(owner).Error)

	got, err := c.Followers(ctx, owner.ID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
}
