package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/reelzy/backend/internal/model"
	"github.com/reelzy/backend/internal/repository"
)

func newFeedService(db *gorm.DB) FeedService {
	return NewFeedService(repository.NewFeedRepository(db))
}

func seedReelAt(t *testing.T, db *gorm.DB, ownerID string, age time.Duration, likes, views int64) *model.Reel {
	t.Helper()
	r := &model.Reel{
		ID:         uuid.NewString(),
		UserID:     ownerID,
		VideoURL:   "/media/v.mp4",
		LikesCount: likes,
		ViewsCount: views,
		CreatedAt:  time.Now().Add(-age),
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func TestForYou_OrderingAndBoosts(t *testing.T) {
	db := setupTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	followed := seedUser(t, db, "followed")
	stranger := seedUser(t, db, "stranger")
	follow(t, db, viewer.ID, followed.ID)

	// 同龄同互动，关注加成决定顺序
	boosted := seedReelAt(t, db, followed.ID, 30*time.Hour, 10, 0)
	plain := seedReelAt(t, db, stranger.ID, 30*time.Hour, 10, 0)

	items, err := svc.ForYou(ctx, viewer.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, boosted.ID, items[0].ID)
	assert.Equal(t, plain.ID, items[1].ID)
	assert.InDelta(t, 5.0, items[0].Score-items[1].Score, 0.001)
}

func TestForYou_RepostBoost(t *testing.T) {
	db := setupTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	friend := seedUser(t, db, "friend")
	stranger := seedUser(t, db, "stranger")
	follow(t, db, viewer.ID, friend.ID)

	reposted := seedReelAt(t, db, stranger.ID, 30*time.Hour, 0, 0)
	plain := seedReelAt(t, db, stranger.ID, 30*time.Hour, 0, 0)
	// friend 转发过 reposted
	engSvc := newEngagementService(db)
	_, err := engSvc.ToggleRepost(ctx, friend.ID, model.ContentReel, reposted.ID)
	require.NoError(t, err)

	items, err := svc.ForYou(ctx, viewer.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, reposted.ID, items[0].ID)
	assert.Equal(t, plain.ID, items[1].ID)
	assert.InDelta(t, 6.0, items[0].Score-items[1].Score, 0.001)
}

func TestExplore_MergesPostsAndReels(t *testing.T) {
	db := setupTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	owner := seedUser(t, db, "owner")

	reel := seedReelAt(t, db, owner.ID, 30*time.Hour, 0, 100)
	post := seedPost(t, db, owner.ID)
	require.NoError(t, db.Model(post).Updates(map[string]any{
		"likes_count": 5,
		"created_at":  time.Now().Add(-30 * time.Hour),
	}).Error)

	items, err := svc.Explore(ctx, viewer.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// reel: 100*0.2=20 > post: 5*2=10
	assert.Equal(t, reel.ID, items[0].ID)
	assert.Equal(t, model.ContentReel, items[0].Type)
	assert.Equal(t, post.ID, items[1].ID)
	assert.Equal(t, model.ContentPost, items[1].Type)
	// post 没有播放数参与打分
	assert.Equal(t, int64(0), items[1].ViewsCount)
}

func TestForYou_Pagination(t *testing.T) {
	db := setupTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	owner := seedUser(t, db, "owner")
	for i := 0; i < 25; i++ {
		seedReelAt(t, db, owner.ID, time.Duration(i+30)*time.Hour, int64(25-i), 0)
	}

	p1, err := svc.ForYou(ctx, viewer.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, p1, 10)
	p3, err := svc.ForYou(ctx, viewer.ID, 3, 10)
	require.NoError(t, err)
	require.Len(t, p3, 5)
	p4, err := svc.ForYou(ctx, viewer.ID, 4, 10)
	require.NoError(t, err)
	assert.Empty(t, p4)

	// 分值严格递减
	for i := 1; i < len(p1); i++ {
		assert.GreaterOrEqual(t, p1[i-1].Score, p1[i].Score)
	}
}

func TestFollowing_OwnerOrReposter(t *testing.T) {
	db := setupTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	friend := seedUser(t, db, "friend")
	stranger := seedUser(t, db, "stranger")
	follow(t, db, viewer.ID, friend.ID)

	own := seedReelAt(t, db, friend.ID, time.Hour, 0, 0)
	reposted := seedReelAt(t, db, stranger.ID, 2*time.Hour, 0, 0)
	seedReelAt(t, db, stranger.ID, 3*time.Hour, 0, 0) // 不可见

	engSvc := newEngagementService(db)
	_, err := engSvc.ToggleRepost(ctx, friend.ID, model.ContentReel, reposted.ID)
	require.NoError(t, err)

	rows, err := svc.Following(ctx, viewer.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, own.ID, rows[0].ID)
	assert.Equal(t, reposted.ID, rows[1].ID)
}

func TestTrending_WindowAndOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newFeedService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	fan := seedUser(t, db, "fan")

	hot := seedReelAt(t, db, owner.ID, time.Hour, 0, 50)
	warm := seedReelAt(t, db, owner.ID, 2*time.Hour, 0, 500)
	seedReelAt(t, db, owner.ID, 30*time.Hour, 0, 9999) // 窗口外

	engSvc := newEngagementService(db)
	_, err := engSvc.ToggleRepost(ctx, fan.ID, model.ContentReel, hot.ID)
	require.NoError(t, err)

	rows, err := svc.Trending(ctx, 1, 20)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// 转发数优先于播放数
	assert.Equal(t, hot.ID, rows[0].ID)
	assert.Equal(t, warm.ID, rows[1].ID)
}
