package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/reelzy/backend/internal/model"
	"github.com/reelzy/backend/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.Reel{},
		&model.Comment{},
		&model.Engagement{},
		&model.Repost{},
		&model.Follow{},
		&model.Fan{},
		&model.Story{},
		&model.StoryView{},
		&model.StoryLike{},
		&model.StoryShare{},
		&model.StoryReply{},
		&model.Chat{},
		&model.Message{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{ID: uuid.NewString(), Username: username, Password: "p"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedReel(t *testing.T, db *gorm.DB, ownerID string) *model.Reel {
	t.Helper()
	r := &model.Reel{ID: uuid.NewString(), UserID: ownerID, VideoURL: "/media/v.mp4"}
	require.NoError(t, db.Create(r).Error)
	return r
}

func seedPost(t *testing.T, db *gorm.DB, ownerID string) *model.Post {
	t.Helper()
	p := &model.Post{ID: uuid.NewString(), UserID: ownerID, ImageURL: "/media/i.jpg"}
	require.NoError(t, db.Create(p).Error)
	return p
}

func newEngagementService(db *gorm.DB) EngagementService {
	return NewEngagementService(
		repository.NewEngagementRepository(db),
		repository.NewContentRepository(db),
		repository.NewRepostRepository(db),
	)
}

func TestToggleLike(t *testing.T) {
	db := setupTestDB(t)
	svc := newEngagementService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	reel := seedReel(t, db, owner.ID)

	liked, err := svc.ToggleLike(ctx, viewer.ID, model.ContentReel, reel.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	var got model.Reel
	require.NoError(t, db.First(&got, "id = ?", reel.ID).Error)
	assert.Equal(t, int64(1), got.LikesCount)

	// 再点一次取消，计数归零
	liked, err = svc.ToggleLike(ctx, viewer.ID, model.ContentReel, reel.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, db.First(&got, "id = ?", reel.ID).Error)
	assert.Equal(t, int64(0), got.LikesCount)
}

func TestToggleLike_ContentMissing(t *testing.T) {
	db := setupTestDB(t)
	svc := newEngagementService(db)

	viewer := seedUser(t, db, "viewer")
	_, err := svc.ToggleLike(context.Background(), viewer.ID, model.ContentReel, uuid.NewString())
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestToggleSave(t *testing.T) {
	db := setupTestDB(t)
	svc := newEngagementService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	post := seedPost(t, db, owner.ID)

	saved, err := svc.ToggleSave(ctx, viewer.ID, model.ContentPost, post.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.ToggleSave(ctx, viewer.ID, model.ContentPost, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	var n int64
	db.Model(&model.Engagement{}).Where("kind = ?", model.EngagementSave).Count(&n)
	assert.Equal(t, int64(0), n)
}

func TestView_OncePerUser_WatchTimeMonotonic(t *testing.T) {
	db := setupTestDB(t)
	svc := newEngagementService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	reel := seedReel(t, db, owner.ID)

	require.NoError(t, svc.View(ctx, viewer.ID, reel.ID, 10))
	require.NoError(t, svc.View(ctx, viewer.ID, reel.ID, 30))
	// 更短的观看不回退 watch_time
	require.NoError(t, svc.View(ctx, viewer.ID, reel.ID, 5))

	var got model.Reel
	require.NoError(t, db.First(&got, "id = ?", reel.ID).Error)
	assert.Equal(t, int64(1), got.ViewsCount)

	var edge model.Engagement
	require.NoError(t, db.First(&edge, "user_id = ? AND content_id = ? AND kind = ?",
		viewer.ID, reel.ID, model.EngagementView).Error)
	assert.Equal(t, 30, edge.WatchTime)
}

func TestShare_Unconditional(t *testing.T) {
	db := setupTestDB(t)
	svc := newEngagementService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	post := seedPost(t, db, owner.ID)

	require.NoError(t, svc.Share(ctx, model.ContentPost, post.ID))
	require.NoError(t, svc.Share(ctx, model.ContentPost, post.ID))

	var got model.Post
	require.NoError(t, db.First(&got, "id = ?", post.ID).Error)
	assert.Equal(t, int64(2), got.SharesCount)
}

func TestComment(t *testing.T) {
	db := setupTestDB(t)
	svc := newEngagementService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	reel := seedReel(t, db, owner.ID)

	_, err := svc.Comment(ctx, viewer.ID, model.ContentReel, reel.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)

	c, err := svc.Comment(ctx, viewer.ID, model.ContentReel, reel.ID, "  nice  ")
	require.NoError(t, err)
	assert.Equal(t, "nice", c.Text)

	var got model.Reel
	require.NoError(t, db.First(&got, "id = ?", reel.ID).Error)
	assert.Equal(t, int64(1), got.CommentsCount)

	list, err := svc.ListComments(ctx, model.ContentReel, reel.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)
}

func TestToggleRepost(t *testing.T) {
	db := setupTestDB(t)
	svc := newEngagementService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	reel := seedReel(t, db, owner.ID)

	on, err := svc.ToggleRepost(ctx, viewer.ID, model.ContentReel, reel.ID)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = svc.ToggleRepost(ctx, viewer.ID, model.ContentReel, reel.ID)
	require.NoError(t, err)
	assert.False(t, on)
}
