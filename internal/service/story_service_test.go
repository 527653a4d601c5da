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

func newStoryService(db *gorm.DB) StoryService {
	return NewStoryService(repository.NewStoryRepository(db), repository.NewUserRepository(db))
}

func seedStory(t *testing.T, db *gorm.DB, ownerID string, age time.Duration) *model.Story {
	t.Helper()
	now := time.Now()
	st := &model.Story{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		MediaURL:  "/media/s.jpg",
		CreatedAt: now.Add(-age),
		ExpiresAt: now.Add(-age).Add(model.StoryTTL),
	}
	require.NoError(t, db.Create(st).Error)
	return st
}

func follow(t *testing.T, db *gorm.DB, followerID, followeeID string) {
	t.Helper()
	require.NoError(t, repository.NewFollowRepository(db).Create(context.Background(), followerID, followeeID))
}

func TestStoryFeed_AggregatesByAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := newStoryService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	follow(t, db, viewer.ID, alice.ID)
	follow(t, db, viewer.ID, bob.ID)

	seedStory(t, db, viewer.ID, time.Hour)
	seedStory(t, db, alice.ID, 2*time.Hour)
	aliceLatest := seedStory(t, db, alice.ID, time.Hour)
	bobStory := seedStory(t, db, bob.ID, 30*time.Minute)
	// 过期故事不出现
	seedStory(t, db, bob.ID, 25*time.Hour)

	require.NoError(t, svc.MarkSeen(ctx, viewer.ID, bobStory.ID))

	feed, err := svc.Feed(ctx, viewer.ID)
	require.NoError(t, err)

	require.NotNil(t, feed.Me)
	assert.True(t, feed.Me.IsMe)
	assert.False(t, feed.Me.HasUnseen)

	require.Len(t, feed.Others, 2)
	// 未看的 alice 排在已看完的 bob 前面
	assert.Equal(t, alice.ID, feed.Others[0].UserID)
	assert.True(t, feed.Others[0].HasUnseen)
	assert.Equal(t, aliceLatest.MediaURL, feed.Others[0].StoryURL)
	assert.Equal(t, bob.ID, feed.Others[1].UserID)
	assert.False(t, feed.Others[1].HasUnseen)
}

func TestUserStories_ExpiredInvisible(t *testing.T) {
	db := setupTestDB(t)
	svc := newStoryService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	alice := seedUser(t, db, "alice")
	active := seedStory(t, db, alice.ID, time.Hour)
	seedStory(t, db, alice.ID, 25*time.Hour)

	list, err := svc.UserStories(ctx, viewer.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)
	assert.False(t, list[0].IsSeen)

	require.NoError(t, svc.MarkSeen(ctx, viewer.ID, active.ID))
	list, err = svc.UserStories(ctx, viewer.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, list[0].IsSeen)
}

func TestStoryMarkSeen_IdempotentAndSelfSkip(t *testing.T) {
	db := setupTestDB(t)
	svc := newStoryService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	alice := seedUser(t, db, "alice")
	st := seedStory(t, db, alice.ID, time.Hour)

	require.NoError(t, svc.MarkSeen(ctx, viewer.ID, st.ID))
	require.NoError(t, svc.MarkSeen(ctx, viewer.ID, st.ID))
	// 作者自己看不记录
	require.NoError(t, svc.MarkSeen(ctx, alice.ID, st.ID))

	var n int64
	db.Model(&model.StoryView{}).Where("story_id = ?", st.ID).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestStoryToggleLike_OwnForbidden(t *testing.T) {
	db := setupTestDB(t)
	svc := newStoryService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	alice := seedUser(t, db, "alice")
	st := seedStory(t, db, alice.ID, time.Hour)

	_, err := svc.ToggleLike(ctx, alice.ID, st.ID)
	assert.ErrorIs(t, err, ErrOwnStory)

	liked, err := svc.ToggleLike(ctx, viewer.ID, st.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = svc.ToggleLike(ctx, viewer.ID, st.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestStoryReplyAndShare(t *testing.T) {
	db := setupTestDB(t)
	svc := newStoryService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	alice := seedUser(t, db, "alice")
	st := seedStory(t, db, alice.ID, time.Hour)

	_, err := svc.Reply(ctx, viewer.ID, st.ID, "  ")
	assert.ErrorIs(t, err, ErrEmptyReply)
	_, err = svc.Reply(ctx, alice.ID, st.ID, "hi me")
	assert.ErrorIs(t, err, ErrOwnStory)

	reply, err := svc.Reply(ctx, viewer.ID, st.ID, "nice")
	require.NoError(t, err)
	assert.NotEmpty(t, reply.ID)

	// 分享每人只记一条边
	require.NoError(t, svc.Share(ctx, viewer.ID, st.ID))
	require.NoError(t, svc.Share(ctx, viewer.ID, st.ID))
	var n int64
	db.Model(&model.StoryShare{}).Where("story_id = ?", st.ID).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestStoryViews_OwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newStoryService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	alice := seedUser(t, db, "alice")
	st := seedStory(t, db, alice.ID, time.Hour)

	require.NoError(t, svc.MarkSeen(ctx, viewer.ID, st.ID))

	_, err := svc.Views(ctx, viewer.ID, st.ID)
	assert.ErrorIs(t, err, ErrNotStoryOwner)

	views, err := svc.Views(ctx, alice.ID, st.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, viewer.ID, views[0].UserID)
}

func TestStoryActions_ExpiredNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newStoryService(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	alice := seedUser(t, db, "alice")
	gone := seedStory(t, db, alice.ID, 25*time.Hour)

	assert.ErrorIs(t, svc.MarkSeen(ctx, viewer.ID, gone.ID), ErrStoryNotFound)
	_, err := svc.ToggleLike(ctx, viewer.ID, gone.ID)
	assert.ErrorIs(t, err, ErrStoryNotFound)
	_, err = svc.Reply(ctx, viewer.ID, gone.ID, "late")
	assert.ErrorIs(t, err, ErrStoryNotFound)
}
