package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/reelzy/backend/internal/model"
	"github.com/reelzy/backend/internal/repository"
)

func newProfileService(db *gorm.DB) ProfileService {
	return NewProfileService(
		repository.NewUserRepository(db),
		repository.NewContentRepository(db),
		repository.NewFollowRepository(db),
		repository.NewStoryRepository(db),
		repository.NewEngagementRepository(db),
	)
}

func TestProfileGet(t *testing.T) {
	db := setupTestDB(t)
	svc := newProfileService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	viewer := seedUser(t, db, "viewer")
	follow(t, db, viewer.ID, alice.ID)

	seedPost(t, db, alice.ID)
	seedReel(t, db, alice.ID)
	seedStory(t, db, alice.ID, time.Hour)

	p, err := svc.Get(ctx, viewer.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	// posts_count 统计 post + reel
	assert.Equal(t, int64(2), p.PostsCount)
	assert.Equal(t, int64(1), p.FollowersCount)
	assert.True(t, p.IsFollowing)
	assert.True(t, p.HasStory)
	assert.Len(t, p.Posts, 1)
	assert.Len(t, p.Reels, 1)

	// 自己看自己没有 is_following 语义
	mine, err := svc.Get(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, mine.IsFollowing)

	_, err = svc.Get(ctx, viewer.ID, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSavedPosts(t *testing.T) {
	db := setupTestDB(t)
	svc := newProfileService(db)
	engSvc := newEngagementService(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	p1 := seedPost(t, db, owner.ID)
	p2 := seedPost(t, db, owner.ID)

	_, err := engSvc.ToggleSave(ctx, viewer.ID, model.ContentPost, p1.ID)
	require.NoError(t, err)
	_, err = engSvc.ToggleSave(ctx, viewer.ID, model.ContentPost, p2.ID)
	require.NoError(t, err)
	// 取消收藏 p2
	_, err = engSvc.ToggleSave(ctx, viewer.ID, model.ContentPost, p2.ID)
	require.NoError(t, err)

	saved, err := svc.SavedPosts(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, p1.ID, saved[0].ID)
}
