package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelzy/backend/internal/repository"
)

func TestFollowUnfollow_CountsAndReplication(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	fanRepo := repository.NewFanRepository(db)
	replicator := NewFanReplicator(fanRepo, 100)
	stop := replicator.Start(1)
	defer stop(context.Background())

	svc := NewRelationshipService(
		repository.NewFollowRepository(db),
		fanRepo,
		repository.NewUserRepository(db),
		replicator,
	)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.Follow(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrFollowSelf)
	_, err = svc.Follow(ctx, alice.ID, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	counts, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Followers)

	// 重复关注幂等
	counts, err = svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Followers)

	ok, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// fans 冗余异步落表
	require.Eventually(t, func() bool {
		fans, err := fanRepo.FanIDs(ctx, bob.ID)
		return err == nil && len(fans) == 1
	}, 2*time.Second, 10*time.Millisecond)

	counts, err = svc.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.Followers)

	require.Eventually(t, func() bool {
		fans, err := fanRepo.FanIDs(ctx, bob.ID)
		return err == nil && len(fans) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
