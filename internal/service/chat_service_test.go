package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/reelzy/backend/internal/model"
	"github.com/reelzy/backend/internal/repository"
)

func newChatService(db *gorm.DB) ChatService {
	return NewChatService(repository.NewChatRepository(db), repository.NewUserRepository(db))
}

func TestChatID_OrderIndependent(t *testing.T) {
	assert.Equal(t, model.ChatID("a", "b"), model.ChatID("b", "a"))
	assert.Equal(t, "a_b", model.ChatID("b", "a"))
}

func TestGetOrCreate_SingleChatPerPair(t *testing.T) {
	db := setupTestDB(t)
	svc := newChatService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	c1, err := svc.GetOrCreate(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	c2, err := svc.GetOrCreate(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, c1.ID, c2.ID)

	var n int64
	db.Model(&model.Chat{}).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestGetOrCreate_Rejections(t *testing.T) {
	db := setupTestDB(t)
	svc := newChatService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")

	_, err := svc.GetOrCreate(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfChat)

	_, err = svc.GetOrCreate(ctx, alice.ID, "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSend_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := newChatService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.Send(ctx, alice.ID, SendInput{ReceiverID: bob.ID, Body: "  "})
	assert.ErrorIs(t, err, ErrEmptyMessage)

	msg, err := svc.Send(ctx, alice.ID, SendInput{ReceiverID: bob.ID, Body: "hey"})
	require.NoError(t, err)
	assert.Equal(t, model.MessageText, msg.Type)
	assert.Equal(t, model.ChatID(alice.ID, bob.ID), msg.ChatID)
}

func TestInbox_UnreadAndOrdering(t *testing.T) {
	db := setupTestDB(t)
	svc := newChatService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := svc.Send(ctx, bob.ID, SendInput{ReceiverID: alice.ID, Body: "from bob"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, bob.ID, SendInput{ReceiverID: alice.ID, Body: "again"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, carol.ID, SendInput{ReceiverID: alice.ID, Body: "from carol"})
	require.NoError(t, err)

	entries, err := svc.Inbox(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// carol 的会话更新，排在前面
	assert.Equal(t, carol.ID, entries[0].Other.ID)
	assert.Equal(t, int64(1), entries[0].Unread)
	assert.Equal(t, bob.ID, entries[1].Other.ID)
	assert.Equal(t, int64(2), entries[1].Unread)
	assert.Equal(t, "again", entries[1].LastMessage.Body)

	// 打开会话后未读清零
	_, err = svc.History(ctx, alice.ID, model.ChatID(alice.ID, bob.ID))
	require.NoError(t, err)

	entries, err = svc.Inbox(ctx, alice.ID)
	require.NoError(t, err)
	for _, e := range entries {
		if e.Other.ID == bob.ID {
			assert.Equal(t, int64(0), e.Unread)
		}
	}
}

func TestHistory_ParticipantOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newChatService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	eve := seedUser(t, db, "eve")

	_, err := svc.Send(ctx, alice.ID, SendInput{ReceiverID: bob.ID, Body: "secret"})
	require.NoError(t, err)

	chatID := model.ChatID(alice.ID, bob.ID)
	_, err = svc.History(ctx, eve.ID, chatID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	msgs, err := svc.History(ctx, bob.ID, chatID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Seen)
}

func TestReact(t *testing.T) {
	db := setupTestDB(t)
	svc := newChatService(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	eve := seedUser(t, db, "eve")

	msg, err := svc.Send(ctx, alice.ID, SendInput{ReceiverID: bob.ID, Body: "hi"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.React(ctx, eve.ID, msg.ID, "❤️"), ErrNotParticipant)
	assert.ErrorIs(t, svc.React(ctx, bob.ID, "missing", "❤️"), ErrMessageNotFound)

	require.NoError(t, svc.React(ctx, bob.ID, msg.ID, "❤️"))
	var got model.Message
	require.NoError(t, db.First(&got, "id = ?", msg.ID).Error)
	require.NotNil(t, got.Reaction)
	assert.Equal(t, "❤️", *got.Reaction)

	// 空反应表示撤销
	require.NoError(t, svc.React(ctx, bob.ID, msg.ID, ""))
	require.NoError(t, db.First(&got, "id = ?", msg.ID).Error)
	assert.Nil(t, got.Reaction)
}
