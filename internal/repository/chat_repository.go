package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reelzy/backend/internal/model"
)

type ChatRepository interface {
	// GetOrCreate 按无序用户对取会话；并发首聊靠主键冲突收敛到同一行
	GetOrCreate(ctx context.Context, userA, userB string) (*model.Chat, error)
	Get(ctx context.Context, chatID string) (*model.Chat, error)
	ChatsOf(ctx context.Context, userID string) ([]*model.Chat, error)
	AppendMessage(ctx context.Context, msg *model.Message) error
	GetMessage(ctx context.Context, id string) (*model.Message, error)
	ListMessages(ctx context.Context, chatID string) ([]*model.Message, error)
	// LastMessage created_at 倒序，平局按 id 倒序
	LastMessage(ctx context.Context, chatID string) (*model.Message, error)
	// UnreadCount 实时聚合，不落计数列
	UnreadCount(ctx context.Context, chatID, viewerID string) (int64, error)
	MarkSeen(ctx context.Context, chatID, viewerID string) error
	SetReaction(ctx context.Context, messageID string, reaction *string) error
}

type chatRepository struct{ db *gorm.DB }

func NewChatRepository(db *gorm.DB) ChatRepository { return &chatRepository{db: db} }

func (r *chatRepository) GetOrCreate(ctx context.Context, userA, userB string) (*model.Chat, error) {
	u1, u2 := userA, userB
	if u1 > u2 {
		u1, u2 = u2, u1
	}
	c := &model.Chat{ID: model.ChatID(userA, userB), User1ID: u1, User2ID: u2}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(c).Error; err != nil {
		return nil, err
	}
	// 冲突时读回已有行，保证 created_at 一致
	var out model.Chat
	if err := r.db.WithContext(ctx).Where("id = ?", c.ID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *chatRepository) Get(ctx context.Context, chatID string) (*model.Chat, error) {
	var c model.Chat
	if err := r.db.WithContext(ctx).Where("id = ?", chatID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *chatRepository) ChatsOf(ctx context.Context, userID string) ([]*model.Chat, error) {
	var res []*model.Chat
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Find(&res).Error
	return res, err
}

func (r *chatRepository) AppendMessage(ctx context.Context, msg *model.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *chatRepository) GetMessage(ctx context.Context, id string) (*model.Message, error) {
	var m model.Message
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID string) ([]*model.Message, error) {
	var res []*model.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&res).Error
	return res, err
}

func (r *chatRepository) LastMessage(ctx context.Context, chatID string) (*model.Message, error) {
	var m model.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC, id DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *chatRepository) UnreadCount(ctx context.Context, chatID, viewerID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("chat_id = ? AND receiver_id = ? AND seen = ?", chatID, viewerID, false).
		Count(&cnt).Error
	return cnt, err
}

func (r *chatRepository) MarkSeen(ctx context.Context, chatID, viewerID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("chat_id = ? AND receiver_id = ? AND seen = ?", chatID, viewerID, false).
		UpdateColumn("seen", true).Error
}

func (r *chatRepository) SetReaction(ctx context.Context, messageID string, reaction *string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ?", messageID).
		UpdateColumn("reaction", reaction)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
