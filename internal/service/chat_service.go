package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/reelzy/backend/internal/model"
	"github.com/reelzy/backend/internal/repository"
)

var (
	ErrSelfChat        = errors.New("cannot message yourself")
	ErrEmptyMessage    = errors.New("message required")
	ErrNotParticipant  = errors.New("not a participant of this chat")
	ErrUserNotFound    = errors.New("user not found")
	ErrMessageNotFound = errors.New("message not found")
)

// SendInput 发送消息入参
type SendInput struct {
	ReceiverID string
	Type       model.MessageType
	Body       string
	MediaURL   string
	Duration   int
}

// InboxEntry 收件箱一行：对方快照 + 最近一条消息 + 实时未读数
type InboxEntry struct {
	ChatID      string              `json:"chat_id"`
	Other       model.PublicProfile `json:"other_user"`
	LastMessage *model.Message      `json:"last_message"`
	Unread      int64               `json:"unread"`
	LastActive  time.Time           `json:"last_active"`
}

// ChatService 会话聚合：会话 ID 为无序用户对的纯函数，未读数实时聚合
type ChatService interface {
	GetOrCreate(ctx context.Context, userA, userB string) (*model.Chat, error)
	Send(ctx context.Context, senderID string, in SendInput) (*model.Message, error)
	Inbox(ctx context.Context, viewerID string) ([]*InboxEntry, error)
	// History 按时间升序返回消息并顺带置已读（与移动端打开会话的行为一致）
	History(ctx context.Context, viewerID, chatID string) ([]*model.Message, error)
	MarkSeen(ctx context.Context, viewerID, counterpartID string) error
	React(ctx context.Context, viewerID, messageID string, reaction string) error
}

type chatService struct {
	chats repository.ChatRepository
	users repository.UserRepository
}

func NewChatService(chats repository.ChatRepository, users repository.UserRepository) ChatService {
	return &chatService{chats: chats, users: users}
}

func (s *chatService) GetOrCreate(ctx context.Context, userA, userB string) (*model.Chat, error) {
	if userA == userB {
		return nil, ErrSelfChat
	}
	if _, err := s.users.GetByID(ctx, userB); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.chats.GetOrCreate(ctx, userA, userB)
}

func (s *chatService) Send(ctx context.Context, senderID string, in SendInput) (*model.Message, error) {
	if senderID == in.ReceiverID {
		return nil, ErrSelfChat
	}
	if in.Type == "" {
		in.Type = model.MessageText
	}
	if in.Type == model.MessageText && strings.TrimSpace(in.Body) == "" {
		return nil, ErrEmptyMessage
	}
	if in.Type == model.MessageMedia && in.MediaURL == "" {
		return nil, ErrEmptyMessage
	}
	chat, err := s.GetOrCreate(ctx, senderID, in.ReceiverID)
	if err != nil {
		return nil, err
	}
	msg := &model.Message{
		ChatID:     chat.ID,
		SenderID:   senderID,
		ReceiverID: in.ReceiverID,
		Type:       in.Type,
		Body:       in.Body,
		MediaURL:   in.MediaURL,
		Duration:   in.Duration,
	}
	if err := s.chats.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *chatService) Inbox(ctx context.Context, viewerID string) ([]*InboxEntry, error) {
	chats, err := s.chats.ChatsOf(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	entries := make([]*InboxEntry, 0, len(chats))
	otherIDs := make([]string, 0, len(chats))
	for _, c := range chats {
		otherIDs = append(otherIDs, c.Other(viewerID))
	}
	others, err := s.users.GetMany(ctx, otherIDs)
	if err != nil {
		return nil, err
	}
	for _, c := range chats {
		other, ok := others[c.Other(viewerID)]
		if !ok {
			continue
		}
		entry := &InboxEntry{ChatID: c.ID, Other: other.Public(), LastActive: c.CreatedAt}
		last, err := s.chats.LastMessage(ctx, c.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if last != nil {
			entry.LastMessage = last
			entry.LastActive = last.CreatedAt
		}
		unread, err := s.chats.UnreadCount(ctx, c.ID, viewerID)
		if err != nil {
			return nil, err
		}
		entry.Unread = unread
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastActive.After(entries[j].LastActive)
	})
	return entries, nil
}

func (s *chatService) History(ctx context.Context, viewerID, chatID string) ([]*model.Message, error) {
	chat, err := s.chats.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if chat.User1ID != viewerID && chat.User2ID != viewerID {
		return nil, ErrNotParticipant
	}
	if err := s.chats.MarkSeen(ctx, chatID, viewerID); err != nil {
		return nil, err
	}
	return s.chats.ListMessages(ctx, chatID)
}

func (s *chatService) MarkSeen(ctx context.Context, viewerID, counterpartID string) error {
	return s.chats.MarkSeen(ctx, model.ChatID(viewerID, counterpartID), viewerID)
}

// React 覆盖式写入，最后写入者生效
func (s *chatService) React(ctx context.Context, viewerID, messageID string, reaction string) error {
	msg, err := s.chats.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if msg.SenderID != viewerID && msg.ReceiverID != viewerID {
		return ErrNotParticipant
	}
	var val *string
	if reaction != "" {
		val = &reaction
	}
	return s.chats.SetReaction(ctx, messageID, val)
}
