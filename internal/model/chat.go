package model

import (
	"strings"
	"time"
)

// Chat 两人会话，主键由无序用户对推导，天然唯一
type Chat struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(80)"`
	User1ID   string    `json:"user1_id" gorm:"type:varchar(36);index:idx_chat_user1;not null"` // = min(a,b)
	User2ID   string    `json:"user2_id" gorm:"type:varchar(36);index:idx_chat_user2;not null"` // = max(a,b)
	CreatedAt time.Time `json:"created_at"`
}

func (Chat) TableName() string { return "chats" }

// ChatID 由无序用户对推导会话 ID：min_max，对参数顺序不敏感
func ChatID(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "_" + b
}

// Other 返回会话中对方的用户 ID
func (c *Chat) Other(userID string) string {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// MessageType 消息类型
type MessageType string

const (
	MessageText  MessageType = "text"
	MessageMedia MessageType = "media"
)

// Message 消息，落库后仅 seen / reaction 可变
type Message struct {
	ID         string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ChatID     string      `json:"chat_id" gorm:"type:varchar(80);index:idx_message_chat;not null"`
	SenderID   string      `json:"sender_id" gorm:"type:varchar(36);not null"`
	ReceiverID string      `json:"receiver_id" gorm:"type:varchar(36);index:idx_message_receiver;not null"`
	Type       MessageType `json:"type" gorm:"type:varchar(8);not null;default:text"`
	Body       string      `json:"body" gorm:"type:text"`
	MediaURL   string      `json:"media_url" gorm:"type:varchar(255)"`
	Duration   int         `json:"duration"` // 秒，音视频消息
	Reaction   *string     `json:"reaction" gorm:"type:varchar(16)"`
	Seen       bool        `json:"seen" gorm:"not null;default:false;index:idx_message_unseen"`
	CreatedAt  time.Time   `json:"created_at" gorm:"index"`
}

func (Message) TableName() string { return "messages" }
