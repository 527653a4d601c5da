package model

import "time"

// StoryTTL 故事有效期
const StoryTTL = 24 * time.Hour

// Story 24 小时后对读取不可见（核心逻辑不做物理删除）
type Story struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index:idx_story_owner;not null"`
	MediaURL  string    `json:"media_url" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
}

func (Story) TableName() string { return "stories" }

// StoryView 观看边，幂等
// ux_story_view = (story_id, user_id)
type StoryView struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	StoryID   string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_story_view;index:idx_story_view_story"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_story_view"`
	CreatedAt time.Time
}

func (StoryView) TableName() string { return "story_views" }

// StoryLike 点赞边，禁止自赞
type StoryLike struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	StoryID   string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_story_like"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_story_like"`
	CreatedAt time.Time
}

func (StoryLike) TableName() string { return "story_likes" }

// StoryShare 分享边，每人一条
type StoryShare struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	StoryID   string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_story_share"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_story_share"`
	CreatedAt time.Time
}

func (StoryShare) TableName() string { return "story_shares" }

// StoryReply 回复（只增）
type StoryReply struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	StoryID   string    `json:"story_id" gorm:"type:varchar(36);not null;index"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (StoryReply) TableName() string { return "story_replies" }
