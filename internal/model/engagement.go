package model

import "time"

// EngagementKind 互动类型
type EngagementKind string

const (
	EngagementLike EngagementKind = "like"
	EngagementSave EngagementKind = "save"
	EngagementView EngagementKind = "view"
)

// Engagement 互动边 (user, content, kind) 唯一
// ux_engagement_edge = (user_id, content_type, content_id, kind)
type Engagement struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)"`
	UserID      string         `gorm:"type:varchar(36);not null;uniqueIndex:ux_engagement_edge;index:idx_engagement_user"`
	ContentType ContentType    `gorm:"type:varchar(8);not null;uniqueIndex:ux_engagement_edge"`
	ContentID   string         `gorm:"type:varchar(36);not null;uniqueIndex:ux_engagement_edge;index:idx_engagement_content"`
	Kind        EngagementKind `gorm:"type:varchar(8);not null;uniqueIndex:ux_engagement_edge"`
	WatchTime   int            `gorm:"not null;default:0"` // 秒，仅 view 使用
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Engagement) TableName() string { return "engagements" }

// Comment 评论（只增不改）
type Comment struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string      `json:"user_id" gorm:"type:varchar(36);not null;index"`
	ContentType ContentType `json:"content_type" gorm:"type:varchar(8);not null;index:idx_comment_content"`
	ContentID   string      `json:"content_id" gorm:"type:varchar(36);not null;index:idx_comment_content"`
	Text        string      `json:"text" gorm:"type:text;not null"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (Comment) TableName() string { return "comments" }

// Repost 转发边 (user, content) 唯一
type Repost struct {
	ID          string      `gorm:"primaryKey;type:varchar(36)"`
	UserID      string      `gorm:"type:varchar(36);not null;uniqueIndex:ux_repost_edge"`
	ContentType ContentType `gorm:"type:varchar(8);not null;uniqueIndex:ux_repost_edge"`
	ContentID   string      `gorm:"type:varchar(36);not null;uniqueIndex:ux_repost_edge;index:idx_repost_content"`
	CreatedAt   time.Time
}

func (Repost) TableName() string { return "reposts" }
