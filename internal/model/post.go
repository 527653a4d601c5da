package model

import "time"

// ContentType 内容类型（post / reel）
type ContentType string

const (
	ContentPost ContentType = "post"
	ContentReel ContentType = "reel"
)

// Post 图文内容
type Post struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string    `json:"user_id" gorm:"type:varchar(36);index:idx_post_author;not null"`
	ImageURL      string    `json:"image_url" gorm:"type:varchar(255);not null"`
	Caption       string    `json:"caption" gorm:"type:text"`
	LikesCount    int64     `json:"likes_count" gorm:"not null;default:0"`
	CommentsCount int64     `json:"comments_count" gorm:"not null;default:0"`
	SharesCount   int64     `json:"shares_count" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time `json:"-"`
}

func (Post) TableName() string { return "posts" }
