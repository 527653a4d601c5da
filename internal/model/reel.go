package model

import "time"

// Reel 短视频内容
type Reel struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string    `json:"user_id" gorm:"type:varchar(36);index:idx_reel_author;not null"`
	VideoURL      string    `json:"video_url" gorm:"type:varchar(255);not null"`
	Caption       string    `json:"caption" gorm:"type:text"`
	Category      string    `json:"category" gorm:"type:varchar(32)"`
	Length        int       `json:"length"` // 秒
	LikesCount    int64     `json:"likes_count" gorm:"not null;default:0"`
	CommentsCount int64     `json:"comments_count" gorm:"not null;default:0"`
	SharesCount   int64     `json:"shares_count" gorm:"not null;default:0"`
	ViewsCount    int64     `json:"views_count" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time `json:"-"`
}

func (Reel) TableName() string { return "reels" }
