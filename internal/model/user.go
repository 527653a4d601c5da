package model

import "time"

// User 用户
type User struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username   string    `json:"username" gorm:"type:varchar(32);uniqueIndex;not null"`
	Name       string    `json:"name" gorm:"type:varchar(64)"`
	Bio        string    `json:"bio" gorm:"type:varchar(255)"`
	ProfilePic string    `json:"profile_pic" gorm:"type:varchar(255)"`
	Password   string    `json:"-" gorm:"type:varchar(128);not null"`
	Points     int64     `json:"points" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

// PublicProfile 对外展示的字段子集
type PublicProfile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	ProfilePic string `json:"profile_pic"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, Username: u.Username, Name: u.Name, ProfilePic: u.ProfilePic}
}
