package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reelzy/backend/internal/model"
)

type RepostRepository interface {
	Create(ctx context.Context, userID string, contentType model.ContentType, contentID string) (bool, error)
	Delete(ctx context.Context, userID string, contentType model.ContentType, contentID string) (bool, error)
	CountForContent(ctx context.Context, contentType model.ContentType, contentID string) (int64, error)
}

type repostRepository struct{ db *gorm.DB }

func NewRepostRepository(db *gorm.DB) RepostRepository { return &repostRepository{db: db} }

func (r *repostRepository) Create(ctx context.Context, userID string, contentType model.ContentType, contentID string) (bool, error) {
	rp := &model.Repost{ID: uuid.New().String(), UserID: userID, ContentType: contentType, ContentID: contentID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rp)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repostRepository) Delete(ctx context.Context, userID string, contentType model.ContentType, contentID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND content_type = ? AND content_id = ?", userID, contentType, contentID).
		Delete(&model.Repost{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repostRepository) CountForContent(ctx context.Context, contentType model.ContentType, contentID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Repost{}).
		Where("content_type = ? AND content_id = ?", contentType, contentID).
		Count(&cnt).Error
	return cnt, err
}
