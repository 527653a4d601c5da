package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reelzy/backend/internal/model"
)

type EngagementRepository interface {
	// Insert 幂等插入，返回是否新插入（唯一键冲突时为 false）
	Insert(ctx context.Context, userID string, contentType model.ContentType, contentID string, kind model.EngagementKind, watchTime int) (bool, error)
	// Delete 返回是否真的删除了一条边
	Delete(ctx context.Context, userID string, contentType model.ContentType, contentID string, kind model.EngagementKind) (bool, error)
	Exists(ctx context.Context, userID string, contentType model.ContentType, contentID string, kind model.EngagementKind) (bool, error)
	// RaiseWatchTime watch_time = max(old, new)，只增不减
	RaiseWatchTime(ctx context.Context, userID string, reelID string, watchTime int) error
	CreateComment(ctx context.Context, comment *model.Comment) error
	ListComments(ctx context.Context, contentType model.ContentType, contentID string, offset, limit int) ([]*model.Comment, error)
	SavedPostIDs(ctx context.Context, userID string) ([]string, error)
}

type engagementRepository struct{ db *gorm.DB }

func NewEngagementRepository(db *gorm.DB) EngagementRepository { return &engagementRepository{db: db} }

func (r *engagementRepository) Insert(ctx context.Context, userID string, contentType model.ContentType, contentID string, kind model.EngagementKind, watchTime int) (bool, error) {
	e := &model.Engagement{
		ID:          uuid.New().String(),
		UserID:      userID,
		ContentType: contentType,
		ContentID:   contentID,
		Kind:        kind,
		WatchTime:   watchTime,
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *engagementRepository) Delete(ctx context.Context, userID string, contentType model.ContentType, contentID string, kind model.EngagementKind) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND content_type = ? AND content_id = ? AND kind = ?", userID, contentType, contentID, kind).
		Delete(&model.Engagement{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *engagementRepository) Exists(ctx context.Context, userID string, contentType model.ContentType, contentID string, kind model.EngagementKind) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Engagement{}).
		Where("user_id = ? AND content_type = ? AND content_id = ? AND kind = ?", userID, contentType, contentID, kind).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *engagementRepository) RaiseWatchTime(ctx context.Context, userID string, reelID string, watchTime int) error {
	return r.db.WithContext(ctx).
		Model(&model.Engagement{}).
		Where("user_id = ? AND content_type = ? AND content_id = ? AND kind = ?", userID, model.ContentReel, reelID, model.EngagementView).
		UpdateColumn("watch_time", gorm.Expr("CASE WHEN watch_time > ? THEN watch_time ELSE ? END", watchTime, watchTime)).Error
}

func (r *engagementRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *engagementRepository) ListComments(ctx context.Context, contentType model.ContentType, contentID string, offset, limit int) ([]*model.Comment, error) {
	var res []*model.Comment
	err := r.db.WithContext(ctx).
		Where("content_type = ? AND content_id = ?", contentType, contentID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *engagementRepository) SavedPostIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Engagement{}).
		Where("user_id = ? AND content_type = ? AND kind = ?", userID, model.ContentPost, model.EngagementSave).
		Order("created_at DESC").
		Pluck("content_id", &ids).Error
	return ids, err
}
