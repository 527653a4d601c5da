package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/reelzy/backend/internal/model"
)

// Counter 列名常量
const (
	CounterLikes    = "likes_count"
	CounterComments = "comments_count"
	CounterShares   = "shares_count"
	CounterViews    = "views_count"
)

var counterColumns = map[string]bool{
	CounterLikes:    true,
	CounterComments: true,
	CounterShares:   true,
	CounterViews:    true,
}

type ContentRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	CreateReel(ctx context.Context, reel *model.Reel) error
	GetPost(ctx context.Context, id string) (*model.Post, error)
	GetReel(ctx context.Context, id string) (*model.Reel, error)
	Exists(ctx context.Context, contentType model.ContentType, id string) (bool, error)
	// Increment 相对增量，计数永不为负
	Increment(ctx context.Context, contentType model.ContentType, id, column string) error
	Decrement(ctx context.Context, contentType model.ContentType, id, column string) error
	ListPostsByUser(ctx context.Context, userID string, limit int) ([]*model.Post, error)
	ListReelsByUser(ctx context.Context, userID string, limit int) ([]*model.Reel, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type contentRepository struct{ db *gorm.DB }

func NewContentRepository(db *gorm.DB) ContentRepository { return &contentRepository{db: db} }

func (r *contentRepository) CreatePost(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *contentRepository) CreateReel(ctx context.Context, reel *model.Reel) error {
	return r.db.WithContext(ctx).Create(reel).Error
}

func (r *contentRepository) GetPost(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *contentRepository) GetReel(ctx context.Context, id string) (*model.Reel, error) {
	var reel model.Reel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reel, nil
}

func (r *contentRepository) Exists(ctx context.Context, contentType model.ContentType, id string) (bool, error) {
	var cnt int64
	err := r.model(contentType).WithContext(ctx).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

func (r *contentRepository) Increment(ctx context.Context, contentType model.ContentType, id, column string) error {
	if !counterColumns[column] {
		return fmt.Errorf("unknown counter column %q", column)
	}
	return r.model(contentType).WithContext(ctx).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
}

// Decrement 下限为 0，CASE WHEN 写法同时兼容 postgres 与 sqlite
func (r *contentRepository) Decrement(ctx context.Context, contentType model.ContentType, id, column string) error {
	if !counterColumns[column] {
		return fmt.Errorf("unknown counter column %q", column)
	}
	expr := fmt.Sprintf("CASE WHEN %s > 0 THEN %s - 1 ELSE 0 END", column, column)
	return r.model(contentType).WithContext(ctx).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(expr)).Error
}

func (r *contentRepository) ListPostsByUser(ctx context.Context, userID string, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&posts).Error
	return posts, err
}

func (r *contentRepository) ListReelsByUser(ctx context.Context, userID string, limit int) ([]*model.Reel, error) {
	var reels []*model.Reel
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&reels).Error
	return reels, err
}

// CountByUser posts + reels 总数
func (r *contentRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var posts, reels int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Where("user_id = ?", userID).Count(&posts).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Reel{}).Where("user_id = ?", userID).Count(&reels).Error; err != nil {
		return 0, err
	}
	return posts + reels, nil
}

func (r *contentRepository) model(contentType model.ContentType) *gorm.DB {
	if contentType == model.ContentPost {
		return r.db.Model(&model.Post{})
	}
	return r.db.Model(&model.Reel{})
}
