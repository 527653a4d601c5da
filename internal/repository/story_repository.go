package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reelzy/backend/internal/model"
)

// StoryWithOwner 故事行 + 作者快照（feed 聚合用）
type StoryWithOwner struct {
	model.Story
	Username   string `json:"username"`
	ProfilePic string `json:"profile_pic"`
}

// StoryViewer 观看者行（仅作者可见）
type StoryViewer struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	ProfilePic string    `json:"profile_pic"`
	ViewedAt   time.Time `json:"viewed_at"`
}

type StoryRepository interface {
	Create(ctx context.Context, story *model.Story) error
	Get(ctx context.Context, id string) (*model.Story, error)
	// ActiveByOwner 只返回 expires_at > now 的故事
	ActiveByOwner(ctx context.Context, ownerID string, now time.Time) ([]*model.Story, error)
	ActiveOfFollowed(ctx context.Context, viewerID string, now time.Time) ([]*StoryWithOwner, error)
	HasActiveStory(ctx context.Context, ownerID string, now time.Time) (bool, error)
	// SeenIDs viewer 已看过的故事 ID 集合
	SeenIDs(ctx context.Context, viewerID string, storyIDs []string) (map[string]bool, error)
	InsertView(ctx context.Context, viewerID, storyID string) error
	InsertLike(ctx context.Context, userID, storyID string) (bool, error)
	DeleteLike(ctx context.Context, userID, storyID string) (bool, error)
	InsertShare(ctx context.Context, userID, storyID string) error
	InsertReply(ctx context.Context, reply *model.StoryReply) error
	Viewers(ctx context.Context, storyID string) ([]*StoryViewer, error)
}

type storyRepository struct{ db *gorm.DB }

func NewStoryRepository(db *gorm.DB) StoryRepository { return &storyRepository{db: db} }

func (r *storyRepository) Create(ctx context.Context, story *model.Story) error {
	if story.ID == "" {
		story.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(story).Error
}

func (r *storyRepository) Get(ctx context.Context, id string) (*model.Story, error) {
	var s model.Story
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *storyRepository) ActiveByOwner(ctx context.Context, ownerID string, now time.Time) ([]*model.Story, error) {
	var res []*model.Story
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", ownerID, now).
		Order("created_at ASC").
		Find(&res).Error
	return res, err
}

func (r *storyRepository) ActiveOfFollowed(ctx context.Context, viewerID string, now time.Time) ([]*StoryWithOwner, error) {
	var rows []*StoryWithOwner
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.id, s.user_id, s.media_url, s.created_at, s.expires_at,
			   u.username, u.profile_pic
		FROM stories s
		JOIN users u ON u.id = s.user_id
		WHERE s.expires_at > ?
		  AND s.user_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)
		ORDER BY s.user_id, s.created_at ASC
	`, now, viewerID).Scan(&rows).Error
	return rows, err
}

func (r *storyRepository) HasActiveStory(ctx context.Context, ownerID string, now time.Time) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Story{}).
		Where("user_id = ? AND expires_at > ?", ownerID, now).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *storyRepository) SeenIDs(ctx context.Context, viewerID string, storyIDs []string) (map[string]bool, error) {
	seen := make(map[string]bool, len(storyIDs))
	if len(storyIDs) == 0 {
		return seen, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.StoryView{}).
		Where("user_id = ? AND story_id IN ?", viewerID, storyIDs).
		Pluck("story_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		seen[id] = true
	}
	return seen, nil
}

func (r *storyRepository) InsertView(ctx context.Context, viewerID, storyID string) error {
	v := &model.StoryView{ID: uuid.New().String(), StoryID: storyID, UserID: viewerID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(v).Error
}

func (r *storyRepository) InsertLike(ctx context.Context, userID, storyID string) (bool, error) {
	l := &model.StoryLike{ID: uuid.New().String(), StoryID: storyID, UserID: userID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *storyRepository) DeleteLike(ctx context.Context, userID, storyID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Delete(&model.StoryLike{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *storyRepository) InsertShare(ctx context.Context, userID, storyID string) error {
	s := &model.StoryShare{ID: uuid.New().String(), StoryID: storyID, UserID: userID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(s).Error
}

func (r *storyRepository) InsertReply(ctx context.Context, reply *model.StoryReply) error {
	if reply.ID == "" {
		reply.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *storyRepository) Viewers(ctx context.Context, storyID string) ([]*StoryViewer, error) {
	var rows []*StoryViewer
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id AS user_id, u.username, u.profile_pic, sv.created_at AS viewed_at
		FROM story_views sv
		JOIN users u ON u.id = sv.user_id
		WHERE sv.story_id = ?
		ORDER BY sv.created_at DESC
	`, storyID).Scan(&rows).Error
	return rows, err
}
