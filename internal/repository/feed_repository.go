package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/reelzy/backend/internal/model"
)

// FeedCandidate 候选内容行，排序交给 ranking 包在内存中完成
type FeedCandidate struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	Username      string            `json:"username"`
	Type          model.ContentType `json:"type"`
	MediaURL      string            `json:"media_url"`
	Caption       string            `json:"caption"`
	LikesCount    int64             `json:"likes_count"`
	CommentsCount int64             `json:"comments_count"`
	SharesCount   int64             `json:"shares_count"`
	ViewsCount    int64             `json:"views_count"`
	RepostsCount  int64             `json:"reposts_count"`
	Followed      bool              `json:"-"`
	Reposted      bool              `json:"-"`
	CreatedAt     time.Time         `json:"created_at"`
}

type FeedRepository interface {
	// ReelCandidates 全量 reel 候选 + viewer 维度的关注/转发标记
	ReelCandidates(ctx context.Context, viewerID string) ([]*FeedCandidate, error)
	// PostCandidates post 没有播放数，views_count 填 0
	PostCandidates(ctx context.Context, viewerID string) ([]*FeedCandidate, error)
	// FollowingReels 关注流：作者或转发者被 viewer 关注，按时间倒序
	FollowingReels(ctx context.Context, viewerID string, offset, limit int) ([]*FeedCandidate, error)
	// TrendingReels 热门流：since 之后的内容，转发数/播放数/点赞数倒序
	TrendingReels(ctx context.Context, since time.Time, offset, limit int) ([]*FeedCandidate, error)
}

type feedRepository struct{ db *gorm.DB }

func NewFeedRepository(db *gorm.DB) FeedRepository { return &feedRepository{db: db} }

func (r *feedRepository) ReelCandidates(ctx context.Context, viewerID string) ([]*FeedCandidate, error) {
	var rows []*FeedCandidate
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			r.id, r.user_id, u.username, 'reel' AS type,
			r.video_url AS media_url, r.caption,
			r.likes_count, r.comments_count, r.shares_count, r.views_count,
			CASE WHEN EXISTS (
				SELECT 1 FROM follows f
				WHERE f.follower_id = ? AND f.followee_id = r.user_id
			) THEN 1 ELSE 0 END AS followed,
			CASE WHEN EXISTS (
				SELECT 1 FROM reposts rp
				JOIN follows f2 ON f2.followee_id = rp.user_id AND f2.follower_id = ?
				WHERE rp.content_type = 'reel' AND rp.content_id = r.id
			) THEN 1 ELSE 0 END AS reposted,
			r.created_at
		FROM reels r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC
	`, viewerID, viewerID).Scan(&rows).Error
	return rows, err
}

func (r *feedRepository) PostCandidates(ctx context.Context, viewerID string) ([]*FeedCandidate, error) {
	var rows []*FeedCandidate
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id, p.user_id, u.username, 'post' AS type,
			p.image_url AS media_url, p.caption,
			p.likes_count, p.comments_count, p.shares_count,
			0 AS views_count,
			CASE WHEN EXISTS (
				SELECT 1 FROM follows f
				WHERE f.follower_id = ? AND f.followee_id = p.user_id
			) THEN 1 ELSE 0 END AS followed,
			CASE WHEN EXISTS (
				SELECT 1 FROM reposts rp
				JOIN follows f2 ON f2.followee_id = rp.user_id AND f2.follower_id = ?
				WHERE rp.content_type = 'post' AND rp.content_id = p.id
			) THEN 1 ELSE 0 END AS reposted,
			p.created_at
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
	`, viewerID, viewerID).Scan(&rows).Error
	return rows, err
}

func (r *feedRepository) FollowingReels(ctx context.Context, viewerID string, offset, limit int) ([]*FeedCandidate, error) {
	var rows []*FeedCandidate
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			r.id, r.user_id, u.username, 'reel' AS type,
			r.video_url AS media_url, r.caption,
			r.likes_count, r.comments_count, r.shares_count, r.views_count,
			1 AS followed, 0 AS reposted,
			r.created_at
		FROM reels r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)
		   OR r.id IN (
				SELECT rp.content_id FROM reposts rp
				JOIN follows f ON f.followee_id = rp.user_id
				WHERE f.follower_id = ? AND rp.content_type = 'reel'
		   )
		ORDER BY r.created_at DESC
		LIMIT ? OFFSET ?
	`, viewerID, viewerID, limit, offset).Scan(&rows).Error
	return rows, err
}

func (r *feedRepository) TrendingReels(ctx context.Context, since time.Time, offset, limit int) ([]*FeedCandidate, error) {
	var rows []*FeedCandidate
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			r.id, r.user_id, u.username, 'reel' AS type,
			r.video_url AS media_url, r.caption,
			r.likes_count, r.comments_count, r.shares_count, r.views_count,
			(SELECT COUNT(*) FROM reposts rp
			 WHERE rp.content_type = 'reel' AND rp.content_id = r.id) AS reposts_count,
			r.created_at
		FROM reels r
		JOIN users u ON u.id = r.user_id
		WHERE r.created_at > ?
		ORDER BY reposts_count DESC, r.views_count DESC, r.likes_count DESC, r.created_at DESC
		LIMIT ? OFFSET ?
	`, since, limit, offset).Scan(&rows).Error
	return rows, err
}
