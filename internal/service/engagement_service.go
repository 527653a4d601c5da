package service

import (
	"context"
	"errors"
	"strings"

	"github.com/reelzy/backend/internal/model"
	"github.com/reelzy/backend/internal/repository"
)

var (
	ErrEmptyComment    = errors.New("comment required")
	ErrContentNotFound = errors.New("content not found")
)

// EngagementService 互动账本：点赞/收藏为幂等开关，播放为单调记录，分享只累加
type EngagementService interface {
	ToggleLike(ctx context.Context, userID string, contentType model.ContentType, contentID string) (bool, error)
	ToggleSave(ctx context.Context, userID string, contentType model.ContentType, contentID string) (bool, error)
	ToggleRepost(ctx context.Context, userID string, contentType model.ContentType, contentID string) (bool, error)
	// View 首次观看 +1 播放数；之后只抬高 watch_time
	View(ctx context.Context, userID, reelID string, watchTime int) error
	// Share 无条件累加（posts/reels 的分享策略）
	Share(ctx context.Context, contentType model.ContentType, contentID string) error
	Comment(ctx context.Context, userID string, contentType model.ContentType, contentID, text string) (*model.Comment, error)
	ListComments(ctx context.Context, contentType model.ContentType, contentID string, page, limit int) ([]*model.Comment, error)
}

type engagementService struct {
	engagements repository.EngagementRepository
	contents    repository.ContentRepository
	reposts     repository.RepostRepository
}

func NewEngagementService(engagements repository.EngagementRepository, contents repository.ContentRepository, reposts repository.RepostRepository) EngagementService {
	return &engagementService{engagements: engagements, contents: contents, reposts: reposts}
}

func (s *engagementService) ToggleLike(ctx context.Context, userID string, contentType model.ContentType, contentID string) (bool, error) {
	if err := s.ensureContent(ctx, contentType, contentID); err != nil {
		return false, err
	}
	inserted, err := s.engagements.Insert(ctx, userID, contentType, contentID, model.EngagementLike, 0)
	if err != nil {
		return false, err
	}
	if inserted {
		return true, s.contents.Increment(ctx, contentType, contentID, repository.CounterLikes)
	}
	// 已点过赞，走取消分支
	deleted, err := s.engagements.Delete(ctx, userID, contentType, contentID, model.EngagementLike)
	if err != nil {
		return false, err
	}
	if deleted {
		return false, s.contents.Decrement(ctx, contentType, contentID, repository.CounterLikes)
	}
	return false, nil
}

func (s *engagementService) ToggleSave(ctx context.Context, userID string, contentType model.ContentType, contentID string) (bool, error) {
	if err := s.ensureContent(ctx, contentType, contentID); err != nil {
		return false, err
	}
	inserted, err := s.engagements.Insert(ctx, userID, contentType, contentID, model.EngagementSave, 0)
	if err != nil {
		return false, err
	}
	if inserted {
		return true, nil
	}
	if _, err := s.engagements.Delete(ctx, userID, contentType, contentID, model.EngagementSave); err != nil {
		return false, err
	}
	return false, nil
}

func (s *engagementService) ToggleRepost(ctx context.Context, userID string, contentType model.ContentType, contentID string) (bool, error) {
	if err := s.ensureContent(ctx, contentType, contentID); err != nil {
		return false, err
	}
	inserted, err := s.reposts.Create(ctx, userID, contentType, contentID)
	if err != nil {
		return false, err
	}
	if inserted {
		return true, nil
	}
	_, err = s.reposts.Delete(ctx, userID, contentType, contentID)
	return false, err
}

func (s *engagementService) View(ctx context.Context, userID, reelID string, watchTime int) error {
	if watchTime < 0 {
		watchTime = 0
	}
	if err := s.ensureContent(ctx, model.ContentReel, reelID); err != nil {
		return err
	}
	inserted, err := s.engagements.Insert(ctx, userID, model.ContentReel, reelID, model.EngagementView, watchTime)
	if err != nil {
		return err
	}
	if inserted {
		// 每个用户只贡献一次播放数
		return s.contents.Increment(ctx, model.ContentReel, reelID, repository.CounterViews)
	}
	return s.engagements.RaiseWatchTime(ctx, userID, reelID, watchTime)
}

func (s *engagementService) Share(ctx context.Context, contentType model.ContentType, contentID string) error {
	if err := s.ensureContent(ctx, contentType, contentID); err != nil {
		return err
	}
	return s.contents.Increment(ctx, contentType, contentID, repository.CounterShares)
}

func (s *engagementService) Comment(ctx context.Context, userID string, contentType model.ContentType, contentID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	if err := s.ensureContent(ctx, contentType, contentID); err != nil {
		return nil, err
	}
	c := &model.Comment{UserID: userID, ContentType: contentType, ContentID: contentID, Text: text}
	if err := s.engagements.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	if err := s.contents.Increment(ctx, contentType, contentID, repository.CounterComments); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *engagementService) ListComments(ctx context.Context, contentType model.ContentType, contentID string, page, limit int) ([]*model.Comment, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.engagements.ListComments(ctx, contentType, contentID, (page-1)*limit, limit)
}

func (s *engagementService) ensureContent(ctx context.Context, contentType model.ContentType, contentID string) error {
	ok, err := s.contents.Exists(ctx, contentType, contentID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrContentNotFound
	}
	return nil
}
