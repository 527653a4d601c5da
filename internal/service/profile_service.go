package service

import (
	"context"
	"errors"
	"time"

	"github.com/reelzy/backend/internal/model"
	"github.com/reelzy/backend/internal/repository"
)

// Profile 个人主页：资料 + 实时统计 + 内容列表
type Profile struct {
	ID             string        `json:"id"`
	Username       string        `json:"username"`
	Name           string        `json:"name"`
	Bio            string        `json:"bio"`
	ProfilePic     string        `json:"profile_pic"`
	Points         int64         `json:"points"`
	PostsCount     int64         `json:"posts_count"`
	FollowersCount int64         `json:"followers_count"`
	FollowingCount int64         `json:"following_count"`
	IsFollowing    bool          `json:"is_following"`
	HasStory       bool          `json:"has_story"`
	Posts          []*model.Post `json:"posts"`
	Reels          []*model.Reel `json:"reels"`
}

type ProfileService interface {
	// Get viewer 视角的主页；viewerID == userID 时即“我的主页”
	Get(ctx context.Context, viewerID, userID string) (*Profile, error)
	SavedPosts(ctx context.Context, userID string) ([]*model.Post, error)
}

type profileService struct {
	users       repository.UserRepository
	contents    repository.ContentRepository
	follows     repository.FollowRepository
	stories     repository.StoryRepository
	engagements repository.EngagementRepository
	now         func() time.Time
}

func NewProfileService(users repository.UserRepository, contents repository.ContentRepository, follows repository.FollowRepository, stories repository.StoryRepository, engagements repository.EngagementRepository) ProfileService {
	return &profileService{users: users, contents: contents, follows: follows, stories: stories, engagements: engagements, now: time.Now}
}

func (s *profileService) Get(ctx context.Context, viewerID, userID string) (*Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	p := &Profile{
		ID:         u.ID,
		Username:   u.Username,
		Name:       u.Name,
		Bio:        u.Bio,
		ProfilePic: u.ProfilePic,
		Points:     u.Points,
	}
	if p.PostsCount, err = s.contents.CountByUser(ctx, userID); err != nil {
		return nil, err
	}
	if p.FollowersCount, err = s.follows.CountFollowers(ctx, userID); err != nil {
		return nil, err
	}
	if p.FollowingCount, err = s.follows.CountFollowing(ctx, userID); err != nil {
		return nil, err
	}
	if viewerID != userID {
		if p.IsFollowing, err = s.follows.Exists(ctx, viewerID, userID); err != nil {
			return nil, err
		}
	}
	if p.HasStory, err = s.stories.HasActiveStory(ctx, userID, s.now()); err != nil {
		return nil, err
	}
	if p.Posts, err = s.contents.ListPostsByUser(ctx, userID, 20); err != nil {
		return nil, err
	}
	if p.Reels, err = s.contents.ListReelsByUser(ctx, userID, 20); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) SavedPosts(ctx context.Context, userID string) ([]*model.Post, error) {
	ids, err := s.engagements.SavedPostIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Post, 0, len(ids))
	for _, id := range ids {
		post, err := s.contents.GetPost(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, post)
	}
	return out, nil
}
