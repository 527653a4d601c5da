package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/reelzy/backend/internal/model"
	"github.com/reelzy/backend/internal/repository"
)

var (
	ErrStoryNotFound = errors.New("story not found")
	ErrOwnStory      = errors.New("cannot act on own story")
	ErrNotStoryOwner = errors.New("not the story owner")
	ErrEmptyReply    = errors.New("reply required")
)

// StoryFeedEntry 每个作者聚合成一行
type StoryFeedEntry struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	ProfilePic string    `json:"profile_pic"`
	StoryURL   string    `json:"story_url"` // 最新一条的媒体地址
	LatestAt   time.Time `json:"latest_story_time"`
	HasUnseen  bool      `json:"has_unseen"`
	IsMe       bool      `json:"is_me"`
}

// StoryFeed 首页故事栏
type StoryFeed struct {
	Me     *StoryFeedEntry   `json:"me"`
	Others []*StoryFeedEntry `json:"others"`
}

// StoryDetail 单条故事 + viewer 是否已看
type StoryDetail struct {
	model.Story
	IsSeen bool `json:"is_seen"`
}

// StoryService 故事可见性与已读状态；过期故事对一切读取不可见
type StoryService interface {
	Feed(ctx context.Context, viewerID string) (*StoryFeed, error)
	UserStories(ctx context.Context, viewerID, ownerID string) ([]*StoryDetail, error)
	// MarkSeen 幂等；viewer 即作者时整体跳过
	MarkSeen(ctx context.Context, viewerID, storyID string) error
	ToggleLike(ctx context.Context, userID, storyID string) (bool, error)
	Reply(ctx context.Context, userID, storyID, message string) (*model.StoryReply, error)
	Share(ctx context.Context, userID, storyID string) error
	Views(ctx context.Context, callerID, storyID string) ([]*repository.StoryViewer, error)
}

type storyService struct {
	stories repository.StoryRepository
	users   repository.UserRepository
	now     func() time.Time
}

func NewStoryService(stories repository.StoryRepository, users repository.UserRepository) StoryService {
	return &storyService{stories: stories, users: users, now: time.Now}
}

func (s *storyService) Feed(ctx context.Context, viewerID string) (*StoryFeed, error) {
	now := s.now()
	feed := &StoryFeed{Others: []*StoryFeedEntry{}}

	// 自己的故事
	mine, err := s.stories.ActiveByOwner(ctx, viewerID, now)
	if err != nil {
		return nil, err
	}
	if len(mine) > 0 {
		me, err := s.users.GetByID(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		entry := aggregate(viewerID, me.Username, me.ProfilePic, mine, nil)
		entry.IsMe = true
		// 自己的故事不存在“未看”语义
		entry.HasUnseen = false
		feed.Me = entry
	}

	// 关注对象的故事
	rows, err := s.stories.ActiveOfFollowed(ctx, viewerID, now)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return feed, nil
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.Story.ID
	}
	seen, err := s.stories.SeenIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	byOwner := make(map[string][]*repository.StoryWithOwner)
	order := make([]string, 0)
	for _, row := range rows {
		if _, ok := byOwner[row.Story.UserID]; !ok {
			order = append(order, row.Story.UserID)
		}
		byOwner[row.Story.UserID] = append(byOwner[row.Story.UserID], row)
	}
	for _, ownerID := range order {
		group := byOwner[ownerID]
		stories := make([]*model.Story, len(group))
		for i, g := range group {
			st := g.Story
			stories[i] = &st
		}
		entry := aggregate(ownerID, group[0].Username, group[0].ProfilePic, stories, seen)
		feed.Others = append(feed.Others, entry)
	}
	sort.SliceStable(feed.Others, func(i, j int) bool {
		if feed.Others[i].HasUnseen != feed.Others[j].HasUnseen {
			return feed.Others[i].HasUnseen
		}
		return feed.Others[i].LatestAt.After(feed.Others[j].LatestAt)
	})
	return feed, nil
}

// aggregate 组内取最新媒体与时间；seen 为空时视为全部未看
func aggregate(ownerID, username, pic string, stories []*model.Story, seen map[string]bool) *StoryFeedEntry {
	entry := &StoryFeedEntry{UserID: ownerID, Username: username, ProfilePic: pic}
	for _, st := range stories {
		if st.CreatedAt.After(entry.LatestAt) {
			entry.LatestAt = st.CreatedAt
			entry.StoryURL = st.MediaURL
		}
		if !seen[st.ID] {
			entry.HasUnseen = true
		}
	}
	return entry
}

func (s *storyService) UserStories(ctx context.Context, viewerID, ownerID string) ([]*StoryDetail, error) {
	stories, err := s.stories.ActiveByOwner(ctx, ownerID, s.now())
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(stories))
	for i, st := range stories {
		ids[i] = st.ID
	}
	seen, err := s.stories.SeenIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*StoryDetail, len(stories))
	for i, st := range stories {
		out[i] = &StoryDetail{Story: *st, IsSeen: seen[st.ID]}
	}
	return out, nil
}

func (s *storyService) MarkSeen(ctx context.Context, viewerID, storyID string) error {
	story, err := s.getStory(ctx, storyID)
	if err != nil {
		return err
	}
	if story.UserID == viewerID {
		// 自己看自己不计入
		return nil
	}
	return s.stories.InsertView(ctx, viewerID, storyID)
}

func (s *storyService) ToggleLike(ctx context.Context, userID, storyID string) (bool, error) {
	story, err := s.getStory(ctx, storyID)
	if err != nil {
		return false, err
	}
	if story.UserID == userID {
		return false, ErrOwnStory
	}
	inserted, err := s.stories.InsertLike(ctx, userID, storyID)
	if err != nil {
		return false, err
	}
	if inserted {
		return true, nil
	}
	if _, err := s.stories.DeleteLike(ctx, userID, storyID); err != nil {
		return false, err
	}
	return false, nil
}

func (s *storyService) Reply(ctx context.Context, userID, storyID, message string) (*model.StoryReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyReply
	}
	story, err := s.getStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.UserID == userID {
		return nil, ErrOwnStory
	}
	reply := &model.StoryReply{StoryID: storyID, UserID: userID, Message: message}
	if err := s.stories.InsertReply(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// Share 故事分享每人只记一条边
func (s *storyService) Share(ctx context.Context, userID, storyID string) error {
	if _, err := s.getStory(ctx, storyID); err != nil {
		return err
	}
	return s.stories.InsertShare(ctx, userID, storyID)
}

func (s *storyService) Views(ctx context.Context, callerID, storyID string) ([]*repository.StoryViewer, error) {
	story, err := s.getStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.UserID != callerID {
		return nil, ErrNotStoryOwner
	}
	return s.stories.Viewers(ctx, storyID)
}

func (s *storyService) getStory(ctx context.Context, storyID string) (*model.Story, error) {
	story, err := s.stories.Get(ctx, storyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	// 过期故事对任何读写都视同不存在
	if !story.ExpiresAt.After(s.now()) {
		return nil, ErrStoryNotFound
	}
	return story, nil
}
