package service

import (
	"context"
	"sort"
	"time"

	"github.com/reelzy/backend/internal/ranking"
	"github.com/reelzy/backend/internal/repository"
)

// FeedItem 带分值的内容行
type FeedItem struct {
	*repository.FeedCandidate
	Score float64 `json:"score"`
}

// FeedService 四种流：个性化 / 关注 / 热门 / 混合 explore
type FeedService interface {
	ForYou(ctx context.Context, viewerID string, page, limit int) ([]*FeedItem, error)
	Following(ctx context.Context, viewerID string, page, limit int) ([]*repository.FeedCandidate, error)
	Trending(ctx context.Context, page, limit int) ([]*repository.FeedCandidate, error)
	Explore(ctx context.Context, viewerID string, page, limit int) ([]*FeedItem, error)
}

type feedService struct {
	feeds repository.FeedRepository
	now   func() time.Time
}

func NewFeedService(feeds repository.FeedRepository) FeedService {
	return &feedService{feeds: feeds, now: time.Now}
}

func (s *feedService) ForYou(ctx context.Context, viewerID string, page, limit int) ([]*FeedItem, error) {
	reels, err := s.feeds.ReelCandidates(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	items := scoreAndSort(ranking.FeedReels, reels, s.now())
	return ranking.Page(items, page, limit), nil
}

func (s *feedService) Following(ctx context.Context, viewerID string, page, limit int) ([]*repository.FeedCandidate, error) {
	page, limit = normalizePage(page, limit)
	return s.feeds.FollowingReels(ctx, viewerID, (page-1)*limit, limit)
}

func (s *feedService) Trending(ctx context.Context, page, limit int) ([]*repository.FeedCandidate, error) {
	page, limit = normalizePage(page, limit)
	since := s.now().Add(-ranking.FreshnessWindow)
	return s.feeds.TrendingReels(ctx, since, (page-1)*limit, limit)
}

// Explore posts 与 reels 先合并再统一打分排序
func (s *feedService) Explore(ctx context.Context, viewerID string, page, limit int) ([]*FeedItem, error) {
	posts, err := s.feeds.PostCandidates(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	reels, err := s.feeds.ReelCandidates(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	merged := append(posts, reels...)
	items := scoreAndSort(ranking.FeedExplore, merged, s.now())
	return ranking.Page(items, page, limit), nil
}

// scoreAndSort 分值倒序；平局按 created_at 倒序（显式约定，不依赖扫描顺序）
func scoreAndSort(kind ranking.FeedKind, rows []*repository.FeedCandidate, now time.Time) []*FeedItem {
	items := make([]*FeedItem, len(rows))
	for i, row := range rows {
		items[i] = &FeedItem{
			FeedCandidate: row,
			Score: ranking.Score(kind, ranking.Signals{
				Likes:     row.LikesCount,
				Comments:  row.CommentsCount,
				Views:     row.ViewsCount,
				Followed:  row.Followed,
				Reposted:  row.Reposted,
				CreatedAt: row.CreatedAt,
			}, now),
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit
}
