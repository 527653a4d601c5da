// Package ranking 信息流打分：纯函数，不依赖存储，便于独立测试。
package ranking

import "time"

// FeedKind 流类型，决定转发加权
type FeedKind int

const (
	FeedReels FeedKind = iota // reels 个性化流
	FeedExplore               // explore 混合流
)

// 打分权重
const (
	viewWeight    = 0.2
	likeWeight    = 2.0
	commentWeight = 3.0
	followBoost   = 5.0

	repostBoostReels   = 6.0
	repostBoostExplore = 8.0

	// FreshnessWindow 新鲜度线性衰减窗口
	FreshnessWindow = 24 * time.Hour
)

// Signals 单条内容的打分输入
type Signals struct {
	Likes     int64
	Comments  int64
	Views     int64 // post 恒为 0
	Followed  bool  // viewer 关注了作者
	Reposted  bool  // viewer 关注的人转发过
	CreatedAt time.Time
}

// Freshness 24 小时内线性衰减到 0，之后恒为 0
func Freshness(createdAt, now time.Time) float64 {
	hours := now.Sub(createdAt).Hours()
	if hours < 0 {
		hours = 0
	}
	f := FreshnessWindow.Hours() - hours
	if f < 0 {
		return 0
	}
	return f
}

// Score 查询时实时计算，不落库
func Score(kind FeedKind, s Signals, now time.Time) float64 {
	score := float64(s.Views)*viewWeight +
		float64(s.Likes)*likeWeight +
		float64(s.Comments)*commentWeight +
		Freshness(s.CreatedAt, now)
	if s.Followed {
		score += followBoost
	}
	if s.Reposted {
		switch kind {
		case FeedExplore:
			score += repostBoostExplore
		default:
			score += repostBoostReels
		}
	}
	return score
}

// Page 1 起始页码切片；page/limit 非法时回退默认值
func Page[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
