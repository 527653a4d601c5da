package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFreshness(t *testing.T) {
	now := time.Now()

	assert.InDelta(t, 24.0, Freshness(now, now), 0.001)
	assert.InDelta(t, 12.0, Freshness(now.Add(-12*time.Hour), now), 0.001)
	assert.Equal(t, 0.0, Freshness(now.Add(-24*time.Hour), now))
	assert.Equal(t, 0.0, Freshness(now.Add(-48*time.Hour), now))
	// 未来时间按 0 小时计
	assert.InDelta(t, 24.0, Freshness(now.Add(time.Hour), now), 0.001)
}

func TestScore(t *testing.T) {
	now := time.Now()
	old := now.Add(-30 * time.Hour)

	// 无互动的新内容只剩新鲜度
	assert.InDelta(t, 24.0, Score(FeedReels, Signals{CreatedAt: now}, now), 0.001)

	s := Signals{Likes: 10, Comments: 5, Views: 100, CreatedAt: old}
	assert.InDelta(t, 100*0.2+10*2+5*3, Score(FeedReels, s, now), 0.001)

	s.Followed = true
	assert.InDelta(t, 100*0.2+10*2+5*3+5, Score(FeedReels, s, now), 0.001)

	s.Reposted = true
	assert.InDelta(t, 100*0.2+10*2+5*3+5+6, Score(FeedReels, s, now), 0.001)
	assert.InDelta(t, 100*0.2+10*2+5*3+5+8, Score(FeedExplore, s, now), 0.001)
}

func TestPage(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i
	}

	p1 := Page(items, 1, 20)
	assert.Len(t, p1, 20)
	assert.Equal(t, 0, p1[0])

	p3 := Page(items, 3, 20)
	assert.Len(t, p3, 5)
	assert.Equal(t, 40, p3[0])

	assert.Empty(t, Page(items, 4, 20))

	// 非法参数回退默认值
	d := Page(items, 0, 0)
	assert.Len(t, d, 20)
	assert.Equal(t, 0, d[0])
}
