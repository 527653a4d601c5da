package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/reelzy/backend/internal/middleware"
	"github.com/reelzy/backend/pkg/response"
)

// ReelFeed 个性化推荐流（带分值）
// @Summary For You 流
// @Tags 信息流
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/reels/feed [get]
func (h *Handler) ReelFeed(c *gin.Context) {
	page, limit := pageParams(c)
	items, err := h.feedService.ForYou(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "limit": limit, "list": items})
}

// FollowingFeed 关注流，按时间倒序
// @Summary 关注流
// @Tags 信息流
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/reels/following [get]
func (h *Handler) FollowingFeed(c *gin.Context) {
	page, limit := pageParams(c)
	items, err := h.feedService.Following(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "limit": limit, "list": items})
}

// TrendingFeed 热门流：近 24 小时，转发/播放/点赞倒序，无个性化
// @Summary 热门流
// @Tags 信息流
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/reels/trending [get]
func (h *Handler) TrendingFeed(c *gin.Context) {
	page, limit := pageParams(c)
	items, err := h.feedService.Trending(c.Request.Context(), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "limit": limit, "list": items})
}

// Explore 混合流：posts + reels 统一打分
// @Summary Explore 流
// @Tags 信息流
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/explore [get]
func (h *Handler) Explore(c *gin.Context) {
	page, limit := pageParams(c)
	items, err := h.feedService.Explore(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "limit": limit, "list": items})
}
