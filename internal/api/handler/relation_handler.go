package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/reelzy/backend/internal/middleware"
	"github.com/reelzy/backend/pkg/response"
)

// Follow 关注（粉丝表异步冗余）
// @Summary 关注用户
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "被关注用户ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/profile/{user_id}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	viewerID := middleware.UserID(c)
	targetID := c.Param("user_id")
	counts, err := h.relService.Follow(c.Request.Context(), viewerID, targetID)
	if err != nil {
		fail(c, err)
		return
	}
	h.followerCache.Invalidate(c.Request.Context(), targetID)
	response.Success(c, counts)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "被取关用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/profile/{user_id}/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	viewerID := middleware.UserID(c)
	targetID := c.Param("user_id")
	counts, err := h.relService.Unfollow(c.Request.Context(), viewerID, targetID)
	if err != nil {
		fail(c, err)
		return
	}
	h.followerCache.Invalidate(c.Request.Context(), targetID)
	response.Success(c, counts)
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/profile/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	page, limit := pageParams(c)
	list, err := h.relService.ListFollowing(c.Request.Context(), c.Param("user_id"), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "limit": limit, "list": list})
}

// ListFollowers 查询粉丝（冗余表 + redis 缓存）
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/profile/{user_id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	page, limit := pageParams(c)
	list, err := h.followerCache.Followers(c.Request.Context(), c.Param("user_id"), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "limit": limit, "list": list})
}
