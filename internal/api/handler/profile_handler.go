package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/reelzy/backend/internal/middleware"
	"github.com/reelzy/backend/pkg/response"
)

// MyProfile 我的主页
// @Summary 我的主页
// @Tags 主页
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/profile [get]
func (h *Handler) MyProfile(c *gin.Context) {
	viewerID := middleware.UserID(c)
	p, err := h.profileService.Get(c.Request.Context(), viewerID, viewerID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

// OtherProfile 他人主页，带 is_following / has_story
// @Summary 他人主页
// @Tags 主页
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/profile/{user_id} [get]
func (h *Handler) OtherProfile(c *gin.Context) {
	p, err := h.profileService.Get(c.Request.Context(), middleware.UserID(c), c.Param("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, p)
}

// SavedPosts 我收藏的帖子
// @Summary 收藏列表
// @Tags 主页
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/posts/saved [get]
func (h *Handler) SavedPosts(c *gin.Context) {
	posts, err := h.profileService.SavedPosts(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, posts)
}
