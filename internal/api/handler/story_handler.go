package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/reelzy/backend/internal/middleware"
	"github.com/reelzy/backend/pkg/response"
)

type storyReplyRequest struct {
	Message string `json:"message" binding:"required"`
}

// StoryFeed 首页故事栏 {me, others}
// @Summary 故事流
// @Tags 故事
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/stories [get]
func (h *Handler) StoryFeed(c *gin.Context) {
	feed, err := h.storyService.Feed(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, feed)
}

// UserStories 某用户的全部有效故事
// @Summary 用户故事列表
// @Tags 故事
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/stories/user/{user_id} [get]
func (h *Handler) UserStories(c *gin.Context) {
	stories, err := h.storyService.UserStories(c.Request.Context(), middleware.UserID(c), c.Param("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, stories)
}

// ViewStory 标记已看（幂等，自己看自己不计入）
// @Summary 故事已看
// @Tags 故事
// @Security BearerAuth
// @Param id path string true "故事ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/stories/{id}/view [post]
func (h *Handler) ViewStory(c *gin.Context) {
	if err := h.storyService.MarkSeen(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"viewed": true})
}

// LikeStory 点赞开关，禁止自赞
// @Summary 故事点赞
// @Tags 故事
// @Security BearerAuth
// @Param id path string true "故事ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/stories/{id}/like [post]
func (h *Handler) LikeStory(c *gin.Context) {
	liked, err := h.storyService.ToggleLike(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"liked": liked})
}

// ReplyStory 回复故事，禁止自回复
// @Summary 回复故事
// @Tags 故事
// @Accept json
// @Security BearerAuth
// @Param id path string true "故事ID"
// @Param request body storyReplyRequest true "回复内容"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/stories/{id}/reply [post]
func (h *Handler) ReplyStory(c *gin.Context) {
	var req storyReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	reply, err := h.storyService.Reply(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Message)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, reply)
}

// ShareStory 分享故事，每人一条边
// @Summary 分享故事
// @Tags 故事
// @Security BearerAuth
// @Param id path string true "故事ID"
// @Success 200 {object} response.Response
// @Router /api/v1/stories/{id}/share [post]
func (h *Handler) ShareStory(c *gin.Context) {
	if err := h.storyService.Share(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"shared": true})
}

// StoryViews 观看列表，仅作者可见
// @Summary 故事观看列表
// @Tags 故事
// @Produce json
// @Security BearerAuth
// @Param id path string true "故事ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/stories/{id}/views [get]
func (h *Handler) StoryViews(c *gin.Context) {
	views, err := h.storyService.Views(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, views)
}
