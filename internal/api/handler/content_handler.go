package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reelzy/backend/internal/middleware"
	"github.com/reelzy/backend/internal/model"
	"github.com/reelzy/backend/pkg/response"
)

type commentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

type viewRequest struct {
	WatchTime int `json:"watch_time"`
}

// LikePost 点赞/取消点赞
// @Summary 帖子点赞开关
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{id}/like [post]
func (h *Handler) LikePost(c *gin.Context) { h.toggleLike(c, model.ContentPost) }

// LikeReel 点赞/取消点赞
// @Summary reel 点赞开关
// @Tags Reels
// @Produce json
// @Security BearerAuth
// @Param id path string true "reel ID"
// @Success 200 {object} response.Response
// @Router /api/v1/reels/{id}/like [post]
func (h *Handler) LikeReel(c *gin.Context) { h.toggleLike(c, model.ContentReel) }

func (h *Handler) toggleLike(c *gin.Context, t model.ContentType) {
	active, err := h.engagementSvc.ToggleLike(c.Request.Context(), middleware.UserID(c), t, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"liked": active})
}

// SavePost 收藏/取消收藏
// @Summary 帖子收藏开关
// @Tags 帖子
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{id}/save [post]
func (h *Handler) SavePost(c *gin.Context) { h.toggleSave(c, model.ContentPost) }

// SaveReel 收藏/取消收藏
// @Summary reel 收藏开关
// @Tags Reels
// @Security BearerAuth
// @Param id path string true "reel ID"
// @Success 200 {object} response.Response
// @Router /api/v1/reels/{id}/save [post]
func (h *Handler) SaveReel(c *gin.Context) { h.toggleSave(c, model.ContentReel) }

func (h *Handler) toggleSave(c *gin.Context, t model.ContentType) {
	active, err := h.engagementSvc.ToggleSave(c.Request.Context(), middleware.UserID(c), t, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"saved": active})
}

// SharePost 分享计数 +1（无幂等要求）
// @Summary 分享帖子
// @Tags 帖子
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{id}/share [post]
func (h *Handler) SharePost(c *gin.Context) { h.share(c, model.ContentPost) }

// ShareReel 分享计数 +1
// @Summary 分享 reel
// @Tags Reels
// @Security BearerAuth
// @Param id path string true "reel ID"
// @Success 200 {object} response.Response
// @Router /api/v1/reels/{id}/share [post]
func (h *Handler) ShareReel(c *gin.Context) { h.share(c, model.ContentReel) }

func (h *Handler) share(c *gin.Context, t model.ContentType) {
	if err := h.engagementSvc.Share(c.Request.Context(), t, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"shared": true})
}

// RepostPost 转发开关
// @Summary 转发帖子
// @Tags 帖子
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{id}/repost [post]
func (h *Handler) RepostPost(c *gin.Context) { h.repost(c, model.ContentPost) }

// RepostReel 转发开关
// @Summary 转发 reel
// @Tags Reels
// @Security BearerAuth
// @Param id path string true "reel ID"
// @Success 200 {object} response.Response
// @Router /api/v1/reels/{id}/repost [post]
func (h *Handler) RepostReel(c *gin.Context) { h.repost(c, model.ContentReel) }

func (h *Handler) repost(c *gin.Context, t model.ContentType) {
	active, err := h.engagementSvc.ToggleRepost(c.Request.Context(), middleware.UserID(c), t, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"reposted": active})
}

// CommentPost 评论
// @Summary 评论帖子
// @Tags 帖子
// @Accept json
// @Security BearerAuth
// @Param id path string true "帖子ID"
// @Param request body commentRequest true "评论内容"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/posts/{id}/comment [post]
func (h *Handler) CommentPost(c *gin.Context) { h.comment(c, model.ContentPost) }

// CommentReel 评论
// @Summary 评论 reel
// @Tags Reels
// @Accept json
// @Security BearerAuth
// @Param id path string true "reel ID"
// @Param request body commentRequest true "评论内容"
// @Success 200 {object} response.Response
// @Router /api/v1/reels/{id}/comment [post]
func (h *Handler) CommentReel(c *gin.Context) { h.comment(c, model.ContentReel) }

func (h *Handler) comment(c *gin.Context, t model.ContentType) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cm, err := h.engagementSvc.Comment(c.Request.Context(), middleware.UserID(c), t, c.Param("id"), req.Comment)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, cm)
}

// ListPostComments 评论列表
// @Summary 帖子评论
// @Tags 帖子
// @Param id path string true "帖子ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/posts/{id}/comments [get]
func (h *Handler) ListPostComments(c *gin.Context) { h.listComments(c, model.ContentPost) }

// ListReelComments 评论列表
// @Summary reel 评论
// @Tags Reels
// @Param id path string true "reel ID"
// @Success 200 {object} response.Response
// @Router /api/v1/reels/{id}/comments [get]
func (h *Handler) ListReelComments(c *gin.Context) { h.listComments(c, model.ContentReel) }

func (h *Handler) listComments(c *gin.Context, t model.ContentType) {
	page, limit := pageParams(c)
	comments, err := h.engagementSvc.ListComments(c.Request.Context(), t, c.Param("id"), page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "limit": limit, "list": comments})
}

// ViewReel 播放上报：首次 +1 播放数，之后只抬高 watch_time
// @Summary reel 播放上报
// @Tags Reels
// @Accept json
// @Security BearerAuth
// @Param id path string true "reel ID"
// @Param request body viewRequest true "观看时长（秒）"
// @Success 200 {object} response.Response
// @Router /api/v1/reels/{id}/view [post]
func (h *Handler) ViewReel(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.engagementSvc.View(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.WatchTime); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"viewed": true})
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit
}
