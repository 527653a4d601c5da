package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/reelzy/backend/internal/middleware"
	"github.com/reelzy/backend/internal/model"
	"github.com/reelzy/backend/internal/service"
	"github.com/reelzy/backend/pkg/response"
)

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	MediaURL   string `json:"media_url"`
	Duration   int    `json:"duration"`
}

type seenRequest struct {
	CounterpartID string `json:"counterpart_id" binding:"required"`
}

type reactRequest struct {
	MessageID string `json:"message_id" binding:"required"`
	Reaction  string `json:"reaction"`
}

// Inbox 收件箱：对方快照 + 最近消息 + 实时未读数
// @Summary 收件箱
// @Tags 私信
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/chat/inbox [get]
func (h *Handler) Inbox(c *gin.Context) {
	entries, err := h.chatService.Inbox(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, entries)
}

// StartChat 建立/获取与对方的会话
// @Summary 打开会话
// @Tags 私信
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "对方用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/chat/start/{user_id} [post]
func (h *Handler) StartChat(c *gin.Context) {
	chat, err := h.chatService.GetOrCreate(c.Request.Context(), middleware.UserID(c), c.Param("user_id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"chat_id": chat.ID})
}

// Messages 会话消息（升序），打开即置已读
// @Summary 会话消息
// @Tags 私信
// @Produce json
// @Security BearerAuth
// @Param chat_id path string true "会话ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/messages/{chat_id} [get]
func (h *Handler) Messages(c *gin.Context) {
	msgs, err := h.chatService.History(c.Request.Context(), middleware.UserID(c), c.Param("chat_id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, msgs)
}

// SendMessage 发送消息；首聊并发只会产生一个会话
// @Summary 发送消息
// @Tags 私信
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body sendMessageRequest true "消息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/messages/send [post]
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	msg, err := h.chatService.Send(c.Request.Context(), middleware.UserID(c), service.SendInput{
		ReceiverID: req.ReceiverID,
		Type:       model.MessageType(req.Type),
		Body:       req.Message,
		MediaURL:   req.MediaURL,
		Duration:   req.Duration,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"chat_id": msg.ChatID, "message_id": msg.ID})
}

// MarkSeen 将对方发来的消息全部置已读（幂等）
// @Summary 消息已读
// @Tags 私信
// @Accept json
// @Security BearerAuth
// @Param request body seenRequest true "对方用户"
// @Success 200 {object} response.Response
// @Router /api/v1/messages/seen [post]
func (h *Handler) MarkSeen(c *gin.Context) {
	var req seenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.chatService.MarkSeen(c.Request.Context(), middleware.UserID(c), req.CounterpartID); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"seen": true})
}

// React 设置/覆盖消息表情，最后写入生效
// @Summary 消息表情
// @Tags 私信
// @Accept json
// @Security BearerAuth
// @Param request body reactRequest true "表情"
// @Success 200 {object} response.Response
// @Router /api/v1/messages/react [post]
func (h *Handler) React(c *gin.Context) {
	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.chatService.React(c.Request.Context(), middleware.UserID(c), req.MessageID, req.Reaction); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"reacted": true})
}
