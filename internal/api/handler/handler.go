package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/reelzy/backend/internal/cache"
	"github.com/reelzy/backend/internal/repository"
	"github.com/reelzy/backend/internal/service"
	"github.com/reelzy/backend/pkg/response"
)

// Handler 聚合全部路由处理器
type Handler struct {
	authService    service.AuthService
	engagementSvc  service.EngagementService
	feedService    service.FeedService
	chatService    service.ChatService
	storyService   service.StoryService
	profileService service.ProfileService
	relService     service.RelationshipService
	uploadService  service.UploadService
	followerCache  *cache.FollowerCache
	maxUploadSize  int64
}

func New(
	authService service.AuthService,
	engagementSvc service.EngagementService,
	feedService service.FeedService,
	chatService service.ChatService,
	storyService service.StoryService,
	profileService service.ProfileService,
	relService service.RelationshipService,
	uploadService service.UploadService,
	followerCache *cache.FollowerCache,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		authService:    authService,
		engagementSvc:  engagementSvc,
		feedService:    feedService,
		chatService:    chatService,
		storyService:   storyService,
		profileService: profileService,
		relService:     relService,
		uploadService:  uploadService,
		followerCache:  followerCache,
		maxUploadSize:  maxUploadSize,
	}
}

// fail 服务层错误到 HTTP 状态码的统一映射
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyComment),
		errors.Is(err, service.ErrEmptyReply),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrSelfChat),
		errors.Is(err, service.ErrFollowSelf),
		errors.Is(err, service.ErrBadUploadType):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrOwnStory),
		errors.Is(err, service.ErrNotStoryOwner),
		errors.Is(err, service.ErrNotParticipant):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrContentNotFound),
		errors.Is(err, service.ErrStoryNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrMessageNotFound),
		errors.Is(err, repository.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
