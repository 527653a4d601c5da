package router

import (
	"regexp"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/reelzy/backend/config"
	_ "github.com/reelzy/backend/docs"
	"github.com/reelzy/backend/internal/api/handler"
	"github.com/reelzy/backend/internal/middleware"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,32}$`)

// New 组装全部路由与中间件
func New(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(otelgin.Middleware("reelzy-api"))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.RateLimit(rate.Limit(50), 100))

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRe.MatchString(fl.Field().String())
		})
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", middleware.Auth(cfg.JWT.Secret), h.Me)
	}

	authed := api.Group("", middleware.Auth(cfg.JWT.Secret))
	{
		posts := authed.Group("/posts")
		{
			posts.GET("/saved", h.SavedPosts)
			posts.POST("/:id/like", h.LikePost)
			posts.POST("/:id/save", h.SavePost)
			posts.POST("/:id/share", h.SharePost)
			posts.POST("/:id/repost", h.RepostPost)
			posts.POST("/:id/comment", h.CommentPost)
			posts.GET("/:id/comments", h.ListPostComments)
		}

		reels := authed.Group("/reels")
		{
			reels.GET("", h.ReelFeed)
			reels.GET("/feed", h.ReelFeed)
			reels.GET("/following", h.FollowingFeed)
			reels.GET("/trending", h.TrendingFeed)
			reels.POST("/:id/like", h.LikeReel)
			reels.POST("/:id/save", h.SaveReel)
			reels.POST("/:id/share", h.ShareReel)
			reels.POST("/:id/repost", h.RepostReel)
			reels.POST("/:id/comment", h.CommentReel)
			reels.GET("/:id/comments", h.ListReelComments)
			reels.POST("/:id/view", h.ViewReel)
		}

		authed.GET("/explore", h.Explore)

		profile := authed.Group("/profile")
		{
			profile.GET("", h.MyProfile)
			profile.GET("/:user_id", h.OtherProfile)
			profile.POST("/:user_id/follow", h.Follow)
			profile.DELETE("/:user_id/follow", h.Unfollow)
			profile.GET("/:user_id/following", h.ListFollowing)
			profile.GET("/:user_id/followers", h.ListFollowers)
		}

		stories := authed.Group("/stories")
		{
			stories.GET("", h.StoryFeed)
			stories.GET("/user/:user_id", h.UserStories)
			stories.POST("/:id/view", h.ViewStory)
			stories.POST("/:id/like", h.LikeStory)
			stories.POST("/:id/reply", h.ReplyStory)
			stories.POST("/:id/share", h.ShareStory)
			stories.GET("/:id/views", h.StoryViews)
		}

		chat := authed.Group("/chat")
		{
			chat.GET("/inbox", h.Inbox)
			chat.POST("/start/:user_id", h.StartChat)
		}

		messages := authed.Group("/messages")
		{
			messages.GET("/:chat_id", h.Messages)
			messages.POST("/send", h.SendMessage)
			messages.POST("/seen", h.MarkSeen)
			messages.POST("/react", h.React)
		}

		authed.POST("/upload/:type", h.Upload)
	}

	return r
}
