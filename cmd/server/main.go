package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/reelzy/backend/config"
	"github.com/reelzy/backend/internal/api/handler"
	"github.com/reelzy/backend/internal/api/router"
	"github.com/reelzy/backend/internal/cache"
	"github.com/reelzy/backend/internal/repository"
	"github.com/reelzy/backend/internal/service"
	"github.com/reelzy/backend/pkg/database"
	"github.com/reelzy/backend/pkg/logger"
	"github.com/reelzy/backend/pkg/storage"
	"github.com/reelzy/backend/pkg/tracing"
)

// @title Reelzy API
// @version 1.0
// @description 短视频社交后端
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTrace, err := tracing.Init(ctx, "reelzy-api", cfg.Trace.Endpoint)
	if err != nil {
		logger.Fatal("tracing init failed", zap.Error(err))
	}
	defer shutdownTrace(ctx)

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, follower cache degraded", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)
	contentRepo := repository.NewContentRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	repostRepo := repository.NewRepostRepository(db)
	feedRepo := repository.NewFeedRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	chatRepo := repository.NewChatRepository(db)

	replicator := service.NewFanReplicator(fanRepo, cfg.Fanout.QueueSize)
	stopReplicator := replicator.Start(cfg.Fanout.Workers)
	defer stopReplicator(context.Background())

	store := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.BaseURL)

	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	engagementSvc := service.NewEngagementService(engagementRepo, contentRepo, repostRepo)
	feedSvc := service.NewFeedService(feedRepo)
	chatSvc := service.NewChatService(chatRepo, userRepo)
	storySvc := service.NewStoryService(storyRepo, userRepo)
	profileSvc := service.NewProfileService(userRepo, contentRepo, followRepo, storyRepo, engagementRepo)
	relSvc := service.NewRelationshipService(followRepo, fanRepo, userRepo, replicator)
	uploadSvc := service.NewUploadService(store, contentRepo, storyRepo)
	followerCache := cache.NewFollowerCache(rdb, fanRepo, userRepo, 5*time.Minute)

	h := handler.New(authSvc, engagementSvc, feedSvc, chatSvc, storySvc, profileSvc, relSvc, uploadSvc, followerCache, cfg.Upload.MaxSize)
	r := router.New(cfg, h)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
