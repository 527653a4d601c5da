package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reelzy/backend/internal/model"
	"github.com/reelzy/backend/internal/repository"
	"github.com/reelzy/backend/pkg/logger"
	"github.com/reelzy/backend/pkg/storage"
)

var ErrBadUploadType = errors.New("upload type must be post, reel or story")

// UploadFile 单个待上传文件
type UploadFile struct {
	Name   string
	Reader io.Reader
}

// UploadMeta 上传附带的元数据
type UploadMeta struct {
	Caption    string
	Category   string
	ReelLength int
}

// UploadResult 逐文件的结果；单个失败不影响整体
type UploadResult struct {
	OriginalName string `json:"original_name"`
	ID           string `json:"id,omitempty"`
	URL          string `json:"url,omitempty"`
	Failed       bool   `json:"failed,omitempty"`
	Error        string `json:"error,omitempty"`
}

type UploadService interface {
	Upload(ctx context.Context, userID, uploadType string, meta UploadMeta, files []UploadFile) []*UploadResult
}

type uploadService struct {
	store    storage.Store
	contents repository.ContentRepository
	stories  repository.StoryRepository
	now      func() time.Time
}

func NewUploadService(store storage.Store, contents repository.ContentRepository, stories repository.StoryRepository) UploadService {
	return &uploadService{store: store, contents: contents, stories: stories, now: time.Now}
}

func (s *uploadService) Upload(ctx context.Context, userID, uploadType string, meta UploadMeta, files []UploadFile) []*UploadResult {
	results := make([]*UploadResult, 0, len(files))
	for _, f := range files {
		res := &UploadResult{OriginalName: f.Name}
		id, url, err := s.uploadOne(ctx, userID, uploadType, meta, f)
		if err != nil {
			logger.Warn("upload failed", zap.String("file", f.Name), zap.Error(err))
			res.Failed = true
			res.Error = "failed to store file"
			results = append(results, res)
			continue
		}
		res.ID = id
		res.URL = url
		results = append(results, res)
	}
	return results
}

func (s *uploadService) uploadOne(ctx context.Context, userID, uploadType string, meta UploadMeta, f UploadFile) (string, string, error) {
	url, err := s.store.Save(ctx, uploadType, f.Name, f.Reader)
	if err != nil {
		return "", "", err
	}
	caption := meta.Caption
	if caption == "" {
		caption = s.now().Format("2006-01-02")
	}
	id := uuid.New().String()
	switch uploadType {
	case "post":
		err = s.contents.CreatePost(ctx, &model.Post{ID: id, UserID: userID, ImageURL: url, Caption: caption})
	case "reel":
		err = s.contents.CreateReel(ctx, &model.Reel{ID: id, UserID: userID, VideoURL: url, Caption: caption, Category: meta.Category, Length: meta.ReelLength})
	case "story":
		now := s.now()
		err = s.stories.Create(ctx, &model.Story{ID: id, UserID: userID, MediaURL: url, CreatedAt: now, ExpiresAt: now.Add(model.StoryTTL)})
	default:
		return "", "", ErrBadUploadType
	}
	if err != nil {
		return "", "", err
	}
	return id, url, nil
}
