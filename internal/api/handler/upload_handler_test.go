package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelzy/backend/internal/service"
)

type stubUploadService struct {
	calls int
}

func (s *stubUploadService) Upload(ctx context.Context, userID, uploadType string, meta service.UploadMeta, files []service.UploadFile) []*service.UploadResult {
	s.calls++
	results := make([]*service.UploadResult, 0, len(files))
	for _, f := range files {
		results = append(results, &service.UploadResult{OriginalName: f.Name, ID: "c1", URL: "/media/" + f.Name})
	}
	return results
}

func uploadRequest(t *testing.T, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("files", "clip.mp4")
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload/reel", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUpload_FileSizeLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &stubUploadService{}
	h := New(nil, nil, nil, nil, nil, nil, nil, stub, nil, 16)

	r := gin.New()
	r.POST("/api/v1/upload/:type", h.Upload)

	// 超过上限的文件整请求拒绝，不触碰存储层
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, bytes.Repeat([]byte("x"), 64)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, stub.calls)

	// 上限以内正常进入服务层
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, []byte("tiny")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.calls)
}
