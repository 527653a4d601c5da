package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/reelzy/backend/internal/middleware"
	"github.com/reelzy/backend/internal/service"
	"github.com/reelzy/backend/pkg/response"
)

// Upload 批量上传，type ∈ post|reel|story；单文件失败不影响整体，超出大小上限整请求拒绝
// @Summary 上传媒体
// @Tags 上传
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param type path string true "post | reel | story"
// @Param files formData file true "媒体文件（可多个）"
// @Param caption formData string false "文案"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/upload/{type} [post]
func (h *Handler) Upload(c *gin.Context) {
	uploadType := c.Param("type")
	if uploadType != "post" && uploadType != "reel" && uploadType != "story" {
		fail(c, service.ErrBadUploadType)
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.BadRequest(c, "no files uploaded")
		return
	}
	for _, fh := range files {
		if h.maxUploadSize > 0 && fh.Size > h.maxUploadSize {
			response.BadRequest(c, fmt.Sprintf("file %s exceeds size limit of %d bytes", fh.Filename, h.maxUploadSize))
			return
		}
	}

	reelLength, _ := strconv.Atoi(c.PostForm("reel_length"))
	meta := service.UploadMeta{
		Caption:    c.PostForm("caption"),
		Category:   c.PostForm("category"),
		ReelLength: reelLength,
	}

	inputs := make([]service.UploadFile, 0, len(files))
	opened := make([]func() error, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			response.InternalError(c, err)
			return
		}
		opened = append(opened, f.Close)
		inputs = append(inputs, service.UploadFile{Name: fh.Filename, Reader: f})
	}
	defer func() {
		for _, closeFn := range opened {
			_ = closeFn()
		}
	}()

	results := h.uploadService.Upload(c.Request.Context(), middleware.UserID(c), uploadType, meta, inputs)
	ok := 0
	for _, r := range results {
		if !r.Failed {
			ok++
		}
	}
	response.Success(c, gin.H{
		"total_files":        len(results),
		"successful_uploads": ok,
		"results":            results,
	})
}
