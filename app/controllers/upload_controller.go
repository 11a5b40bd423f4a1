package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nomfood/storefront/pkg/apperr"
	"github.com/nomfood/storefront/pkg/ctx"
	"github.com/nomfood/storefront/pkg/logger"
	"github.com/nomfood/storefront/pkg/storage"
)

// MaxUploadBytes caps a single image upload.
const MaxUploadBytes = 5 << 20

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type UploadController struct {
	disk storage.Disk
	now  func() time.Time
}

func NewUploadController(disk storage.Disk) *UploadController {
	return &UploadController{disk: disk, now: time.Now}
}

// Store saves the multipart "image" field and returns its public URL.
func (uc *UploadController) Store(c *ctx.Context) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, MaxUploadBytes+1<<20)
	if err := c.R.ParseMultipartForm(MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.Fail(apperr.Validation("Ảnh không được vượt quá 5MB"))
			return
		}
		c.Fail(apperr.Validation("Dữ liệu tải lên không hợp lệ"))
		return
	}

	file, header, err := c.R.FormFile("image")
	if err != nil {
		c.Fail(apperr.Validation("Vui lòng chọn ảnh"))
		return
	}
	defer file.Close()

	if header.Size > MaxUploadBytes {
		c.Fail(apperr.Validation("Ảnh không được vượt quá 5MB"))
		return
	}
	contentType := header.Header.Get("Content-Type")
	ext, ok := imageTypes[contentType]
	if !ok {
		c.Fail(apperr.Validation("Chỉ chấp nhận ảnh JPG, PNG, WEBP hoặc GIF"))
		return
	}
	if orig := strings.ToLower(filepath.Ext(header.Filename)); orig == ".jpeg" || orig == ".jpg" {
		ext = ".jpg"
	}

	now := uc.now()
	path := fmt.Sprintf("uploads/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.NewString(), ext)
	if err := uc.disk.Put(c.Context(), path, file, contentType); err != nil {
		logger.WithCtx(c.Context()).Error("upload: store failed", "path", path, "error", err)
		c.Fail(err)
		return
	}
	c.Created("Tải ảnh lên thành công", map[string]any{"path": path, "url": uc.disk.URL(path)})
}
