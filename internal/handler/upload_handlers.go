package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stickerverse/internal/generator"
	"stickerverse/shared/models"
)

const (
	// MaxUploadSize - предельный размер загружаемого файла.
	MaxUploadSize = 2 * 1024 * 1024
	// multipartOverhead - запас на заголовки multipart сверх размера файла.
	multipartOverhead = 64 * 1024
)

var allowedUploadTypes = []string{"image/png", "image/webp", "image/gif"}

func (h *Handler) uploadSticker(c *gin.Context) {
	if !isAdmin(c) {
		uploadsRejectedTotal.WithLabelValues("forbidden").Inc()
		h.setFlash(c, flashError, msgAdminsOnly)
		redirectHome(c, "upload")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize+multipartOverhead)

	fileHeader, err := c.FormFile("sticker")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge) || c.Request.ContentLength > MaxUploadSize+multipartOverhead:
			h.rejectUpload(c, "too_large", msgFileTooLarge)
		case errors.Is(err, http.ErrMissingFile):
			h.rejectUpload(c, "missing", msgSelectFile)
		default:
			h.logger.Warn("Failed to parse upload form", zap.Error(err))
			h.rejectUpload(c, "missing", msgSelectFile)
		}
		return
	}
	if fileHeader.Size > MaxUploadSize {
		h.rejectUpload(c, "too_large", msgFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		h.rejectUpload(c, "read_error", msgReadFailed)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		h.rejectUpload(c, "read_error", msgReadFailed)
		return
	}
	if len(data) > MaxUploadSize {
		h.rejectUpload(c, "too_large", msgFileTooLarge)
		return
	}

	detected := mimetype.Detect(data)
	if !mimetype.EqualsAny(detected.String(), allowedUploadTypes...) {
		h.logger.Info("Rejected upload with unsupported type",
			zap.String("detected", detected.String()),
			zap.String("filename", fileHeader.Filename),
		)
		h.rejectUpload(c, "unsupported_type", msgUnsupportedType)
		return
	}

	sticker, err := h.gallery.Add(c.Request.Context(),
		generator.DataURI(detected.String(), data),
		fileHeader.Filename,
		models.StickerSourceUploaded,
	)
	if err != nil {
		h.logger.Error("Failed to save uploaded sticker", zap.Error(err))
		h.rejectUpload(c, "persist_failed", msgSaveFailed)
		return
	}

	stickersCreatedTotal.WithLabelValues(string(models.StickerSourceUploaded)).Inc()
	h.logger.Info("Sticker uploaded",
		zap.String("sticker_id", sticker.ID),
		zap.String("mime", detected.String()),
		zap.Int("size_bytes", len(data)),
	)
	h.setFlash(c, flashSuccess, msgStickerUploaded)
	redirectHome(c, "gallery")
}

// rejectUpload показывает ошибку под формой загрузки.
func (h *Handler) rejectUpload(c *gin.Context, reason, message string) {
	uploadsRejectedTotal.WithLabelValues(reason).Inc()
	page := h.newIndexPage(c)
	page.UploadError = message
	h.renderIndex(c, http.StatusUnprocessableEntity, page)
}
