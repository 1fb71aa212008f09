package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stickerverse/internal/generator"
	"stickerverse/internal/session"
	"stickerverse/internal/web"
	"stickerverse/shared/models"
)

func (h *Handler) showGallery(c *gin.Context) {
	h.renderIndex(c, http.StatusOK, h.newIndexPage(c))
}

func (h *Handler) generateSticker(c *gin.Context) {
	id := sessionID(c)
	prompt := c.PostForm("prompt")
	rawStyle := c.PostForm("style")
	rawMood := c.PostForm("mood")

	page := h.newIndexPage(c)
	page.Form = generateForm{Prompt: prompt, Style: generator.Style(rawStyle), Mood: generator.Mood(rawMood)}

	style, mood, err := parseGenerateForm(prompt, rawStyle, rawMood)
	if err != nil {
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			_ = c.Error(err).SetMeta("generate")
			return
		}
		generateRequestsTotal.WithLabelValues("invalid").Inc()
		page.GenerateError = verr.Message
		h.renderIndex(c, http.StatusUnprocessableEntity, page)
		return
	}
	page.Form.Style, page.Form.Mood = style, mood

	if !h.sessions.BeginGeneration(id) {
		generateRequestsTotal.WithLabelValues("busy").Inc()
		page.GenerateError = msgGenerationBusy
		h.renderIndex(c, http.StatusConflict, page)
		return
	}
	defer h.sessions.EndGeneration(id)

	log := h.logger.With(zap.String("session_id", id), zap.String("style", string(style)), zap.String("mood", string(mood)))
	log.Info("Generating sticker...")

	imageRef, err := h.generator.Generate(c.Request.Context(), generator.BuildPrompt(prompt, style, mood))
	if err != nil {
		generateRequestsTotal.WithLabelValues("failed").Inc()
		log.Warn("Sticker generation failed", zap.Error(err))
		page.GenerateError = msgGenerationFailed
		page.Generating = false
		h.renderIndex(c, http.StatusBadGateway, page)
		return
	}

	generateRequestsTotal.WithLabelValues("ok").Inc()
	h.sessions.SetPreview(id, session.Preview{ImageURL: imageRef, Prompt: prompt})
	log.Info("Sticker generated, waiting for save or discard")
	redirectHome(c, "generate")
}

// parseGenerateForm проверяет описание и выбранные стиль и настроение.
func parseGenerateForm(prompt, rawStyle, rawMood string) (generator.Style, generator.Mood, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", "", models.NewValidationError("prompt", msgEnterDescription)
	}
	style, err := generator.ParseStyle(rawStyle)
	if err != nil {
		return "", "", err
	}
	mood, err := generator.ParseMood(rawMood)
	if err != nil {
		return "", "", err
	}
	return style, mood, nil
}

func (h *Handler) saveGeneratedSticker(c *gin.Context) {
	id := sessionID(c)
	preview, ok := h.sessions.Preview(id)
	if !ok {
		h.setFlash(c, flashError, msgNothingToSave)
		redirectHome(c, "generate")
		return
	}

	sticker, err := h.gallery.Add(c.Request.Context(), preview.ImageURL, "AI: "+preview.Prompt, models.StickerSourceGenerated)
	if err != nil {
		h.logger.Error("Failed to save generated sticker", zap.String("session_id", id), zap.Error(err))
		h.setFlash(c, flashError, msgSaveFailed)
		redirectHome(c, "generate")
		return
	}

	stickersCreatedTotal.WithLabelValues(string(models.StickerSourceGenerated)).Inc()
	h.sessions.ClearPreview(id)
	h.logger.Info("Generated sticker saved", zap.String("sticker_id", sticker.ID))
	h.setFlash(c, flashSuccess, msgStickerSaved)
	redirectHome(c, "gallery")
}

func (h *Handler) discardGeneratedSticker(c *gin.Context) {
	h.sessions.ClearPreview(sessionID(c))
	redirectHome(c, "generate")
}

func (h *Handler) deleteSticker(c *gin.Context) {
	stickerID := c.Param("id")

	removed, err := h.gallery.Remove(c.Request.Context(), isAdmin(c), stickerID)
	if err != nil {
		h.logger.Error("Failed to delete sticker", zap.String("sticker_id", stickerID), zap.Error(err))
		h.setFlash(c, flashError, msgDeleteFailed)
		redirectHome(c, "gallery")
		return
	}
	if removed {
		stickersDeletedTotal.Inc()
		h.setFlash(c, flashSuccess, msgStickerDeleted)
	}
	redirectHome(c, "gallery")
}

// downloadSticker отдает изображение вложением. Внешние адреса отдаются редиректом.
func (h *Handler) downloadSticker(c *gin.Context) {
	sticker, ok := h.gallery.Get(c.Param("id"))
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	filename := web.DownloadFilename(sticker.Name)
	if !strings.HasPrefix(sticker.URL, "data:") {
		c.Redirect(http.StatusFound, sticker.URL)
		return
	}

	mimeType, data, err := decodeDataURI(sticker.URL)
	if err != nil {
		_ = c.Error(fmt.Errorf("sticker %s has a broken data uri: %w", sticker.ID, err)).SetMeta("download")
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, mimeType, data)
}

// decodeDataURI разбирает data:<mime>;base64,<payload>.
func decodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errors.New("not a data uri")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("data uri has no payload")
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, errors.New("only base64 data uris are supported")
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mimeType, data, nil
}
