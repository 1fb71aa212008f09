package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	flashCookieName = "flash_message"
	flashSeparator  = "|"
	flashCookieTTL  = 10 * time.Second // Кука живет только до следующей страницы
)

const (
	flashSuccess = "success"
	flashError   = "error"
)

// FlashMessage - сообщение, переживающее один редирект.
type FlashMessage struct {
	Type    string `json:"t"`
	Message string `json:"m"`
}

// setFlash создает подписанную HMAC-SHA256 куку с flash-сообщением.
func (h *Handler) setFlash(c *gin.Context, msgType, message string) {
	jsonData, err := json.Marshal(FlashMessage{Type: msgType, Message: message})
	if err != nil {
		h.logger.Error("Failed to marshal flash message", zap.Error(err))
		return
	}

	encodedData := base64.URLEncoding.EncodeToString(jsonData)
	encodedSignature := base64.URLEncoding.EncodeToString(h.sign(jsonData))

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName,
		encodedData+flashSeparator+encodedSignature,
		int(flashCookieTTL.Seconds()),
		"/",
		"",
		h.secureCookies,
		true, // HttpOnly
	)
}

// popFlash читает, проверяет и удаляет flash-куку. Поддельная кука игнорируется.
func (h *Handler) popFlash(c *gin.Context) *FlashMessage {
	cookie, err := c.Cookie(flashCookieName)
	if err != nil || cookie == "" {
		return nil
	}
	// Удаляем сразу, чтобы сообщение не показалось дважды
	c.SetCookie(flashCookieName, "", -1, "/", "", h.secureCookies, true)

	flash, err := h.decodeFlash(cookie)
	if err != nil {
		h.logger.Warn("Ignoring invalid flash cookie", zap.Error(err))
		return nil
	}
	return flash
}

func (h *Handler) decodeFlash(value string) (*FlashMessage, error) {
	parts := strings.SplitN(value, flashSeparator, 2)
	if len(parts) != 2 {
		return nil, errors.New("malformed flash cookie")
	}
	jsonData, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("bad flash payload: %w", err)
	}
	signature, err := base64.URLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("bad flash signature: %w", err)
	}
	if !hmac.Equal(h.sign(jsonData), signature) {
		return nil, errors.New("flash signature mismatch")
	}

	var flash FlashMessage
	if err := json.Unmarshal(jsonData, &flash); err != nil {
		return nil, fmt.Errorf("bad flash json: %w", err)
	}
	return &flash, nil
}

func (h *Handler) sign(data []byte) []byte {
	mac := hmac.New(sha256.New, h.flashSecret)
	mac.Write(data)
	return mac.Sum(nil)
}
