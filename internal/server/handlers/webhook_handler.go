// Package handlers contains the gin HTTP handlers for the webhook surface.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
	"github.com/mamadbah2/rabbitry/internal/service/bot"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler bridges Telegram webhook calls into the bot service.
type WebhookHandler struct {
	bot           *bot.Service
	webhookSecret string
	logger        *zap.Logger
}

// NewWebhookHandler builds the handler. An empty secret disables header
// verification.
func NewWebhookHandler(botService *bot.Service, webhookSecret string, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{bot: botService, webhookSecret: webhookSecret, logger: logger}
}

// Receive handles POST /webhook/telegram. Telegram retries on non-2xx, so
// processing failures are still acknowledged with 200 after logging.
func (h *WebhookHandler) Receive(c *gin.Context) {
	if h.webhookSecret != "" && c.GetHeader(secretTokenHeader) != h.webhookSecret {
		h.logger.Warn("webhook call with bad secret token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid secret token"})
		return
	}

	var update models.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.logger.Warn("malformed webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed update"})
		return
	}

	if err := h.bot.HandleUpdate(c.Request.Context(), update); err != nil {
		h.logger.Error("update handling failed", zap.Int64("update_id", update.UpdateID), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SendMessage handles POST /send-message for manual pushes.
func (h *WebhookHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.bot.SendText(c.Request.Context(), req.ChatID, req.Message); err != nil {
		h.logger.Error("manual send failed", zap.Int64("chat_id", req.ChatID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "delivery failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

// Health handles GET /healthz.
func (h *WebhookHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
