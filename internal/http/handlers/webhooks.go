package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"lucentphoto.com/app/internal/modules/payments"
)

type WebhookHandler struct {
	logger   *slog.Logger
	provider payments.Provider
	svc      *payments.WebhookService
}

func NewWebhookHandler(logger *slog.Logger, p payments.Provider, svc *payments.WebhookService) *WebhookHandler {
	return &WebhookHandler{logger: logger, provider: p, svc: svc}
}

// POST /webhooks/stripe
// Body is raw JSON; the signature header is checked before anything else.
// Signature or payload problems are terminal 4xx so the provider stops
// retrying; processing failures are 5xx so it retries.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	ev, err := h.provider.VerifyWebhook(c.GetHeader("Stripe-Signature"), body)
	if err != nil {
		h.logger.Warn("webhook rejected", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature or payload"})
		return
	}

	if err := h.svc.Handle(c.Request.Context(), ev, body); err != nil {
		h.logger.Error("webhook apply failed", "event_id", ev.ID, "type", ev.Type, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
