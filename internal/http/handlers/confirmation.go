package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lucentphoto.com/app/internal/http/middleware"
	"lucentphoto.com/app/internal/modules/orders"
	"lucentphoto.com/app/internal/modules/payments"
	"lucentphoto.com/app/internal/shared/apperr"
)

const backgroundSyncTimeout = 10 * time.Second

type ConfirmationHandler struct {
	svc    *orders.ConfirmationService
	sync   *payments.SyncService
	logger *slog.Logger
}

func NewConfirmationHandler(svc *orders.ConfirmationService, sync *payments.SyncService, logger *slog.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{svc: svc, sync: sync, logger: logger}
}

// GET /api/orders/confirmation?session_id=
// Kicks off a background reconcile for the session so a customer landing
// here before the webhook arrives sees the order flip to confirmed on a
// refresh. Reconcile failures are logged, never surfaced.
func (h *ConfirmationHandler) Get(c *gin.Context) {
	sessionID := c.Query("session_id")
	if !payments.ValidSessionID(sessionID) {
		middleware.Fail(c, apperr.InvalidErr("session_id is not a valid checkout session id.", nil))
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundSyncTimeout)
		defer cancel()
		if _, err := h.sync.SyncBySessionID(ctx, sessionID); err != nil {
			h.logger.Warn("background session sync failed", "session_id", sessionID, "err", err)
		}
	}()

	conf, err := h.svc.BySession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, orders.ErrSessionMissing) {
			middleware.Fail(c, apperr.NotFoundErr("No order found for this checkout session."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, confirmationResponse(conf))
}

// Single-line orders keep the flat legacy shape; carts get an items array
// with a grand total.
func confirmationResponse(conf orders.Confirmation) gin.H {
	base := gin.H{
		"sessionId":     conf.SessionID,
		"status":        conf.Status,
		"customerEmail": conf.CustomerEmail,
		"customerName":  conf.CustomerName,
		"isTest":        conf.IsTest,
		"totalAmount":   conf.TotalAmount,
	}

	if len(conf.Items) == 1 {
		item := conf.Items[0]
		base["orderId"] = item.OrderID
		base["orderType"] = item.OrderType
		base["productName"] = item.ProductName
		base["quantity"] = item.Quantity
		if item.Size != "" {
			base["size"] = item.Size
		}
		if item.EventName != "" {
			base["eventName"] = item.EventName
		}
		if item.StudentName != "" {
			base["studentName"] = item.StudentName
		}
		if item.ParentName != "" {
			base["parentName"] = item.ParentName
		}
		return base
	}

	base["items"] = conf.Items
	return base
}
