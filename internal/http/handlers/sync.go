package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"lucentphoto.com/app/internal/http/middleware"
	"lucentphoto.com/app/internal/modules/orders"
	"lucentphoto.com/app/internal/modules/payments"
	"lucentphoto.com/app/internal/shared/apperr"
)

type SyncHandler struct {
	svc    *payments.SyncService
	logger *slog.Logger
}

func NewSyncHandler(svc *payments.SyncService, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{svc: svc, logger: logger}
}

type syncRequest struct {
	OrderID   uint   `json:"orderId"`
	SessionID string `json:"sessionId"`
}

// POST /api/orders/sync
// Exactly one of orderId and sessionId selects the order.
func (h *SyncHandler) SyncOne(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Request body is invalid.", nil))
		return
	}

	if (req.OrderID == 0) == (req.SessionID == "") {
		middleware.Fail(c, apperr.InvalidErr("Provide exactly one of orderId or sessionId.", nil))
		return
	}

	var (
		res payments.SyncResult
		err error
	)
	if req.OrderID != 0 {
		res, err = h.svc.SyncByOrderID(c.Request.Context(), req.OrderID)
	} else {
		if !payments.ValidSessionID(req.SessionID) {
			middleware.Fail(c, apperr.InvalidErr("sessionId is not a valid checkout session id.", nil))
			return
		}
		res, err = h.svc.SyncBySessionID(c.Request.Context(), req.SessionID)
	}
	if err != nil {
		middleware.Fail(c, syncErrToAppErr(err))
		return
	}

	c.JSON(http.StatusOK, res)
}

// GET /api/orders/sync
func (h *SyncHandler) SweepPending(c *gin.Context) {
	summary, err := h.svc.SyncPending(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, summary)
}

func syncErrToAppErr(err error) error {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		return apperr.NotFoundErr("Order not found.")
	case errors.Is(err, orders.ErrNoSession):
		return apperr.InvalidErr("Order has no checkout session to sync against.", nil)
	default:
		return apperr.Wrap(err)
	}
}
