package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"lucentphoto.com/app/internal/http/middleware"
	"lucentphoto.com/app/internal/http/validation"
	"lucentphoto.com/app/internal/modules/email"
	"lucentphoto.com/app/internal/shared/apperr"
)

type ContactHandler struct {
	sender   email.Sender
	studioTo string
	logger   *slog.Logger
}

func NewContactHandler(sender email.Sender, studioTo string, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{sender: sender, studioTo: studioTo, logger: logger}
}

type contactRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,min=10,max=5000"`
}

// POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Please check your message and try again.", fields))
		return
	}

	if err := email.SendContactMessage(h.sender, h.studioTo, req.Name, req.Email, req.Message); err != nil {
		h.logger.Error("contact message send failed", "err", err)
		middleware.Fail(c, apperr.BadGatewayErr("Could not send your message. Please try again later.", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": true})
}
