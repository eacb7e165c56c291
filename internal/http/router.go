package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"lucentphoto.com/app/internal/http/handlers"
	"lucentphoto.com/app/internal/http/middleware"
)

// Handlers collects everything the router mounts. A nil optional handler
// leaves its routes unregistered.
type Handlers struct {
	Checkout     *handlers.CheckoutHandler
	Webhook      *handlers.WebhookHandler
	Sync         *handlers.SyncHandler
	Confirmation *handlers.ConfirmationHandler
	Contact      *handlers.ContactHandler
	Gallery      *handlers.GalleryHandler
	Health       *handlers.HealthHandler
}

func NewRouter(logger *slog.Logger, h Handlers) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.ErrorHandler(logger))

	r.GET("/healthz", h.Health.Check)

	// webhook route stays off /api so the provider endpoint never inherits
	// api-wide middleware later
	r.POST("/webhooks/stripe", h.Webhook.Handle)

	api := r.Group("/api")
	{
		api.POST("/checkout", h.Checkout.Create)
		api.POST("/orders/sync", h.Sync.SyncOne)
		api.GET("/orders/sync", h.Sync.SweepPending)
		api.GET("/orders/confirmation", h.Confirmation.Get)

		if h.Contact != nil {
			api.POST("/contact", h.Contact.Submit)
		}
		if h.Gallery != nil {
			api.GET("/gallery/:gallery", h.Gallery.List)
		}
	}

	return r
}
