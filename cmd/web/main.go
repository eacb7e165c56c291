package main

import (
	"context"
	"log"
	"os"

	"log/slog"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"lucentphoto.com/app/internal/config"
	apphttp "lucentphoto.com/app/internal/http"
	"lucentphoto.com/app/internal/http/handlers"
	"lucentphoto.com/app/internal/mailer"
	"lucentphoto.com/app/internal/modules/cart"
	"lucentphoto.com/app/internal/modules/catalog"
	"lucentphoto.com/app/internal/modules/checkout"
	"lucentphoto.com/app/internal/modules/email"
	"lucentphoto.com/app/internal/modules/orders"
	"lucentphoto.com/app/internal/modules/payments"
	"lucentphoto.com/app/internal/storage"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	provider := payments.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.StripeWebhookSecretTest)
	logger.Info("payment provider ready", "provider", provider.Name(), "mode", provider.Mode())

	sender := buildSender(cfg, logger)

	ordersRepo := orders.NewRepo(db)
	validator := cart.NewValidator(catalog.NewRepo(db))

	checkoutSvc := checkout.NewService(ordersRepo, validator, provider, cfg.PublicBaseURL, cfg.PlatformBaseURL)
	checkoutSvc.SetLogger(logger)

	webhookSvc := payments.NewWebhookService(db, sender, provider.Name())
	webhookSvc.SetLogger(logger)

	syncSvc := payments.NewSyncService(db, provider)
	syncSvc.SetLogger(logger)

	confirmationSvc := orders.NewConfirmationService(db, logger)

	h := apphttp.Handlers{
		Checkout:     handlers.NewCheckoutHandler(checkoutSvc, logger),
		Webhook:      handlers.NewWebhookHandler(logger, provider, webhookSvc),
		Sync:         handlers.NewSyncHandler(syncSvc, logger),
		Confirmation: handlers.NewConfirmationHandler(confirmationSvc, syncSvc, logger),
		Contact:      handlers.NewContactHandler(sender, cfg.ContactTo, logger),
		Health:       handlers.NewHealthHandler(db),
	}

	if store, err := storage.FromEnv(context.Background()); err != nil {
		logger.Warn("gallery storage disabled", "err", err)
	} else {
		logger.Info("gallery storage ready", "driver", store.Driver)
		h.Gallery = handlers.NewGalleryHandler(store.Storage, logger)
	}

	r := apphttp.NewRouter(logger, h)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// buildSender picks the outbound email transport: Mailtrap's HTTP API when a
// token is configured, SMTP otherwise.
func buildSender(cfg config.Config, logger *slog.Logger) email.Sender {
	if os.Getenv("MAILTRAP_API_TOKEN") != "" {
		logger.Info("email transport: mailtrap")
		return email.NewMailtrapProvider(cfg.EmailFrom, cfg.EmailFromName)
	}
	if cfg.SMTP.Host == "" {
		logger.Warn("email transport: mock (no SMTP_HOST configured); confirmation emails will not be delivered")
		return &email.MockSender{}
	}
	logger.Info("email transport: smtp", "host", cfg.SMTP.Host)
	return email.NewMailerAdapter(mailer.NewSMTPMailer(cfg.SMTP), cfg.EmailFrom, cfg.EmailFromName)
}
