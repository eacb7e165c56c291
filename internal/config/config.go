package config

import (
	"fmt"
	"os"
	"strings"
)

type SMTPConfig struct {
	Host          string
	Port          string
	User          string
	Pass          string
	TLSMode       string // "", "tls", "starttls"
	SkipVerifyTLS bool
}

type Config struct {
	Port  string
	DBDSN string

	StripeSecretKey         string
	StripeWebhookSecret     string
	StripeWebhookSecretTest string

	// PublicBaseURL wins over everything when set. PlatformBaseURL is the
	// hosting platform's own URL (mapped from whatever variable the platform
	// exposes).
	PublicBaseURL   string
	PlatformBaseURL string

	EmailFrom     string
	EmailFromName string
	ContactTo     string

	SMTP SMTPConfig
}

func Load() (Config, error) {
	cfg := Config{
		Port:                    envOr("PORT", "8080"),
		DBDSN:                   os.Getenv("DB_DSN"),
		StripeSecretKey:         os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:     os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeWebhookSecretTest: os.Getenv("STRIPE_WEBHOOK_SECRET_TEST"),
		PublicBaseURL:           os.Getenv("PUBLIC_BASE_URL"),
		PlatformBaseURL:         os.Getenv("PLATFORM_BASE_URL"),
		EmailFrom:               envOr("EMAIL_FROM", "orders@lucentphoto.com"),
		EmailFromName:           envOr("EMAIL_FROM_NAME", "Lucent Photo"),
		ContactTo:               envOr("CONTACT_TO", "studio@lucentphoto.com"),
		SMTP: SMTPConfig{
			Host:          os.Getenv("SMTP_HOST"),
			Port:          envOr("SMTP_PORT", "587"),
			User:          os.Getenv("SMTP_USER"),
			Pass:          os.Getenv("SMTP_PASS"),
			TLSMode:       envOr("SMTP_TLS_MODE", "starttls"),
			SkipVerifyTLS: os.Getenv("SMTP_SKIP_VERIFY_TLS") == "1",
		},
	}

	if cfg.DBDSN == "" {
		return Config{}, fmt.Errorf("config: DB_DSN is required")
	}
	if cfg.StripeSecretKey == "" {
		return Config{}, fmt.Errorf("config: STRIPE_SECRET_KEY is required")
	}
	// the webhook secret is chosen by the key's mode, so the matching one
	// must exist: a live key with only the test secret would silently reject
	// every webhook
	if isTestKey(cfg.StripeSecretKey) {
		if cfg.StripeWebhookSecret == "" && cfg.StripeWebhookSecretTest == "" {
			return Config{}, fmt.Errorf("config: STRIPE_WEBHOOK_SECRET or STRIPE_WEBHOOK_SECRET_TEST is required")
		}
	} else if cfg.StripeWebhookSecret == "" {
		return Config{}, fmt.Errorf("config: STRIPE_WEBHOOK_SECRET is required for a live Stripe key")
	}
	return cfg, nil
}

// isTestKey mirrors the provider's mode resolution; config cannot import the
// payments package (the mailer depends on config).
func isTestKey(secretKey string) bool {
	return strings.HasPrefix(secretKey, "sk_test_") || strings.HasPrefix(secretKey, "rk_test_")
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
