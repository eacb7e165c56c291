package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/lucent?parseTime=true")
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")
	t.Setenv("STRIPE_WEBHOOK_SECRET_TEST", "")
}

func TestLoadTestKeyAcceptsTestSecretOnly(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")
	t.Setenv("STRIPE_WEBHOOK_SECRET_TEST", "whsec_test_abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "whsec_test_abc", cfg.StripeWebhookSecretTest)
}

func TestLoadLiveKeyRequiresLiveSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk_live_abc")
	t.Setenv("STRIPE_WEBHOOK_SECRET_TEST", "whsec_test_abc")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_WEBHOOK_SECRET")

	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_live_abc")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "whsec_live_abc", cfg.StripeWebhookSecret)
}

func TestLoadTestKeyRequiresSomeSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresDSNAndKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")
	t.Setenv("STRIPE_WEBHOOK_SECRET_TEST", "whsec_test_abc")
	t.Setenv("DB_DSN", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/lucent")
	t.Setenv("STRIPE_SECRET_KEY", "")
	_, err = Load()
	assert.Error(t, err)
}
