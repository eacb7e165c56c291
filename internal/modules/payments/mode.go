package payments

import "strings"

// Mode is the process-wide Stripe mode, resolved once at startup from the
// configured secret key and threaded through instead of re-derived from
// string prefixes at call sites.
type Mode string

const (
	ModeTest Mode = "test"
	ModeLive Mode = "live"
)

func ResolveMode(secretKey string) Mode {
	if strings.HasPrefix(secretKey, "sk_test_") || strings.HasPrefix(secretKey, "rk_test_") {
		return ModeTest
	}
	return ModeLive
}
