package payments

import (
	"errors"
	"fmt"
)

type ProviderErrorKind string

const (
	KindCard           ProviderErrorKind = "card"
	KindRateLimit      ProviderErrorKind = "rate_limit"
	KindInvalidRequest ProviderErrorKind = "invalid_request"
	KindSessionMissing ProviderErrorKind = "session_missing"
	KindGeneric        ProviderErrorKind = "generic"
)

// ProviderError classifies a payment-provider failure without leaking the
// raw provider payload to callers.
type ProviderError struct {
	Kind ProviderErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider %s error: %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func ProviderErrKind(err error) (ProviderErrorKind, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

func IsSessionMissing(err error) bool {
	k, ok := ProviderErrKind(err)
	return ok && k == KindSessionMissing
}

var (
	ErrMissingPaymentIntent = errors.New("webhook event has no payment intent")
	ErrBadSignature         = errors.New("webhook signature verification failed")
)
