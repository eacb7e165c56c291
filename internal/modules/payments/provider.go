package payments

import (
	"context"

	"lucentphoto.com/app/internal/modules/orders"
)

// Session states as reported by the provider.
const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"

	SessionStatusOpen     = "open"
	SessionStatusComplete = "complete"
	SessionStatusExpired  = "expired"
)

// Webhook event types this service reacts to.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

type CheckoutItem struct {
	Name       string
	UnitAmount int64 // minor units, catalog-resolved
	Quantity   int64
}

type SessionRequest struct {
	Items         []CheckoutItem
	CustomerEmail string
	SuccessURL    string
	CancelURL     string

	// CollectShipping is true iff the cart contains physical goods.
	CollectShipping bool

	Metadata map[string]string

	// IdempotencyKey is forwarded to the provider call itself so a retried
	// request returns the original session instead of a duplicate.
	IdempotencyKey string
}

type SessionRef struct {
	ID  string
	URL string
}

// Session is the live provider-side state of a checkout session.
type Session struct {
	ID              string
	PaymentStatus   string // paid|unpaid|no_payment_required
	Status          string // open|complete|expired
	PaymentIntentID string
	CustomerName    string
	CustomerPhone   string
	Shipping        *orders.ShippingAddress // nil unless the provider returned one
}

type WebhookEvent struct {
	ID      string
	Type    string
	Session Session
}

type Provider interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, req SessionRequest) (SessionRef, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (Session, error)

	// VerifyWebhook checks the signature header against the mode-appropriate
	// secret and parses the event. An unverifiable payload must error.
	VerifyWebhook(sigHeader string, body []byte) (WebhookEvent, error)
}
