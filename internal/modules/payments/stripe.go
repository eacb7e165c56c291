package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"lucentphoto.com/app/internal/modules/orders"
)

// StripeProvider adapts the Stripe SDK to the Provider interface. The webhook
// secret is chosen once at construction from the resolved mode.
type StripeProvider struct {
	api           *client.API
	mode          Mode
	webhookSecret string
}

func NewStripeProvider(secretKey, liveSecret, testSecret string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)

	mode := ResolveMode(secretKey)
	secret := liveSecret
	if mode == ModeTest && testSecret != "" {
		secret = testSecret
	}
	return &StripeProvider{api: api, mode: mode, webhookSecret: secret}
}

func (p *StripeProvider) Name() string { return "stripe" }
func (p *StripeProvider) Mode() Mode   { return p.mode }

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req SessionRequest) (SessionRef, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		CustomerEmail:      stripe.String(req.CustomerEmail),
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(req.IdempotencyKey)
	}
	if req.CollectShipping {
		params.ShippingAddressCollection = &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{"US"}),
		}
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	for _, it := range req.Items {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(it.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(it.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Name),
				},
			},
		})
	}

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return SessionRef{}, p.classify(err)
	}
	return SessionRef{ID: sess.ID, URL: sess.URL}, nil
}

func (p *StripeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return Session{}, p.classify(err)
	}
	return sessionFromStripe(sess), nil
}

func (p *StripeProvider) VerifyWebhook(sigHeader string, body []byte) (WebhookEvent, error) {
	event, err := webhook.ConstructEvent(body, sigHeader, p.webhookSecret)
	if err != nil {
		return WebhookEvent{}, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	out := WebhookEvent{ID: event.ID, Type: string(event.Type)}
	switch out.Type {
	case EventCheckoutCompleted, EventCheckoutExpired:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return WebhookEvent{}, fmt.Errorf("%w: bad session payload: %v", ErrBadSignature, err)
		}
		out.Session = sessionFromStripe(&sess)
	}
	return out, nil
}

func sessionFromStripe(s *stripe.CheckoutSession) Session {
	out := Session{
		ID:            s.ID,
		PaymentStatus: string(s.PaymentStatus),
		Status:        string(s.Status),
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	if cd := s.CustomerDetails; cd != nil {
		out.CustomerName = cd.Name
		out.CustomerPhone = cd.Phone
	}
	if sd := s.ShippingDetails; sd != nil && sd.Address != nil {
		out.Shipping = addressFromStripe(sd.Name, sd.Address)
	} else if cd := s.CustomerDetails; cd != nil && cd.Address != nil {
		out.Shipping = addressFromStripe(cd.Name, cd.Address)
	}
	return out
}

func addressFromStripe(name string, a *stripe.Address) *orders.ShippingAddress {
	return &orders.ShippingAddress{
		Name:       name,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func (p *StripeProvider) classify(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return &ProviderError{Kind: KindGeneric, Err: err}
	}
	switch {
	case se.Code == stripe.ErrorCodeResourceMissing:
		return &ProviderError{Kind: KindSessionMissing, Err: err}
	case se.Type == stripe.ErrorTypeCard:
		return &ProviderError{Kind: KindCard, Err: err}
	case se.HTTPStatusCode == http.StatusTooManyRequests:
		return &ProviderError{Kind: KindRateLimit, Err: err}
	case se.Type == stripe.ErrorTypeInvalidRequest:
		return &ProviderError{Kind: KindInvalidRequest, Err: err}
	default:
		return &ProviderError{Kind: KindGeneric, Err: err}
	}
}
