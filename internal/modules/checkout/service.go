package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"gorm.io/datatypes"

	"lucentphoto.com/app/internal/modules/cart"
	"lucentphoto.com/app/internal/modules/orders"
	"lucentphoto.com/app/internal/modules/payments"
	"lucentphoto.com/app/internal/shared/apperr"
	"lucentphoto.com/app/internal/shared/money"
)

const (
	CheckoutTypeCart   = "cart"
	CheckoutTypeSingle = "single"
)

type Customer struct {
	Email string
	Name  string
	Phone string
}

// PackageMeta is the event/student/parent metadata attached to photo-package
// lines.
type PackageMeta struct {
	EventName   string
	StudentName string
	ParentName  string
}

type CreateSessionInput struct {
	Lines    []cart.Line
	Customer Customer
	Meta     PackageMeta

	// Legacy single-item submissions are tagged differently in session
	// metadata for support/debugging.
	CheckoutType string

	// Request context for base-URL resolution.
	Origin string
	Host   string
}

type CreateSessionResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// Service turns a validated cart into a provider checkout session plus one
// pending order row per line item.
type Service struct {
	repo      *orders.Repo
	validator *cart.Validator
	provider  payments.Provider

	publicBaseURL   string
	platformBaseURL string

	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo *orders.Repo, v *cart.Validator, p payments.Provider, publicBaseURL, platformBaseURL string) *Service {
	return &Service{
		repo:            repo,
		validator:       v,
		provider:        p,
		publicBaseURL:   publicBaseURL,
		platformBaseURL: platformBaseURL,
		logger:          slog.Default(),
		now:             time.Now,
	}
}

func (s *Service) SetLogger(logger *slog.Logger) { s.logger = logger }

// SetClock overrides the time source (tests).
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) CreateSession(ctx context.Context, in CreateSessionInput) (CreateSessionResult, error) {
	// validation reads the catalog, so a dead database rejects here with 503
	// before the provider is ever called
	resolved, err := s.validator.Validate(ctx, in.Lines, in.Customer.Email)
	if err != nil {
		return CreateSessionResult{}, err
	}

	key := IdempotencyKey(resolved, in.Customer.Email, s.now())

	items := make([]payments.CheckoutItem, 0, len(resolved))
	collectShipping := false
	for _, l := range resolved {
		items = append(items, payments.CheckoutItem{
			Name:       l.ProductName,
			UnitAmount: l.UnitAmount,
			Quantity:   int64(l.Quantity),
		})
		if l.ProductType == orders.OrderTypeShirt {
			collectShipping = true
		}
	}

	base := ResolveBaseURL(s.publicBaseURL, s.platformBaseURL, in.Origin, in.Host)

	checkoutType := in.CheckoutType
	if checkoutType == "" {
		checkoutType = CheckoutTypeCart
	}

	ref, err := s.provider.CreateCheckoutSession(ctx, payments.SessionRequest{
		Items:           items,
		CustomerEmail:   in.Customer.Email,
		SuccessURL:      base + "/order-confirmation?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:       base + "/cart",
		CollectShipping: collectShipping,
		IdempotencyKey:  key,
		Metadata: map[string]string{
			"customer_name":   in.Customer.Name,
			"item_count":      strconv.Itoa(len(resolved)),
			"checkout_type":   checkoutType,
			"idempotency_key": key,
		},
	})
	if err != nil {
		return CreateSessionResult{}, providerToAppErr(err)
	}

	rows, err := s.buildRows(resolved, in, ref.ID)
	if err != nil {
		return CreateSessionResult{}, apperr.Wrap(err)
	}
	if err := s.repo.Create(ctx, rows); err != nil {
		// session exists at the provider but we failed to record it; the
		// sweep cannot repair a session with no rows, so this needs eyes
		s.logger.ErrorContext(ctx, "order rows not written for created session",
			"session_id", ref.ID, "err", err)
		return CreateSessionResult{}, apperr.Wrap(err)
	}

	s.logger.InfoContext(ctx, "checkout session created",
		"session_id", ref.ID, "items", len(rows), "collect_shipping", collectShipping)

	return CreateSessionResult{SessionID: ref.ID, URL: ref.URL}, nil
}

func (s *Service) buildRows(resolved []cart.ResolvedLine, in CreateSessionInput, sessionID string) ([]orders.Order, error) {
	isTest := orders.IsTestSession(sessionID)
	now := s.now()

	var phone *string
	if in.Customer.Phone != "" {
		p := in.Customer.Phone
		phone = &p
	}

	rows := make([]orders.Order, 0, len(resolved))
	for _, l := range resolved {
		row := orders.Order{
			CustomerEmail:   in.Customer.Email,
			CustomerName:    in.Customer.Name,
			CustomerPhone:   phone,
			OrderType:       l.ProductType,
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			TotalAmount:     money.FormatCents(l.LineTotal()),
			StripeSessionID: sessionID,
			IsTest:          isTest,
			Status:          orders.StatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		opts := map[string]string{}
		switch l.ProductType {
		case orders.OrderTypeShirt:
			opts["size"] = l.Size
			id := l.ProductID
			size := l.Size
			row.ShirtID = &id
			row.Size = &size
		case orders.OrderTypePhotoPackage:
			if in.Meta.EventName != "" {
				opts["eventName"] = in.Meta.EventName
			}
			if in.Meta.StudentName != "" {
				opts["studentName"] = in.Meta.StudentName
			}
			if in.Meta.ParentName != "" {
				opts["parentName"] = in.Meta.ParentName
			}
		}
		raw, err := json.Marshal(opts)
		if err != nil {
			return nil, fmt.Errorf("marshal order options: %w", err)
		}
		row.OptionsJSON = datatypes.JSON(raw)

		rows = append(rows, row)
	}
	return rows, nil
}

// providerToAppErr maps classified provider failures onto user-facing errors
// without leaking raw provider payloads.
func providerToAppErr(err error) error {
	kind, ok := payments.ProviderErrKind(err)
	if !ok {
		return apperr.Wrap(err)
	}
	switch kind {
	case payments.KindCard:
		return apperr.PaymentFailedErr("Payment method error - please check your card.", err)
	case payments.KindRateLimit:
		return apperr.RateLimitedErr("Too many checkout attempts. Please wait a moment and try again.", err)
	case payments.KindInvalidRequest:
		return &apperr.AppError{
			Kind:      apperr.Invalid,
			PublicMsg: "Checkout request was rejected. Please refresh and try again.",
			Err:       err,
		}
	default:
		return apperr.BadGatewayErr("Payment service error. Please try again shortly.", err)
	}
}
