package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lucentphoto.com/app/internal/modules/catalog"
	"lucentphoto.com/app/internal/modules/email"
	"lucentphoto.com/app/internal/modules/orders"
	"lucentphoto.com/app/internal/shared/money"
)

// WebhookService is the sole authoritative writer of confirmed/cancelled
// status. Stripe delivers at least once; everything here must be idempotent.
type WebhookService struct {
	db           *gorm.DB
	email        email.Sender
	providerName string
	logger       *slog.Logger
}

func NewWebhookService(db *gorm.DB, sender email.Sender, providerName string) *WebhookService {
	return &WebhookService{db: db, email: sender, providerName: providerName, logger: slog.Default()}
}

func (s *WebhookService) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handle processes one verified webhook event inside a single transaction.
// The confirmation email is part of the transaction's contract: if the send
// fails, the status update and the event record roll back and the provider
// retries the delivery.
func (s *WebhookService) Handle(ctx context.Context, ev WebhookEvent, rawBody []byte) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		pe := ProviderEvent{
			ID:          uuid.NewString(),
			Provider:    s.providerName,
			EventID:     ev.ID,
			EventType:   ev.Type,
			SessionID:   ev.Session.ID,
			PayloadJSON: datatypes.JSON(rawBody),
			ReceivedAt:  now,
		}

		// dedupe: unique(provider, event_id). A concurrent duplicate delivery
		// blocks on this index until the first transaction commits, then
		// lands here and is acknowledged without reprocessing.
		if err := tx.WithContext(ctx).Create(&pe).Error; err != nil {
			if isDup(err) {
				s.logger.InfoContext(ctx, "webhook event deduplicated",
					"provider", s.providerName, "event_id", ev.ID, "type", ev.Type)
				return nil
			}
			s.logger.ErrorContext(ctx, "failed to persist provider event",
				"provider", s.providerName, "event_id", ev.ID, "err", err)
			return err
		}

		var applyErr error
		switch ev.Type {
		case EventCheckoutCompleted:
			applyErr = s.applySessionCompleted(ctx, tx, ev)
		case EventCheckoutExpired:
			applyErr = s.applySessionExpired(ctx, tx, ev)
		default:
			s.logger.InfoContext(ctx, "ignoring unhandled webhook event type",
				"event_id", ev.ID, "type", ev.Type)
		}

		if applyErr != nil {
			s.logger.ErrorContext(ctx, "webhook event apply failed",
				"event_id", ev.ID, "type", ev.Type, "session_id", ev.Session.ID, "err", applyErr)
			// propagate so the whole transaction rolls back and the provider
			// redelivers
			return applyErr
		}

		processed := time.Now()
		if err := tx.WithContext(ctx).Model(&ProviderEvent{}).
			Where("id = ?", pe.ID).
			Update("processed_at", &processed).Error; err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "webhook event processed",
			"event_id", ev.ID, "type", ev.Type, "session_id", ev.Session.ID)
		return nil
	})
}

func (s *WebhookService) applySessionCompleted(ctx context.Context, tx *gorm.DB, ev WebhookEvent) error {
	sess := ev.Session
	if sess.PaymentIntentID == "" {
		return ErrMissingPaymentIntent
	}

	var rows []orders.Order
	if err := orders.ForUpdate(tx.WithContext(ctx)).
		Order("id ASC").
		Find(&rows, "stripe_session_id = ?", sess.ID).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		// rows are written at session creation; their absence means lost data
		return fmt.Errorf("%w: %s", orders.ErrSessionMissing, sess.ID)
	}

	// idempotency guard: a redelivery for a session already at confirmed or
	// beyond (shipped) is a committed no-op, so it never re-sends the email
	// and never walks a shipped row back to confirmed.
	allSettled := true
	for _, r := range rows {
		if r.Status != orders.StatusConfirmed && r.Status != orders.StatusShipped {
			allSettled = false
			break
		}
	}
	if allSettled {
		s.logger.InfoContext(ctx, "session already confirmed, skipping",
			"session_id", sess.ID, "event_id", ev.ID)
		return nil
	}

	updates := map[string]any{
		"status":                   orders.StatusConfirmed,
		"stripe_payment_intent_id": sess.PaymentIntentID,
		"is_test":                  orders.IsTestSession(sess.ID),
		"updated_at":               time.Now(),
	}
	if sess.Shipping != nil && sess.Shipping.Complete() {
		raw, err := json.Marshal(sess.Shipping)
		if err != nil {
			return err
		}
		updates["shipping_json"] = datatypes.JSON(raw)
	}
	if err := orders.UpdateSession(ctx, tx, sess.ID, updates); err != nil {
		return err
	}

	lines, total, err := s.confirmationLines(ctx, tx, rows)
	if err != nil {
		return err
	}

	head := rows[0]
	if err := email.SendOrderConfirmation(s.email, head.CustomerEmail, head.CustomerName, sess.ID, lines, total); err != nil {
		return fmt.Errorf("confirmation email failed: %w", err)
	}
	return nil
}

func (s *WebhookService) applySessionExpired(ctx context.Context, tx *gorm.DB, ev WebhookEvent) error {
	res := tx.WithContext(ctx).Model(&orders.Order{}).
		Where("stripe_session_id = ? AND status = ?", ev.Session.ID, orders.StatusPending).
		Updates(map[string]any{
			"status":     orders.StatusCancelled,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		s.logger.InfoContext(ctx, "no pending orders for expired session",
			"session_id", ev.Session.ID, "event_id", ev.ID)
	}
	return nil
}

// confirmationLines re-reads catalog details through the transaction so the
// email payload matches what the customer bought.
func (s *WebhookService) confirmationLines(ctx context.Context, tx *gorm.DB, rows []orders.Order) ([]email.ConfirmationLine, string, error) {
	lines := make([]email.ConfirmationLine, 0, len(rows))
	var totalCents int64

	for _, row := range rows {
		line := email.ConfirmationLine{
			Quantity:  row.Quantity,
			LineTotal: row.TotalAmount,
		}
		opts := row.Options()

		switch row.OrderType {
		case orders.OrderTypeShirt:
			line.Size = opts["size"]
			if line.Size == "" && row.Size != nil {
				line.Size = *row.Size
			}
			shirt, err := catalog.ShirtByID(ctx, tx, row.ProductID)
			if err != nil {
				if !errors.Is(err, catalog.ErrNotFound) {
					return nil, "", err
				}
				line.ProductName = "Shirt"
			} else {
				line.ProductName = shirt.Name
			}
		case orders.OrderTypePhotoPackage:
			line.EventName = opts["eventName"]
			line.StudentName = opts["studentName"]
			pkg, err := catalog.PhotoPackageByID(ctx, tx, row.ProductID)
			if err != nil {
				if !errors.Is(err, catalog.ErrNotFound) {
					return nil, "", err
				}
				line.ProductName = "Photo package"
			} else {
				line.ProductName = pkg.Name
			}
		default:
			line.ProductName = "Item"
		}

		cents, err := money.PriceToCents(row.TotalAmount)
		if err != nil {
			return nil, "", err
		}
		totalCents += cents

		lines = append(lines, line)
	}

	return lines, money.FormatCents(totalCents), nil
}

func isDup(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return true
	}
	// sqlite, used in tests
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
