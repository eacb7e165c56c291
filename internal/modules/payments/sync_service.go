package payments

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lucentphoto.com/app/internal/modules/orders"
)

// sessionIDPattern is the strict session-id shape accepted from clients.
var sessionIDPattern = regexp.MustCompile(`^cs_(test|live)_[a-zA-Z0-9]+$`)

func ValidSessionID(s string) bool { return sessionIDPattern.MatchString(s) }

type SyncOutcome string

const (
	OutcomeSynced    SyncOutcome = "synced"
	OutcomeUnchanged SyncOutcome = "unchanged"
	OutcomeSkipped   SyncOutcome = "skipped"
	OutcomeError     SyncOutcome = "error"
)

type SyncResult struct {
	SessionID      string `json:"sessionId"`
	PreviousStatus string `json:"previousStatus"`
	Status         string `json:"status"`
	Changed        bool   `json:"changed"`

	// Provider-side summary for display/debugging.
	ProviderPaymentStatus string `json:"providerPaymentStatus,omitempty"`
	ProviderStatus        string `json:"providerStatus,omitempty"`
}

type SweepEntry struct {
	OrderID   uint        `json:"orderId"`
	SessionID string      `json:"sessionId,omitempty"`
	Outcome   SyncOutcome `json:"outcome"`
	Status    string      `json:"status,omitempty"`
	Error     string      `json:"error,omitempty"`
}

type SweepSummary struct {
	Checked   int          `json:"checked"`
	Synced    int          `json:"synced"`
	Unchanged int          `json:"unchanged"`
	Skipped   int          `json:"skipped"`
	Errored   int          `json:"errored"`
	Entries   []SweepEntry `json:"entries"`
}

// SyncService corrects order status by polling the provider, covering the
// window between session creation and webhook delivery and the case of lost
// webhooks. It never sends confirmation email; only the webhook path does.
type SyncService struct {
	db       *gorm.DB
	provider Provider
	logger   *slog.Logger
}

func NewSyncService(db *gorm.DB, p Provider) *SyncService {
	return &SyncService{db: db, provider: p, logger: slog.Default()}
}

func (s *SyncService) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

func (s *SyncService) SyncByOrderID(ctx context.Context, orderID uint) (SyncResult, error) {
	ord, err := orders.NewRepo(s.db).ByID(ctx, orderID)
	if err != nil {
		return SyncResult{}, err
	}
	return s.syncOrder(ctx, ord)
}

func (s *SyncService) SyncBySessionID(ctx context.Context, sessionID string) (SyncResult, error) {
	ord, err := orders.NewRepo(s.db).FirstBySession(ctx, sessionID)
	if err != nil {
		return SyncResult{}, err
	}
	return s.syncOrder(ctx, ord)
}

// syncOrder re-derives status from provider truth; safe to call repeatedly
// and concurrently with webhook processing.
func (s *SyncService) syncOrder(ctx context.Context, ord orders.Order) (SyncResult, error) {
	if ord.StripeSessionID == "" {
		return SyncResult{}, orders.ErrNoSession
	}

	out := SyncResult{
		SessionID:      ord.StripeSessionID,
		PreviousStatus: ord.Status,
		Status:         ord.Status,
	}

	sess, err := s.provider.GetCheckoutSession(ctx, ord.StripeSessionID)
	if err != nil {
		if IsSessionMissing(err) {
			// the provider does not know this session at all; leave it for a
			// human instead of keeping it pending forever
			if uerr := s.markSessionInvalid(ctx, ord.StripeSessionID); uerr != nil {
				return SyncResult{}, uerr
			}
			s.logger.WarnContext(ctx, "checkout session missing at provider, order marked invalid",
				"session_id", ord.StripeSessionID)
			out.Status = orders.StatusInvalid
			out.Changed = ord.Status != orders.StatusInvalid
			return out, nil
		}
		return SyncResult{}, err
	}

	out.ProviderPaymentStatus = sess.PaymentStatus
	out.ProviderStatus = sess.Status

	switch {
	case sess.PaymentStatus == PaymentStatusPaid:
		// shipped is already past confirmed; never walk it back
		if ord.Status != orders.StatusConfirmed && ord.Status != orders.StatusShipped {
			if err := s.confirmSession(ctx, sess); err != nil {
				return SyncResult{}, err
			}
			out.Status = orders.StatusConfirmed
			out.Changed = true
		}
	case sess.PaymentStatus == PaymentStatusUnpaid && sess.Status == SessionStatusExpired:
		if ord.Status == orders.StatusPending {
			if err := s.expireSession(ctx, sess.ID); err != nil {
				return SyncResult{}, err
			}
			out.Status = orders.StatusExpired
			out.Changed = true
		}
	case sess.PaymentStatus == PaymentStatusUnpaid && sess.Status == SessionStatusOpen:
		// still in the checkout window; pending stands
	default:
		// unknown combination, leave the order untouched
	}

	return out, nil
}

// SyncPending sweeps every pending order. One provider failure never aborts
// the sweep; each order records its own outcome.
func (s *SyncService) SyncPending(ctx context.Context) (SweepSummary, error) {
	rows, err := orders.NewRepo(s.db).Pending(ctx)
	if err != nil {
		return SweepSummary{}, err
	}

	summary := SweepSummary{Checked: len(rows)}
	sessionOutcome := map[string]SweepEntry{}

	for _, ord := range rows {
		if ord.StripeSessionID == "" {
			summary.Skipped++
			summary.Entries = append(summary.Entries, SweepEntry{
				OrderID: ord.ID, Outcome: OutcomeSkipped,
			})
			continue
		}

		// all rows of one session move together; resolve each session once
		entry, seen := sessionOutcome[ord.StripeSessionID]
		if !seen {
			entry = s.sweepSession(ctx, ord)
			sessionOutcome[ord.StripeSessionID] = entry
		}
		entry.OrderID = ord.ID

		switch entry.Outcome {
		case OutcomeSynced:
			summary.Synced++
		case OutcomeUnchanged:
			summary.Unchanged++
		case OutcomeError:
			summary.Errored++
		}
		summary.Entries = append(summary.Entries, entry)
	}

	return summary, nil
}

func (s *SyncService) sweepSession(ctx context.Context, ord orders.Order) SweepEntry {
	entry := SweepEntry{SessionID: ord.StripeSessionID}

	sess, err := s.provider.GetCheckoutSession(ctx, ord.StripeSessionID)
	if err != nil {
		s.logger.WarnContext(ctx, "sweep: provider lookup failed",
			"session_id", ord.StripeSessionID, "err", err)
		entry.Outcome = OutcomeError
		entry.Error = "provider lookup failed"
		return entry
	}

	switch {
	case sess.PaymentStatus == PaymentStatusPaid:
		if err := s.confirmSession(ctx, sess); err != nil {
			entry.Outcome = OutcomeError
			entry.Error = "update failed"
			return entry
		}
		entry.Outcome = OutcomeSynced
		entry.Status = orders.StatusConfirmed
	case sess.Status == SessionStatusExpired:
		if err := s.expireSession(ctx, sess.ID); err != nil {
			entry.Outcome = OutcomeError
			entry.Error = "update failed"
			return entry
		}
		entry.Outcome = OutcomeSynced
		entry.Status = orders.StatusExpired
	default:
		entry.Outcome = OutcomeUnchanged
		entry.Status = orders.StatusPending
	}
	return entry
}

func (s *SyncService) confirmSession(ctx context.Context, sess Session) error {
	updates := map[string]any{
		"status":     orders.StatusConfirmed,
		"is_test":    orders.IsTestSession(sess.ID),
		"updated_at": time.Now(),
	}
	if sess.PaymentIntentID != "" {
		updates["stripe_payment_intent_id"] = sess.PaymentIntentID
	}
	if sess.Shipping != nil && sess.Shipping.Complete() {
		raw, err := json.Marshal(sess.Shipping)
		if err != nil {
			return err
		}
		updates["shipping_json"] = datatypes.JSON(raw)
	}
	return s.db.WithContext(ctx).Model(&orders.Order{}).
		Where("stripe_session_id = ? AND status <> ?", sess.ID, orders.StatusShipped).
		Updates(updates).Error
}

func (s *SyncService) expireSession(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Model(&orders.Order{}).
		Where("stripe_session_id = ? AND status = ?", sessionID, orders.StatusPending).
		Updates(map[string]any{
			"status":     orders.StatusExpired,
			"updated_at": time.Now(),
		}).Error
}

func (s *SyncService) markSessionInvalid(ctx context.Context, sessionID string) error {
	return s.db.WithContext(ctx).Model(&orders.Order{}).
		Where("stripe_session_id = ? AND status NOT IN ?", sessionID, []string{orders.StatusConfirmed, orders.StatusShipped}).
		Updates(map[string]any{
			"status":     orders.StatusInvalid,
			"updated_at": time.Now(),
		}).Error
}
