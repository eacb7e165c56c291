package orders

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// DB returns the underlying database connection for direct queries.
func (r *Repo) DB() *gorm.DB { return r.db }

func (r *Repo) ByID(ctx context.Context, id uint) (Order, error) {
	var o Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) FirstBySession(ctx context.Context, sessionID string) (Order, error) {
	var o Order
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		First(&o, "stripe_session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) BySession(ctx context.Context, sessionID string) ([]Order, error) {
	return BySession(ctx, r.db, sessionID)
}

func (r *Repo) Pending(ctx context.Context) ([]Order, error) {
	var out []Order
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&out, "status = ?", StatusPending).Error
	return out, err
}

func (r *Repo) Create(ctx context.Context, rows []Order) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// BySession loads every line item of one checkout session, oldest first.
func BySession(ctx context.Context, tx *gorm.DB, sessionID string) ([]Order, error) {
	var out []Order
	err := tx.WithContext(ctx).
		Order("id ASC").
		Find(&out, "stripe_session_id = ?", sessionID).Error
	return out, err
}

// ForUpdate applies a SELECT ... FOR UPDATE row lock. The sqlite dialect used
// in tests has no FOR UPDATE syntax; its writes are serialized anyway.
func ForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// UpdateSession applies one set of column updates to every row of a session,
// preserving the all-rows-move-together invariant. Rows already shipped are
// past this service's lifecycle and never written.
func UpdateSession(ctx context.Context, tx *gorm.DB, sessionID string, updates map[string]any) error {
	return tx.WithContext(ctx).Model(&Order{}).
		Where("stripe_session_id = ? AND status <> ?", sessionID, StatusShipped).
		Updates(updates).Error
}
