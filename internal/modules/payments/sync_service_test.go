package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lucentphoto.com/app/internal/modules/orders"
)

func newSyncFixture(t *testing.T) (*SyncService, *MockProvider, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&orders.Order{}))

	provider := NewMockProvider()
	return NewSyncService(db, provider), provider, db
}

func seedOrder(t *testing.T, db *gorm.DB, sessionID, status string) orders.Order {
	t.Helper()
	row := orders.Order{
		CustomerEmail: "parent@example.com", CustomerName: "Pat Doe",
		OrderType: orders.OrderTypePhotoPackage, ProductID: 1, Quantity: 1,
		TotalAmount: "29.00", StripeSessionID: sessionID, Status: status,
	}
	require.NoError(t, db.Create(&row).Error)
	return row
}

func TestValidSessionID(t *testing.T) {
	assert.True(t, ValidSessionID("cs_test_a1B2c3"))
	assert.True(t, ValidSessionID("cs_live_xyz789"))

	assert.False(t, ValidSessionID(""))
	assert.False(t, ValidSessionID("cs_test_"))
	assert.False(t, ValidSessionID("cs_prod_abc"))
	assert.False(t, ValidSessionID("cs_test_abc; DROP TABLE orders"))
	assert.False(t, ValidSessionID("pi_test_abc"))
}

func TestSyncPaidSessionConfirms(t *testing.T) {
	svc, provider, db := newSyncFixture(t)
	row := seedOrder(t, db, "cs_test_paid", orders.StatusPending)
	provider.Sessions["cs_test_paid"] = Session{
		ID: "cs_test_paid", PaymentStatus: PaymentStatusPaid, Status: SessionStatusComplete,
		PaymentIntentID: "pi_123",
	}

	res, err := svc.SyncByOrderID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, orders.StatusPending, res.PreviousStatus)
	assert.Equal(t, orders.StatusConfirmed, res.Status)
	assert.Equal(t, PaymentStatusPaid, res.ProviderPaymentStatus)

	var got orders.Order
	require.NoError(t, db.First(&got, row.ID).Error)
	assert.Equal(t, orders.StatusConfirmed, got.Status)
	require.NotNil(t, got.StripePaymentIntentID)
	assert.Equal(t, "pi_123", *got.StripePaymentIntentID)
	assert.True(t, got.IsTest)
}

func TestSyncConfirmedSessionIsNoOp(t *testing.T) {
	svc, provider, db := newSyncFixture(t)
	row := seedOrder(t, db, "cs_test_done", orders.StatusConfirmed)
	provider.Sessions["cs_test_done"] = Session{
		ID: "cs_test_done", PaymentStatus: PaymentStatusPaid, Status: SessionStatusComplete,
		PaymentIntentID: "pi_999",
	}

	res, err := svc.SyncBySessionID(context.Background(), "cs_test_done")
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, orders.StatusConfirmed, res.Status)

	var got orders.Order
	require.NoError(t, db.First(&got, row.ID).Error)
	assert.Nil(t, got.StripePaymentIntentID) // untouched
}

func TestSyncNeverDowngradesShipped(t *testing.T) {
	svc, provider, db := newSyncFixture(t)
	row := seedOrder(t, db, "cs_test_shipped", orders.StatusShipped)
	provider.Sessions["cs_test_shipped"] = Session{
		ID: "cs_test_shipped", PaymentStatus: PaymentStatusPaid, Status: SessionStatusComplete,
		PaymentIntentID: "pi_1",
	}

	res, err := svc.SyncByOrderID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.False(t, res.Changed)

	var got orders.Order
	require.NoError(t, db.First(&got, row.ID).Error)
	assert.Equal(t, orders.StatusShipped, got.Status)
}

func TestSyncExpiredUnpaidSessionExpires(t *testing.T) {
	svc, provider, db := newSyncFixture(t)
	row := seedOrder(t, db, "cs_test_exp", orders.StatusPending)
	provider.Sessions["cs_test_exp"] = Session{
		ID: "cs_test_exp", PaymentStatus: PaymentStatusUnpaid, Status: SessionStatusExpired,
	}

	res, err := svc.SyncByOrderID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, orders.StatusExpired, res.Status)

	var got orders.Order
	require.NoError(t, db.First(&got, row.ID).Error)
	assert.Equal(t, orders.StatusExpired, got.Status)
}

func TestSyncOpenUnpaidSessionStaysPending(t *testing.T) {
	svc, provider, db := newSyncFixture(t)
	row := seedOrder(t, db, "cs_test_open", orders.StatusPending)
	provider.Sessions["cs_test_open"] = Session{
		ID: "cs_test_open", PaymentStatus: PaymentStatusUnpaid, Status: SessionStatusOpen,
	}

	res, err := svc.SyncByOrderID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, orders.StatusPending, res.Status)
}

func TestSyncMissingProviderSessionMarksInvalid(t *testing.T) {
	svc, _, db := newSyncFixture(t)
	row := seedOrder(t, db, "cs_test_gone", orders.StatusPending)
	// mock provider returns session-missing for unknown ids

	res, err := svc.SyncByOrderID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, orders.StatusInvalid, res.Status)

	var got orders.Order
	require.NoError(t, db.First(&got, row.ID).Error)
	assert.Equal(t, orders.StatusInvalid, got.Status)
}

func TestSyncUnknownOrder(t *testing.T) {
	svc, _, _ := newSyncFixture(t)

	_, err := svc.SyncByOrderID(context.Background(), 12345)
	assert.ErrorIs(t, err, orders.ErrNotFound)

	_, err = svc.SyncBySessionID(context.Background(), "cs_test_none")
	assert.ErrorIs(t, err, orders.ErrNotFound)
}

func TestSyncPendingSweep(t *testing.T) {
	svc, provider, db := newSyncFixture(t)

	// two rows of one paid session plus one open, one erroring, one with no
	// session id
	seedOrder(t, db, "cs_test_sweep_paid", orders.StatusPending)
	seedOrder(t, db, "cs_test_sweep_paid", orders.StatusPending)
	seedOrder(t, db, "cs_test_sweep_open", orders.StatusPending)
	seedOrder(t, db, "cs_test_sweep_err", orders.StatusPending)
	seedOrder(t, db, "", orders.StatusPending)

	provider.Sessions["cs_test_sweep_paid"] = Session{
		ID: "cs_test_sweep_paid", PaymentStatus: PaymentStatusPaid, Status: SessionStatusComplete,
		PaymentIntentID: "pi_sweep",
	}
	provider.Sessions["cs_test_sweep_open"] = Session{
		ID: "cs_test_sweep_open", PaymentStatus: PaymentStatusUnpaid, Status: SessionStatusOpen,
	}
	provider.GetErrs["cs_test_sweep_err"] = errors.New("stripe is down")

	summary, err := svc.SyncPending(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Checked)
	assert.Equal(t, 2, summary.Synced) // both rows of the paid session
	assert.Equal(t, 1, summary.Unchanged)
	assert.Equal(t, 1, summary.Errored)
	assert.Equal(t, 1, summary.Skipped)
	assert.Len(t, summary.Entries, 5)

	var confirmed int64
	require.NoError(t, db.Model(&orders.Order{}).
		Where("stripe_session_id = ? AND status = ?", "cs_test_sweep_paid", orders.StatusConfirmed).
		Count(&confirmed).Error)
	assert.Equal(t, int64(2), confirmed)

	// the erroring session stayed pending for the next sweep
	var got orders.Order
	require.NoError(t, db.First(&got, "stripe_session_id = ?", "cs_test_sweep_err").Error)
	assert.Equal(t, orders.StatusPending, got.Status)
}

func TestSyncOrderWithoutSession(t *testing.T) {
	svc, _, db := newSyncFixture(t)
	row := seedOrder(t, db, "", orders.StatusPending)

	_, err := svc.SyncByOrderID(context.Background(), row.ID)
	assert.ErrorIs(t, err, orders.ErrNoSession)
}
