package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lucentphoto.com/app/internal/modules/cart"
	"lucentphoto.com/app/internal/modules/catalog"
	"lucentphoto.com/app/internal/modules/orders"
	"lucentphoto.com/app/internal/modules/payments"
	"lucentphoto.com/app/internal/shared/apperr"
)

func newServiceFixture(t *testing.T) (*Service, *payments.MockProvider, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&catalog.Shirt{}, &catalog.PhotoPackage{}, &orders.Order{}))

	require.NoError(t, db.Create(&catalog.Shirt{
		ID: 1, Name: "Team Spirit Tee", Price: "19.99", Active: true,
		SizesJSON: datatypes.JSON(`["S","M","L"]`),
	}).Error)
	require.NoError(t, db.Create(&catalog.PhotoPackage{
		ID: 1, Name: "Basic Package", Price: "29.00", Active: true,
	}).Error)

	provider := payments.NewMockProvider()
	svc := NewService(
		orders.NewRepo(db),
		cart.NewValidator(catalog.NewRepo(db)),
		provider,
		"https://lucentphoto.com",
		"",
	)
	return svc, provider, db
}

func mixedCartInput() CreateSessionInput {
	return CreateSessionInput{
		Lines: []cart.Line{
			{ProductType: orders.OrderTypeShirt, ProductID: 1, Quantity: 2, Size: "M"},
			{ProductType: orders.OrderTypePhotoPackage, ProductID: 1, Quantity: 1},
		},
		Customer: Customer{Email: "parent@example.com", Name: "Pat Doe", Phone: "+15555550100"},
		Meta:     PackageMeta{EventName: "Fall Picture Day", StudentName: "Sam Doe"},
	}
}

func TestCreateSessionWritesPendingRows(t *testing.T) {
	svc, provider, db := newServiceFixture(t)

	res, err := svc.CreateSession(context.Background(), mixedCartInput())
	require.NoError(t, err)
	assert.NotEmpty(t, res.SessionID)
	assert.NotEmpty(t, res.URL)

	var rows []orders.Order
	require.NoError(t, db.Order("id ASC").Find(&rows).Error)
	require.Len(t, rows, 2)

	for _, row := range rows {
		assert.Equal(t, res.SessionID, row.StripeSessionID)
		assert.Equal(t, orders.StatusPending, row.Status)
		assert.Equal(t, "parent@example.com", row.CustomerEmail)
		assert.True(t, row.IsTest) // mock emits cs_test_ ids
	}

	shirt := rows[0]
	assert.Equal(t, orders.OrderTypeShirt, shirt.OrderType)
	assert.Equal(t, "39.98", shirt.TotalAmount)
	assert.Equal(t, "M", shirt.Options()["size"])
	require.NotNil(t, shirt.ShirtID)
	assert.Equal(t, uint(1), *shirt.ShirtID)

	pkg := rows[1]
	assert.Equal(t, orders.OrderTypePhotoPackage, pkg.OrderType)
	assert.Equal(t, "29.00", pkg.TotalAmount)
	assert.Equal(t, "Fall Picture Day", pkg.Options()["eventName"])
	assert.Equal(t, "Sam Doe", pkg.Options()["studentName"])

	require.Len(t, provider.CreateRequests, 1)
	req := provider.CreateRequests[0]
	assert.True(t, req.CollectShipping) // cart contains a shirt
	assert.NotEmpty(t, req.IdempotencyKey)
	assert.Equal(t, "Pat Doe", req.Metadata["customer_name"])
	assert.Equal(t, "2", req.Metadata["item_count"])
	assert.Equal(t, CheckoutTypeCart, req.Metadata["checkout_type"])
	assert.Equal(t, "https://lucentphoto.com/order-confirmation?session_id={CHECKOUT_SESSION_ID}", req.SuccessURL)
	assert.Equal(t, "https://lucentphoto.com/cart", req.CancelURL)

	require.Len(t, req.Items, 2)
	assert.Equal(t, int64(1999), req.Items[0].UnitAmount)
	assert.Equal(t, int64(2), req.Items[0].Quantity)
}

func TestCreateSessionSingleShirtTotals(t *testing.T) {
	svc, _, db := newServiceFixture(t)
	require.NoError(t, db.Create(&catalog.Shirt{
		ID: 5, Name: "Photo Day Tee", Price: "25.00", Active: true,
		SizesJSON: datatypes.JSON(`["M","L"]`),
	}).Error)

	in := CreateSessionInput{
		Lines:    []cart.Line{{ProductType: orders.OrderTypeShirt, ProductID: 5, Quantity: 2, Size: "M"}},
		Customer: Customer{Email: "parent@example.com", Name: "Pat Doe"},
	}
	_, err := svc.CreateSession(context.Background(), in)
	require.NoError(t, err)

	var rows []orders.Order
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, orders.StatusPending, rows[0].Status)
	assert.Equal(t, "50.00", rows[0].TotalAmount)
}

func TestCreateSessionInactiveProductRejected(t *testing.T) {
	svc, provider, db := newServiceFixture(t)
	require.NoError(t, db.Create(&catalog.Shirt{
		ID: 6, Name: "Old Tee", Price: "10.00", Active: false,
		SizesJSON: datatypes.JSON(`["M"]`),
	}).Error)

	in := CreateSessionInput{
		Lines:    []cart.Line{{ProductType: orders.OrderTypeShirt, ProductID: 6, Quantity: 1, Size: "M"}},
		Customer: Customer{Email: "parent@example.com", Name: "Pat Doe"},
	}
	_, err := svc.CreateSession(context.Background(), in)
	require.Error(t, err)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Invalid, ae.Kind)

	assert.Empty(t, provider.CreateRequests)
	var count int64
	require.NoError(t, db.Model(&orders.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSessionPackageOnlySkipsShipping(t *testing.T) {
	svc, provider, _ := newServiceFixture(t)

	in := CreateSessionInput{
		Lines:    []cart.Line{{ProductType: orders.OrderTypePhotoPackage, ProductID: 1, Quantity: 1}},
		Customer: Customer{Email: "parent@example.com", Name: "Pat Doe"},
	}
	_, err := svc.CreateSession(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, provider.CreateRequests, 1)
	assert.False(t, provider.CreateRequests[0].CollectShipping)
}

func TestCreateSessionValidationFailureSkipsProvider(t *testing.T) {
	svc, provider, db := newServiceFixture(t)

	in := mixedCartInput()
	in.Lines[0].Size = "XXL"

	_, err := svc.CreateSession(context.Background(), in)
	require.Error(t, err)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Invalid, ae.Kind)

	assert.Empty(t, provider.CreateRequests)

	var count int64
	require.NoError(t, db.Model(&orders.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSessionProviderErrorWritesNoRows(t *testing.T) {
	svc, provider, db := newServiceFixture(t)
	provider.CreateErr = &payments.ProviderError{Kind: payments.KindCard, Err: errors.New("card declined")}

	_, err := svc.CreateSession(context.Background(), mixedCartInput())
	require.Error(t, err)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.PaymentFailed, ae.Kind)

	var count int64
	require.NoError(t, db.Model(&orders.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSessionRateLimitMapsTo429Kind(t *testing.T) {
	svc, provider, _ := newServiceFixture(t)
	provider.CreateErr = &payments.ProviderError{Kind: payments.KindRateLimit, Err: errors.New("too many requests")}

	_, err := svc.CreateSession(context.Background(), mixedCartInput())
	require.Error(t, err)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.RateLimited, ae.Kind)
}

func TestCreateSessionIdempotencyKeyStableAcrossRetry(t *testing.T) {
	svc, provider, _ := newServiceFixture(t)
	fixed := time.Date(2026, 3, 14, 10, 2, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return fixed })

	_, err := svc.CreateSession(context.Background(), mixedCartInput())
	require.NoError(t, err)
	_, err = svc.CreateSession(context.Background(), mixedCartInput())
	require.NoError(t, err)

	require.Len(t, provider.CreateRequests, 2)
	assert.Equal(t, provider.CreateRequests[0].IdempotencyKey, provider.CreateRequests[1].IdempotencyKey)
}
