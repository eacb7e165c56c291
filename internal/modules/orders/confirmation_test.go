package orders

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lucentphoto.com/app/internal/modules/catalog"
)

func newConfirmationFixture(t *testing.T) (*ConfirmationService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&catalog.Shirt{}, &catalog.PhotoPackage{}, &Order{}))

	require.NoError(t, db.Create(&catalog.Shirt{
		ID: 1, Name: "Team Spirit Tee", Price: "19.99", Active: true,
		SizesJSON: datatypes.JSON(`["S","M","L"]`),
	}).Error)
	require.NoError(t, db.Create(&catalog.PhotoPackage{
		ID: 1, Name: "Basic Package", Price: "29.00", Active: true,
	}).Error)

	return NewConfirmationService(db, nil), db
}

func TestConfirmationJoinsCatalogAndSumsTotal(t *testing.T) {
	svc, db := newConfirmationFixture(t)

	rows := []Order{
		{
			CustomerEmail: "parent@example.com", CustomerName: "Pat Doe",
			OrderType: OrderTypeShirt, ProductID: 1, Quantity: 2,
			TotalAmount: "39.98", StripeSessionID: "cs_test_conf",
			Status: StatusConfirmed, IsTest: true,
			OptionsJSON: datatypes.JSON(`{"size":"M"}`),
		},
		{
			CustomerEmail: "parent@example.com", CustomerName: "Pat Doe",
			OrderType: OrderTypePhotoPackage, ProductID: 1, Quantity: 1,
			TotalAmount: "29.00", StripeSessionID: "cs_test_conf",
			Status: StatusConfirmed, IsTest: true,
			OptionsJSON: datatypes.JSON(`{"eventName":"Fall Picture Day","studentName":"Sam Doe","parentName":"Pat Doe"}`),
		},
	}
	require.NoError(t, db.Create(&rows).Error)

	conf, err := svc.BySession(context.Background(), "cs_test_conf")
	require.NoError(t, err)

	assert.Equal(t, "cs_test_conf", conf.SessionID)
	assert.Equal(t, StatusConfirmed, conf.Status)
	assert.Equal(t, "parent@example.com", conf.CustomerEmail)
	assert.True(t, conf.IsTest)
	assert.Equal(t, "68.98", conf.TotalAmount)

	require.Len(t, conf.Items, 2)
	assert.Equal(t, "Team Spirit Tee", conf.Items[0].ProductName)
	assert.Equal(t, "M", conf.Items[0].Size)
	assert.Equal(t, "Basic Package", conf.Items[1].ProductName)
	assert.Equal(t, "Fall Picture Day", conf.Items[1].EventName)
	assert.Equal(t, "Sam Doe", conf.Items[1].StudentName)
	assert.Equal(t, "Pat Doe", conf.Items[1].ParentName)
}

func TestConfirmationMissingCatalogRowDegradesToPlaceholder(t *testing.T) {
	svc, db := newConfirmationFixture(t)

	require.NoError(t, db.Create(&Order{
		CustomerEmail: "parent@example.com", CustomerName: "Pat Doe",
		OrderType: OrderTypeShirt, ProductID: 404, Quantity: 1,
		TotalAmount: "15.00", StripeSessionID: "cs_test_stale",
		Status: StatusConfirmed,
	}).Error)

	conf, err := svc.BySession(context.Background(), "cs_test_stale")
	require.NoError(t, err)
	require.Len(t, conf.Items, 1)
	assert.Equal(t, placeholderProduct, conf.Items[0].ProductName)
	assert.Equal(t, "15.00", conf.TotalAmount)
}

func TestConfirmationLegacySizeColumnFallback(t *testing.T) {
	svc, db := newConfirmationFixture(t)

	size := "L"
	require.NoError(t, db.Create(&Order{
		CustomerEmail: "parent@example.com", CustomerName: "Pat Doe",
		OrderType: OrderTypeShirt, ProductID: 1, Size: &size, Quantity: 1,
		TotalAmount: "19.99", StripeSessionID: "cs_test_legacy",
		Status: StatusPending,
	}).Error)

	conf, err := svc.BySession(context.Background(), "cs_test_legacy")
	require.NoError(t, err)
	require.Len(t, conf.Items, 1)
	assert.Equal(t, "L", conf.Items[0].Size)
}

func TestConfirmationUnknownSession(t *testing.T) {
	svc, _ := newConfirmationFixture(t)

	_, err := svc.BySession(context.Background(), "cs_test_nope")
	assert.ErrorIs(t, err, ErrSessionMissing)
}
