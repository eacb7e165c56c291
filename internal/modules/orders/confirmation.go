package orders

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"lucentphoto.com/app/internal/modules/catalog"
	"lucentphoto.com/app/internal/shared/money"
)

// placeholderProduct is shown when an order row references a catalog row that
// no longer exists; the confirmation must not fail over stale reference data.
const placeholderProduct = "Unknown product"

type ConfirmationItem struct {
	OrderID     uint   `json:"orderId"`
	OrderType   string `json:"orderType"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	TotalAmount string `json:"totalAmount"`

	Size        string `json:"size,omitempty"`
	EventName   string `json:"eventName,omitempty"`
	StudentName string `json:"studentName,omitempty"`
	ParentName  string `json:"parentName,omitempty"`
}

type Confirmation struct {
	SessionID     string             `json:"sessionId"`
	Status        string             `json:"status"`
	CustomerEmail string             `json:"customerEmail"`
	CustomerName  string             `json:"customerName"`
	IsTest        bool               `json:"isTest"`
	Items         []ConfirmationItem `json:"items"`
	TotalAmount   string             `json:"totalAmount"`
}

// ConfirmationService assembles the read-only customer-facing order view,
// joining order rows with their catalog entities.
type ConfirmationService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewConfirmationService(db *gorm.DB, logger *slog.Logger) *ConfirmationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfirmationService{db: db, logger: logger}
}

func (s *ConfirmationService) BySession(ctx context.Context, sessionID string) (Confirmation, error) {
	rows, err := BySession(ctx, s.db, sessionID)
	if err != nil {
		return Confirmation{}, err
	}
	if len(rows) == 0 {
		return Confirmation{}, ErrSessionMissing
	}

	head := rows[0]
	out := Confirmation{
		SessionID:     head.StripeSessionID,
		Status:        head.Status,
		CustomerEmail: head.CustomerEmail,
		CustomerName:  head.CustomerName,
		IsTest:        head.IsTest,
		Items:         make([]ConfirmationItem, 0, len(rows)),
	}

	var totalCents int64
	for _, row := range rows {
		item := ConfirmationItem{
			OrderID:     row.ID,
			OrderType:   row.OrderType,
			Quantity:    row.Quantity,
			TotalAmount: row.TotalAmount,
			ProductName: s.productName(ctx, row),
		}

		opts := row.Options()
		switch row.OrderType {
		case OrderTypeShirt:
			item.Size = opts["size"]
			if item.Size == "" && row.Size != nil {
				item.Size = *row.Size
			}
		case OrderTypePhotoPackage:
			item.EventName = opts["eventName"]
			item.StudentName = opts["studentName"]
			item.ParentName = opts["parentName"]
		}

		cents, err := money.PriceToCents(row.TotalAmount)
		if err != nil {
			return Confirmation{}, err
		}
		totalCents += cents

		out.Items = append(out.Items, item)
	}
	out.TotalAmount = money.FormatCents(totalCents)

	return out, nil
}

func (s *ConfirmationService) productName(ctx context.Context, row Order) string {
	switch row.OrderType {
	case OrderTypeShirt:
		shirt, err := catalog.ShirtByID(ctx, s.db, row.ProductID)
		if err != nil {
			s.logProductMiss(ctx, row, err)
			return placeholderProduct
		}
		return shirt.Name
	case OrderTypePhotoPackage:
		pkg, err := catalog.PhotoPackageByID(ctx, s.db, row.ProductID)
		if err != nil {
			s.logProductMiss(ctx, row, err)
			return placeholderProduct
		}
		return pkg.Name
	default:
		return placeholderProduct
	}
}

func (s *ConfirmationService) logProductMiss(ctx context.Context, row Order, err error) {
	if !errors.Is(err, catalog.ErrNotFound) {
		s.logger.WarnContext(ctx, "confirmation catalog lookup failed",
			"order_id", row.ID, "order_type", row.OrderType, "product_id", row.ProductID, "err", err)
		return
	}
	s.logger.InfoContext(ctx, "confirmation references missing catalog row",
		"order_id", row.ID, "order_type", row.OrderType, "product_id", row.ProductID)
}
