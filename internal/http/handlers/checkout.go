package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"lucentphoto.com/app/internal/http/middleware"
	"lucentphoto.com/app/internal/http/validation"
	"lucentphoto.com/app/internal/modules/cart"
	"lucentphoto.com/app/internal/modules/checkout"
	"lucentphoto.com/app/internal/modules/orders"
	"lucentphoto.com/app/internal/shared/apperr"
)

type CheckoutHandler struct {
	svc    *checkout.Service
	logger *slog.Logger
}

func NewCheckoutHandler(svc *checkout.Service, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, logger: logger}
}

type checkoutRequest struct {
	Items []cart.Line `json:"items"`

	// Legacy single-item fields, used when items is absent.
	ProductType string `json:"productType"`
	ProductID   uint   `json:"productId"`
	ShirtID     uint   `json:"shirtId"`
	Quantity    int    `json:"quantity"`
	Size        string `json:"size"`

	CustomerEmail string `json:"customerEmail" binding:"required,email"`
	CustomerName  string `json:"customerName" binding:"required"`
	CustomerPhone string `json:"customerPhone"`

	// Photo-package metadata, applied to every package line in the cart.
	EventName   string `json:"eventName"`
	StudentName string `json:"studentName"`
	ParentName  string `json:"parentName"`
}

// POST /api/checkout
func (h *CheckoutHandler) Create(c *gin.Context) {
	// 1. Parse and validate body
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Please check your details and try again.", fields))
		return
	}

	// 2. Normalize to cart lines
	lines := req.Items
	checkoutType := checkout.CheckoutTypeCart
	if len(lines) == 0 {
		checkoutType = checkout.CheckoutTypeSingle
		productType := req.ProductType
		if productType == "" && req.ShirtID != 0 {
			// pre-migration clients sent only shirtId
			productType = orders.OrderTypeShirt
		}
		lines = []cart.Line{{
			ProductType: productType,
			ProductID:   req.ProductID,
			ShirtID:     req.ShirtID,
			Quantity:    req.Quantity,
			Size:        req.Size,
		}}
	}

	// 3. Create the provider session and pending order rows
	res, err := h.svc.CreateSession(c.Request.Context(), checkout.CreateSessionInput{
		Lines: lines,
		Customer: checkout.Customer{
			Email: req.CustomerEmail,
			Name:  req.CustomerName,
			Phone: req.CustomerPhone,
		},
		Meta: checkout.PackageMeta{
			EventName:   req.EventName,
			StudentName: req.StudentName,
			ParentName:  req.ParentName,
		},
		CheckoutType: checkoutType,
		Origin:       c.GetHeader("Origin"),
		Host:         c.Request.Host,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
