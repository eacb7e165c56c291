package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lucentphoto.com/app/internal/modules/catalog"
	"lucentphoto.com/app/internal/modules/orders"
	"lucentphoto.com/app/internal/shared/apperr"
	"lucentphoto.com/app/internal/shared/money"
)

const (
	// MaxLines bounds worst-case catalog reads per request.
	MaxLines = 50

	MinQuantity = 1
	MaxQuantity = 100
)

// Validator checks cart contents against server-side catalog data. It has no
// side effects: pure validation plus catalog reads.
type Validator struct {
	catalog *catalog.Repo
}

func NewValidator(c *catalog.Repo) *Validator { return &Validator{catalog: c} }

// Validate produces a price-resolved line list or an apperr rejection. The
// shape checks run before any catalog read; a catalog store failure surfaces
// as unavailable so the caller rejects before touching the payment provider.
func (v *Validator) Validate(ctx context.Context, lines []Line, email string) ([]ResolvedLine, error) {
	if len(lines) == 0 {
		return nil, apperr.InvalidErr("Your cart is empty.", nil)
	}
	if len(lines) > MaxLines {
		return nil, apperr.InvalidErr(fmt.Sprintf("Cart cannot contain more than %d items.", MaxLines), nil)
	}

	for i, ln := range lines {
		if ln.ProductType != orders.OrderTypeShirt && ln.ProductType != orders.OrderTypePhotoPackage {
			return nil, apperr.InvalidErr(fmt.Sprintf("Item %d has an unknown product type.", i+1), nil)
		}
		if ln.ResolvedID() == 0 {
			return nil, apperr.InvalidErr(fmt.Sprintf("Item %d is missing a product id.", i+1), nil)
		}
		if ln.Quantity < MinQuantity || ln.Quantity > MaxQuantity {
			return nil, apperr.InvalidErr(fmt.Sprintf("Item %d quantity must be between %d and %d.", i+1, MinQuantity, MaxQuantity), nil)
		}
		if ln.ProductType == orders.OrderTypeShirt && strings.TrimSpace(ln.Size) == "" {
			return nil, apperr.InvalidErr(fmt.Sprintf("Item %d requires a size.", i+1), nil)
		}
	}

	if !strings.Contains(email, "@") {
		return nil, apperr.InvalidErr("A valid email address is required.", nil)
	}

	out := make([]ResolvedLine, 0, len(lines))
	for _, ln := range lines {
		resolved, err := v.resolveLine(ctx, ln)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

func (v *Validator) resolveLine(ctx context.Context, ln Line) (ResolvedLine, error) {
	id := ln.ResolvedID()

	switch ln.ProductType {
	case orders.OrderTypeShirt:
		shirt, err := v.catalog.ShirtByID(ctx, id)
		if err != nil {
			return ResolvedLine{}, v.catalogErr(err, "Shirt")
		}
		if !shirt.Active {
			return ResolvedLine{}, apperr.InvalidErr(fmt.Sprintf("%q is no longer available.", shirt.Name), nil)
		}
		if !shirt.HasSize(ln.Size) {
			return ResolvedLine{}, apperr.InvalidErr(fmt.Sprintf("Size %q is not available for %q.", ln.Size, shirt.Name), nil)
		}
		unit, err := money.PriceToCents(shirt.Price)
		if err != nil {
			return ResolvedLine{}, apperr.Wrap(err)
		}
		return ResolvedLine{
			ProductType: orders.OrderTypeShirt,
			ProductID:   shirt.ID,
			ProductName: shirt.Name,
			Quantity:    ln.Quantity,
			Size:        ln.Size,
			UnitAmount:  unit,
		}, nil

	case orders.OrderTypePhotoPackage:
		pkg, err := v.catalog.PhotoPackageByID(ctx, id)
		if err != nil {
			return ResolvedLine{}, v.catalogErr(err, "Photo package")
		}
		if !pkg.Active {
			return ResolvedLine{}, apperr.InvalidErr(fmt.Sprintf("%q is no longer available.", pkg.Name), nil)
		}
		unit, err := money.PriceToCents(pkg.Price)
		if err != nil {
			return ResolvedLine{}, apperr.Wrap(err)
		}
		return ResolvedLine{
			ProductType: orders.OrderTypePhotoPackage,
			ProductID:   pkg.ID,
			ProductName: pkg.Name,
			Quantity:    ln.Quantity,
			UnitAmount:  unit,
		}, nil
	}

	return ResolvedLine{}, apperr.InvalidErr("Unknown product type.", nil)
}

func (v *Validator) catalogErr(err error, label string) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return apperr.NotFoundErr(label + " not found.")
	}
	return apperr.UnavailableErr("Store is temporarily unavailable. Please try again shortly.", err)
}
