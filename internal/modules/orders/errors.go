package orders

import "errors"

var (
	ErrNotFound       = errors.New("order not found")
	ErrNoSession      = errors.New("order has no checkout session")
	ErrSessionMissing = errors.New("no orders for checkout session")
)
