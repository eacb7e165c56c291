package cart

// Line is one raw cart line as submitted by the client. Any price field the
// client sends is ignored; pricing always resolves from the catalog.
type Line struct {
	ProductType string `json:"productType"`
	ProductID   uint   `json:"productId"`
	ShirtID     uint   `json:"shirtId"` // legacy single-field alias
	Quantity    int    `json:"quantity"`
	Size        string `json:"size"`
}

// ResolvedID returns the product id, honoring the legacy shirtId alias.
func (l Line) ResolvedID() uint {
	if l.ProductID != 0 {
		return l.ProductID
	}
	return l.ShirtID
}

// ResolvedLine is a validated, price-resolved cart line. UnitAmount is in
// minor currency units, taken from the catalog row at validation time.
type ResolvedLine struct {
	ProductType string
	ProductID   uint
	ProductName string
	Quantity    int
	Size        string
	UnitAmount  int64
}

func (l ResolvedLine) LineTotal() int64 { return l.UnitAmount * int64(l.Quantity) }
