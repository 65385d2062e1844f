package entity

import "github.com/shopspring/decimal"

// InvoiceItem una línea de la factura. Position conserva el orden del formulario.
type InvoiceItem struct {
	ID        string
	InvoiceID string
	Position  int
	Name      string
	Quantity  decimal.Decimal
	Price     decimal.Decimal
}

// Subtotal cantidad × precio a precisión completa.
func (it InvoiceItem) Subtotal() decimal.Decimal {
	return it.Quantity.Mul(it.Price)
}
