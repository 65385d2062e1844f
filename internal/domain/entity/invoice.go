package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-form/internal/domain/totals"
)

// Invoice cabecera de una factura enviada desde el formulario.
// Number es el consecutivo visible ("Invoice #12"); lo asigna la base de datos.
type Invoice struct {
	ID           string
	Number       int64
	ClientName   string
	TaxRate      decimal.Decimal // porcentaje, ej. 19 = 19%
	DiscountRate decimal.Decimal // porcentaje
	Items        []InvoiceItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Totals recalcula subtotal, impuesto, descuento y total con la misma regla del formulario.
func (inv *Invoice) Totals() totals.Snapshot {
	lines := make([]totals.Line, len(inv.Items))
	for i, it := range inv.Items {
		lines[i] = totals.Line{Quantity: it.Quantity, Price: it.Price}
	}
	return totals.Calculate(lines, totals.Rates{Tax: inv.TaxRate, Discount: inv.DiscountRate})
}
