// Package totals implementa la regla de recálculo de una factura:
// subtotal = Σ(cantidad × precio), impuesto y descuento como porcentajes del
// subtotal, y total = subtotal + impuesto − descuento.
//
// Todo el cálculo es con decimal a precisión completa; solo los valores
// mostrados se redondean a dos decimales.
package totals

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// maxExponent acota la notación científica aceptada ("1e3000000" se rechaza).
const maxExponent = 20

// Line cantidad y precio unitario ya convertidos a número.
type Line struct {
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// Rates porcentajes de impuesto y descuento (ej. 19 = 19%).
type Rates struct {
	Tax      decimal.Decimal
	Discount decimal.Decimal
}

// Snapshot resultado derivado de un recálculo. No se almacena: se recalcula
// a partir de las líneas y tasas actuales cada vez que se necesita.
type Snapshot struct {
	LineSubtotals []decimal.Decimal
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
}

// View valores de totales formateados para mostrar.
type View struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

// Coerce convierte el texto de un campo numérico. Vacío, no numérico, mal
// formado o fuera de rango devuelve cero; nunca falla.
func Coerce(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !InRange(d) {
		return decimal.Zero
	}
	return d
}

// InRange indica si el exponente de d está dentro de ±maxExponent.
func InRange(d decimal.Decimal) bool {
	e := d.Exponent()
	return e >= -maxExponent && e <= maxExponent
}

// Calculate aplica la regla de totales. Función pura: mismas entradas, misma salida.
func Calculate(lines []Line, rates Rates) Snapshot {
	snap := Snapshot{
		LineSubtotals: make([]decimal.Decimal, len(lines)),
		Subtotal:      decimal.Zero,
	}
	for i, l := range lines {
		product := l.Quantity.Mul(l.Price)
		snap.LineSubtotals[i] = product
		snap.Subtotal = snap.Subtotal.Add(product)
	}
	snap.Tax = snap.Subtotal.Mul(rates.Tax).Div(hundred)
	snap.Discount = snap.Subtotal.Mul(rates.Discount).Div(hundred)
	snap.Total = snap.Subtotal.Add(snap.Tax).Sub(snap.Discount)
	return snap
}

// View formatea los cuatro totales a dos decimales.
func (s Snapshot) View() View {
	return View{
		Subtotal: Format(s.Subtotal),
		Tax:      Format(s.Tax),
		Discount: Format(s.Discount),
		Total:    Format(s.Total),
	}
}

// Format devuelve d con exactamente dos decimales (redondeo half-up): "12.50".
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
