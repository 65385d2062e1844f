// Package form mantiene el formulario de líneas de factura: la colección de
// filas, los dos campos de tasa y los campos de totales que se muestran.
//
// Todo el estado es el texto visible de los campos. Un Form no es seguro para
// uso concurrente; quien lo contiene debe serializar los eventos.
package form

// Field campo editable de una fila.
type Field string

const (
	FieldName     Field = "name"
	FieldQuantity Field = "quantity"
	FieldPrice    Field = "price"
)

// RateField campo de tasa independiente de las filas.
type RateField string

const (
	RateTax      RateField = "tax_rate"
	RateDiscount RateField = "discount_rate"
)

// Valores por defecto de una fila nueva.
const (
	DefaultQuantity = "1"
	DefaultPrice    = "0.00"
	DefaultSubtotal = "0.00"
)

// ParseField valida el nombre de un campo de fila.
func ParseField(s string) (Field, bool) {
	switch f := Field(s); f {
	case FieldName, FieldQuantity, FieldPrice:
		return f, true
	}
	return "", false
}

// ParseRateField valida el nombre de un campo de tasa.
func ParseRateField(s string) (RateField, bool) {
	switch f := RateField(s); f {
	case RateTax, RateDiscount:
		return f, true
	}
	return "", false
}

// Row una línea de la factura. Name, Quantity y Price guardan el texto tal como
// se escribió; Subtotal es la celda calculada (siempre con dos decimales).
type Row struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Subtotal string `json:"subtotal"`
}

func newRow(id string) *Row {
	return &Row{
		ID:       id,
		Quantity: DefaultQuantity,
		Price:    DefaultPrice,
		Subtotal: DefaultSubtotal,
	}
}

// set asigna un campo. Indica si el cambio afecta los totales.
func (r *Row) set(field Field, value string) bool {
	switch field {
	case FieldName:
		r.Name = value
		return false
	case FieldQuantity:
		r.Quantity = value
		return true
	case FieldPrice:
		r.Price = value
		return true
	}
	return false
}
