package form

import (
	"github.com/google/uuid"

	"github.com/jhoicas/invoice-form/internal/domain/totals"
)

// Form colección ordenada de filas más los campos de tasa y de totales.
type Form struct {
	rows         []*Row
	taxRate      string
	discountRate string
	totals       totals.View
	dispatcher   *Dispatcher
	newID        func() string
}

// State copia del estado visible del formulario.
type State struct {
	Rows         []Row       `json:"rows"`
	TaxRate      string      `json:"tax_rate"`
	DiscountRate string      `json:"discount_rate"`
	Totals       totals.View `json:"totals"`
}

// RowValues valores iniciales de una fila al cargar un formulario existente.
type RowValues struct {
	Name     string
	Quantity string
	Price    string
}

// Option configura un Form.
type Option func(*Form)

// WithIDGenerator reemplaza el generador de IDs de fila (por defecto UUID v4).
func WithIDGenerator(fn func() string) Option {
	return func(f *Form) { f.newID = fn }
}

func newForm(opts ...Option) *Form {
	f := &Form{
		dispatcher: NewDispatcher(),
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New crea el formulario en su estado inicial: una fila por defecto y los
// totales ya calculados ("0.00" en todos los campos).
func New(opts ...Option) *Form {
	f := newForm(opts...)
	f.AddRow()
	return f
}

// Load crea un formulario con filas y tasas existentes (edición de una factura).
// Sin filas se comporta como New.
func Load(rows []RowValues, taxRate, discountRate string, opts ...Option) *Form {
	f := newForm(opts...)
	f.taxRate = taxRate
	f.discountRate = discountRate
	if len(rows) == 0 {
		f.AddRow()
		return f
	}
	for _, v := range rows {
		r := f.insertRow()
		r.Name, r.Quantity, r.Price = v.Name, v.Quantity, v.Price
	}
	f.Recalculate()
	return f
}

// AddRow agrega una fila por defecto al final, registra sus disparadores y recalcula.
func (f *Form) AddRow() Row {
	r := f.insertRow()
	f.Recalculate()
	return *r
}

func (f *Form) insertRow() *Row {
	r := newRow(f.newID())
	f.rows = append(f.rows, r)
	f.dispatcher.Subscribe(r.ID, Handlers{
		OnInput: func(field Field, value string) {
			if r.set(field, value) {
				f.Recalculate()
			}
		},
		OnRemove: func() { f.destroy(r.ID) },
	})
	return r
}

// RemoveRow dispara la acción de eliminar de la fila. Una fila inexistente o ya
// eliminada no tiene efecto y devuelve false.
func (f *Form) RemoveRow(rowID string) bool {
	return f.dispatcher.Remove(rowID)
}

func (f *Form) destroy(rowID string) {
	for i, r := range f.rows {
		if r.ID != rowID {
			continue
		}
		f.rows = append(f.rows[:i], f.rows[i+1:]...)
		f.dispatcher.Unsubscribe(rowID)
		f.Recalculate()
		return
	}
}

// Input aplica una edición (por tecla) a un campo de una fila. Editar cantidad o
// precio recalcula; editar el nombre solo guarda el texto. Devuelve false si
// la fila o el campo no existen.
func (f *Form) Input(rowID string, field Field, value string) bool {
	if _, ok := ParseField(string(field)); !ok {
		return false
	}
	return f.dispatcher.Input(rowID, field, value)
}

// SetRate asigna la tasa de impuesto o de descuento y recalcula.
func (f *Form) SetRate(field RateField, value string) bool {
	switch field {
	case RateTax:
		f.taxRate = value
	case RateDiscount:
		f.discountRate = value
	default:
		return false
	}
	f.Recalculate()
	return true
}

// Recalculate recalcula a partir de los campos actuales y escribe el subtotal de
// cada fila y los cuatro totales. Se puede invocar cualquier número de veces.
func (f *Form) Recalculate() totals.View {
	lines := make([]totals.Line, len(f.rows))
	for i, r := range f.rows {
		lines[i] = totals.Line{
			Quantity: totals.Coerce(r.Quantity),
			Price:    totals.Coerce(r.Price),
		}
	}
	snap := totals.Calculate(lines, f.Rates())
	for i, r := range f.rows {
		r.Subtotal = totals.Format(snap.LineSubtotals[i])
	}
	f.totals = snap.View()
	return f.totals
}

// Rates tasas actuales convertidas a número.
func (f *Form) Rates() totals.Rates {
	return totals.Rates{
		Tax:      totals.Coerce(f.taxRate),
		Discount: totals.Coerce(f.discountRate),
	}
}

// Len número de filas.
func (f *Form) Len() int { return len(f.rows) }

// Rows copia de las filas en orden de presentación.
func (f *Form) Rows() []Row {
	out := make([]Row, len(f.rows))
	for i, r := range f.rows {
		out[i] = *r
	}
	return out
}

// Totals últimos totales escritos.
func (f *Form) Totals() totals.View { return f.totals }

// State copia completa del estado visible.
func (f *Form) State() State {
	return State{
		Rows:         f.Rows(),
		TaxRate:      f.taxRate,
		DiscountRate: f.discountRate,
		Totals:       f.totals,
	}
}
