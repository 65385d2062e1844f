package form

// Handlers disparadores que una fila registra al crearse.
type Handlers struct {
	OnInput  func(field Field, value string)
	OnRemove func()
}

// Dispatcher registro central de disparadores por fila. Cada fila se suscribe
// al crearse y se desuscribe al destruirse, así no quedan disparadores colgando.
type Dispatcher struct {
	subs map[string]Handlers
}

// NewDispatcher construye un dispatcher vacío.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subs: make(map[string]Handlers)}
}

// Subscribe registra (o reemplaza) los disparadores de rowID.
func (d *Dispatcher) Subscribe(rowID string, h Handlers) {
	d.subs[rowID] = h
}

// Unsubscribe elimina los disparadores de rowID. Sin efecto si no existen.
func (d *Dispatcher) Unsubscribe(rowID string) {
	delete(d.subs, rowID)
}

// Subscribed indica si rowID tiene disparadores registrados.
func (d *Dispatcher) Subscribed(rowID string) bool {
	_, ok := d.subs[rowID]
	return ok
}

// Len número de filas suscritas.
func (d *Dispatcher) Len() int { return len(d.subs) }

// Input entrega una edición a la fila. Devuelve false si la fila no está suscrita
// (evento descartado).
func (d *Dispatcher) Input(rowID string, field Field, value string) bool {
	h, ok := d.subs[rowID]
	if !ok || h.OnInput == nil {
		return false
	}
	h.OnInput(field, value)
	return true
}

// Remove entrega la acción de eliminar a la fila. Devuelve false si la fila no está suscrita.
func (d *Dispatcher) Remove(rowID string) bool {
	h, ok := d.subs[rowID]
	if !ok || h.OnRemove == nil {
		return false
	}
	h.OnRemove()
	return true
}
