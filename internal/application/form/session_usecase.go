// Package form mantiene en memoria las sesiones del formulario de factura y
// las envía al libro de facturas cuando el operador las confirma.
package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-form/internal/application/dto"
	"github.com/jhoicas/invoice-form/internal/domain"
	"github.com/jhoicas/invoice-form/internal/domain/entity"
	domainform "github.com/jhoicas/invoice-form/internal/domain/form"
	"github.com/jhoicas/invoice-form/internal/domain/totals"
	"github.com/jhoicas/invoice-form/pkg/logger"
)

// InvoiceBook lo que las sesiones necesitan del libro de facturas.
type InvoiceBook interface {
	Find(ctx context.Context, id string) (*entity.Invoice, error)
	Create(ctx context.Context, in dto.SaveInvoiceRequest) (*dto.InvoiceResponse, error)
	Update(ctx context.Context, id string, in dto.SaveInvoiceRequest) (*dto.InvoiceResponse, error)
}

type session struct {
	mu        sync.Mutex
	id        string
	invoiceID string
	form      *domainform.Form
	touched   time.Time
	closed    bool // enviada o descartada; los eventos pendientes la ven como inexistente
}

// SessionUseCase sesiones de formulario. Cada evento de una sesión se ejecuta
// completo antes del siguiente; sesiones distintas avanzan en paralelo.
type SessionUseCase struct {
	mu       sync.Mutex
	sessions map[string]*session
	book     InvoiceBook
	ttl      time.Duration
	log      *logger.Logger
	now      func() time.Time
	opts     []domainform.Option
}

// NewSessionUseCase construye el caso de uso. ttl <= 0 desactiva la expiración.
func NewSessionUseCase(book InvoiceBook, ttl time.Duration, log *logger.Logger, opts ...domainform.Option) *SessionUseCase {
	return &SessionUseCase{
		sessions: make(map[string]*session),
		book:     book,
		ttl:      ttl,
		log:      log.Named("forms"),
		now:      time.Now,
		opts:     opts,
	}
}

// Open crea una sesión con el formulario en su estado inicial.
func (uc *SessionUseCase) Open(_ context.Context) *dto.FormResponse {
	s := uc.add(domainform.New(uc.opts...), "")
	uc.log.Debug().Str("form_id", s.id).Msg("formulario abierto")
	resp := toResponse(s)
	return &resp
}

// OpenFromInvoice crea una sesión precargada con las líneas y tasas de una
// factura guardada; al enviarla se actualiza esa factura.
func (uc *SessionUseCase) OpenFromInvoice(ctx context.Context, invoiceID string) (*dto.FormResponse, error) {
	inv, err := uc.book.Find(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	rows := make([]domainform.RowValues, len(inv.Items))
	for i, it := range inv.Items {
		rows[i] = domainform.RowValues{
			Name:     it.Name,
			Quantity: it.Quantity.String(),
			Price:    it.Price.StringFixed(2),
		}
	}
	f := domainform.Load(rows, inv.TaxRate.String(), inv.DiscountRate.String(), uc.opts...)
	s := uc.add(f, inv.ID)
	uc.log.Debug().Str("form_id", s.id).Str("invoice_id", inv.ID).Msg("formulario de edición abierto")
	resp := toResponse(s)
	return &resp, nil
}

// Get devuelve el estado actual de la sesión.
func (uc *SessionUseCase) Get(_ context.Context, id string) (*dto.FormResponse, error) {
	return uc.with(id, func(*session) error { return nil })
}

// AddRow agrega una fila por defecto al final.
func (uc *SessionUseCase) AddRow(_ context.Context, id string) (*dto.FormResponse, error) {
	return uc.with(id, func(s *session) error {
		s.form.AddRow()
		return nil
	})
}

// RemoveRow elimina una fila. Una fila inexistente no cambia el estado.
func (uc *SessionUseCase) RemoveRow(_ context.Context, id, rowID string) (*dto.FormResponse, error) {
	return uc.with(id, func(s *session) error {
		s.form.RemoveRow(rowID)
		return nil
	})
}

// Input aplica la edición de un campo de fila (name, quantity o price).
func (uc *SessionUseCase) Input(_ context.Context, id, rowID string, in dto.FieldInputRequest) (*dto.FormResponse, error) {
	field, ok := domainform.ParseField(in.Field)
	if !ok {
		return nil, fmt.Errorf("%w: campo %q", domain.ErrInvalidInput, in.Field)
	}
	return uc.with(id, func(s *session) error {
		if !s.form.Input(rowID, field, in.Value) {
			return fmt.Errorf("%w: fila %s", domain.ErrNotFound, rowID)
		}
		return nil
	})
}

// SetRate asigna tax_rate o discount_rate.
func (uc *SessionUseCase) SetRate(_ context.Context, id string, in dto.RateInputRequest) (*dto.FormResponse, error) {
	field, ok := domainform.ParseRateField(in.Field)
	if !ok {
		return nil, fmt.Errorf("%w: campo %q", domain.ErrInvalidInput, in.Field)
	}
	return uc.with(id, func(s *session) error {
		s.form.SetRate(field, in.Value)
		return nil
	})
}

// Discard descarta la sesión sin guardar nada.
func (uc *SessionUseCase) Discard(_ context.Context, id string) error {
	s, err := uc.lookup(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: formulario %s", domain.ErrNotFound, id)
	}
	uc.close(s)
	return nil
}

// Submit envía el formulario al libro de facturas: crea una factura nueva o
// actualiza la de origen. Si el guardado es exitoso la sesión se descarta.
func (uc *SessionUseCase) Submit(ctx context.Context, id string, clientName string) (*dto.InvoiceResponse, error) {
	s, err := uc.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("%w: formulario %s", domain.ErrNotFound, id)
	}

	req := toSaveRequest(s.form.State(), clientName)
	var resp *dto.InvoiceResponse
	if s.invoiceID != "" {
		resp, err = uc.book.Update(ctx, s.invoiceID, req)
	} else {
		resp, err = uc.book.Create(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	uc.close(s)
	uc.log.Info().Str("form_id", id).Str("invoice_id", resp.ID).Msg("formulario enviado")
	return resp, nil
}

// PurgeExpired descarta las sesiones sin actividad desde antes de now-ttl y
// devuelve cuántas eliminó.
func (uc *SessionUseCase) PurgeExpired(now time.Time) int {
	if uc.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-uc.ttl)
	uc.mu.Lock()
	open := make([]*session, 0, len(uc.sessions))
	for _, s := range uc.sessions {
		open = append(open, s)
	}
	uc.mu.Unlock()

	n := 0
	for _, s := range open {
		s.mu.Lock()
		if !s.closed && s.touched.Before(cutoff) {
			uc.close(s)
			n++
		}
		s.mu.Unlock()
	}
	if n > 0 {
		uc.log.Info().Int("purged", n).Msg("sesiones expiradas descartadas")
	}
	return n
}

// Len número de sesiones abiertas.
func (uc *SessionUseCase) Len() int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return len(uc.sessions)
}

func (uc *SessionUseCase) add(f *domainform.Form, invoiceID string) *session {
	s := &session{
		id:        uuid.New().String(),
		invoiceID: invoiceID,
		form:      f,
		touched:   uc.now(),
	}
	uc.mu.Lock()
	uc.sessions[s.id] = s
	uc.mu.Unlock()
	return s
}

// close marca la sesión y la quita del mapa. Requiere s.mu tomado.
func (uc *SessionUseCase) close(s *session) {
	s.closed = true
	uc.mu.Lock()
	delete(uc.sessions, s.id)
	uc.mu.Unlock()
}

func (uc *SessionUseCase) lookup(id string) (*session, error) {
	uc.mu.Lock()
	s, ok := uc.sessions[id]
	uc.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: formulario %s", domain.ErrNotFound, id)
	}
	return s, nil
}

// with ejecuta fn con la sesión bloqueada y devuelve el estado resultante.
func (uc *SessionUseCase) with(id string, fn func(s *session) error) (*dto.FormResponse, error) {
	s, err := uc.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("%w: formulario %s", domain.ErrNotFound, id)
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.touched = uc.now()
	resp := toResponse(s)
	return &resp, nil
}

func toResponse(s *session) dto.FormResponse {
	return dto.FormResponse{ID: s.id, InvoiceID: s.invoiceID, State: s.form.State()}
}

// toSaveRequest convierte el texto crudo del formulario a valores numéricos con
// la misma coerción que usa el cálculo de totales.
func toSaveRequest(st domainform.State, clientName string) dto.SaveInvoiceRequest {
	req := dto.SaveInvoiceRequest{
		ClientName:   clientName,
		TaxRate:      totals.Coerce(st.TaxRate),
		DiscountRate: totals.Coerce(st.DiscountRate),
		Items:        make([]dto.InvoiceItemRequest, 0, len(st.Rows)),
	}
	for _, r := range st.Rows {
		req.Items = append(req.Items, dto.InvoiceItemRequest{
			Name:     r.Name,
			Quantity: totals.Coerce(r.Quantity),
			Price:    totals.Coerce(r.Price),
		})
	}
	return req
}
