// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa con STORAGE=memory (desarrollo local sin PostgreSQL) y en los tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-form/internal/domain"
	"github.com/jhoicas/invoice-form/internal/domain/entity"
	"github.com/jhoicas/invoice-form/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo guarda facturas en un map protegido por mutex. Devuelve siempre copias.
type InvoiceRepo struct {
	mu       sync.RWMutex
	invoices map[string]*entity.Invoice
	seq      int64
}

// NewInvoiceRepository construye un repositorio vacío.
func NewInvoiceRepository() *InvoiceRepo {
	return &InvoiceRepo{invoices: make(map[string]*entity.Invoice)}
}

// Create guarda la cabecera y asigna el consecutivo.
func (r *InvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	if _, ok := r.invoices[invoice.ID]; ok {
		return domain.ErrDuplicate
	}
	r.seq++
	invoice.Number = r.seq
	stored := clone(invoice)
	stored.Items = nil
	r.invoices[invoice.ID] = stored
	return nil
}

// Update actualiza cliente, tasas y fecha de modificación.
func (r *InvoiceRepo) Update(_ context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.invoices[invoice.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.ClientName = invoice.ClientName
	stored.TaxRate = invoice.TaxRate
	stored.DiscountRate = invoice.DiscountRate
	stored.UpdatedAt = invoice.UpdatedAt
	return nil
}

// ReplaceItems sustituye todas las líneas de la factura.
func (r *InvoiceRepo) ReplaceItems(_ context.Context, invoiceID string, items []entity.InvoiceItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.invoices[invoiceID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Items = append([]entity.InvoiceItem(nil), items...)
	return nil
}

// GetByID devuelve una copia o (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	return clone(stored), nil
}

// List más recientes primero (created_at, luego número).
func (r *InvoiceRepo) List(_ context.Context, limit, offset int) ([]*entity.Invoice, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*entity.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		all = append(all, inv)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Number > all[j].Number
	})
	total := len(all)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	out := make([]*entity.Invoice, 0, end-offset)
	for _, inv := range all[offset:end] {
		out = append(out, clone(inv))
	}
	return out, total, nil
}

// Delete elimina la factura y sus líneas.
func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *InvoiceRepo) snapshot() (map[string]*entity.Invoice, int64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := make(map[string]*entity.Invoice, len(r.invoices))
	for id, inv := range r.invoices {
		cp[id] = clone(inv)
	}
	return cp, r.seq
}

func (r *InvoiceRepo) restore(invoices map[string]*entity.Invoice, seq int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices = invoices
	r.seq = seq
}

func clone(inv *entity.Invoice) *entity.Invoice {
	cp := *inv
	cp.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	return &cp
}
