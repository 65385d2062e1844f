package repository

import (
	"context"

	"github.com/jhoicas/invoice-form/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// Create persiste la cabecera y asigna ID (si falta) y Number.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update actualiza cliente, tasas y updated_at de la cabecera.
	Update(ctx context.Context, invoice *entity.Invoice) error
	// ReplaceItems borra las líneas actuales e inserta items en orden.
	ReplaceItems(ctx context.Context, invoiceID string, items []entity.InvoiceItem) error
	// GetByID devuelve la factura con sus líneas; (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// List facturas más recientes primero, con sus líneas.
	List(ctx context.Context, limit, offset int) ([]*entity.Invoice, int, error)
	// Delete elimina la factura (las líneas se borran en cascada). Devuelve ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
}
