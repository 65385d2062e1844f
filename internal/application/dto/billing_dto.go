package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-form/internal/domain/totals"
)

// SaveInvoiceRequest body para POST /api/invoices y PUT /api/invoices/:id.
// Las líneas con nombre vacío se ignoran, igual que en el formulario.
type SaveInvoiceRequest struct {
	ClientName   string               `json:"client_name" validate:"required,max=150"`
	TaxRate      decimal.Decimal      `json:"tax_rate"`
	DiscountRate decimal.Decimal      `json:"discount_rate"`
	Items        []InvoiceItemRequest `json:"items" validate:"dive"`
}

// InvoiceItemRequest línea de factura (nombre, cantidad, precio unitario).
type InvoiceItemRequest struct {
	Name     string          `json:"name" validate:"max=150"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// InvoiceResponse factura con detalle y totales ya formateados.
type InvoiceResponse struct {
	ID           string                `json:"id"`
	Number       int64                 `json:"number"`
	ClientName   string                `json:"client_name"`
	Date         string                `json:"date"`
	TaxRate      decimal.Decimal       `json:"tax_rate"`
	DiscountRate decimal.Decimal       `json:"discount_rate"`
	Items        []InvoiceItemResponse `json:"items"`
	Totals       totals.View           `json:"totals"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// InvoiceItemResponse línea en la respuesta; Subtotal con dos decimales.
type InvoiceItemResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal string          `json:"subtotal"`
}

// InvoiceListResponse página de facturas (más recientes primero).
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
