package dto

import "github.com/jhoicas/invoice-form/internal/domain/form"

// FormResponse estado visible de una sesión de formulario.
// InvoiceID solo está presente cuando la sesión edita una factura existente.
type FormResponse struct {
	ID        string `json:"id"`
	InvoiceID string `json:"invoice_id,omitempty"`
	form.State
}

// FieldInputRequest body para PATCH /api/forms/:id/rows/:rowId.
// Value puede ir vacío (campo borrado).
type FieldInputRequest struct {
	Field string `json:"field" validate:"required,oneof=name quantity price"`
	Value string `json:"value"`
}

// RateInputRequest body para PATCH /api/forms/:id/rates.
type RateInputRequest struct {
	Field string `json:"field" validate:"required,oneof=tax_rate discount_rate"`
	Value string `json:"value"`
}

// SubmitFormRequest body para POST /api/forms/:id/submit.
type SubmitFormRequest struct {
	ClientName string `json:"client_name" validate:"required,max=150"`
}
