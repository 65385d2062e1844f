package billing

import (
	"context"

	"github.com/jhoicas/invoice-form/internal/domain/entity"
	"github.com/jhoicas/invoice-form/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con un InvoiceRepository atado a ella.
// Si fn retorna error se hace rollback.
type TxRunner interface {
	RunInvoice(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// InvoicePDFGenerator genera la representación imprimible de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, company entity.Company) ([]byte, error)
}

// InvoiceExcelGenerator genera el libro .xlsx de una factura.
type InvoiceExcelGenerator interface {
	GenerateInvoiceExcel(ctx context.Context, invoice *entity.Invoice, company entity.Company) ([]byte, error)
}
