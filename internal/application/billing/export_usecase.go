package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoice-form/internal/domain"
	"github.com/jhoicas/invoice-form/internal/domain/entity"
	"github.com/jhoicas/invoice-form/internal/domain/repository"
	"github.com/jhoicas/invoice-form/pkg/logger"
)

// ExportUseCase genera los archivos descargables (PDF y Excel) de una factura.
type ExportUseCase struct {
	invoiceRepo repository.InvoiceRepository
	pdf         InvoicePDFGenerator
	excel       InvoiceExcelGenerator
	company     entity.Company
	log         *logger.Logger
}

// NewExportUseCase construye el caso de uso inyectando todas sus dependencias.
func NewExportUseCase(
	invoiceRepo repository.InvoiceRepository,
	pdf InvoicePDFGenerator,
	excel InvoiceExcelGenerator,
	company entity.Company,
	log *logger.Logger,
) *ExportUseCase {
	return &ExportUseCase{
		invoiceRepo: invoiceRepo,
		pdf:         pdf,
		excel:       excel,
		company:     company,
		log:         log.Named("export"),
	}
}

// ExportPDF devuelve los bytes del PDF y el nombre de archivo sugerido.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
func (uc *ExportUseCase) ExportPDF(ctx context.Context, invoiceID string) ([]byte, string, error) {
	inv, err := uc.load(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.GenerateInvoicePDF(ctx, inv, uc.company)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	uc.log.Info().Str("invoice_id", inv.ID).Int("bytes", len(b)).Msg("pdf generado")
	return b, fmt.Sprintf("invoice_%d.pdf", inv.Number), nil
}

// ExportExcel devuelve los bytes del .xlsx y el nombre de archivo sugerido.
func (uc *ExportUseCase) ExportExcel(ctx context.Context, invoiceID string) ([]byte, string, error) {
	inv, err := uc.load(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.excel.GenerateInvoiceExcel(ctx, inv, uc.company)
	if err != nil {
		return nil, "", fmt.Errorf("excel: generación fallida: %w", err)
	}
	uc.log.Info().Str("invoice_id", inv.ID).Int("bytes", len(b)).Msg("excel generado")
	return b, fmt.Sprintf("invoice_%d.xlsx", inv.Number), nil
}

func (uc *ExportUseCase) load(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}
