package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-form/internal/application/billing"
	"github.com/jhoicas/invoice-form/internal/application/dto"
	"github.com/jhoicas/invoice-form/internal/domain"
	"github.com/jhoicas/invoice-form/internal/domain/entity"
	"github.com/jhoicas/invoice-form/pkg/logger"
)

type stubGenerator struct {
	calls   int
	company entity.Company
}

func (s *stubGenerator) GenerateInvoicePDF(_ context.Context, _ *entity.Invoice, c entity.Company) ([]byte, error) {
	s.calls++
	s.company = c
	return []byte("%PDF-stub"), nil
}

func (s *stubGenerator) GenerateInvoiceExcel(_ context.Context, _ *entity.Invoice, c entity.Company) ([]byte, error) {
	s.calls++
	s.company = c
	return []byte("xlsx"), nil
}

func TestExport_NombresDeArchivo(t *testing.T) {
	ctx := context.Background()
	book, repo := newBook(t)
	inv, err := book.Create(ctx, dto.SaveInvoiceRequest{ClientName: "Cliente"})
	require.NoError(t, err)

	gen := &stubGenerator{}
	company := entity.Company{Name: "Acme"}
	uc := billing.NewExportUseCase(repo, gen, gen, company, logger.Nop())

	b, name, err := uc.ExportPDF(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoice_1.pdf", name)
	assert.Equal(t, "%PDF-stub", string(b))

	_, name, err = uc.ExportExcel(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoice_1.xlsx", name)
	assert.Equal(t, 2, gen.calls)
	assert.Equal(t, company, gen.company)
}

func TestExport_FacturaInexistente(t *testing.T) {
	_, repo := newBook(t)
	gen := &stubGenerator{}
	uc := billing.NewExportUseCase(repo, gen, gen, entity.Company{}, logger.Nop())

	_, _, err := uc.ExportPDF(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = uc.ExportExcel(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, gen.calls)
}
