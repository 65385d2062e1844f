package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-form/internal/domain/entity"
)

func TestGenerateInvoicePDF(t *testing.T) {
	inv := &entity.Invoice{
		ID:         "inv-1",
		Number:     3,
		ClientName: "Cliente Ñandú",
		TaxRate:    decimal.NewFromInt(19),
		CreatedAt:  time.Now(),
		Items: []entity.InvoiceItem{
			{Name: "Servicio", Quantity: decimal.NewFromInt(1), Price: decimal.RequireFromString("1500.5")},
		},
	}
	b, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), inv, entity.Company{Name: "Acme"})
	require.NoError(t, err)
	require.Greater(t, len(b), 5)
	assert.Equal(t, "%PDF-", string(b[:5]))
}

func TestGenerateInvoicePDF_SinLineas(t *testing.T) {
	inv := &entity.Invoice{ID: "inv-2", Number: 4, ClientName: "X", CreatedAt: time.Now()}
	b, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), inv, entity.Company{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(b[:5]))
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0.00":       "0.00",
		"999.99":     "999.99",
		"1234.50":    "1,234.50",
		"1000000.00": "1,000,000.00",
		"-25000.10":  "-25,000.10",
		"123":        "123",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(in), in)
	}
}
