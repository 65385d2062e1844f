package excel_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/invoice-form/internal/domain/entity"
	"github.com/jhoicas/invoice-form/internal/infrastructure/excel"
)

func sampleInvoice() *entity.Invoice {
	return &entity.Invoice{
		ID:           "inv-1",
		Number:       7,
		ClientName:   "=Cliente",
		TaxRate:      decimal.NewFromInt(10),
		DiscountRate: decimal.NewFromInt(5),
		CreatedAt:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Items: []entity.InvoiceItem{
			{Name: "Teclado", Quantity: decimal.NewFromInt(2), Price: decimal.RequireFromString("10")},
			{Name: "Cable", Quantity: decimal.NewFromInt(3), Price: decimal.RequireFromString("0.005")},
		},
	}
}

func TestGenerateInvoiceExcel(t *testing.T) {
	company := entity.Company{Name: "Acme", Address: "Calle 1", Phone: "555"}

	b, err := excel.NewExcelizeGenerator().GenerateInvoiceExcel(context.Background(), sampleInvoice(), company)
	require.NoError(t, err)
	require.NotEmpty(t, b)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	sheet := excel.SheetName(7)
	assert.Equal(t, []string{"Invoice 7"}, f.GetSheetList())

	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Acme", get("A1"))
	assert.Equal(t, "Invoice #7", get("A5"))
	assert.Equal(t, "2024-03-01", get("B6"))
	assert.Equal(t, "'=Cliente", get("B7"), "el texto no debe interpretarse como fórmula")

	assert.Equal(t, "Item", get("B9"))
	assert.Equal(t, "Teclado", get("B10"))
	assert.Equal(t, "20", get("E10"))
	assert.Equal(t, "0.02", get("E11"))

	// Totales desde la fila 13: subtotal 20.015, impuesto 2.0015, descuento 1.00075.
	assert.Equal(t, "Subtotal:", get("D13"))
	assert.Equal(t, "20.02", get("E13"))
	assert.Equal(t, "Tax (10%):", get("D14"))
	assert.Equal(t, "2", get("E14"))
	assert.Equal(t, "1", get("E15"))
	assert.Equal(t, "Total:", get("D16"))
	assert.Equal(t, "21.02", get("E16"))
}

func TestGenerateInvoiceExcel_SinLineas(t *testing.T) {
	inv := sampleInvoice()
	inv.Items = nil

	b, err := excel.NewExcelizeGenerator().GenerateInvoiceExcel(context.Background(), inv, entity.Company{Name: "Acme"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(excel.SheetName(7), "D11")
	require.NoError(t, err)
	assert.Equal(t, "Subtotal:", v)
}
