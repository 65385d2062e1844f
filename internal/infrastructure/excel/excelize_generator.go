// Package excel genera el libro .xlsx de una factura con excelize.
package excel

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/invoice-form/internal/application/billing"
	"github.com/jhoicas/invoice-form/internal/domain/entity"
)

var _ billing.InvoiceExcelGenerator = (*ExcelizeGenerator)(nil)

// Primera fila de líneas; las filas 1-7 son cabecera y la 9 los títulos de columna.
const (
	headerRow    = 9
	firstItemRow = 10
	lastCol      = "E"
	moneyFmt     = 4 // #,##0.00 (formato integrado)
)

// ExcelizeGenerator implementa billing.InvoiceExcelGenerator.
type ExcelizeGenerator struct{}

// NewExcelizeGenerator construye el generador.
func NewExcelizeGenerator() *ExcelizeGenerator { return &ExcelizeGenerator{} }

// GenerateInvoiceExcel crea una hoja "Invoice N" con la cabecera de la empresa,
// la tabla de líneas y el bloque de totales.
func (g *ExcelizeGenerator) GenerateInvoiceExcel(_ context.Context, invoice *entity.Invoice, company entity.Company) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(invoice.Number)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	widths := map[string]float64{"A": 6, "B": 40, "C": 10, "D": 18, "E": 18}
	for col, w := range widths {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	// ── Cabecera ────────────────────────────────────────────────────────

	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", sanitizeExcelCell(company.Name))
	f.SetCellStyle(sheet, "A1", lastCol+"1", st.title)
	f.SetCellValue(sheet, "A2", sanitizeExcelCell(company.Address))
	f.SetCellValue(sheet, "A3", sanitizeExcelCell(company.Phone))
	f.SetCellStyle(sheet, "A2", "A3", st.subtitle)

	f.SetCellValue(sheet, "A5", fmt.Sprintf("Invoice #%d", invoice.Number))
	f.SetCellStyle(sheet, "A5", "A5", st.label)
	f.SetCellValue(sheet, "A6", "Date:")
	f.SetCellValue(sheet, "B6", invoice.CreatedAt.Format("2006-01-02"))
	f.SetCellValue(sheet, "A7", "Client:")
	f.SetCellValue(sheet, "B7", sanitizeExcelCell(invoice.ClientName))

	// ── Tabla de líneas ─────────────────────────────────────────────────

	hr := strconv.Itoa(headerRow)
	for i, h := range []string{"#", "Item", "Qty", "Price", "Subtotal"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A"+hr, lastCol+hr, st.header)

	snap := invoice.Totals()
	row := firstItemRow
	for i, it := range invoice.Items {
		r := strconv.Itoa(row)
		f.SetCellValue(sheet, "A"+r, i+1)
		f.SetCellValue(sheet, "B"+r, sanitizeExcelCell(it.Name))
		f.SetCellValue(sheet, "C"+r, it.Quantity.InexactFloat64())
		f.SetCellValue(sheet, "D"+r, money(it.Price))
		f.SetCellValue(sheet, "E"+r, money(snap.LineSubtotals[i]))
		f.SetCellStyle(sheet, "A"+r, "C"+r, st.item)
		f.SetCellStyle(sheet, "D"+r, "E"+r, st.itemMoney)
		row++
	}

	// ── Totales ─────────────────────────────────────────────────────────

	row++
	summary := []struct {
		label string
		value decimal.Decimal
	}{
		{"Subtotal:", snap.Subtotal},
		{fmt.Sprintf("Tax (%s%%):", invoice.TaxRate.String()), snap.Tax},
		{fmt.Sprintf("Discount (%s%%):", invoice.DiscountRate.String()), snap.Discount},
		{"Total:", snap.Total},
	}
	for _, s := range summary {
		r := strconv.Itoa(row)
		f.SetCellValue(sheet, "D"+r, s.label)
		f.SetCellStyle(sheet, "D"+r, "D"+r, st.label)
		f.SetCellValue(sheet, "E"+r, money(s.value))
		f.SetCellStyle(sheet, "E"+r, "E"+r, st.summaryValue)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// SheetName nombre de la hoja para la factura number.
func SheetName(number int64) string {
	return fmt.Sprintf("Invoice %d", number)
}

// money redondea a dos decimales (mitad alejándose de cero) antes de pasar a float.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

type styles struct {
	title, subtitle, header, item, itemMoney, label, summaryValue int
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	if st.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	}); err != nil {
		return st, fmt.Errorf("create title style: %w", err)
	}
	if st.subtitle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	}); err != nil {
		return st, fmt.Errorf("create subtitle style: %w", err)
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	}); err != nil {
		return st, fmt.Errorf("create header style: %w", err)
	}
	if st.item, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	}); err != nil {
		return st, fmt.Errorf("create item style: %w", err)
	}
	if st.itemMoney, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
		NumFmt: moneyFmt,
	}); err != nil {
		return st, fmt.Errorf("create item money style: %w", err)
	}
	if st.label, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return st, fmt.Errorf("create label style: %w", err)
	}
	if st.summaryValue, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		NumFmt: moneyFmt,
	}); err != nil {
		return st, fmt.Errorf("create summary style: %w", err)
	}
	return st, nil
}

// sanitizeExcelCell evita inyección de fórmulas: un texto que empieza con
// =, +, -, @, tab o CR se prefija con comilla simple.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
