// Package xlsx exporta informes de validación a hojas de cálculo con excelize.
package xlsx

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	appqc "github.com/jhoicas/invoice-qc/internal/application/qc"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/domain/validation"
)

// Nombres de las hojas del libro.
const (
	SheetSummary = "Resumen"
	SheetResults = "Resultados"
)

// ReportExporter implementa appqc.ReportSpreadsheetGenerator.
type ReportExporter struct{}

var _ appqc.ReportSpreadsheetGenerator = (*ReportExporter)(nil)

// NewReportExporter crea el exportador.
func NewReportExporter() *ReportExporter { return &ReportExporter{} }

// GenerateReportXLSX genera un libro con dos hojas: resumen (totales y frecuencia de
// errores) y resultados (una fila por factura, errores separados por "; ").
func (e *ReportExporter) GenerateReportXLSX(_ context.Context, run *entity.ValidationRun) ([]byte, error) {
	if run == nil {
		return nil, fmt.Errorf("xlsx: corrida nula")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// el libro nuevo trae "Sheet1"; se renombra como hoja de resumen
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("xlsx: hoja resumen: %w", err)
	}
	if _, err := f.NewSheet(SheetResults); err != nil {
		return nil, fmt.Errorf("xlsx: hoja resultados: %w", err)
	}

	if err := writeSummary(f, run); err != nil {
		return nil, err
	}
	if err := writeResults(f, run.Report.Results); err != nil {
		return nil, err
	}

	idx, _ := f.GetSheetIndex(SheetSummary)
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, run *entity.ValidationRun) error {
	s := run.Report.Summary
	rows := [][]any{
		{"Corrida", run.ID},
		{"Origen", run.Source},
		{"Fecha", run.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Facturas procesadas", s.TotalInvoices},
		{"Válidas", s.ValidInvoices},
		{"Inválidas", s.InvalidInvoices},
		{},
		{"Código de error", "Ocurrencias"},
	}
	for _, ec := range validation.TopErrors(s, 0) {
		rows = append(rows, []any{ec.Code, ec.Count})
	}
	if err := writeRows(f, SheetSummary, rows); err != nil {
		return err
	}
	_ = f.SetColWidth(SheetSummary, "A", "A", 48)
	_ = f.SetColWidth(SheetSummary, "B", "B", 40)
	return nil
}

func writeResults(f *excelize.File, results []entity.ValidationResult) error {
	rows := make([][]any, 0, len(results)+1)
	rows = append(rows, []any{"Factura", "Válida", "Errores"})
	for _, r := range results {
		rows = append(rows, []any{r.InvoiceID, r.IsValid, strings.Join(r.Errors, "; ")})
	}
	if err := writeRows(f, SheetResults, rows); err != nil {
		return err
	}
	_ = f.SetColWidth(SheetResults, "A", "A", 24)
	_ = f.SetColWidth(SheetResults, "B", "B", 10)
	_ = f.SetColWidth(SheetResults, "C", "C", 90)
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, r := range rows {
		for j, v := range r {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("xlsx: celda: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("xlsx: %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
