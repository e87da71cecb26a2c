package qc

import (
	"context"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// TextExtractor obtiene el texto plano de un documento fuente (PDF, texto), una línea por
// fila visual y con las páginas en orden.
type TextExtractor interface {
	Supports(path string) bool
	Extract(ctx context.Context, path string) (string, error)
}

// SchemaValidator comprueba la forma del JSON persistido antes de decodificarlo.
type SchemaValidator interface {
	Validate(raw []byte) error
}

// ReportPDFGenerator genera la representación PDF de una corrida de validación.
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, run *entity.ValidationRun) ([]byte, error)
}

// ReportSpreadsheetGenerator genera la hoja de cálculo (XLSX) de una corrida de validación.
type ReportSpreadsheetGenerator interface {
	GenerateReportXLSX(ctx context.Context, run *entity.ValidationRun) ([]byte, error)
}
