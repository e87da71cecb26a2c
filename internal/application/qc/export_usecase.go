package qc

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoice-qc/internal/domain"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// ExportUseCase genera las representaciones PDF y XLSX de un informe.
type ExportUseCase struct {
	pdf  ReportPDFGenerator
	xlsx ReportSpreadsheetGenerator
}

// NewExportUseCase construye el caso de uso; cualquiera de los generadores puede ser nil.
func NewExportUseCase(pdf ReportPDFGenerator, xlsx ReportSpreadsheetGenerator) *ExportUseCase {
	return &ExportUseCase{pdf: pdf, xlsx: xlsx}
}

// RenderPDF devuelve el PDF del informe y su nombre de archivo sugerido.
func (uc *ExportUseCase) RenderPDF(ctx context.Context, run *entity.ValidationRun) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("%w: exportación PDF no configurada", domain.ErrInvalidInput)
	}
	b, err := uc.pdf.GenerateReportPDF(ctx, run)
	if err != nil {
		return nil, "", fmt.Errorf("export: pdf: %w", err)
	}
	return b, reportFilename(run, "pdf"), nil
}

// RenderXLSX devuelve la hoja de cálculo del informe y su nombre de archivo sugerido.
func (uc *ExportUseCase) RenderXLSX(ctx context.Context, run *entity.ValidationRun) ([]byte, string, error) {
	if uc.xlsx == nil {
		return nil, "", fmt.Errorf("%w: exportación XLSX no configurada", domain.ErrInvalidInput)
	}
	b, err := uc.xlsx.GenerateReportXLSX(ctx, run)
	if err != nil {
		return nil, "", fmt.Errorf("export: xlsx: %w", err)
	}
	return b, reportFilename(run, "xlsx"), nil
}

func reportFilename(run *entity.ValidationRun, ext string) string {
	id := run.ID
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		return "validation_report." + ext
	}
	return fmt.Sprintf("validation_report_%s.%s", id, ext)
}
