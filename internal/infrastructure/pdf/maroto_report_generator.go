package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appqc "github.com/jhoicas/invoice-qc/internal/application/qc"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/domain/validation"
)

// ─── Paleta ──────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorOK      = &props.Color{Red: 0, Green: 128, Blue: 60}
	colorFail    = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// errorLineWidth caracteres por línea de la columna de errores.
const errorLineWidth = 70

// MarotoReportGenerator implementa appqc.ReportPDFGenerator con maroto v2.
type MarotoReportGenerator struct {
	appName string
}

var _ appqc.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// NewMarotoReportGenerator crea el generador; appName aparece como autor del documento.
func NewMarotoReportGenerator(appName string) *MarotoReportGenerator {
	return &MarotoReportGenerator{appName: appName}
}

// GenerateReportPDF construye el PDF: cabecera de la corrida, resumen, frecuencia de
// errores y una fila por factura con su veredicto.
func (g *MarotoReportGenerator) GenerateReportPDF(_ context.Context, run *entity.ValidationRun) ([]byte, error) {
	if run == nil {
		return nil, fmt.Errorf("pdf: corrida nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de validación de facturas", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(run))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(run.Report.Summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(errorCountRows(run.Report.Summary)...)
	m.AddRows(line.NewRow(3))

	m.AddRows(resultsHeaderRow())
	m.AddRows(resultRows(run.Report.Results)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ─── Secciones ───────────────────────────────────────────────────────────────

func headerRow(run *entity.ValidationRun) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("INFORME DE VALIDACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Origen: "+nonEmpty(run.Source, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Corrida "+nonEmpty(run.ID, "-"), props.Text{
				Size: 7, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Fecha: "+run.CreatedAt.Format("2006-01-02 15:04 MST"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func summaryRow(s entity.ValidationSummary) core.Row {
	box := func(label string, n int, c *props.Color) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(strconv.Itoa(n), props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: c, Top: 6,
			}),
		)
	}
	return row.New(16).Add(
		box("Facturas procesadas", s.TotalInvoices, colorPrimary),
		box("Válidas", s.ValidInvoices, colorOK),
		box("Inválidas", s.InvalidInvoices, colorFail),
	)
}

func errorCountRows(s entity.ValidationSummary) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("ERRORES MÁS FRECUENTES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
		)),
	}
	top := validation.TopErrors(s, 0)
	if len(top) == 0 {
		return append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Sin errores.", props.Text{Size: 8, Color: colorGray, Top: 1, Left: 2}),
		)))
	}
	for _, e := range top {
		rows = append(rows, row.New(5).Add(
			col.New(10).Add(text.New(e.Code, props.Text{Size: 8, Top: 0.5, Left: 2})),
			col.New(2).Add(text.New(strconv.Itoa(e.Count), props.Text{Size: 8, Align: align.Right, Top: 0.5, Right: 1})),
		))
	}
	return rows
}

func resultsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Factura", 3, align.Left),
		h("Estado", 2, align.Center),
		h("Errores", 7, align.Left),
	)
}

func resultRows(results []entity.ValidationResult) []core.Row {
	out := make([]core.Row, 0, len(results))
	for _, r := range results {
		status, c := "VÁLIDA", colorOK
		if !r.IsValid {
			status, c = "INVÁLIDA", colorFail
		}
		lines := wrapErrors(r.Errors, errorLineWidth)
		height := 4.0*float64(len(lines)) + 2

		errCol := col.New(7)
		for i, l := range lines {
			errCol = errCol.Add(text.New(l, props.Text{Size: 7, Top: 1 + 4*float64(i), Left: 1, Color: colorGray}))
		}
		out = append(out, row.New(height).Add(
			col.New(3).Add(text.New(nonEmpty(r.InvoiceID, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(status, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Color: c, Top: 1})),
			errCol,
		))
	}
	return out
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// wrapErrors una línea por error, partiendo los que superan width caracteres.
func wrapErrors(errs []string, width int) []string {
	if len(errs) == 0 {
		return []string{"-"}
	}
	var lines []string
	for _, e := range errs {
		lines = append(lines, splitEvery(e, width)...)
	}
	return lines
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// splitEvery divide s en trozos de max n runas.
func splitEvery(s string, n int) []string {
	r := []rune(s)
	var parts []string
	for len(r) > n {
		parts = append(parts, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
