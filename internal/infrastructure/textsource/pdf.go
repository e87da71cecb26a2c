// Package textsource implementa los extractores de texto de documentos fuente.
package textsource

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// columnGapFactor separación horizontal (en múltiplos del tamaño de fuente) a partir de la
// cual dos fragmentos de una fila se consideran columnas distintas.
const columnGapFactor = 1.0

// PDFExtractor extrae texto de PDFs fila por fila con ledongthuc/pdf.
// Las columnas de una fila se separan con varios espacios para que la tabla de ítems
// conserve su estructura.
type PDFExtractor struct{}

// NewPDFExtractor crea el extractor.
func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

// Supports indica si la ruta es un PDF.
func (e *PDFExtractor) Supports(path string) bool {
	return strings.EqualFold(extOf(path), ".pdf")
}

// Extract lee el PDF completo y devuelve su texto, páginas en orden.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("pdf: leer %s: %w", path, err)
	}
	return e.ExtractBytes(ctx, data)
}

// ExtractBytes extrae el texto de un PDF en memoria.
func (e *PDFExtractor) ExtractBytes(ctx context.Context, data []byte) (text string, err error) {
	// ledongthuc/pdf hace panic con algunos documentos malformados.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf: documento inválido: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf: abrir: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("pdf: página %d: %w", i, err)
		}
		for _, row := range rows {
			sb.WriteString(joinRow(row.Content))
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

// joinRow une los fragmentos de una fila: un espacio entre palabras contiguas y tres
// entre fragmentos separados por un hueco mayor que columnGapFactor * tamaño de fuente.
func joinRow(words pdf.TextHorizontal) string {
	var sb strings.Builder
	for i, w := range words {
		if i > 0 {
			prev := words[i-1]
			gap := w.X - (prev.X + prev.W)
			switch {
			case gap > prev.FontSize*columnGapFactor:
				sb.WriteString("   ")
			case gap > 0 && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(w.S, " "):
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(w.S)
	}
	return sb.String()
}
