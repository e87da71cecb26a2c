package textsource

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// TextFileExtractor lee documentos de texto plano. Si el contenido no es UTF-8 válido se
// decodifica como Windows-1252 (superconjunto de Latin-1), habitual en exportaciones contables.
type TextFileExtractor struct{}

// NewTextFileExtractor crea el extractor.
func NewTextFileExtractor() *TextFileExtractor { return &TextFileExtractor{} }

// Supports indica si la ruta es un .txt.
func (e *TextFileExtractor) Supports(path string) bool {
	return strings.EqualFold(extOf(path), ".txt")
}

// Extract devuelve el contenido del archivo como UTF-8.
func (e *TextFileExtractor) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("txt: leer %s: %w", path, err)
	}
	return DecodeText(data)
}

// DecodeText convierte bytes a texto UTF-8 (quitando BOM); fuera de UTF-8 asume Windows-1252.
func DecodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("txt: decodificar: %w", err)
	}
	return string(out), nil
}

func extOf(path string) string {
	return filepath.Ext(path)
}
