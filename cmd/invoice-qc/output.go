package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/domain/validation"
)

// writeJSON escribe v con sangría de dos espacios.
func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serializar %s: %w", path, err)
	}
	return writeFile(path, append(b, '\n'))
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("crear directorio %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	return nil
}

// printSummary resumen legible del informe; withErrors añade la frecuencia de errores.
func printSummary(w io.Writer, prefix string, s entity.ValidationSummary, withErrors bool) {
	fmt.Fprintf(w, "%sProcessed %d invoices.\n", prefix, s.TotalInvoices)
	fmt.Fprintf(w, "Valid:   %d\n", s.ValidInvoices)
	fmt.Fprintf(w, "Invalid: %d\n", s.InvalidInvoices)
	if !withErrors {
		return
	}
	fmt.Fprintln(w, "Top errors:")
	for _, e := range validation.TopErrors(s, 0) {
		fmt.Fprintf(w, "  %-40s %d\n", e.Code, e.Count)
	}
}
