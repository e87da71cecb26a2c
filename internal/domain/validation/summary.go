package validation

import (
	"sort"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// Summarize agrega los resultados en una sola pasada. Cuenta cada código de error
// cada vez que aparece; valid + invalid == total.
func Summarize(results []entity.ValidationResult) entity.ValidationSummary {
	s := entity.ValidationSummary{
		TotalInvoices: len(results),
		ErrorCounts:   make(map[string]int),
	}
	for _, r := range results {
		if r.IsValid {
			s.ValidInvoices++
		} else {
			s.InvalidInvoices++
		}
		for _, e := range r.Errors {
			s.ErrorCounts[e]++
		}
	}
	return s
}

// BuildReport valida y resume en un único informe.
func BuildReport(invoices []entity.Invoice) entity.Report {
	results := Validate(invoices)
	return entity.Report{
		Summary: Summarize(results),
		Results: results,
	}
}

// ErrorCount par código / ocurrencias.
type ErrorCount struct {
	Code  string
	Count int
}

// TopErrors devuelve hasta n códigos ordenados por frecuencia descendente
// (empates por código). n <= 0 devuelve todos.
func TopErrors(s entity.ValidationSummary, n int) []ErrorCount {
	out := make([]ErrorCount, 0, len(s.ErrorCounts))
	for code, c := range s.ErrorCounts {
		out = append(out, ErrorCount{Code: code, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Code < out[j].Code
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
