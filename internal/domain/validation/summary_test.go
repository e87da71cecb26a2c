package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/domain/validation"
)

func TestSummarize_Conteos(t *testing.T) {
	invoices := []entity.Invoice{
		validInvoice("A"),
		validInvoice("A"),
		{Currency: "XYZ"},
		validInvoice("B"),
	}
	report := validation.BuildReport(invoices)
	s := report.Summary

	assert.Equal(t, 4, s.TotalInvoices)
	assert.Equal(t, s.TotalInvoices, s.ValidInvoices+s.InvalidInvoices)
	assert.Equal(t, 2, s.ValidInvoices)

	// cada código cuenta tantas veces como resultados lo contienen
	for code, n := range s.ErrorCounts {
		var with int
		for _, r := range report.Results {
			for _, e := range r.Errors {
				if e == code {
					with++
					break
				}
			}
		}
		assert.Equal(t, with, n, code)
	}
	assert.Equal(t, 1, s.ErrorCounts[validation.CodeDuplicateInvoice])
	assert.Equal(t, 1, s.ErrorCounts[validation.CodeCurrencyInvalid])
}

func TestTopErrors(t *testing.T) {
	s := entity.ValidationSummary{ErrorCounts: map[string]int{"b": 2, "a": 2, "c": 5, "d": 1}}

	assert.Equal(t, []validation.ErrorCount{{Code: "c", Count: 5}, {Code: "a", Count: 2}, {Code: "b", Count: 2}}, validation.TopErrors(s, 3))
	assert.Len(t, validation.TopErrors(s, 0), 4)
	assert.Empty(t, validation.TopErrors(entity.ValidationSummary{}, 5))
}
