package entity

import "time"

// ValidationResult veredicto de validación de una factura.
// Errors conserva el orden de detección.
type ValidationResult struct {
	InvoiceID string   `json:"invoice_id"`
	IsValid   bool     `json:"is_valid"`
	Errors    []string `json:"errors"`
}

// ValidationSummary agregado de todas las facturas procesadas.
// Invariante: ValidInvoices + InvalidInvoices == TotalInvoices.
type ValidationSummary struct {
	TotalInvoices   int            `json:"total_invoices"`
	ValidInvoices   int            `json:"valid_invoices"`
	InvalidInvoices int            `json:"invalid_invoices"`
	ErrorCounts     map[string]int `json:"error_counts"`
}

// Report informe completo de una corrida de validación.
type Report struct {
	Summary ValidationSummary  `json:"summary"`
	Results []ValidationResult `json:"results"`
}

// ValidationRun corrida de validación identificada, tal como se persiste.
type ValidationRun struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	Report    Report    `json:"report"`
}
