// Package validation aplica las reglas de calidad a registros de factura ya construidos.
//
// Las reglas nunca detienen la validación: cada infracción agrega un código de error
// a la lista del registro, en el orden en que se detecta.
package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// Rangos y tolerancias de las reglas.
const (
	MinYear = 2000
	MaxYear = 2100
)

// Tolerance diferencia absoluta admitida en las comparaciones de importes.
var Tolerance = decimal.RequireFromString("0.05")

// AllowedCurrencies códigos de moneda aceptados.
var AllowedCurrencies = map[string]struct{}{
	"INR": {},
	"EUR": {},
	"USD": {},
	"GBP": {},
}

// Códigos de error fijos.
const (
	CodeInvoiceDateOutOfRange = "format_error: invoice_date_out_of_range"
	CodeDueDateOutOfRange     = "format_error: due_date_out_of_range"
	CodeCurrencyInvalid       = "format_error: currency_invalid"
	CodeNetTotalNegative      = "format_error: net_total_negative"
	CodeTaxAmountNegative     = "format_error: tax_amount_negative"
	CodeGrossTotalNegative    = "format_error: gross_total_negative"
	CodeLineItemsNetMismatch  = "business_rule_failed: line_items_net_mismatch"
	CodeTotalsMismatch        = "business_rule_failed: totals_mismatch"
	CodeDueBeforeInvoiceDate  = "business_rule_failed: due_before_invoice_date"
	CodeDuplicateInvoice      = "anomaly: duplicate_invoice"
)

// MissingField código de campo obligatorio ausente.
func MissingField(field string) string {
	return "missing_field: " + field
}

// LineNegative código de valor negativo en la línea i (base 0).
func LineNegative(i int, field string) string {
	return fmt.Sprintf("format_error: line_%d_%s_negative", i, field)
}

// checkCompleteness: número, fecha y nombres de las partes.
func checkCompleteness(inv entity.Invoice) []string {
	var errs []string
	if inv.InvoiceNumber == "" {
		errs = append(errs, MissingField("invoice_number"))
	}
	if inv.InvoiceDate.IsZero() {
		errs = append(errs, MissingField("invoice_date"))
	}
	if inv.SellerName == "" {
		errs = append(errs, MissingField("seller_name"))
	}
	if inv.BuyerName == "" {
		errs = append(errs, MissingField("buyer_name"))
	}
	return errs
}

// checkFormatAndRanges: ventana de fechas, moneda y signos de importes.
// Una fecha de factura ausente ya la reporta checkCompleteness.
func checkFormatAndRanges(inv entity.Invoice) []string {
	var errs []string
	if !inv.InvoiceDate.IsZero() && !inRange(inv.InvoiceDate) {
		errs = append(errs, CodeInvoiceDateOutOfRange)
	}
	if inv.DueDate != nil && !inv.DueDate.IsZero() && !inRange(*inv.DueDate) {
		errs = append(errs, CodeDueDateOutOfRange)
	}

	if _, ok := AllowedCurrencies[entity.NormalizeCurrency(inv.Currency)]; !ok {
		errs = append(errs, CodeCurrencyInvalid)
	}

	if inv.NetTotal < 0 {
		errs = append(errs, CodeNetTotalNegative)
	}
	if inv.TaxAmount < 0 {
		errs = append(errs, CodeTaxAmountNegative)
	}
	if inv.GrossTotal < 0 {
		errs = append(errs, CodeGrossTotalNegative)
	}

	for i, it := range inv.LineItems {
		if it.Quantity < 0 {
			errs = append(errs, LineNegative(i, "quantity"))
		}
		if it.UnitPrice < 0 {
			errs = append(errs, LineNegative(i, "unit_price"))
		}
		if it.LineTotal < 0 {
			errs = append(errs, LineNegative(i, "line_total"))
		}
	}
	return errs
}

func inRange(d entity.Date) bool {
	y := d.Year()
	return y >= MinYear && y <= MaxYear
}

// checkBusinessRules compara importes en aritmética decimal para que el límite de
// tolerancia sea exacto.
func checkBusinessRules(inv entity.Invoice) []string {
	var errs []string
	net := decimal.NewFromFloat(inv.NetTotal)
	tax := decimal.NewFromFloat(inv.TaxAmount)
	gross := decimal.NewFromFloat(inv.GrossTotal)

	if len(inv.LineItems) > 0 {
		var sumLines decimal.Decimal
		for _, it := range inv.LineItems {
			sumLines = sumLines.Add(decimal.NewFromFloat(it.LineTotal))
		}
		if exceedsTolerance(sumLines, net) {
			errs = append(errs, CodeLineItemsNetMismatch)
		}
	}

	if exceedsTolerance(net.Add(tax), gross) {
		errs = append(errs, CodeTotalsMismatch)
	}

	if inv.DueDate != nil && !inv.DueDate.IsZero() && !inv.InvoiceDate.IsZero() &&
		inv.DueDate.Before(inv.InvoiceDate.Time) {
		errs = append(errs, CodeDueBeforeInvoiceDate)
	}
	return errs
}

func exceedsTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().GreaterThan(Tolerance)
}
