// Package extraction convierte texto libre de facturas en registros estructurados.
//
// Cada extractor es una función pura sobre texto normalizado. Los campos con varios
// patrones usan una tabla de reglas ordenada: gana la primera regla que encuentra
// coincidencia en cualquier parte del texto y las demás no se evalúan.
package extraction

import (
	"regexp"
	"strings"
)

// Rule par (patrón, captura) de una tabla de reglas.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	// Capture obtiene el valor a partir de los submatches; ok=false descarta la coincidencia.
	Capture func(match []string) (string, bool)
}

// RuleTable reglas en orden de prioridad.
type RuleTable []Rule

// FirstMatch evalúa las reglas en orden y se detiene en la primera que coincide.
// Devuelve el nombre de la regla ganadora y el valor capturado.
func (t RuleTable) FirstMatch(text string) (rule, value string, ok bool) {
	for _, r := range t {
		m := r.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, ok := r.Capture(m)
		if !ok {
			continue
		}
		return r.Name, v, true
	}
	return "", "", false
}

// group captura el submatch i recortado.
func group(i int) func([]string) (string, bool) {
	return func(m []string) (string, bool) {
		if i >= len(m) {
			return "", false
		}
		return strings.TrimSpace(m[i]), true
	}
}

// dateValue admite fechas escritas en la misma línea que la etiqueta
// (dígitos, separadores, nombres de mes y espacios; nunca saltos de línea).
const dateValue = `([0-9./\-A-Za-z \t]+)`

// InvoiceNumberRules etiqueta "invoice" + "no."/"number"/"#".
var InvoiceNumberRules = RuleTable{
	{Name: "invoice_number", Pattern: regexp.MustCompile(`(?i)invoice\s*(?:no\.?|number|#)\s*[:\-]?\s*(\S+)`), Capture: group(1)},
}

// InvoiceDateRules "invoice date" tiene prioridad sobre "date".
var InvoiceDateRules = RuleTable{
	{Name: "invoice_date", Pattern: regexp.MustCompile(`(?i)invoice\s*date\s*[:\-]?\s*` + dateValue), Capture: group(1)},
	{Name: "date", Pattern: regexp.MustCompile(`(?i)date\s*[:\-]?\s*` + dateValue), Capture: group(1)},
}

// DueDateRules etiqueta "due date".
var DueDateRules = RuleTable{
	{Name: "due_date", Pattern: regexp.MustCompile(`(?i)due\s*date\s*[:\-]?\s*` + dateValue), Capture: group(1)},
}

// PaymentTermsRules "payment terms" tiene prioridad sobre "terms"; captura el resto de la línea.
var PaymentTermsRules = RuleTable{
	{Name: "payment_terms", Pattern: regexp.MustCompile(`(?i)payment\s*terms\s*[:\-]?\s*(.+)`), Capture: group(1)},
	{Name: "terms", Pattern: regexp.MustCompile(`(?i)terms\s*[:\-]?\s*(.+)`), Capture: group(1)},
}

var (
	reCurrency    = regexp.MustCompile(`(?i)\b(INR|EUR|USD|GBP)\b`)
	reSellerLabel = regexp.MustCompile(`(?i)\b(?:seller|supplier)\b`)
	reBuyerLabel  = regexp.MustCompile(`(?i)\b(?:buyer|customer|bill to|ship to)\b`)
	reTaxID       = regexp.MustCompile(`(?i)(?:GSTIN|VAT\s*ID|Tax\s*ID)\s*[:\-]?\s*(\S+)`)
	reAmountToken = regexp.MustCompile(`[0-9.,]+`)
	reColumnGap   = regexp.MustCompile(`\s{2,}`)
)
