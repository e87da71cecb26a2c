package extraction

import (
	"strings"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/pkg/textparse"
)

// partyBlockLines máximo de líneas no vacías que forman el bloque de una parte.
const partyBlockLines = 4

// Parties datos de vendedor y comprador; nil = no encontrado.
type Parties struct {
	SellerName    *string
	SellerAddress *string
	SellerTaxID   *string
	BuyerName     *string
	BuyerAddress  *string
	BuyerTaxID    *string
}

// Totals totales de cabecera; nil = no encontrado.
type Totals struct {
	NetTotal   *float64
	TaxAmount  *float64
	GrossTotal *float64
}

// ExtractInvoiceNumber devuelve el token que sigue a la etiqueta de número de factura.
func ExtractInvoiceNumber(text string) *string {
	_, v, ok := InvoiceNumberRules.FirstMatch(text)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// ExtractDates devuelve fecha de factura y de vencimiento. Si la regla ganadora
// captura algo que no es una fecha válida, el campo queda ausente (no se prueban más reglas).
func ExtractDates(text string) (invoiceDate, dueDate *entity.Date) {
	return dateByRules(InvoiceDateRules, text), dateByRules(DueDateRules, text)
}

func dateByRules(rules RuleTable, text string) *entity.Date {
	_, v, ok := rules.FirstMatch(text)
	if !ok {
		return nil
	}
	t, ok := textparse.ParseDate(v)
	if !ok {
		return nil
	}
	d := entity.DateOf(t)
	return &d
}

// ExtractCurrency devuelve el primer código de moneda conocido (INR, EUR, USD, GBP) o INR.
func ExtractCurrency(text string) string {
	m := reCurrency.FindStringSubmatch(text)
	if m == nil {
		return entity.DefaultCurrency
	}
	return strings.ToUpper(m[1])
}

// ExtractParties localiza los bloques de vendedor y comprador y los identificadores fiscales.
// Cada bloque se busca de forma independiente (primera línea con la palabra clave).
func ExtractParties(text string) Parties {
	lines := strings.Split(text, "\n")
	var p Parties
	p.SellerName, p.SellerAddress = partyBlock(lines, func(l string) bool { return reSellerLabel.MatchString(l) })
	p.BuyerName, p.BuyerAddress = partyBlock(lines, func(l string) bool { return reBuyerLabel.MatchString(l) })

	// primer identificador => vendedor, segundo distinto => comprador.
	for _, line := range lines {
		m := reTaxID.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id := m[1]
		if p.SellerTaxID == nil {
			p.SellerTaxID = &id
			continue
		}
		if id != *p.SellerTaxID {
			p.BuyerTaxID = &id
			break
		}
	}
	return p
}

// partyBlock toma hasta partyBlockLines líneas no vacías tras la primera línea con etiqueta.
// El nombre es lo anterior a la primera coma; la dirección, el bloque completo.
func partyBlock(lines []string, isLabel func(string) bool) (name, address *string) {
	for i, line := range lines {
		if !isLabel(line) {
			continue
		}
		block := make([]string, 0, partyBlockLines)
		for _, next := range lines[i+1:] {
			if len(block) == partyBlockLines {
				break
			}
			if s := strings.TrimSpace(next); s != "" {
				block = append(block, s)
			}
		}
		if len(block) == 0 {
			return nil, nil
		}
		addr := strings.Join(block, " ")
		n := strings.SplitN(addr, ",", 2)[0]
		return &n, &addr
	}
	return nil, nil
}

// ExtractTotals recorre las líneas una sola vez sin salida anticipada:
// la última línea que coincide para un campo sobrescribe a las anteriores.
func ExtractTotals(text string) Totals {
	var t Totals
	for _, line := range strings.Split(text, "\n") {
		l := strings.ToLower(line)

		if strings.Contains(l, "net total") || strings.Contains(l, "subtotal") {
			if tok := reAmountToken.FindString(line); tok != "" {
				t.NetTotal = textparse.ParseAmountPtr(tok)
			}
		}
		if strings.Contains(l, "tax") || strings.Contains(l, "vat") {
			if tok := reAmountToken.FindString(line); tok != "" {
				t.TaxAmount = textparse.ParseAmountPtr(tok)
			}
		}
		if isGrossTotalLine(l) {
			if tok := reAmountToken.FindString(line); tok != "" {
				t.GrossTotal = textparse.ParseAmountPtr(tok)
			}
		}
	}
	return t
}

func isGrossTotalLine(l string) bool {
	if !strings.Contains(l, "total") {
		return false
	}
	return strings.Contains(l, "grand") ||
		strings.Contains(l, "amount payable") ||
		strings.Contains(l, "invoice total") ||
		strings.TrimSpace(l) == "total"
}

// ExtractPaymentTerms devuelve el resto de la línea tras la etiqueta de condiciones de pago.
func ExtractPaymentTerms(text string) *string {
	_, v, ok := PaymentTermsRules.FirstMatch(text)
	if !ok || v == "" {
		return nil
	}
	return &v
}

// ExtractLineItems parsea la tabla de ítems. Necesita el texto con el espaciado original
// de cada línea: las columnas se separan por dos o más espacios.
func ExtractLineItems(text string) []entity.LineItem {
	lines := textparse.SplitLines(text)
	header := -1
	for i, line := range lines {
		l := strings.ToLower(line)
		if strings.Contains(l, "description") && (strings.Contains(l, "qty") || strings.Contains(l, "quantity")) {
			header = i
			break
		}
	}
	items := make([]entity.LineItem, 0)
	if header < 0 {
		return items
	}

	for _, line := range lines[header+1:] {
		l := strings.ToLower(line)
		if strings.Contains(l, "subtotal") || strings.Contains(l, "net total") || strings.Contains(l, "total") {
			break
		}
		parts := splitColumns(line)
		if len(parts) < 3 {
			continue
		}
		item, ok := lineItemFromColumns(parts)
		if ok {
			items = append(items, item)
		}
	}
	return items
}

func splitColumns(line string) []string {
	raw := reColumnGap.Split(strings.TrimSpace(line), -1)
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// lineItemFromColumns: descripción, cantidad, precio unitario y total (última columna).
func lineItemFromColumns(parts []string) (entity.LineItem, bool) {
	desc := strings.TrimSpace(parts[0])
	if desc == "" {
		return entity.LineItem{}, false
	}
	qty, _ := textparse.ParseAmount(parts[1])
	unit, _ := textparse.ParseAmount(parts[2])
	total, ok := textparse.ParseAmount(parts[len(parts)-1])
	if !ok {
		total = qty * unit
	}
	return entity.LineItem{
		Description: desc,
		Quantity:    qty,
		UnitPrice:   unit,
		LineTotal:   total,
	}, true
}
