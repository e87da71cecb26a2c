package extraction

import (
	"time"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/pkg/textparse"
)

// Marcadores usados cuando no se encuentra el nombre de una parte.
const (
	UnknownSeller = "UNKNOWN_SELLER"
	UnknownBuyer  = "UNKNOWN_BUYER"
)

// Fields resultado crudo de todos los extractores (opcionales sin resolver).
type Fields struct {
	InvoiceNumber *string
	InvoiceDate   *entity.Date
	DueDate       *entity.Date
	Currency      string
	Parties       Parties
	Totals        Totals
	PaymentTerms  *string
	LineItems     []entity.LineItem
}

// Extract ejecuta todos los extractores sobre el texto de un documento.
// Los campos de cabecera se buscan en el texto normalizado; los ítems, en el texto
// con su espaciado original porque las columnas dependen de él.
func Extract(raw string) Fields {
	text := textparse.Normalize(raw)
	invDate, dueDate := ExtractDates(text)
	return Fields{
		InvoiceNumber: ExtractInvoiceNumber(text),
		InvoiceDate:   invDate,
		DueDate:       dueDate,
		Currency:      ExtractCurrency(text),
		Parties:       ExtractParties(text),
		Totals:        ExtractTotals(text),
		PaymentTerms:  ExtractPaymentTerms(text),
		LineItems:     ExtractLineItems(raw),
	}
}

// ExtractInvoice extrae y construye el registro de un documento. Nunca falla.
func ExtractInvoice(raw, sourceID string, now time.Time) entity.Invoice {
	return Build(Extract(raw), sourceID, entity.DateOf(now))
}

// Build compone el registro aplicando los valores por defecto en orden fijo:
// número, fecha, nombres de las partes, neto, impuesto y bruto.
func Build(f Fields, sourceID string, today entity.Date) entity.Invoice {
	items := f.LineItems
	if items == nil {
		items = []entity.LineItem{}
	}
	net := netTotalOrLineSum(f.Totals.NetTotal, items)
	tax := taxAmountOrZero(f.Totals.TaxAmount)
	currency := f.Currency
	if currency == "" {
		currency = entity.DefaultCurrency
	}
	return entity.Invoice{
		InvoiceNumber: invoiceNumberOrSource(f.InvoiceNumber, sourceID),
		InvoiceDate:   invoiceDateOrToday(f.InvoiceDate, today),
		DueDate:       f.DueDate,
		SellerName:    nameOrPlaceholder(f.Parties.SellerName, UnknownSeller),
		SellerAddress: f.Parties.SellerAddress,
		SellerTaxID:   f.Parties.SellerTaxID,
		BuyerName:     nameOrPlaceholder(f.Parties.BuyerName, UnknownBuyer),
		BuyerAddress:  f.Parties.BuyerAddress,
		BuyerTaxID:    f.Parties.BuyerTaxID,
		Currency:      currency,
		NetTotal:      net,
		TaxAmount:     tax,
		GrossTotal:    grossTotalOrSum(f.Totals.GrossTotal, net, tax),
		PaymentTerms:  f.PaymentTerms,
		LineItems:     items,
	}
}

func invoiceNumberOrSource(extracted *string, sourceID string) string {
	if extracted != nil && *extracted != "" {
		return *extracted
	}
	return sourceID
}

func invoiceDateOrToday(extracted *entity.Date, today entity.Date) entity.Date {
	if extracted != nil && !extracted.IsZero() {
		return *extracted
	}
	return today
}

func nameOrPlaceholder(extracted *string, placeholder string) string {
	if extracted != nil && *extracted != "" {
		return *extracted
	}
	return placeholder
}

func netTotalOrLineSum(extracted *float64, items []entity.LineItem) float64 {
	if extracted != nil {
		return *extracted
	}
	var sum float64
	for _, it := range items {
		sum += it.LineTotal
	}
	return sum
}

func taxAmountOrZero(extracted *float64) float64 {
	if extracted != nil {
		return *extracted
	}
	return 0
}

func grossTotalOrSum(extracted *float64, net, tax float64) float64 {
	if extracted != nil {
		return *extracted
	}
	return net + tax
}
