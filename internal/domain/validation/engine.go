package validation

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// CheckInvoice ejecuta las reglas de un registro en orden fijo:
// completitud, formato y rangos, reglas de negocio. Nunca devuelve nil.
func CheckInvoice(inv entity.Invoice) []string {
	errs := make([]string, 0)
	errs = append(errs, checkCompleteness(inv)...)
	errs = append(errs, checkFormatAndRanges(inv)...)
	errs = append(errs, checkBusinessRules(inv)...)
	return errs
}

// Validate valida cada registro y después ejecuta una única pasada secuencial de
// duplicados en el orden de entrada. El resultado i corresponde a invoices[i].
//
// El orden importa: de dos registros con la misma clave, el primero es el canónico
// y el segundo recibe el error de duplicado.
func Validate(invoices []entity.Invoice) []entity.ValidationResult {
	results := make([]entity.ValidationResult, len(invoices))
	for i, inv := range invoices {
		errs := CheckInvoice(inv)
		results[i] = entity.ValidationResult{
			InvoiceID: inv.InvoiceNumber,
			IsValid:   len(errs) == 0,
			Errors:    errs,
		}
	}

	dups := NewDuplicateDetector()
	for i, inv := range invoices {
		if _, seen := dups.Observe(inv); seen {
			results[i].Errors = append(results[i].Errors, CodeDuplicateInvoice)
			results[i].IsValid = false
		}
	}
	return results
}

// DuplicateKey clave de duplicado: vendedor en minúsculas, número y fecha de factura.
type DuplicateKey struct {
	Seller        string
	InvoiceNumber string
	InvoiceDate   string
}

// DuplicateDetector registra el primer número de factura visto para cada clave.
// No es seguro para uso concurrente.
type DuplicateDetector struct {
	lower cases.Caser
	seen  map[DuplicateKey]string
}

// NewDuplicateDetector crea un detector vacío.
func NewDuplicateDetector() *DuplicateDetector {
	return &DuplicateDetector{
		lower: cases.Lower(language.Und),
		seen:  make(map[DuplicateKey]string),
	}
}

// Key calcula la clave de duplicado de un registro.
func (d *DuplicateDetector) Key(inv entity.Invoice) DuplicateKey {
	return DuplicateKey{
		Seller:        d.lower.String(inv.SellerName),
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate.String(),
	}
}

// Observe registra el registro. Si la clave ya existía devuelve el identificador
// canónico (el primero visto) y seen=true.
func (d *DuplicateDetector) Observe(inv entity.Invoice) (firstID string, seen bool) {
	k := d.Key(inv)
	if id, ok := d.seen[k]; ok {
		return id, true
	}
	d.seen[k] = inv.InvoiceNumber
	return inv.InvoiceNumber, false
}
