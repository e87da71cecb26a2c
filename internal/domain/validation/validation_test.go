package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/domain/validation"
)

func datePtr(d entity.Date) *entity.Date { return &d }

// validInvoice registro que pasa todas las reglas.
func validInvoice(number string) entity.Invoice {
	return entity.Invoice{
		InvoiceNumber: number,
		InvoiceDate:   entity.NewDate(2024, 2, 1),
		SellerName:    "Acme",
		BuyerName:     "Beta",
		Currency:      "INR",
		NetTotal:      100,
		TaxAmount:     18,
		GrossTotal:    118,
		LineItems: []entity.LineItem{
			{Description: "Widget", Quantity: 2, UnitPrice: 50, LineTotal: 100},
		},
	}
}

func TestCheckInvoice_RegistroValido(t *testing.T) {
	errs := validation.CheckInvoice(validInvoice("INV-0"))
	assert.NotNil(t, errs)
	assert.Empty(t, errs)
}

func TestCheckInvoice_MonedaYVencimiento(t *testing.T) {
	inv := entity.Invoice{
		InvoiceNumber: "INV-1",
		InvoiceDate:   entity.NewDate(2024, 1, 10),
		DueDate:       datePtr(entity.NewDate(2024, 1, 5)),
		SellerName:    "Acme",
		BuyerName:     "Beta",
		Currency:      "XYZ",
		NetTotal:      100,
		TaxAmount:     18,
		GrossTotal:    118,
		LineItems:     []entity.LineItem{},
	}

	results := validation.Validate([]entity.Invoice{inv})

	require.Len(t, results, 1)
	assert.Equal(t, "INV-1", results[0].InvoiceID)
	assert.False(t, results[0].IsValid)
	assert.Equal(t, []string{
		"format_error: currency_invalid",
		"business_rule_failed: due_before_invoice_date",
	}, results[0].Errors)
}

func TestCheckInvoice_Completitud(t *testing.T) {
	errs := validation.CheckInvoice(entity.Invoice{Currency: "INR"})
	assert.Equal(t, []string{
		"missing_field: invoice_number",
		"missing_field: invoice_date",
		"missing_field: seller_name",
		"missing_field: buyer_name",
	}, errs)
}

func TestCheckInvoice_RangosYNegativos(t *testing.T) {
	inv := validInvoice("INV-3")
	inv.InvoiceDate = entity.NewDate(1999, 12, 31)
	inv.DueDate = datePtr(entity.NewDate(2101, 1, 1))
	inv.NetTotal = -1
	inv.TaxAmount = -2
	inv.GrossTotal = -3
	inv.LineItems = []entity.LineItem{
		{Description: "ok", Quantity: 1, UnitPrice: 1, LineTotal: 1},
		{Description: "bad", Quantity: -1, UnitPrice: -1, LineTotal: -1},
	}

	errs := validation.CheckInvoice(inv)

	assert.Equal(t, []string{
		"format_error: invoice_date_out_of_range",
		"format_error: due_date_out_of_range",
		"format_error: net_total_negative",
		"format_error: tax_amount_negative",
		"format_error: gross_total_negative",
		"format_error: line_1_quantity_negative",
		"format_error: line_1_unit_price_negative",
		"format_error: line_1_line_total_negative",
		"business_rule_failed: line_items_net_mismatch",
	}, errs)
}

func TestCheckInvoice_LimitesDelRangoInclusivos(t *testing.T) {
	for _, d := range []entity.Date{entity.NewDate(2000, 1, 1), entity.NewDate(2100, 12, 31)} {
		inv := validInvoice("INV-R")
		inv.InvoiceDate = d
		assert.Empty(t, validation.CheckInvoice(inv), d.String())
	}
}

func TestCheckInvoice_MonedaEnMinusculas(t *testing.T) {
	inv := validInvoice("INV-C")
	inv.Currency = "usd"
	assert.Empty(t, validation.CheckInvoice(inv))
}

func TestCheckInvoice_Tolerancia(t *testing.T) {
	tests := []struct {
		name      string
		lineTotal float64
		wantErr   bool
	}{
		{"exacto", 100, false},
		{"en el límite", 100.05, false},
		{"por debajo del límite", 99.95, false},
		{"fuera del límite", 100.0501, true},
		{"fuera por debajo", 99.9499, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvoice("INV-T")
			inv.TaxAmount = 0
			inv.GrossTotal = 100
			inv.LineItems = []entity.LineItem{{Description: "x", Quantity: 1, UnitPrice: tt.lineTotal, LineTotal: tt.lineTotal}}

			errs := validation.CheckInvoice(inv)
			if tt.wantErr {
				assert.Equal(t, []string{validation.CodeLineItemsNetMismatch}, errs)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestCheckInvoice_TotalesNoCuadran(t *testing.T) {
	inv := validInvoice("INV-G")
	inv.GrossTotal = 118.06
	assert.Equal(t, []string{validation.CodeTotalsMismatch}, validation.CheckInvoice(inv))

	inv.GrossTotal = 118.05
	assert.Empty(t, validation.CheckInvoice(inv))
}

func TestCheckInvoice_SinFechaNoSeEvaluaVencimiento(t *testing.T) {
	inv := validInvoice("INV-D")
	inv.InvoiceDate = entity.Date{}
	inv.DueDate = datePtr(entity.NewDate(2024, 1, 1))
	assert.Equal(t, []string{"missing_field: invoice_date"}, validation.CheckInvoice(inv))
}

func TestValidate_Duplicados(t *testing.T) {
	first := validInvoice("INV-2")
	first.SellerName = "acme"
	second := validInvoice("INV-2")
	second.SellerName = "Acme"
	second.BuyerName = "Gamma"

	results := validation.Validate([]entity.Invoice{first, second})

	require.Len(t, results, 2)
	assert.True(t, results[0].IsValid)
	assert.Empty(t, results[0].Errors)
	assert.False(t, results[1].IsValid)
	assert.Equal(t, []string{"anomaly: duplicate_invoice"}, results[1].Errors)
}

func TestValidate_DuplicadoDependeDelOrden(t *testing.T) {
	clean := validInvoice("INV-5")
	broken := validInvoice("INV-5")
	broken.Currency = "XYZ"

	ab := validation.Validate([]entity.Invoice{clean, broken})
	ba := validation.Validate([]entity.Invoice{broken, clean})

	assert.Equal(t, []string{}, ab[0].Errors)
	assert.Equal(t, []string{validation.CodeCurrencyInvalid, validation.CodeDuplicateInvoice}, ab[1].Errors)
	assert.Equal(t, []string{validation.CodeCurrencyInvalid}, ba[0].Errors)
	assert.Equal(t, []string{validation.CodeDuplicateInvoice}, ba[1].Errors)
}

func TestValidate_OrdenNoCambiaCantidadDeInvalidas(t *testing.T) {
	a := validInvoice("INV-7")
	b := validInvoice("INV-7")
	b.BuyerName = "Gamma"

	ab := validation.Validate([]entity.Invoice{a, b})
	ba := validation.Validate([]entity.Invoice{b, a})

	assert.Equal(t, []string{}, ab[0].Errors)
	assert.Equal(t, []string{validation.CodeDuplicateInvoice}, ab[1].Errors)
	assert.Equal(t, []string{}, ba[0].Errors)
	assert.Equal(t, []string{validation.CodeDuplicateInvoice}, ba[1].Errors)

	assert.Equal(t, 1, validation.Summarize(ab).InvalidInvoices)
	assert.Equal(t, validation.Summarize(ab).InvalidInvoices, validation.Summarize(ba).InvalidInvoices)
}

func TestValidate_FechaDistintaNoEsDuplicado(t *testing.T) {
	a := validInvoice("INV-6")
	b := validInvoice("INV-6")
	b.InvoiceDate = entity.NewDate(2024, 2, 2)

	results := validation.Validate([]entity.Invoice{a, b})
	assert.True(t, results[0].IsValid)
	assert.True(t, results[1].IsValid)
}

func TestValidate_Idempotente(t *testing.T) {
	invoices := []entity.Invoice{validInvoice("A"), validInvoice("A"), {Currency: "ABC"}}

	first := validation.BuildReport(invoices)
	second := validation.BuildReport(invoices)
	assert.Equal(t, first, second)
}

func TestValidate_EntradaVacia(t *testing.T) {
	report := validation.BuildReport(nil)
	assert.Empty(t, report.Results)
	assert.Equal(t, 0, report.Summary.TotalInvoices)
	assert.NotNil(t, report.Summary.ErrorCounts)
}

func TestDuplicateDetector_Observe(t *testing.T) {
	d := validation.NewDuplicateDetector()
	inv := validInvoice("INV-7")

	id, seen := d.Observe(inv)
	assert.False(t, seen)
	assert.Equal(t, "INV-7", id)

	inv.SellerName = "ACME"
	id, seen = d.Observe(inv)
	assert.True(t, seen)
	assert.Equal(t, "INV-7", id)

	assert.Equal(t, validation.DuplicateKey{Seller: "acme", InvoiceNumber: "INV-7", InvoiceDate: "2024-02-01"}, d.Key(inv))
}
