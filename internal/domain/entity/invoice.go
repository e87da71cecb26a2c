package entity

import (
	"encoding/json"
	"strings"
)

// DefaultCurrency moneda asumida cuando el documento o el JSON no la indican.
const DefaultCurrency = "INR"

// Invoice registro estructurado de una factura (extraído de texto o deserializado de JSON).
// Se construye una vez y no se modifica después; los campos opcionales son punteros (nil = ausente).
type Invoice struct {
	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   Date   `json:"invoice_date"`
	DueDate       *Date  `json:"due_date"`

	SellerName    string  `json:"seller_name"`
	SellerAddress *string `json:"seller_address"`
	SellerTaxID   *string `json:"seller_tax_id"`

	BuyerName    string  `json:"buyer_name"`
	BuyerAddress *string `json:"buyer_address"`
	BuyerTaxID   *string `json:"buyer_tax_id"`

	Currency   string  `json:"currency"`
	NetTotal   float64 `json:"net_total"`
	TaxAmount  float64 `json:"tax_amount"`
	GrossTotal float64 `json:"gross_total"`

	PaymentTerms *string `json:"payment_terms"`

	LineItems []LineItem `json:"line_items"`
}

// UnmarshalJSON aplica los valores por defecto del formato persistido:
// currency ausente => INR, currency normalizada a mayúsculas, line_items nunca nil.
func (inv *Invoice) UnmarshalJSON(b []byte) error {
	type alias Invoice
	tmp := alias{Currency: DefaultCurrency}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	tmp.Currency = NormalizeCurrency(tmp.Currency)
	if tmp.LineItems == nil {
		tmp.LineItems = []LineItem{}
	}
	*inv = Invoice(tmp)
	return nil
}

// NormalizeCurrency recorta y pasa a mayúsculas un código de moneda.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
