package entity

// LineItem línea de detalle de una factura, en el orden del documento.
// LineTotal debería aproximarse a Quantity*UnitPrice, pero no se exige al construir.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}
