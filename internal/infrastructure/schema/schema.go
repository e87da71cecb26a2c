// Package schema valida el JSON persistido de facturas contra su JSON Schema.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	appqc "github.com/jhoicas/invoice-qc/internal/application/qc"
)

//go:embed invoices.schema.json
var invoicesSchema []byte

const schemaURL = "invoices.schema.json"

// InvoiceSchema esquema compilado del arreglo de facturas. Seguro para uso concurrente.
type InvoiceSchema struct {
	schema *jsonschema.Schema
}

var _ appqc.SchemaValidator = (*InvoiceSchema)(nil)

// NewInvoiceSchema compila el esquema embebido.
func NewInvoiceSchema() (*InvoiceSchema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(invoicesSchema)); err != nil {
		return nil, fmt.Errorf("schema: agregar recurso: %w", err)
	}
	s, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("schema: compilar: %w", err)
	}
	return &InvoiceSchema{schema: s}, nil
}

// Validate comprueba que raw sea JSON con la forma de un arreglo de facturas.
func (s *InvoiceSchema) Validate(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("JSON inválido: %w", err)
	}
	if err := s.schema.Validate(v); err != nil {
		return fmt.Errorf("no cumple el esquema: %w", err)
	}
	return nil
}
