// Command invoice-qc extrae facturas de documentos y valida los registros resultantes.
//
//	invoice-qc extract  --pdf-dir ./pdfs --output extracted_invoices.json
//	invoice-qc validate --input extracted_invoices.json --report validation_report.json --fail-on-invalid
//	invoice-qc full-run --pdf-dir ./pdfs --report validation_report.json
//	invoice-qc token    --subject ci-pipeline
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
