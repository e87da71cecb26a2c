package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/domain/validation"
	"github.com/jhoicas/invoice-qc/pkg/jwt"
)

const acmeInvoice = `ACME TRADING INVOICE
Invoice Number: INV-2024-001
Invoice Date: 10/01/2024
Due Date: 2024-02-09

Seller:
Acme Corp, 12 Market Road
Pune
GSTIN: 27ABCDE1234F1Z5
Bill To:
Beta Ltd, 4 Lake View
Mumbai
GSTIN: 27XYZAB9876K1Z2
Description   Qty   Unit Price   Total
Widget   2   5.00   10.00
Gadget   1   90.00   90.00
Subtotal 100.00
Tax 18.00
Grand Total 118.00
Payment Terms: Net 30
Currency: USD
`

const validJSON = `[{
  "invoice_number": "INV-1",
  "invoice_date": "2024-01-10",
  "seller_name": "Acme",
  "buyer_name": "Beta",
  "currency": "USD",
  "net_total": 100,
  "tax_amount": 18,
  "gross_total": 118,
  "line_items": []
}]`

// setupCLI aísla la configuración: directorio temporal sin .env y sin base de datos.
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("JWT_SECRET", "")
	return dir
}

func runCLI(args ...string) (int, string, string) {
	var out, errOut bytes.Buffer
	code := run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeSources(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func readReport(t *testing.T, path string) entity.Report {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var rep entity.Report
	require.NoError(t, json.Unmarshal(b, &rep))
	return rep
}

func TestExtract_EscribeFacturasEnJSON(t *testing.T) {
	dir := setupCLI(t)
	src := filepath.Join(dir, "docs")
	writeSources(t, src, map[string]string{"acme.txt": acmeInvoice})
	output := filepath.Join(dir, "out", "extracted.json")

	code, stdout, stderr := runCLI("extract", "--pdf-dir", src, "--output", output)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, fmt.Sprintf("Extracted 1 invoices to %s\n", output), stdout)

	b, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(b), "\n  {\n    \"invoice_number\": \"INV-2024-001\"")

	var invoices []entity.Invoice
	require.NoError(t, json.Unmarshal(b, &invoices))
	require.Len(t, invoices, 1)
	assert.Equal(t, "Acme Corp", invoices[0].SellerName)
	assert.Equal(t, 118.0, invoices[0].GrossTotal)
}

func TestExtract_DirectorioInexistente(t *testing.T) {
	dir := setupCLI(t)

	code, _, stderr := runCLI("extract", "--pdf-dir", filepath.Join(dir, "nope"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error:")
}

func TestValidate_ArchivoValido(t *testing.T) {
	dir := setupCLI(t)
	input := filepath.Join(dir, "invoices.json")
	require.NoError(t, os.WriteFile(input, []byte(validJSON), 0o644))
	report := filepath.Join(dir, "report.json")

	code, stdout, stderr := runCLI("validate", "--input", input, "--report", report, "--fail-on-invalid")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "Processed 1 invoices.\nValid:   1\nInvalid: 0\nTop errors:\n", stdout)

	rep := readReport(t, report)
	assert.Equal(t, 1, rep.Summary.ValidInvoices)
	require.Len(t, rep.Results, 1)
	assert.True(t, rep.Results[0].IsValid)
}

func TestValidate_DuplicadoConFailOnInvalidSaleConUno(t *testing.T) {
	dir := setupCLI(t)
	input := filepath.Join(dir, "invoices.json")
	var one []map[string]any
	require.NoError(t, json.Unmarshal([]byte(validJSON), &one))
	b, err := json.Marshal([]map[string]any{one[0], one[0]})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(input, b, 0o644))
	report := filepath.Join(dir, "report.json")

	code, stdout, stderr := runCLI("validate", "--input", input, "--report", report, "--fail-on-invalid")
	assert.Equal(t, 1, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Invalid: 1\n")
	assert.Contains(t, stdout, fmt.Sprintf("  %-40s %d\n", validation.CodeDuplicateInvoice, 1))

	// El informe se escribe aunque la salida sea 1.
	rep := readReport(t, report)
	assert.Equal(t, 2, rep.Summary.TotalInvoices)
	assert.Equal(t, 1, rep.Summary.ErrorCounts[validation.CodeDuplicateInvoice])
}

func TestValidate_SinFailOnInvalidSaleConCero(t *testing.T) {
	dir := setupCLI(t)
	input := filepath.Join(dir, "invoices.json")
	require.NoError(t, os.WriteFile(input, []byte(`[{"invoice_number":"","invoice_date":"2024-01-10","seller_name":"","buyer_name":"","currency":"USD","net_total":0,"tax_amount":0,"gross_total":0}]`), 0o644))

	code, stdout, _ := runCLI("validate", "--input", input, "--report", filepath.Join(dir, "r.json"))
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Invalid: 1\n")
	assert.Contains(t, stdout, validation.MissingField("invoice_number"))
}

func TestValidate_EntradaInexistente(t *testing.T) {
	dir := setupCLI(t)
	input := filepath.Join(dir, "missing.json")

	code, stdout, stderr := runCLI("validate", "--input", input, "--report", filepath.Join(dir, "r.json"))
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Input file not found: "+input+"\n", stderr)

	_, err := os.Stat(filepath.Join(dir, "r.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestValidate_EntradaMalformada(t *testing.T) {
	dir := setupCLI(t)
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not":"a list"`), 0o644))

	code, stdout, stderr := runCLI("validate", "--input", bad, "--report", filepath.Join(dir, "r.json"))
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error:")

	_, err := os.Stat(filepath.Join(dir, "r.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestValidate_StoreSinBaseDeDatos(t *testing.T) {
	dir := setupCLI(t)
	input := filepath.Join(dir, "invoices.json")
	require.NoError(t, os.WriteFile(input, []byte(validJSON), 0o644))

	code, _, stderr := runCLI("validate", "--input", input, "--store")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "DATABASE_URL")
}

func TestFullRun_ExtraeValidaYExporta(t *testing.T) {
	dir := setupCLI(t)
	src := filepath.Join(dir, "docs")
	writeSources(t, src, map[string]string{"a.txt": acmeInvoice, "b.txt": acmeInvoice})
	temp := filepath.Join(dir, "extracted.json")
	report := filepath.Join(dir, "report.json")
	xlsxReport := filepath.Join(dir, "report.xlsx")
	pdfReport := filepath.Join(dir, "report.pdf")

	code, stdout, stderr := runCLI("full-run", "--pdf-dir", src, "--report", report, "--temp-output", temp,
		"--xlsx-report", xlsxReport, "--pdf-report", pdfReport)
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, []string{
		fmt.Sprintf("Extracted 2 invoices to %s", temp),
		"[FULL RUN] Processed 2 invoices.",
		"Valid:   1",
		"Invalid: 1",
	}, lines)

	rep := readReport(t, report)
	require.Len(t, rep.Results, 2)
	assert.True(t, rep.Results[0].IsValid)
	assert.Equal(t, []string{validation.CodeDuplicateInvoice}, rep.Results[1].Errors)

	for _, p := range []string{temp, xlsxReport, pdfReport} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Positive(t, info.Size(), p)
	}
}

func TestFullRun_FailOnInvalid(t *testing.T) {
	dir := setupCLI(t)
	src := filepath.Join(dir, "docs")
	writeSources(t, src, map[string]string{"a.txt": acmeInvoice, "b.txt": acmeInvoice})

	code, stdout, _ := runCLI("full-run", "--pdf-dir", src, "--report", filepath.Join(dir, "r.json"), "--fail-on-invalid")
	assert.Equal(t, 1, code)
	assert.NotContains(t, stdout, "Extracted")
}

func TestToken_EmiteTokenConScopeDeValidacion(t *testing.T) {
	setupCLI(t)
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("JWT_ISSUER", "qc-test")

	code, stdout, stderr := runCLI("token", "--subject", "ci", "--expires", "5")
	require.Equal(t, 0, code, stderr)

	claims, err := jwt.Parse("s3cr3t", "qc-test", strings.TrimSpace(stdout))
	require.NoError(t, err)
	assert.Equal(t, "ci", claims.Subject)
	assert.Equal(t, jwt.ScopeValidate, claims.Scope)
}

func TestToken_SinSecreto(t *testing.T) {
	setupCLI(t)

	code, stdout, stderr := runCLI("token", "--subject", "ci")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error:")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, "", entity.ValidationSummary{
		TotalInvoices:   3,
		ValidInvoices:   1,
		InvalidInvoices: 2,
		ErrorCounts:     map[string]int{"b": 1, "a": 1, "c": 2},
	}, true)

	want := "Processed 3 invoices.\n" +
		"Valid:   1\n" +
		"Invalid: 2\n" +
		"Top errors:\n" +
		fmt.Sprintf("  %-40s %d\n", "c", 2) +
		fmt.Sprintf("  %-40s %d\n", "a", 1) +
		fmt.Sprintf("  %-40s %d\n", "b", 1)
	assert.Equal(t, want, buf.String())
}
