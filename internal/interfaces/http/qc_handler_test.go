package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-qc/internal/application/dto"
	appqc "github.com/jhoicas/invoice-qc/internal/application/qc"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/schema"
	apphttp "github.com/jhoicas/invoice-qc/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/invoice-qc/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "invoice-qc-test"
)

const twoInvoices = `[
  {"invoice_number":"INV-1","invoice_date":"2024-01-10","due_date":"2024-01-05","seller_name":"Acme","buyer_name":"Beta",
   "currency":"XYZ","net_total":100,"tax_amount":18,"gross_total":118,"line_items":[]},
  {"invoice_number":"INV-2","invoice_date":"2024-02-01","seller_name":"Acme","buyer_name":"Beta",
   "net_total":10,"tax_amount":0,"gross_total":10}
]`

type memRepo struct {
	mu   sync.Mutex
	runs map[string]*entity.ValidationRun
}

func (r *memRepo) Save(_ context.Context, run *entity.ValidationRun, _ []entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*entity.ValidationRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs[id], nil
}

type fakeXLSX struct{}

func (fakeXLSX) GenerateReportXLSX(context.Context, *entity.ValidationRun) ([]byte, error) {
	return []byte("PK"), nil
}

func buildTestApp(t *testing.T, secret string, persist bool) *fiber.App {
	t.Helper()
	s, err := schema.NewInvoiceSchema()
	require.NoError(t, err)

	var validateUC *appqc.ValidateUseCase
	if persist {
		validateUC = appqc.NewValidateUseCase(s, &memRepo{runs: map[string]*entity.ValidationRun{}}, nil)
	} else {
		validateUC = appqc.NewValidateUseCase(s, nil, nil)
	}
	return apphttp.NewApp("invoice-qc-test", apphttp.RouterDeps{
		ValidateUC: validateUC,
		ExportUC:   appqc.NewExportUseCase(nil, fakeXLSX{}),
		JWTSecret:  secret,
		JWTIssuer:  testIssuer,
	})
}

func doRequest(t *testing.T, app *fiber.App, method, path, body, auth string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	resp := doRequest(t, buildTestApp(t, "", false), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, dto.HealthResponse{Status: "ok"}, decode[dto.HealthResponse](t, resp))
}

func TestValidateJSON_Informe(t *testing.T) {
	resp := doRequest(t, buildTestApp(t, "", false), http.MethodPost, "/validate-json", twoInvoices, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(apphttp.HeaderRunID))

	report := decode[entity.Report](t, resp)
	assert.Equal(t, 2, report.Summary.TotalInvoices)
	assert.Equal(t, 1, report.Summary.ValidInvoices)
	assert.Equal(t, 1, report.Summary.InvalidInvoices)
	assert.Equal(t, map[string]int{
		"format_error: currency_invalid":                1,
		"business_rule_failed: due_before_invoice_date": 1,
	}, report.Summary.ErrorCounts)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "INV-1", report.Results[0].InvoiceID)
	assert.Equal(t, []string{}, report.Results[1].Errors)
}

func TestValidateJSON_Malformado(t *testing.T) {
	app := buildTestApp(t, "", false)
	for _, body := range []string{`{"a":1}`, `[{"invoice_number":"x"}]`, `not json`, ""} {
		resp := doRequest(t, app, http.MethodPost, "/validate-json", body, "")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, body)
		assert.Equal(t, "MALFORMED_INPUT", decode[dto.ErrorResponse](t, resp).Code)
	}
}

func TestValidateJSON_CORS(t *testing.T) {
	app := buildTestApp(t, "", false)
	req := httptest.NewRequest(http.MethodPost, "/validate-json", strings.NewReader(`[]`))
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRuns_PersistidoYDescargas(t *testing.T) {
	app := buildTestApp(t, "", true)

	resp := doRequest(t, app, http.MethodPost, "/validate-json", twoInvoices, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	runID := resp.Header.Get(apphttp.HeaderRunID)
	require.NotEmpty(t, runID)

	resp = doRequest(t, app, http.MethodGet, "/runs/"+runID, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	run := decode[entity.ValidationRun](t, resp)
	assert.Equal(t, runID, run.ID)
	assert.Equal(t, "api", run.Source)

	resp = doRequest(t, app, http.MethodGet, "/runs/"+runID+"/xlsx", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "validation_report_")

	resp = doRequest(t, app, http.MethodGet, "/runs/"+runID+"/pdf", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "exportación PDF no configurada")

	resp = doRequest(t, app, http.MethodGet, "/runs/2f1d8d5e-51a7-4c26-9a63-6c1b2b9d9f00", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/runs/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRuns_SinAlmacenamiento(t *testing.T) {
	resp := doRequest(t, buildTestApp(t, "", false), http.MethodGet, "/runs/2f1d8d5e-51a7-4c26-9a63-6c1b2b9d9f00", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación
// ──────────────────────────────────────────────────────────────────────────────

func bearer(t *testing.T, scope string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, "ci", scope, testIssuer, 5)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuth(t *testing.T) {
	app := buildTestApp(t, testJWTSecret, false)

	tests := []struct {
		name     string
		auth     string
		wantCode int
	}{
		{"sin cabecera", "", http.StatusUnauthorized},
		{"formato incorrecto", "Token abc", http.StatusUnauthorized},
		{"token inválido", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"alcance incorrecto", bearer(t, "reports:read"), http.StatusForbidden},
		{"token válido", bearer(t, pkgjwt.ScopeValidate), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodPost, "/validate-json", `[]`, tt.auth)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
		})
	}

	resp := doRequest(t, app, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "health es público")
}

func TestAuth_SubjectQuedaEnLaCorrida(t *testing.T) {
	app := buildTestApp(t, testJWTSecret, true)
	auth := bearer(t, pkgjwt.ScopeValidate)

	resp := doRequest(t, app, http.MethodPost, "/validate-json", twoInvoices, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	runID := resp.Header.Get(apphttp.HeaderRunID)
	require.NotEmpty(t, runID)

	resp = doRequest(t, app, http.MethodGet, "/runs/"+runID, "", auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "api:ci", decode[entity.ValidationRun](t, resp).Source)
}
