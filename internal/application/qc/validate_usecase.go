package qc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoice-qc/internal/domain"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/domain/repository"
	"github.com/jhoicas/invoice-qc/internal/domain/validation"
	"github.com/jhoicas/invoice-qc/pkg/logger"
)

// ValidateUseCase decodifica facturas persistidas, las valida y opcionalmente guarda la corrida.
type ValidateUseCase struct {
	schema SchemaValidator
	repo   repository.ReportRepository // nil = sin persistencia
	now    func() time.Time
	newID  func() string
	log    *logger.Logger
}

// NewValidateUseCase construye el caso de uso. schema y repo pueden ser nil.
func NewValidateUseCase(schema SchemaValidator, repo repository.ReportRepository, log *logger.Logger) *ValidateUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ValidateUseCase{
		schema: schema,
		repo:   repo,
		now:    time.Now,
		newID:  uuid.NewString,
		log:    log.Component("validate"),
	}
}

// DecodeInvoices comprueba el esquema y decodifica un arreglo JSON de facturas.
// Cualquier desviación de la forma esperada es domain.ErrMalformedInput.
func (uc *ValidateUseCase) DecodeInvoices(raw []byte) ([]entity.Invoice, error) {
	if uc.schema != nil {
		if err := uc.schema.Validate(raw); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMalformedInput, err)
		}
	}
	var invoices []entity.Invoice
	if err := json.Unmarshal(raw, &invoices); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedInput, err)
	}
	if invoices == nil {
		invoices = []entity.Invoice{}
	}
	return invoices, nil
}

// LoadInvoicesFile lee y decodifica un archivo JSON de facturas.
// Retorna domain.ErrNotFound si el archivo no existe.
func (uc *ValidateUseCase) LoadInvoicesFile(path string) ([]entity.Invoice, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: archivo %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("validate: leer %s: %w", path, err)
	}
	return uc.DecodeInvoices(raw)
}

// Validate valida las facturas en el orden recibido y devuelve la corrida con su informe.
// Si hay repositorio configurado, la corrida se persiste antes de devolverla.
func (uc *ValidateUseCase) Validate(ctx context.Context, source string, invoices []entity.Invoice) (*entity.ValidationRun, error) {
	run := &entity.ValidationRun{
		ID:        uc.newID(),
		Source:    source,
		CreatedAt: uc.now().UTC(),
		Report:    validation.BuildReport(invoices),
	}

	if uc.repo != nil {
		if err := uc.repo.Save(ctx, run, invoices); err != nil {
			return nil, fmt.Errorf("validate: guardar corrida: %w", err)
		}
	}

	s := run.Report.Summary
	uc.log.Info().
		Str("run_id", run.ID).
		Str("source", source).
		Int("total", s.TotalInvoices).
		Int("valid", s.ValidInvoices).
		Int("invalid", s.InvalidInvoices).
		Msg("validación completada")
	return run, nil
}

// GetRun recupera una corrida persistida. Sin repositorio o si no existe: domain.ErrNotFound.
func (uc *ValidateUseCase) GetRun(ctx context.Context, id string) (*entity.ValidationRun, error) {
	if uc.repo == nil {
		return nil, fmt.Errorf("%w: almacenamiento de corridas no configurado", domain.ErrNotFound)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: id de corrida %q", domain.ErrInvalidInput, id)
	}
	run, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("validate: obtener corrida: %w", err)
	}
	if run == nil {
		return nil, domain.ErrNotFound
	}
	return run, nil
}

// Persistent indica si las corridas se guardan.
func (uc *ValidateUseCase) Persistent() bool {
	return uc.repo != nil
}
