package repository

import (
	"context"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// ReportRepository define el puerto de persistencia de corridas de validación.
type ReportRepository interface {
	// Save guarda la corrida, las facturas validadas y su resultado (misma posición).
	Save(ctx context.Context, run *entity.ValidationRun, invoices []entity.Invoice) error
	// GetByID devuelve la corrida con su informe; nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.ValidationRun, error)
}
