package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// dateArg fecha como parámetro SQL; la fecha cero o nil es NULL.
func dateArg(d *entity.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.Time
}

// amountArg importe como NUMERIC exacto.
func amountArg(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
