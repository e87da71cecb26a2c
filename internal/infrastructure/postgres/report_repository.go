package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invoice-qc/internal/domain"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo implementación de ReportRepository sobre PostgreSQL.
// Save escribe corrida y facturas en una sola transacción.
type ReportRepo struct {
	q  Querier
	tx *TxRunner
}

// NewReportRepository construye el adaptador a partir del pool (o cualquier Querier que
// además abra transacciones).
func NewReportRepository(db interface {
	Querier
	TxBeginner
}) *ReportRepo {
	return &ReportRepo{q: db, tx: NewTxRunner(db)}
}

const insertRunSQL = `
	INSERT INTO validation_runs (id, source, created_at, total_invoices, valid_invoices, invalid_invoices, error_counts)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

const insertInvoiceSQL = `
	INSERT INTO validated_invoices (
		run_id, position, invoice_number, invoice_date, due_date,
		seller_name, seller_address, seller_tax_id,
		buyer_name, buyer_address, buyer_tax_id,
		currency, net_total, tax_amount, gross_total, payment_terms, line_items,
		is_valid, errors)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

// Save persiste la corrida y cada factura con su resultado (misma posición en el informe).
func (r *ReportRepo) Save(ctx context.Context, run *entity.ValidationRun, invoices []entity.Invoice) error {
	if run == nil {
		return fmt.Errorf("%w: corrida nula", domain.ErrInvalidInput)
	}
	results := run.Report.Results
	if len(results) != len(invoices) {
		return fmt.Errorf("%w: %d facturas para %d resultados", domain.ErrInvalidInput, len(invoices), len(results))
	}

	return r.tx.Run(ctx, func(q Querier) error {
		s := run.Report.Summary
		counts := s.ErrorCounts
		if counts == nil {
			counts = map[string]int{}
		}
		if _, err := q.Exec(ctx, insertRunSQL,
			run.ID, run.Source, run.CreatedAt,
			s.TotalInvoices, s.ValidInvoices, s.InvalidInvoices, counts,
		); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: la corrida %s ya existe", domain.ErrInvalidInput, run.ID)
			}
			return fmt.Errorf("insert validation run: %w", err)
		}

		if len(invoices) == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for i, inv := range invoices {
			res := results[i]
			errs := res.Errors
			if errs == nil {
				errs = []string{}
			}
			items := inv.LineItems
			if items == nil {
				items = []entity.LineItem{}
			}
			batch.Queue(insertInvoiceSQL,
				run.ID, i, inv.InvoiceNumber, dateArg(&inv.InvoiceDate), dateArg(inv.DueDate),
				inv.SellerName, inv.SellerAddress, inv.SellerTaxID,
				inv.BuyerName, inv.BuyerAddress, inv.BuyerTaxID,
				inv.Currency, amountArg(inv.NetTotal), amountArg(inv.TaxAmount), amountArg(inv.GrossTotal),
				inv.PaymentTerms, items,
				res.IsValid, errs,
			)
		}
		br := q.SendBatch(ctx, batch)
		for i := range invoices {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("insert validated invoice %d: %w", i, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("insert validated invoices: %w", err)
		}
		return nil
	})
}

// GetByID devuelve la corrida con su informe (resultados en el orden original); nil si no existe.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*entity.ValidationRun, error) {
	run := &entity.ValidationRun{}
	s := &run.Report.Summary
	err := r.q.QueryRow(ctx, `
		SELECT id::text, source, created_at, total_invoices, valid_invoices, invalid_invoices, error_counts
		FROM validation_runs WHERE id = $1`, id,
	).Scan(&run.ID, &run.Source, &run.CreatedAt, &s.TotalInvoices, &s.ValidInvoices, &s.InvalidInvoices, &s.ErrorCounts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get validation run: %w", err)
	}
	if s.ErrorCounts == nil {
		s.ErrorCounts = map[string]int{}
	}

	rows, err := r.q.Query(ctx, `
		SELECT invoice_number, is_valid, errors
		FROM validated_invoices WHERE run_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list validated invoices: %w", err)
	}
	defer rows.Close()

	run.Report.Results = make([]entity.ValidationResult, 0, s.TotalInvoices)
	for rows.Next() {
		var res entity.ValidationResult
		if err := rows.Scan(&res.InvoiceID, &res.IsValid, &res.Errors); err != nil {
			return nil, fmt.Errorf("scan validated invoice: %w", err)
		}
		if res.Errors == nil {
			res.Errors = []string{}
		}
		run.Report.Results = append(run.Report.Results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate validated invoices: %w", err)
	}
	return run, nil
}
