package postgres

import (
	"context"
	"database/sql"
	"time"

	"franchise-backend/internal/domain"
	"franchise-backend/internal/repository"
)

type invoiceRepository struct {
	db dbtx
}

func NewInvoiceRepository(db dbtx) repository.InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceColumns = `id, number, transaction_id, franchisee_id, amount_ht_cents, vat_cents,
	amount_ttc_cents, vat_rate, status, issue_date, due_date, sent_at, paid_at,
	COALESCE(document_path, ''), created_at`

func (r *invoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	query := `INSERT INTO invoices (number, transaction_id, franchisee_id, amount_ht_cents, vat_cents,
	              amount_ttc_cents, vat_rate, status, issue_date, due_date, paid_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	          RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		inv.Number, inv.TransactionID, inv.FranchiseeID, inv.AmountHTCents, inv.VATCents,
		inv.AmountTTCents, inv.VATRate, inv.Status, inv.IssueDate, inv.DueDate, inv.PaidAt).
		Scan(&inv.ID, &inv.CreatedAt)
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int32) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.db.QueryRowContext(ctx, query, id))
}

// GetByTransactionID returns sql.ErrNoRows untouched; the compiler treats it
// as "not yet invoiced".
func (r *invoiceRepository) GetByTransactionID(ctx context.Context, transactionID int32) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE transaction_id = $1`
	return scanInvoice(r.db.QueryRowContext(ctx, query, transactionID))
}

func (r *invoiceRepository) CountByYearMonth(ctx context.Context, yearMonth string) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM invoices WHERE to_char(issue_date, 'YYYYMM') = $1`
	err := r.db.QueryRowContext(ctx, query, yearMonth).Scan(&count)
	return count, err
}

func (r *invoiceRepository) ListUnpaid(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
	          WHERE status = $1 AND due_date < $2 ORDER BY due_date ASC`
	rows, err := r.db.QueryContext(ctx, query, domain.InvoiceStatusPending, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.TransactionID, &inv.FranchiseeID,
			&inv.AmountHTCents, &inv.VATCents, &inv.AmountTTCents, &inv.VATRate, &inv.Status,
			&inv.IssueDate, &inv.DueDate, &inv.SentAt, &inv.PaidAt, &inv.DocumentPath, &inv.CreatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepository) SetDocumentPath(ctx context.Context, id int32, path string) error {
	query := `UPDATE invoices SET document_path = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, path)
	return err
}

func (r *invoiceRepository) MarkSent(ctx context.Context, id int32, sentAt time.Time) error {
	query := `UPDATE invoices SET sent_at = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, sentAt)
	return err
}

func scanInvoice(row *sql.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.TransactionID, &inv.FranchiseeID,
		&inv.AmountHTCents, &inv.VATCents, &inv.AmountTTCents, &inv.VATRate, &inv.Status,
		&inv.IssueDate, &inv.DueDate, &inv.SentAt, &inv.PaidAt, &inv.DocumentPath, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
