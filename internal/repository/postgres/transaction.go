package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"franchise-backend/internal/domain"
	"franchise-backend/internal/repository"
)

type transactionRepository struct {
	db dbtx
}

func NewTransactionRepository(db dbtx) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, reference, type, franchisee_id, contract_id, amount_cents, currency,
	status, due_date, provider_intent_id, metadata, completed_at, created_at, updated_at`

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	meta, err := json.Marshal(t.Metadata)
	if err != nil {
		return err
	}
	query := `INSERT INTO transactions (reference, type, franchisee_id, contract_id, amount_cents,
	              currency, status, due_date, metadata, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	          RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		t.Reference, t.Type, t.FranchiseeID, t.ContractID, t.AmountCents,
		t.Currency, t.Status, t.DueDate, string(meta)).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *transactionRepository) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrTransactionNotFound
	}
	return t, err
}

func (r *transactionRepository) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference = $1`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, reference))
	if err == sql.ErrNoRows {
		return nil, domain.ErrTransactionNotFound
	}
	return t, err
}

// GetByProviderIntentID is the webhook lookup path; provider_intent_id has a
// unique index. sql.ErrNoRows passes through so the adapter can tell
// "unknown intent" apart from a real failure.
func (r *transactionRepository) GetByProviderIntentID(ctx context.Context, intentID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE provider_intent_id = $1`
	return scanTransaction(r.db.QueryRowContext(ctx, query, intentID))
}

func (r *transactionRepository) ListByFranchisee(ctx context.Context, franchiseeID int32, status domain.TransactionStatus, page, pageSize int32) ([]domain.Transaction, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + transactionColumns + ` FROM transactions
	          WHERE franchisee_id = $1 AND ($2 = '' OR status = $2)
	          ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, franchiseeID, string(status), pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	txs, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM transactions WHERE franchisee_id = $1 AND ($2 = '' OR status = $2)`
	if err := r.db.QueryRowContext(ctx, countQuery, franchiseeID, string(status)).Scan(&count); err != nil {
		return nil, 0, err
	}
	return txs, count, nil
}

func (r *transactionRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
	          WHERE status IN ($1, $2) AND due_date < $3 ORDER BY due_date ASC`
	rows, err := r.db.QueryContext(ctx, query,
		domain.TransactionStatusPending, domain.TransactionStatusProcessing, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *transactionRepository) CountByFranchiseeAndType(ctx context.Context, franchiseeID int32, txType domain.TransactionType) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM transactions WHERE franchisee_id = $1 AND type = $2`
	err := r.db.QueryRowContext(ctx, query, franchiseeID, txType).Scan(&count)
	return count, err
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.TransactionStatus, completedAt *time.Time) error {
	query := `UPDATE transactions SET status = $3, completed_at = COALESCE($4, completed_at), updated_at = NOW()
	          WHERE id = $1 AND status = $2`
	result, err := r.db.ExecContext(ctx, query, id, from, to, completedAt)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrInvalidStateTransition
	}
	return nil
}

func (r *transactionRepository) SetProviderIntent(ctx context.Context, id int32, intentID string) error {
	query := `UPDATE transactions SET provider_intent_id = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, intentID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) UpdateMetadata(ctx context.Context, id int32, meta domain.TransactionMetadata) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	query := `UPDATE transactions SET metadata = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, string(raw))
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func scanTransaction(row *sql.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var meta string
	err := row.Scan(&t.ID, &t.Reference, &t.Type, &t.FranchiseeID, &t.ContractID, &t.AmountCents,
		&t.Currency, &t.Status, &t.DueDate, &t.ProviderIntentID, &meta, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if meta != "" {
		if err := json.Unmarshal([]byte(meta), &t.Metadata); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func collectTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var meta string
		if err := rows.Scan(&t.ID, &t.Reference, &t.Type, &t.FranchiseeID, &t.ContractID, &t.AmountCents,
			&t.Currency, &t.Status, &t.DueDate, &t.ProviderIntentID, &meta, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if meta != "" {
			if err := json.Unmarshal([]byte(meta), &t.Metadata); err != nil {
				return nil, err
			}
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
