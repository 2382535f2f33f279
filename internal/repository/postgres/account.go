package postgres

import (
	"context"
	"database/sql"

	"franchise-backend/internal/domain"
	"franchise-backend/internal/repository"
)

type accountRepository struct {
	db dbtx
}

func NewAccountRepository(db dbtx) repository.AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, franchisee_id, balance_cents, available_credit_cents, credit_limit_cents,
	total_royalties_paid_cents, status, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (franchisee_id, balance_cents, available_credit_cents,
	              credit_limit_cents, total_royalties_paid_cents, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	          RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		a.FranchiseeID, a.BalanceCents, a.AvailableCreditCents,
		a.CreditLimitCents, a.TotalRoyaltiesPaidCents, a.Status).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *accountRepository) GetByID(ctx context.Context, id int32) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *accountRepository) GetByFranchisee(ctx context.Context, franchiseeID int32) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE franchisee_id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, franchiseeID))
}

func (r *accountRepository) PostMovement(ctx context.Context, m *domain.Movement) error {
	insert := `INSERT INTO account_movements (account_id, direction, amount_cents, reason, transaction_id, created_at)
	           VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_at`
	if err := r.db.QueryRowContext(ctx, insert,
		m.AccountID, m.Direction, m.AmountCents, m.Reason, m.TransactionID).
		Scan(&m.ID, &m.CreatedAt); err != nil {
		return err
	}

	update := `UPDATE accounts SET balance_cents = balance_cents + $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, update, m.AccountID, m.SignedAmountCents())
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) ListMovements(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Movement, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, account_id, direction, amount_cents, COALESCE(reason, ''), transaction_id, created_at
	          FROM account_movements WHERE account_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, accountID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var movements []domain.Movement
	for rows.Next() {
		var m domain.Movement
		if err := rows.Scan(&m.ID, &m.AccountID, &m.Direction, &m.AmountCents, &m.Reason, &m.TransactionID, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM account_movements WHERE account_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, accountID).Scan(&count); err != nil {
		return nil, 0, err
	}
	return movements, count, nil
}

func (r *accountRepository) AddRoyaltiesPaid(ctx context.Context, accountID int32, amountCents int64) error {
	query := `UPDATE accounts SET total_royalties_paid_cents = total_royalties_paid_cents + $2, updated_at = NOW()
	          WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, accountID, amountCents)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.FranchiseeID, &a.BalanceCents, &a.AvailableCreditCents, &a.CreditLimitCents,
		&a.TotalRoyaltiesPaidCents, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
