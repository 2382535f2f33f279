package postgres

import (
	"context"
	"database/sql"
	"time"

	"franchise-backend/internal/domain"
	"franchise-backend/internal/repository"
)

type contractRepository struct {
	db dbtx
}

func NewContractRepository(db dbtx) repository.ContractRepository {
	return &contractRepository{db: db}
}

const contractColumns = `id, franchisee_id, contract_number, entry_fee_cents, royalty_rate,
	stock_purchase_rate, start_date, end_date, status, signed_at, created_at, updated_at`

func (r *contractRepository) Create(ctx context.Context, c *domain.Contract) error {
	query := `INSERT INTO contracts (franchisee_id, contract_number, entry_fee_cents, royalty_rate,
	              stock_purchase_rate, start_date, end_date, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	          RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		c.FranchiseeID, c.ContractNumber, c.EntryFeeCents, c.RoyaltyRate,
		c.StockPurchaseRate, c.StartDate, c.EndDate, c.Status).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *contractRepository) GetByID(ctx context.Context, id int32) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	return scanContract(r.db.QueryRowContext(ctx, query, id))
}

func (r *contractRepository) GetByFranchisee(ctx context.Context, franchiseeID int32) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts
	          WHERE franchisee_id = $1 ORDER BY created_at DESC LIMIT 1`
	return scanContract(r.db.QueryRowContext(ctx, query, franchiseeID))
}

func (r *contractRepository) GetActiveByFranchisee(ctx context.Context, franchiseeID int32) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts
	          WHERE franchisee_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT 1`
	return scanContract(r.db.QueryRowContext(ctx, query, franchiseeID, domain.ContractStatusActive))
}

func (r *contractRepository) CountByFranchisee(ctx context.Context, franchiseeID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM contracts WHERE franchisee_id = $1`
	err := r.db.QueryRowContext(ctx, query, franchiseeID).Scan(&count)
	return count, err
}

func (r *contractRepository) SignAndActivate(ctx context.Context, id int32, signedAt time.Time) error {
	// signed_at is written once; a redelivered webhook leaves it untouched.
	query := `UPDATE contracts SET signed_at = COALESCE(signed_at, $2), status = $3, updated_at = NOW()
	          WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, signedAt, domain.ContractStatusActive)
	return err
}

func (r *contractRepository) UpdateStatus(ctx context.Context, id int32, status domain.ContractStatus) error {
	query := `UPDATE contracts SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func scanContract(row *sql.Row) (*domain.Contract, error) {
	var c domain.Contract
	err := row.Scan(&c.ID, &c.FranchiseeID, &c.ContractNumber, &c.EntryFeeCents, &c.RoyaltyRate,
		&c.StockPurchaseRate, &c.StartDate, &c.EndDate, &c.Status, &c.SignedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
