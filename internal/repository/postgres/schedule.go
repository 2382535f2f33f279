package postgres

import (
	"context"
	"database/sql"
	"time"

	"franchise-backend/internal/domain"
	"franchise-backend/internal/repository"
)

type scheduleRepository struct {
	db dbtx
}

func NewScheduleRepository(db dbtx) repository.ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduleColumns = `id, contract_id, franchisee_id, period_start, period_end, due_date,
	amount_cents, status, transaction_id, created_at, updated_at`

func (r *scheduleRepository) Create(ctx context.Context, s *domain.PaymentSchedule) error {
	query := `INSERT INTO payment_schedules (contract_id, franchisee_id, period_start, period_end,
	              due_date, amount_cents, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	          RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		s.ContractID, s.FranchiseeID, s.PeriodStart, s.PeriodEnd, s.DueDate, s.AmountCents, s.Status).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int32) (*domain.PaymentSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM payment_schedules WHERE id = $1`
	return scanSchedule(r.db.QueryRowContext(ctx, query, id))
}

func (r *scheduleRepository) GetByContractAndPeriod(ctx context.Context, contractID int32, periodStart time.Time) (*domain.PaymentSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM payment_schedules
	          WHERE contract_id = $1 AND period_start = $2`
	return scanSchedule(r.db.QueryRowContext(ctx, query, contractID, periodStart))
}

func (r *scheduleRepository) ListByFranchisee(ctx context.Context, franchiseeID int32, status domain.ScheduleStatus) ([]domain.PaymentSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM payment_schedules
	          WHERE franchisee_id = $1 AND ($2 = '' OR status = $2) ORDER BY period_start ASC`
	rows, err := r.db.QueryContext(ctx, query, franchiseeID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []domain.PaymentSchedule
	for rows.Next() {
		var s domain.PaymentSchedule
		if err := rows.Scan(&s.ID, &s.ContractID, &s.FranchiseeID, &s.PeriodStart, &s.PeriodEnd,
			&s.DueDate, &s.AmountCents, &s.Status, &s.TransactionID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func (r *scheduleRepository) CountByContract(ctx context.Context, contractID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM payment_schedules WHERE contract_id = $1`
	err := r.db.QueryRowContext(ctx, query, contractID).Scan(&count)
	return count, err
}

func (r *scheduleRepository) SetAmount(ctx context.Context, id int32, amountCents int64) error {
	query := `UPDATE payment_schedules SET amount_cents = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, amountCents)
	return err
}

func (r *scheduleRepository) MarkSentByFranchisee(ctx context.Context, franchiseeID int32) (int32, error) {
	query := `UPDATE payment_schedules SET status = $2, updated_at = NOW()
	          WHERE franchisee_id = $1 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, franchiseeID, domain.ScheduleStatusSent, domain.ScheduleStatusPending)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	return int32(rows), err
}

func (r *scheduleRepository) MarkPaid(ctx context.Context, id int32, transactionID int32) error {
	query := `UPDATE payment_schedules SET status = $2, transaction_id = $3, updated_at = NOW()
	          WHERE id = $1 AND status != $2`
	_, err := r.db.ExecContext(ctx, query, id, domain.ScheduleStatusPaid, transactionID)
	return err
}

func scanSchedule(row *sql.Row) (*domain.PaymentSchedule, error) {
	var s domain.PaymentSchedule
	err := row.Scan(&s.ID, &s.ContractID, &s.FranchiseeID, &s.PeriodStart, &s.PeriodEnd,
		&s.DueDate, &s.AmountCents, &s.Status, &s.TransactionID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
