package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"franchise-backend/internal/domain"
)

func TestPostMovementAppliesSignedAmountToBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)
	now := time.Now()

	txID := int32(30)
	movement := &domain.Movement{
		AccountID:     20,
		Direction:     domain.MovementDebit,
		AmountCents:   5_000_000,
		Reason:        "Payment FEE-7-1767000000",
		TransactionID: &txID,
	}

	mock.ExpectQuery(`INSERT INTO account_movements`).
		WithArgs(int32(20), domain.MovementDebit, int64(5_000_000), "Payment FEE-7-1767000000", &txID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int32(1), now))
	// A debit lowers the balance.
	mock.ExpectExec(`UPDATE accounts SET balance_cents = balance_cents \+ \$2`).
		WithArgs(int32(20), int64(-5_000_000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.PostMovement(context.Background(), movement)

	assert.NoError(t, err)
	assert.Equal(t, int32(1), movement.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostMovementUnknownAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)

	mock.ExpectQuery(`INSERT INTO account_movements`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int32(1), time.Now()))
	mock.ExpectExec(`UPDATE accounts SET balance_cents`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.PostMovement(context.Background(), &domain.Movement{
		AccountID:   99,
		Direction:   domain.MovementCredit,
		AmountCents: 100,
	})

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountGetByFranchisee(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "franchisee_id", "balance_cents", "available_credit_cents", "credit_limit_cents",
		"total_royalties_paid_cents", "status", "created_at", "updated_at",
	}).AddRow(int32(20), int32(7), int64(-4_960_000), int64(500_000), int64(1_000_000),
		int64(40_000), "ACTIVE", now, now)
	mock.ExpectQuery(`SELECT (.+) FROM accounts WHERE franchisee_id = \$1`).
		WithArgs(int32(7)).
		WillReturnRows(rows)

	account, err := repo.GetByFranchisee(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(-4_960_000), account.BalanceCents)
	assert.Equal(t, domain.AccountStatusActive, account.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddRoyaltiesPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewAccountRepository(db)

	mock.ExpectExec(`UPDATE accounts SET total_royalties_paid_cents`).
		WithArgs(int32(20), int64(40_000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.AddRoyaltiesPaid(context.Background(), 20, 40_000))
	assert.NoError(t, mock.ExpectationsWereMet())
}
