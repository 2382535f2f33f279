package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"franchise-backend/internal/domain"
)

func TestInvoiceCountByYearMonth(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewInvoiceRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM invoices`).
		WithArgs("202603").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int32(2)))

	count, err := repo.CountByYearMonth(context.Background(), "202603")

	assert.NoError(t, err)
	assert.Equal(t, int32(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceCreateReturnsAllocatedID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewInvoiceRepository(db)
	now := time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC)

	inv := &domain.Invoice{
		Number:        "FAC-202603-003",
		TransactionID: 30,
		FranchiseeID:  7,
		AmountHTCents: 4_166_667,
		VATCents:      833_333,
		AmountTTCents: 5_000_000,
		VATRate:       20.0,
		Status:        domain.InvoiceStatusPending,
		IssueDate:     now,
		DueDate:       now.AddDate(0, 0, 30),
	}

	mock.ExpectQuery(`INSERT INTO invoices`).
		WithArgs("FAC-202603-003", int32(30), int32(7), int64(4_166_667), int64(833_333),
			int64(5_000_000), 20.0, domain.InvoiceStatusPending, now, now.AddDate(0, 0, 30), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int32(40), now))

	err = repo.Create(context.Background(), inv)

	assert.NoError(t, err)
	assert.Equal(t, int32(40), inv.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceGetByTransactionIDNotInvoiced(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewInvoiceRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM invoices WHERE transaction_id = \$1`).
		WithArgs(int32(31)).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByTransactionID(context.Background(), 31)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
