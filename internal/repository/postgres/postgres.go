package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"franchise-backend/internal/domain"
	"franchise-backend/internal/logger"
	"franchise-backend/internal/repository"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so every repository can run
// against the pool or inside an open transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Repositories: newRepositories(db),
	}
}

func newRepositories(db dbtx) repository.Repositories {
	return repository.Repositories{
		Users:        NewUserRepository(db),
		Contracts:    NewContractRepository(db),
		Accounts:     NewAccountRepository(db),
		Transactions: NewTransactionRepository(db),
		Schedules:    NewScheduleRepository(db),
		Invoices:     NewInvoiceRepository(db),
	}
}

// WithinTx runs fn inside a serializable transaction. Serialization and
// deadlock failures (pq 40001, 40P01) map to domain.ErrConcurrencyConflict
// so callers can distinguish "retry" from real failures.
func (s *Store) WithinTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	repos := newRepositories(tx)
	if err := fn(&repos); err != nil {
		return mapConflict(err)
	}
	if err := tx.Commit(); err != nil {
		return mapConflict(err)
	}
	return nil
}

func mapConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01":
			logger.Warn("Serialization failure, surfacing as concurrency conflict", "pq_code", string(pqErr.Code))
			return domain.ErrConcurrencyConflict
		}
	}
	return err
}
