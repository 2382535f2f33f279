package repository

import (
	"context"
	"time"

	"franchise-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type ContractRepository interface {
	Create(ctx context.Context, contract *domain.Contract) error
	GetByID(ctx context.Context, id int32) (*domain.Contract, error)
	GetByFranchisee(ctx context.Context, franchiseeID int32) (*domain.Contract, error)
	GetActiveByFranchisee(ctx context.Context, franchiseeID int32) (*domain.Contract, error)
	CountByFranchisee(ctx context.Context, franchiseeID int32) (int32, error)
	// SignAndActivate stamps signed_at once and sets the contract active.
	// Idempotent: an already-signed contract is left untouched.
	SignAndActivate(ctx context.Context, id int32, signedAt time.Time) error
	UpdateStatus(ctx context.Context, id int32, status domain.ContractStatus) error
}

type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int32) (*domain.Account, error)
	GetByFranchisee(ctx context.Context, franchiseeID int32) (*domain.Account, error)
	// PostMovement appends the movement and applies its signed amount to the
	// account balance in the same statement batch. Both writes must run
	// inside one transaction; callers use Atomic.WithinTx.
	PostMovement(ctx context.Context, movement *domain.Movement) error
	ListMovements(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Movement, int32, error)
	AddRoyaltiesPaid(ctx context.Context, accountID int32, amountCents int64) error
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id int32) (*domain.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	GetByProviderIntentID(ctx context.Context, intentID string) (*domain.Transaction, error)
	ListByFranchisee(ctx context.Context, franchiseeID int32, status domain.TransactionStatus, page, pageSize int32) ([]domain.Transaction, int32, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Transaction, error)
	CountByFranchiseeAndType(ctx context.Context, franchiseeID int32, txType domain.TransactionType) (int32, error)
	// UpdateStatus transitions the row only when its current status matches
	// from; zero rows affected surfaces as ErrInvalidStateTransition.
	UpdateStatus(ctx context.Context, id int32, from, to domain.TransactionStatus, completedAt *time.Time) error
	SetProviderIntent(ctx context.Context, id int32, intentID string) error
	UpdateMetadata(ctx context.Context, id int32, meta domain.TransactionMetadata) error
}

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *domain.PaymentSchedule) error
	GetByID(ctx context.Context, id int32) (*domain.PaymentSchedule, error)
	GetByContractAndPeriod(ctx context.Context, contractID int32, periodStart time.Time) (*domain.PaymentSchedule, error)
	ListByFranchisee(ctx context.Context, franchiseeID int32, status domain.ScheduleStatus) ([]domain.PaymentSchedule, error)
	CountByContract(ctx context.Context, contractID int32) (int32, error)
	SetAmount(ctx context.Context, id int32, amountCents int64) error
	// MarkSentByFranchisee bulk-transitions the franchisee's PENDING rows to SENT.
	MarkSentByFranchisee(ctx context.Context, franchiseeID int32) (int32, error)
	MarkPaid(ctx context.Context, id int32, transactionID int32) error
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id int32) (*domain.Invoice, error)
	GetByTransactionID(ctx context.Context, transactionID int32) (*domain.Invoice, error)
	CountByYearMonth(ctx context.Context, yearMonth string) (int32, error)
	ListUnpaid(ctx context.Context, asOf time.Time) ([]domain.Invoice, error)
	SetDocumentPath(ctx context.Context, id int32, path string) error
	MarkSent(ctx context.Context, id int32, sentAt time.Time) error
}

// Repositories bundles every repository bound to a single execution scope,
// either the root connection pool or one open transaction.
type Repositories struct {
	Users        UserRepository
	Contracts    ContractRepository
	Accounts     AccountRepository
	Transactions TransactionRepository
	Schedules    ScheduleRepository
	Invoices     InvoiceRepository
}

// Atomic runs fn inside one serializable database transaction. Every
// multi-step write in the payment core (onboarding, webhook settlement,
// invoice numbering) goes through it. A serialization failure is returned
// as domain.ErrConcurrencyConflict for the caller to retry.
type Atomic interface {
	WithinTx(ctx context.Context, fn func(r *Repositories) error) error
}
