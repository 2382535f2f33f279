package service

import (
	"context"
	"time"

	"franchise-backend/internal/domain"
)

// Clock supplies the current time. Injected into every service so the state
// machine stays deterministic under test.
type Clock func() time.Time

// SystemClock is the production clock.
func SystemClock() time.Time { return time.Now().UTC() }

type LedgerService interface {
	Credit(ctx context.Context, accountID int32, amountCents int64, reason string, transactionID *int32) (*domain.Movement, error)
	Debit(ctx context.Context, accountID int32, amountCents int64, reason string, transactionID *int32) (*domain.Movement, error)
	GetBalance(ctx context.Context, franchiseeID int32) (int64, error)
	GetMovements(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Movement, int32, error)
}

type TransactionService interface {
	Create(ctx context.Context, params CreateTransactionParams) (*domain.Transaction, error)
	Get(ctx context.Context, id int32) (*domain.Transaction, error)
	Cancel(ctx context.Context, transactionID, actorID int32) (*domain.Transaction, error)
	ListByFranchisee(ctx context.Context, franchiseeID int32, status domain.TransactionStatus, page, pageSize int32) ([]domain.Transaction, int32, error)
}

// CreateTransactionParams carries everything needed to register a new
// payment obligation.
type CreateTransactionParams struct {
	Type         domain.TransactionType
	FranchiseeID int32
	ContractID   *int32
	AmountCents  int64
	Currency     string
	DueDate      time.Time
	Metadata     domain.TransactionMetadata
}

type ScheduleService interface {
	PlanRoyalties(ctx context.Context, contractID, franchiseeID int32) ([]domain.PaymentSchedule, error)
	Activate(ctx context.Context, franchiseeID int32) (int32, error)
	CalculateRoyalty(ctx context.Context, franchiseeID int32, declaredRevenueCents int64, period string) (*domain.Transaction, error)
}

type PaymentService interface {
	// CreateIntent asks the provider for a payment intent and moves the
	// transaction to PROCESSING. Returns the client confirmation token.
	CreateIntent(ctx context.Context, transactionID int32) (string, error)
	// HandleWebhook reconciles one verified provider event. Safe under
	// at-least-once, out-of-order, duplicate delivery.
	HandleWebhook(ctx context.Context, intentID string, outcome string, rawPayload string) (*domain.Transaction, error)
}

type OnboardingService interface {
	ValidateFranchisee(ctx context.Context, franchiseeID, actorID int32) (*OnboardingResult, error)
}

// OnboardingResult is everything a freshly validated franchisee needs to pay
// the entry fee.
type OnboardingResult struct {
	Contract    *domain.Contract         `json:"contract"`
	Account     *domain.Account          `json:"account"`
	Transaction *domain.Transaction      `json:"transaction"`
	Schedules   []domain.PaymentSchedule `json:"schedules"`
	PaymentURL  string                   `json:"payment_url"`
}

type InvoiceService interface {
	Compile(ctx context.Context, transactionID int32) (*domain.Invoice, error)
	Get(ctx context.Context, id int32) (*domain.Invoice, error)
}

type DashboardService interface {
	GetDashboard(ctx context.Context, franchiseeID int32) (*domain.Dashboard, error)
}

type EmailService interface {
	SendPayableNotice(ctx context.Context, email, name, reference string, amountCents int64, paymentURL string) error
	SendPaymentReceipt(ctx context.Context, email, name, reference string, amountCents int64) error
	SendInvoiceNotice(ctx context.Context, email, name, invoiceNumber string, amountCents int64) error
	SendPaymentReminder(ctx context.Context, email, name, reference string, amountCents int64, dueDate time.Time) error
}
