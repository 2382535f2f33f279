package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"franchise-backend/internal/domain"
	"franchise-backend/internal/payment"
	"franchise-backend/internal/repository"
)

// fakeAtomic executes the unit of work against a fixed repository set, like
// a transaction that always commits. Conflict behavior is covered by the
// postgres store tests.
type fakeAtomic struct {
	repos *repository.Repositories
}

func (f *fakeAtomic) WithinTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	return fn(f.repos)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockContractRepo
type MockContractRepo struct {
	mock.Mock
}

func (m *MockContractRepo) Create(ctx context.Context, contract *domain.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}
func (m *MockContractRepo) GetByID(ctx context.Context, id int32) (*domain.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractRepo) GetByFranchisee(ctx context.Context, franchiseeID int32) (*domain.Contract, error) {
	args := m.Called(ctx, franchiseeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractRepo) GetActiveByFranchisee(ctx context.Context, franchiseeID int32) (*domain.Contract, error) {
	args := m.Called(ctx, franchiseeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractRepo) CountByFranchisee(ctx context.Context, franchiseeID int32) (int32, error) {
	args := m.Called(ctx, franchiseeID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockContractRepo) SignAndActivate(ctx context.Context, id int32, signedAt time.Time) error {
	args := m.Called(ctx, id, signedAt)
	return args.Error(0)
}
func (m *MockContractRepo) UpdateStatus(ctx context.Context, id int32, status domain.ContractStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockAccountRepo
type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepo) GetByID(ctx context.Context, id int32) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) GetByFranchisee(ctx context.Context, franchiseeID int32) (*domain.Account, error) {
	args := m.Called(ctx, franchiseeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountRepo) PostMovement(ctx context.Context, movement *domain.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}
func (m *MockAccountRepo) ListMovements(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Movement, int32, error) {
	args := m.Called(ctx, accountID, page, pageSize)
	var movements []domain.Movement
	if args.Get(0) != nil {
		movements = args.Get(0).([]domain.Movement)
	}
	return movements, args.Get(1).(int32), args.Error(2)
}
func (m *MockAccountRepo) AddRoyaltiesPaid(ctx context.Context, accountID int32, amountCents int64) error {
	args := m.Called(ctx, accountID, amountCents)
	return args.Error(0)
}

// MockTransactionRepo
type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockTransactionRepo) GetByID(ctx context.Context, id int32) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) GetByProviderIntentID(ctx context.Context, intentID string) (*domain.Transaction, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionRepo) ListByFranchisee(ctx context.Context, franchiseeID int32, status domain.TransactionStatus, page, pageSize int32) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, franchiseeID, status, page, pageSize)
	var txs []domain.Transaction
	if args.Get(0) != nil {
		txs = args.Get(0).([]domain.Transaction)
	}
	return txs, args.Get(1).(int32), args.Error(2)
}
func (m *MockTransactionRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, asOf)
	var txs []domain.Transaction
	if args.Get(0) != nil {
		txs = args.Get(0).([]domain.Transaction)
	}
	return txs, args.Error(1)
}
func (m *MockTransactionRepo) CountByFranchiseeAndType(ctx context.Context, franchiseeID int32, txType domain.TransactionType) (int32, error) {
	args := m.Called(ctx, franchiseeID, txType)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockTransactionRepo) UpdateStatus(ctx context.Context, id int32, from, to domain.TransactionStatus, completedAt *time.Time) error {
	args := m.Called(ctx, id, from, to, completedAt)
	return args.Error(0)
}
func (m *MockTransactionRepo) SetProviderIntent(ctx context.Context, id int32, intentID string) error {
	args := m.Called(ctx, id, intentID)
	return args.Error(0)
}
func (m *MockTransactionRepo) UpdateMetadata(ctx context.Context, id int32, meta domain.TransactionMetadata) error {
	args := m.Called(ctx, id, meta)
	return args.Error(0)
}

// MockScheduleRepo
type MockScheduleRepo struct {
	mock.Mock
}

func (m *MockScheduleRepo) Create(ctx context.Context, schedule *domain.PaymentSchedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}
func (m *MockScheduleRepo) GetByID(ctx context.Context, id int32) (*domain.PaymentSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentSchedule), args.Error(1)
}
func (m *MockScheduleRepo) GetByContractAndPeriod(ctx context.Context, contractID int32, periodStart time.Time) (*domain.PaymentSchedule, error) {
	args := m.Called(ctx, contractID, periodStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentSchedule), args.Error(1)
}
func (m *MockScheduleRepo) ListByFranchisee(ctx context.Context, franchiseeID int32, status domain.ScheduleStatus) ([]domain.PaymentSchedule, error) {
	args := m.Called(ctx, franchiseeID, status)
	var schedules []domain.PaymentSchedule
	if args.Get(0) != nil {
		schedules = args.Get(0).([]domain.PaymentSchedule)
	}
	return schedules, args.Error(1)
}
func (m *MockScheduleRepo) CountByContract(ctx context.Context, contractID int32) (int32, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockScheduleRepo) SetAmount(ctx context.Context, id int32, amountCents int64) error {
	args := m.Called(ctx, id, amountCents)
	return args.Error(0)
}
func (m *MockScheduleRepo) MarkSentByFranchisee(ctx context.Context, franchiseeID int32) (int32, error) {
	args := m.Called(ctx, franchiseeID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockScheduleRepo) MarkPaid(ctx context.Context, id int32, transactionID int32) error {
	args := m.Called(ctx, id, transactionID)
	return args.Error(0)
}

// MockInvoiceRepo
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}
func (m *MockInvoiceRepo) GetByID(ctx context.Context, id int32) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceRepo) GetByTransactionID(ctx context.Context, transactionID int32) (*domain.Invoice, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceRepo) CountByYearMonth(ctx context.Context, yearMonth string) (int32, error) {
	args := m.Called(ctx, yearMonth)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockInvoiceRepo) ListUnpaid(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, asOf)
	var invoices []domain.Invoice
	if args.Get(0) != nil {
		invoices = args.Get(0).([]domain.Invoice)
	}
	return invoices, args.Error(1)
}
func (m *MockInvoiceRepo) SetDocumentPath(ctx context.Context, id int32, path string) error {
	args := m.Called(ctx, id, path)
	return args.Error(0)
}
func (m *MockInvoiceRepo) MarkSent(ctx context.Context, id int32, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

// MockProvider mocks the payment provider collaborator
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, meta payment.IntentMetadata) (*payment.Intent, error) {
	args := m.Called(ctx, amountCents, currency, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Intent), args.Error(1)
}
func (m *MockProvider) VerifyAndParseWebhook(rawBody []byte, signatureHeader string) (*payment.WebhookEvent, error) {
	args := m.Called(rawBody, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.WebhookEvent), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendPayableNotice(ctx context.Context, email, name, reference string, amountCents int64, paymentURL string) error {
	args := m.Called(ctx, email, name, reference, amountCents, paymentURL)
	return args.Error(0)
}
func (m *MockEmailService) SendPaymentReceipt(ctx context.Context, email, name, reference string, amountCents int64) error {
	args := m.Called(ctx, email, name, reference, amountCents)
	return args.Error(0)
}
func (m *MockEmailService) SendInvoiceNotice(ctx context.Context, email, name, invoiceNumber string, amountCents int64) error {
	args := m.Called(ctx, email, name, invoiceNumber, amountCents)
	return args.Error(0)
}
func (m *MockEmailService) SendPaymentReminder(ctx context.Context, email, name, reference string, amountCents int64, dueDate time.Time) error {
	args := m.Called(ctx, email, name, reference, amountCents, dueDate)
	return args.Error(0)
}

// testRepos builds a Repositories value over fresh mocks and returns both.
func testRepos() (*repository.Repositories, *MockUserRepo, *MockContractRepo, *MockAccountRepo, *MockTransactionRepo, *MockScheduleRepo, *MockInvoiceRepo) {
	users := new(MockUserRepo)
	contracts := new(MockContractRepo)
	accounts := new(MockAccountRepo)
	txs := new(MockTransactionRepo)
	schedules := new(MockScheduleRepo)
	invoices := new(MockInvoiceRepo)
	repos := &repository.Repositories{
		Users:        users,
		Contracts:    contracts,
		Accounts:     accounts,
		Transactions: txs,
		Schedules:    schedules,
		Invoices:     invoices,
	}
	return repos, users, contracts, accounts, txs, schedules, invoices
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
