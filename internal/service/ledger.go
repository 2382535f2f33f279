package service

import (
	"context"

	"franchise-backend/internal/domain"
	"franchise-backend/internal/logger"
	"franchise-backend/internal/repository"
)

type ledgerService struct {
	store repository.Atomic
	repos *repository.Repositories
}

func NewLedgerService(store repository.Atomic, repos *repository.Repositories) LedgerService {
	return &ledgerService{store: store, repos: repos}
}

func (s *ledgerService) Credit(ctx context.Context, accountID int32, amountCents int64, reason string, transactionID *int32) (*domain.Movement, error) {
	return s.post(ctx, accountID, domain.MovementCredit, amountCents, reason, transactionID)
}

func (s *ledgerService) Debit(ctx context.Context, accountID int32, amountCents int64, reason string, transactionID *int32) (*domain.Movement, error) {
	return s.post(ctx, accountID, domain.MovementDebit, amountCents, reason, transactionID)
}

// post appends one immutable movement and applies it to the balance inside a
// single serializable unit, so a concurrent read never sees one without the
// other.
func (s *ledgerService) post(ctx context.Context, accountID int32, direction domain.MovementDirection, amountCents int64, reason string, transactionID *int32) (*domain.Movement, error) {
	logger.EnterMethod("ledgerService.post", "account_id", accountID, "direction", direction, "amount_cents", amountCents)

	if amountCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if reason == "" {
		return nil, domain.ErrEmptyReason
	}

	movement := &domain.Movement{
		AccountID:     accountID,
		Direction:     direction,
		AmountCents:   amountCents,
		Reason:        reason,
		TransactionID: transactionID,
	}
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		return r.Accounts.PostMovement(ctx, movement)
	})
	if err != nil {
		logger.ExitMethodWithError("ledgerService.post", err, "account_id", accountID)
		return nil, err
	}

	logger.ExitMethod("ledgerService.post", "account_id", accountID, "movement_id", movement.ID)
	return movement, nil
}

func (s *ledgerService) GetBalance(ctx context.Context, franchiseeID int32) (int64, error) {
	account, err := s.repos.Accounts.GetByFranchisee(ctx, franchiseeID)
	if err != nil {
		return 0, domain.ErrAccountNotFound
	}
	return account.BalanceCents, nil
}

func (s *ledgerService) GetMovements(ctx context.Context, accountID int32, page, pageSize int32) ([]domain.Movement, int32, error) {
	return s.repos.Accounts.ListMovements(ctx, accountID, page, pageSize)
}
