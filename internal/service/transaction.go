package service

import (
	"context"
	"fmt"

	"franchise-backend/internal/domain"
	"franchise-backend/internal/logger"
	"franchise-backend/internal/repository"
)

type transactionService struct {
	store repository.Atomic
	repos *repository.Repositories
	clock Clock
}

func NewTransactionService(store repository.Atomic, repos *repository.Repositories, clock Clock) TransactionService {
	return &transactionService{store: store, repos: repos, clock: clock}
}

// buildReference allocates a human-readable reference of the form
// {PREFIX}-{franchiseeID}-{unix}.
func buildReference(t domain.TransactionType, franchiseeID int32, clock Clock) string {
	return fmt.Sprintf("%s-%d-%d", t.ReferencePrefix(), franchiseeID, clock().Unix())
}

func (s *transactionService) Create(ctx context.Context, params CreateTransactionParams) (*domain.Transaction, error) {
	logger.EnterMethod("transactionService.Create", "type", params.Type, "franchisee_id", params.FranchiseeID, "amount_cents", params.AmountCents)

	if params.AmountCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	tx := &domain.Transaction{
		Reference:    buildReference(params.Type, params.FranchiseeID, s.clock),
		Type:         params.Type,
		FranchiseeID: params.FranchiseeID,
		ContractID:   params.ContractID,
		AmountCents:  params.AmountCents,
		Currency:     params.Currency,
		Status:       domain.TransactionStatusPending,
		DueDate:      params.DueDate,
		Metadata:     params.Metadata,
	}
	if err := s.repos.Transactions.Create(ctx, tx); err != nil {
		logger.ExitMethodWithError("transactionService.Create", err, "franchisee_id", params.FranchiseeID)
		return nil, err
	}

	logger.ExitMethod("transactionService.Create", "transaction_id", tx.ID, "reference", tx.Reference)
	return tx, nil
}

func (s *transactionService) Get(ctx context.Context, id int32) (*domain.Transaction, error) {
	return s.repos.Transactions.GetByID(ctx, id)
}

func (s *transactionService) Cancel(ctx context.Context, transactionID, actorID int32) (*domain.Transaction, error) {
	logger.EnterMethod("transactionService.Cancel", "transaction_id", transactionID, "actor_id", actorID)

	var cancelled *domain.Transaction
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		tx, err := r.Transactions.GetByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if !tx.Status.CanTransitionTo(domain.TransactionStatusCancelled) {
			return domain.ErrInvalidStateTransition
		}
		if err := r.Transactions.UpdateStatus(ctx, tx.ID, tx.Status, domain.TransactionStatusCancelled, nil); err != nil {
			return err
		}
		now := s.clock()
		tx.Metadata.CancelledBy = actorID
		tx.Metadata.CancelledAt = &now
		if err := r.Transactions.UpdateMetadata(ctx, tx.ID, tx.Metadata); err != nil {
			return err
		}
		tx.Status = domain.TransactionStatusCancelled
		cancelled = tx
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("transactionService.Cancel", err, "transaction_id", transactionID)
		return nil, err
	}

	logger.ExitMethod("transactionService.Cancel", "transaction_id", transactionID)
	return cancelled, nil
}

func (s *transactionService) ListByFranchisee(ctx context.Context, franchiseeID int32, status domain.TransactionStatus, page, pageSize int32) ([]domain.Transaction, int32, error) {
	return s.repos.Transactions.ListByFranchisee(ctx, franchiseeID, status, page, pageSize)
}
