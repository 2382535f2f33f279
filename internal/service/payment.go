package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"franchise-backend/internal/domain"
	"franchise-backend/internal/logger"
	"franchise-backend/internal/payment"
	"franchise-backend/internal/repository"
)

type paymentService struct {
	store    repository.Atomic
	repos    *repository.Repositories
	provider payment.Provider
	emailSvc EmailService
	clock    Clock
}

func NewPaymentService(store repository.Atomic, repos *repository.Repositories, provider payment.Provider, emailSvc EmailService, clock Clock) PaymentService {
	return &paymentService{
		store:    store,
		repos:    repos,
		provider: provider,
		emailSvc: emailSvc,
		clock:    clock,
	}
}

// CreateIntent calls the provider and moves the transaction PENDING ->
// PROCESSING. On provider failure the transaction stays PENDING and the call
// is safe to retry.
func (s *paymentService) CreateIntent(ctx context.Context, transactionID int32) (string, error) {
	logger.EnterMethod("paymentService.CreateIntent", "transaction_id", transactionID)

	tx, err := s.repos.Transactions.GetByID(ctx, transactionID)
	if err != nil {
		logger.ExitMethodWithError("paymentService.CreateIntent", err, "transaction_id", transactionID)
		return "", err
	}
	if tx.Status != domain.TransactionStatusPending {
		return "", domain.ErrInvalidStateTransition
	}

	intent, err := s.provider.CreatePaymentIntent(ctx, tx.AmountCents, tx.Currency, payment.IntentMetadata{
		TransactionID:        tx.ID,
		TransactionReference: tx.Reference,
		FranchiseeID:         tx.FranchiseeID,
	})
	if err != nil {
		logger.ExitMethodWithError("paymentService.CreateIntent", err, "transaction_id", transactionID)
		return "", fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	err = s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		if err := r.Transactions.UpdateStatus(ctx, tx.ID, domain.TransactionStatusPending, domain.TransactionStatusProcessing, nil); err != nil {
			return err
		}
		return r.Transactions.SetProviderIntent(ctx, tx.ID, intent.ID)
	})
	if err != nil {
		logger.ExitMethodWithError("paymentService.CreateIntent", err, "transaction_id", transactionID)
		return "", err
	}

	logger.ExitMethod("paymentService.CreateIntent", "transaction_id", transactionID, "intent_id", intent.ID)
	return intent.ClientSecret, nil
}

// HandleWebhook reconciles one verified provider event against the registry.
// Idempotency rests on transaction status, not on any delivery id: a
// transaction that is already COMPLETED absorbs redeliveries as no-ops, and
// the status transition + ledger posting + side effect run as one
// serializable unit.
func (s *paymentService) HandleWebhook(ctx context.Context, intentID string, outcome string, rawPayload string) (*domain.Transaction, error) {
	logger.EnterMethod("paymentService.HandleWebhook", "intent_id", intentID, "outcome", outcome)

	var settled *domain.Transaction
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		tx, err := r.Transactions.GetByProviderIntentID(ctx, intentID)
		if errors.Is(err, sql.ErrNoRows) {
			// Not ours: the provider also delivers events for test traffic
			// and intents created outside this system.
			logger.Info("Webhook for unknown payment intent ignored", "intent_id", intentID)
			return nil
		}
		if err != nil {
			return err
		}

		if tx.Status == domain.TransactionStatusCompleted {
			logger.Info("Duplicate webhook for settled transaction, no-op",
				"intent_id", intentID, "transaction_id", tx.ID, "reference", tx.Reference)
			settled = tx
			return nil
		}

		if outcome != string(payment.OutcomeSucceeded) {
			if err := s.applyFailure(ctx, r, tx, rawPayload); err != nil {
				return err
			}
			settled = tx
			return nil
		}

		if !tx.Status.CanTransitionTo(domain.TransactionStatusCompleted) {
			// A success event for a cancelled or failed transaction never
			// reopens it.
			logger.Warn("Success webhook for closed transaction refused",
				"intent_id", intentID, "transaction_id", tx.ID, "status", tx.Status)
			return domain.ErrInvalidStateTransition
		}

		now := s.clock()
		if err := r.Transactions.UpdateStatus(ctx, tx.ID, tx.Status, domain.TransactionStatusCompleted, &now); err != nil {
			return err
		}
		tx.Metadata.RawProviderPayload = rawPayload
		if err := r.Transactions.UpdateMetadata(ctx, tx.ID, tx.Metadata); err != nil {
			return err
		}

		account, err := r.Accounts.GetByFranchisee(ctx, tx.FranchiseeID)
		if err != nil {
			return domain.ErrAccountNotFound
		}
		if err := r.Accounts.PostMovement(ctx, &domain.Movement{
			AccountID:     account.ID,
			Direction:     domain.MovementDebit,
			AmountCents:   tx.AmountCents,
			Reason:        fmt.Sprintf("Payment %s", tx.Reference),
			TransactionID: &tx.ID,
		}); err != nil {
			return err
		}

		if err := s.applySideEffect(ctx, r, tx, account, now); err != nil {
			return err
		}

		tx.Status = domain.TransactionStatusCompleted
		tx.CompletedAt = &now
		settled = tx
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("paymentService.HandleWebhook", err, "intent_id", intentID)
		return nil, err
	}

	if settled != nil && settled.Status == domain.TransactionStatusCompleted {
		s.sendReceipt(ctx, settled)
	}

	logger.ExitMethod("paymentService.HandleWebhook", "intent_id", intentID)
	return settled, nil
}

func (s *paymentService) applyFailure(ctx context.Context, r *repository.Repositories, tx *domain.Transaction, rawPayload string) error {
	if tx.Status == domain.TransactionStatusFailed {
		// Redelivered failure event.
		return nil
	}
	if !tx.Status.CanTransitionTo(domain.TransactionStatusFailed) {
		return domain.ErrInvalidStateTransition
	}
	if err := r.Transactions.UpdateStatus(ctx, tx.ID, tx.Status, domain.TransactionStatusFailed, nil); err != nil {
		return err
	}
	tx.Metadata.RawProviderPayload = rawPayload
	if err := r.Transactions.UpdateMetadata(ctx, tx.ID, tx.Metadata); err != nil {
		return err
	}
	tx.Status = domain.TransactionStatusFailed
	logger.Warn("Payment failed", "transaction_id", tx.ID, "reference", tx.Reference)
	return nil
}

// applySideEffect runs the single type-specific consequence of settlement,
// inside the same transaction as the status change and the ledger movement.
func (s *paymentService) applySideEffect(ctx context.Context, r *repository.Repositories, tx *domain.Transaction, account *domain.Account, now time.Time) error {
	switch tx.Type {
	case domain.TransactionTypeEntryFee:
		if tx.ContractID == nil {
			return fmt.Errorf("entry-fee transaction %d has no contract", tx.ID)
		}
		if err := r.Contracts.SignAndActivate(ctx, *tx.ContractID, now); err != nil {
			return err
		}
		sent, err := r.Schedules.MarkSentByFranchisee(ctx, tx.FranchiseeID)
		if err != nil {
			return err
		}
		logger.Info("Entry fee settled, contract signed",
			"contract_id", *tx.ContractID, "schedules_activated", sent)

	case domain.TransactionTypeMonthlyRoyalty:
		if tx.Metadata.ScheduleID != 0 {
			if err := r.Schedules.MarkPaid(ctx, tx.Metadata.ScheduleID, tx.ID); err != nil {
				return err
			}
		}
		if err := r.Accounts.AddRoyaltiesPaid(ctx, account.ID, tx.AmountCents); err != nil {
			return err
		}

	case domain.TransactionTypeStockPurchase:
		// The settled payment grants equivalent purchasing power for
		// future stock orders.
		if err := r.Accounts.PostMovement(ctx, &domain.Movement{
			AccountID:     account.ID,
			Direction:     domain.MovementCredit,
			AmountCents:   tx.AmountCents,
			Reason:        fmt.Sprintf("Stock purchasing power %s", tx.Reference),
			TransactionID: &tx.ID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// sendReceipt is best effort and runs outside the settlement unit.
func (s *paymentService) sendReceipt(ctx context.Context, tx *domain.Transaction) {
	if s.emailSvc == nil {
		return
	}
	user, err := s.repos.Users.GetByID(ctx, tx.FranchiseeID)
	if err != nil {
		return
	}
	_ = s.emailSvc.SendPaymentReceipt(ctx, user.Email, user.Name, tx.Reference, tx.AmountCents)
}
