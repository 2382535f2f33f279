package service

import (
	"context"
	"fmt"

	"franchise-backend/internal/config"
	"franchise-backend/internal/domain"
	"franchise-backend/internal/logger"
	"franchise-backend/internal/repository"
)

type onboardingService struct {
	store       repository.Atomic
	repos       *repository.Repositories
	billing     config.BillingConfig
	paymentPage string
	emailSvc    EmailService
	clock       Clock
}

func NewOnboardingService(store repository.Atomic, repos *repository.Repositories, billing config.BillingConfig, paymentPage string, emailSvc EmailService, clock Clock) OnboardingService {
	return &onboardingService{
		store:       store,
		repos:       repos,
		billing:     billing,
		paymentPage: paymentPage,
		emailSvc:    emailSvc,
		clock:       clock,
	}
}

// ValidateFranchisee turns a franchisee-role user into a paying franchisee:
// contract, account, entry-fee transaction and the 12-month royalty calendar
// are created in one atomic unit. A failure anywhere rolls everything back,
// so no contract/account pair ever exists without a way to pay.
func (s *onboardingService) ValidateFranchisee(ctx context.Context, franchiseeID, actorID int32) (*OnboardingResult, error) {
	logger.EnterMethod("onboardingService.ValidateFranchisee", "franchisee_id", franchiseeID, "actor_id", actorID)

	user, err := s.repos.Users.GetByID(ctx, franchiseeID)
	if err != nil {
		logger.ExitMethodWithError("onboardingService.ValidateFranchisee", err, "franchisee_id", franchiseeID)
		return nil, domain.ErrNotAFranchisee
	}
	if !user.IsFranchisee() {
		return nil, domain.ErrNotAFranchisee
	}

	var result OnboardingResult
	err = s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		existing, err := r.Contracts.CountByFranchisee(ctx, franchiseeID)
		if err != nil {
			return err
		}
		if existing > 0 {
			return domain.ErrContractExists
		}

		now := s.clock()

		contract := &domain.Contract{
			FranchiseeID:      franchiseeID,
			ContractNumber:    fmt.Sprintf("CTR-%d-%03d", franchiseeID, existing+1),
			EntryFeeCents:     s.billing.EntryFeeCents,
			RoyaltyRate:       s.billing.RoyaltyRate,
			StockPurchaseRate: s.billing.StockPurchaseRate,
			StartDate:         now,
			EndDate:           now.AddDate(s.billing.ContractYears, 0, 0),
			Status:            domain.ContractStatusActive, // active but unsigned until the fee settles
		}
		if err := r.Contracts.Create(ctx, contract); err != nil {
			return err
		}

		account := &domain.Account{
			FranchiseeID:         franchiseeID,
			BalanceCents:         0,
			AvailableCreditCents: s.billing.InitialCreditCents,
			CreditLimitCents:     s.billing.CreditLimitCents,
			Status:               domain.AccountStatusActive,
		}
		if err := r.Accounts.Create(ctx, account); err != nil {
			return err
		}

		tx := &domain.Transaction{
			Reference:    buildReference(domain.TransactionTypeEntryFee, franchiseeID, s.clock),
			Type:         domain.TransactionTypeEntryFee,
			FranchiseeID: franchiseeID,
			ContractID:   &contract.ID,
			AmountCents:  s.billing.EntryFeeCents,
			Currency:     s.billing.Currency,
			Status:       domain.TransactionStatusPending,
			DueDate:      now.AddDate(0, 0, 30),
		}
		if err := r.Transactions.Create(ctx, tx); err != nil {
			return err
		}

		schedules, err := planRoyaltyRows(ctx, r, contract.ID, franchiseeID, now)
		if err != nil {
			return err
		}

		result = OnboardingResult{
			Contract:    contract,
			Account:     account,
			Transaction: tx,
			Schedules:   schedules,
			PaymentURL:  fmt.Sprintf("%s/%s", s.paymentPage, tx.Reference),
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("onboardingService.ValidateFranchisee", err, "franchisee_id", franchiseeID)
		return nil, err
	}

	if s.emailSvc != nil {
		_ = s.emailSvc.SendPayableNotice(ctx, user.Email, user.Name,
			result.Transaction.Reference, result.Transaction.AmountCents, result.PaymentURL)
	}

	logger.ExitMethod("onboardingService.ValidateFranchisee",
		"franchisee_id", franchiseeID,
		"contract_number", result.Contract.ContractNumber,
		"transaction_ref", result.Transaction.Reference)
	return &result, nil
}
