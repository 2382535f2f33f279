package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"franchise-backend/internal/config"
	"franchise-backend/internal/domain"
	"franchise-backend/internal/logger"
	"franchise-backend/internal/repository"
)

const royaltyScheduleMonths = 12

type scheduleService struct {
	store   repository.Atomic
	repos   *repository.Repositories
	billing config.BillingConfig
	clock   Clock
}

func NewScheduleService(store repository.Atomic, repos *repository.Repositories, billing config.BillingConfig, clock Clock) ScheduleService {
	return &scheduleService{store: store, repos: repos, billing: billing, clock: clock}
}

// planRoyaltyRows creates the 12 monthly schedule rows for a contract,
// starting the month after now. Shared with the onboarding orchestrator so
// the rows land in the same atomic unit as the contract itself. Refuses to
// run twice for one contract.
func planRoyaltyRows(ctx context.Context, r *repository.Repositories, contractID, franchiseeID int32, now time.Time) ([]domain.PaymentSchedule, error) {
	existing, err := r.Schedules.CountByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, domain.ErrScheduleExists
	}

	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	schedules := make([]domain.PaymentSchedule, 0, royaltyScheduleMonths)
	for i := 0; i < royaltyScheduleMonths; i++ {
		periodStart := firstMonth.AddDate(0, i, 0)
		periodEnd := periodStart.AddDate(0, 1, -1)
		schedule := domain.PaymentSchedule{
			ContractID:   contractID,
			FranchiseeID: franchiseeID,
			PeriodStart:  periodStart,
			PeriodEnd:    periodEnd,
			DueDate:      periodStart.AddDate(0, 1, 14), // 15th of the following month
			AmountCents:  0,
			Status:       domain.ScheduleStatusPending,
		}
		if err := r.Schedules.Create(ctx, &schedule); err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, nil
}

func (s *scheduleService) PlanRoyalties(ctx context.Context, contractID, franchiseeID int32) ([]domain.PaymentSchedule, error) {
	logger.EnterMethod("scheduleService.PlanRoyalties", "contract_id", contractID, "franchisee_id", franchiseeID)

	var schedules []domain.PaymentSchedule
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		schedules, err = planRoyaltyRows(ctx, r, contractID, franchiseeID, s.clock())
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("scheduleService.PlanRoyalties", err, "contract_id", contractID)
		return nil, err
	}

	logger.ExitMethod("scheduleService.PlanRoyalties", "contract_id", contractID, "count", len(schedules))
	return schedules, nil
}

func (s *scheduleService) Activate(ctx context.Context, franchiseeID int32) (int32, error) {
	logger.EnterMethod("scheduleService.Activate", "franchisee_id", franchiseeID)

	var updated int32
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		var err error
		updated, err = r.Schedules.MarkSentByFranchisee(ctx, franchiseeID)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("scheduleService.Activate", err, "franchisee_id", franchiseeID)
		return 0, err
	}

	logger.ExitMethod("scheduleService.Activate", "franchisee_id", franchiseeID, "updated", updated)
	return updated, nil
}

// royaltyAmountCents computes declaredRevenue * rate / 100 in cents.
func royaltyAmountCents(declaredRevenueCents int64, rate float64) int64 {
	return int64(math.Round(float64(declaredRevenueCents) * rate / 100))
}

// parsePeriod validates a 'YYYY-MM' revenue period and returns its first day.
func parsePeriod(period string) (time.Time, error) {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid period %q, expected YYYY-MM: %w", period, err)
	}
	return t, nil
}

func (s *scheduleService) CalculateRoyalty(ctx context.Context, franchiseeID int32, declaredRevenueCents int64, period string) (*domain.Transaction, error) {
	logger.EnterMethod("scheduleService.CalculateRoyalty", "franchisee_id", franchiseeID, "declared_revenue_cents", declaredRevenueCents, "period", period)

	if declaredRevenueCents <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	periodStart, err := parsePeriod(period)
	if err != nil {
		return nil, err
	}

	var created *domain.Transaction
	err = s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		contract, err := r.Contracts.GetActiveByFranchisee(ctx, franchiseeID)
		if err != nil {
			return domain.ErrNoActiveContract
		}

		amount := royaltyAmountCents(declaredRevenueCents, contract.RoyaltyRate)
		if amount <= 0 {
			return domain.ErrInvalidAmount
		}

		meta := domain.TransactionMetadata{
			DeclaredRevenueCents: declaredRevenueCents,
			RoyaltyRate:          contract.RoyaltyRate,
			Period:               period,
		}

		// Link the schedule row up front so settlement never has to match
		// by amount. Royalties past the planned year simply have no row.
		schedule, err := r.Schedules.GetByContractAndPeriod(ctx, contract.ID, periodStart)
		switch {
		case err == nil:
			meta.ScheduleID = schedule.ID
			if err := r.Schedules.SetAmount(ctx, schedule.ID, amount); err != nil {
				return err
			}
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}

		now := s.clock()
		tx := &domain.Transaction{
			Reference:    buildReference(domain.TransactionTypeMonthlyRoyalty, franchiseeID, s.clock),
			Type:         domain.TransactionTypeMonthlyRoyalty,
			FranchiseeID: franchiseeID,
			ContractID:   &contract.ID,
			AmountCents:  amount,
			Currency:     s.billing.Currency,
			Status:       domain.TransactionStatusPending,
			DueDate:      now.AddDate(0, 0, 15),
			Metadata:     meta,
		}
		if err := r.Transactions.Create(ctx, tx); err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("scheduleService.CalculateRoyalty", err, "franchisee_id", franchiseeID)
		return nil, err
	}

	logger.ExitMethod("scheduleService.CalculateRoyalty", "franchisee_id", franchiseeID, "transaction_id", created.ID, "amount_cents", created.AmountCents)
	return created, nil
}
