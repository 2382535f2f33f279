package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"franchise-backend/internal/config"
	"franchise-backend/internal/domain"
)

func testBilling() config.BillingConfig {
	return config.BillingConfig{
		EntryFeeCents:      5_000_000,
		RoyaltyRate:        4.0,
		StockPurchaseRate:  10.0,
		VATRate:            20.0,
		InitialCreditCents: 500_000,
		CreditLimitCents:   1_000_000,
		Currency:           "EUR",
		ContractYears:      5,
	}
}

func TestPlanRoyaltiesCreatesTwelveMonthlyRows(t *testing.T) {
	repos, _, _, _, _, schedules, _ := testRepos()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := NewScheduleService(&fakeAtomic{repos: repos}, repos, testBilling(), fixedClock(now))

	schedules.On("CountByContract", mock.Anything, int32(10)).Return(int32(0), nil)
	var nextID int32
	schedules.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		nextID++
		args.Get(1).(*domain.PaymentSchedule).ID = nextID
	}).Return(nil)

	rows, err := svc.PlanRoyalties(context.Background(), 10, 7)

	assert.NoError(t, err)
	assert.Len(t, rows, 12)

	// First period is the month after planning, due on the 15th of the month
	// that follows the period.
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), rows[0].PeriodStart)
	assert.Equal(t, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), rows[0].PeriodEnd)
	assert.Equal(t, time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC), rows[0].DueDate)
	assert.Equal(t, time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC), rows[11].PeriodStart)

	for i, row := range rows {
		assert.Equal(t, domain.ScheduleStatusPending, row.Status)
		assert.Zero(t, row.AmountCents, "row %d amount is unknown until revenue is declared", i)
		assert.Equal(t, int32(10), row.ContractID)
		assert.Equal(t, int32(7), row.FranchiseeID)
	}
}

func TestPlanRoyaltiesRefusesSecondRun(t *testing.T) {
	repos, _, _, _, _, schedules, _ := testRepos()
	svc := NewScheduleService(&fakeAtomic{repos: repos}, repos, testBilling(), SystemClock)

	schedules.On("CountByContract", mock.Anything, int32(10)).Return(int32(12), nil)

	_, err := svc.PlanRoyalties(context.Background(), 10, 7)

	assert.ErrorIs(t, err, domain.ErrScheduleExists)
	schedules.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCalculateRoyaltyAppliesContractRate(t *testing.T) {
	repos, _, contracts, _, txs, schedules, _ := testRepos()
	now := time.Date(2026, 4, 3, 9, 0, 0, 0, time.UTC)
	svc := NewScheduleService(&fakeAtomic{repos: repos}, repos, testBilling(), fixedClock(now))

	contracts.On("GetActiveByFranchisee", mock.Anything, int32(7)).Return(&domain.Contract{
		ID:           10,
		FranchiseeID: 7,
		RoyaltyRate:  4.0,
		Status:       domain.ContractStatusActive,
	}, nil)
	periodStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	schedules.On("GetByContractAndPeriod", mock.Anything, int32(10), periodStart).Return(&domain.PaymentSchedule{
		ID:         33,
		ContractID: 10,
	}, nil)
	schedules.On("SetAmount", mock.Anything, int32(33), int64(40_000)).Return(nil)
	txs.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Transaction).ID = 31
	}).Return(nil)

	// Declared 10 000.00 of revenue at 4% yields a 400.00 royalty.
	tx, err := svc.CalculateRoyalty(context.Background(), 7, 1_000_000, "2026-03")

	assert.NoError(t, err)
	assert.Equal(t, int64(40_000), tx.AmountCents)
	assert.Equal(t, domain.TransactionTypeMonthlyRoyalty, tx.Type)
	assert.Equal(t, domain.TransactionStatusPending, tx.Status)
	assert.Equal(t, now.AddDate(0, 0, 15), tx.DueDate)
	assert.Equal(t, int64(1_000_000), tx.Metadata.DeclaredRevenueCents)
	assert.Equal(t, 4.0, tx.Metadata.RoyaltyRate)
	assert.Equal(t, "2026-03", tx.Metadata.Period)
	assert.Equal(t, int32(33), tx.Metadata.ScheduleID)
	schedules.AssertExpectations(t)
}

func TestCalculateRoyaltyWithoutScheduleRow(t *testing.T) {
	repos, _, contracts, _, txs, schedules, _ := testRepos()
	svc := NewScheduleService(&fakeAtomic{repos: repos}, repos, testBilling(), SystemClock)

	contracts.On("GetActiveByFranchisee", mock.Anything, int32(7)).Return(&domain.Contract{
		ID:          10,
		RoyaltyRate: 4.0,
		Status:      domain.ContractStatusActive,
	}, nil)
	// Period beyond the planned year has no schedule row; the royalty is
	// still registered, just unlinked.
	schedules.On("GetByContractAndPeriod", mock.Anything, int32(10), mock.Anything).Return(nil, sql.ErrNoRows)
	txs.On("Create", mock.Anything, mock.Anything).Return(nil)

	tx, err := svc.CalculateRoyalty(context.Background(), 7, 2_000_000, "2028-01")

	assert.NoError(t, err)
	assert.Zero(t, tx.Metadata.ScheduleID)
	schedules.AssertNotCalled(t, "SetAmount", mock.Anything, mock.Anything, mock.Anything)
}

func TestCalculateRoyaltyScheduleLookupFailure(t *testing.T) {
	repos, _, contracts, _, txs, schedules, _ := testRepos()
	svc := NewScheduleService(&fakeAtomic{repos: repos}, repos, testBilling(), SystemClock)

	contracts.On("GetActiveByFranchisee", mock.Anything, int32(7)).Return(&domain.Contract{
		ID:          10,
		RoyaltyRate: 4.0,
		Status:      domain.ContractStatusActive,
	}, nil)
	lookupErr := errors.New("connection reset by peer")
	schedules.On("GetByContractAndPeriod", mock.Anything, int32(10), mock.Anything).Return(nil, lookupErr)

	// A broken lookup must abort the declaration, never produce an unlinked
	// royalty.
	_, err := svc.CalculateRoyalty(context.Background(), 7, 1_000_000, "2026-03")

	assert.ErrorIs(t, err, lookupErr)
	txs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCalculateRoyaltyWithoutActiveContract(t *testing.T) {
	repos, _, contracts, _, txs, _, _ := testRepos()
	svc := NewScheduleService(&fakeAtomic{repos: repos}, repos, testBilling(), SystemClock)

	contracts.On("GetActiveByFranchisee", mock.Anything, int32(7)).Return(nil, sql.ErrNoRows)

	_, err := svc.CalculateRoyalty(context.Background(), 7, 1_000_000, "2026-03")

	assert.ErrorIs(t, err, domain.ErrNoActiveContract)
	txs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCalculateRoyaltyRejectsBadInput(t *testing.T) {
	repos, _, _, _, _, _, _ := testRepos()
	svc := NewScheduleService(&fakeAtomic{repos: repos}, repos, testBilling(), SystemClock)

	_, err := svc.CalculateRoyalty(context.Background(), 7, 0, "2026-03")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.CalculateRoyalty(context.Background(), 7, 1_000_000, "March 2026")
	assert.Error(t, err)
}

func TestRoyaltyAmountRounding(t *testing.T) {
	cases := []struct {
		revenueCents int64
		rate         float64
		want         int64
	}{
		{1_000_000, 4.0, 40_000},
		{333_333, 4.0, 13_333}, // 13333.32 rounds down
		{333_340, 4.0, 13_334}, // 13333.60 rounds up
		{1, 4.0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, royaltyAmountCents(c.revenueCents, c.rate),
			"revenue=%d rate=%v", c.revenueCents, c.rate)
	}
}
