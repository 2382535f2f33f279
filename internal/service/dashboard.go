package service

import (
	"context"

	"franchise-backend/internal/domain"
	"franchise-backend/internal/logger"
	"franchise-backend/internal/repository"
)

type dashboardService struct {
	repos *repository.Repositories
}

func NewDashboardService(repos *repository.Repositories) DashboardService {
	return &dashboardService{repos: repos}
}

func (s *dashboardService) GetDashboard(ctx context.Context, franchiseeID int32) (*domain.Dashboard, error) {
	logger.EnterMethod("dashboardService.GetDashboard", "franchisee_id", franchiseeID)

	account, err := s.repos.Accounts.GetByFranchisee(ctx, franchiseeID)
	if err != nil {
		logger.ExitMethodWithError("dashboardService.GetDashboard", err, "franchisee_id", franchiseeID)
		return nil, domain.ErrAccountNotFound
	}

	dashboard := &domain.Dashboard{Account: account}

	// Population beyond the account is best effort: a fresh franchisee may
	// have no contract yet.
	if contract, err := s.repos.Contracts.GetByFranchisee(ctx, franchiseeID); err == nil {
		dashboard.Contract = contract
	}
	if movements, _, err := s.repos.Accounts.ListMovements(ctx, account.ID, 1, 10); err == nil {
		dashboard.RecentMovements = movements
	}
	if pending, count, err := s.repos.Transactions.ListByFranchisee(ctx, franchiseeID, domain.TransactionStatusPending, 1, 10); err == nil {
		dashboard.PendingTransactions = pending
		dashboard.OpenTransactionCount = count
	}
	if sent, err := s.repos.Schedules.ListByFranchisee(ctx, franchiseeID, domain.ScheduleStatusSent); err == nil {
		dashboard.UpcomingSchedules = sent
	}
	if paid, err := s.repos.Schedules.ListByFranchisee(ctx, franchiseeID, domain.ScheduleStatusPaid); err == nil {
		dashboard.PaidScheduleCount = int32(len(paid))
	}

	logger.ExitMethod("dashboardService.GetDashboard", "franchisee_id", franchiseeID)
	return dashboard, nil
}
