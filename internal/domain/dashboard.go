package domain

// Dashboard aggregates a franchisee's financial position for the UI.
type Dashboard struct {
	Account              *Account          `json:"account"`
	Contract             *Contract         `json:"contract,omitempty"`
	RecentMovements      []Movement        `json:"recent_movements"`
	PendingTransactions  []Transaction     `json:"pending_transactions"`
	UpcomingSchedules    []PaymentSchedule `json:"upcoming_schedules"`
	OpenTransactionCount int32             `json:"open_transaction_count"`
	PaidScheduleCount    int32             `json:"paid_schedule_count"`
}
