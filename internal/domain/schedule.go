package domain

import "time"

type ScheduleStatus string

const (
	ScheduleStatusPending ScheduleStatus = "PENDING"
	ScheduleStatusSent    ScheduleStatus = "SENT"
	ScheduleStatusPaid    ScheduleStatus = "PAID"
)

// PaymentSchedule is a planned future royalty obligation. Twelve rows are
// created per contract at onboarding; the amount stays zero until revenue is
// declared for the period. TransactionID links the royalty transaction that
// paid the row.
type PaymentSchedule struct {
	ID            int32          `json:"id"`
	ContractID    int32          `json:"contract_id"`
	FranchiseeID  int32          `json:"franchisee_id"`
	PeriodStart   time.Time      `json:"period_start"`
	PeriodEnd     time.Time      `json:"period_end"`
	DueDate       time.Time      `json:"due_date"`
	AmountCents   int64          `json:"amount_cents"`
	Status        ScheduleStatus `json:"status"`
	TransactionID *int32         `json:"transaction_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Period returns the revenue period in 'YYYY-MM' form.
func (s *PaymentSchedule) Period() string {
	return s.PeriodStart.Format("2006-01")
}
