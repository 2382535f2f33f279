package domain

import "time"

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusClosed    AccountStatus = "CLOSED"
)

// Account is a franchisee's ledger account. BalanceCents is never written
// directly; it only moves through movement posting so that it always equals
// the signed sum of the account's movements.
type Account struct {
	ID                      int32         `json:"id"`
	FranchiseeID            int32         `json:"franchisee_id"`
	BalanceCents            int64         `json:"balance_cents"`
	AvailableCreditCents    int64         `json:"available_credit_cents"`
	CreditLimitCents        int64         `json:"credit_limit_cents"`
	TotalRoyaltiesPaidCents int64         `json:"total_royalties_paid_cents"`
	Status                  AccountStatus `json:"status"`
	CreatedAt               time.Time     `json:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at"`
}

type MovementDirection string

const (
	MovementDebit  MovementDirection = "DEBIT"
	MovementCredit MovementDirection = "CREDIT"
)

// Movement is an immutable, append-only ledger entry. Corrections are made
// by posting an offsetting movement, never by editing.
type Movement struct {
	ID            int32             `json:"id"`
	AccountID     int32             `json:"account_id"`
	Direction     MovementDirection `json:"direction"`
	AmountCents   int64             `json:"amount_cents"` // always positive
	Reason        string            `json:"reason"`
	TransactionID *int32            `json:"transaction_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// SignedAmountCents returns the movement's contribution to the balance.
func (m *Movement) SignedAmountCents() int64 {
	if m.Direction == MovementDebit {
		return -m.AmountCents
	}
	return m.AmountCents
}
