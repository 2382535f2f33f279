package domain

import "time"

type ContractStatus string

const (
	ContractStatusDraft      ContractStatus = "DRAFT"
	ContractStatusActive     ContractStatus = "ACTIVE"
	ContractStatusSuspended  ContractStatus = "SUSPENDED"
	ContractStatusTerminated ContractStatus = "TERMINATED"
)

// Contract is a franchisee's agreement. One per franchisee, created during
// onboarding; SignedAt is stamped only once the entry fee settles.
type Contract struct {
	ID                 int32          `json:"id"`
	FranchiseeID       int32          `json:"franchisee_id"`
	ContractNumber     string         `json:"contract_number"`
	EntryFeeCents      int64          `json:"entry_fee_cents"`
	RoyaltyRate        float64        `json:"royalty_rate"`        // percent of declared revenue
	StockPurchaseRate  float64        `json:"stock_purchase_rate"` // percent of declared revenue
	StartDate          time.Time      `json:"start_date"`
	EndDate            time.Time      `json:"end_date"`
	Status             ContractStatus `json:"status"`
	SignedAt           *time.Time     `json:"signed_at,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// IsActive reports whether royalties can be declared against the contract.
func (c *Contract) IsActive() bool {
	return c.Status == ContractStatusActive
}
