package domain

import "time"

type TransactionType string

const (
	TransactionTypeEntryFee       TransactionType = "ENTRY_FEE"
	TransactionTypeMonthlyRoyalty TransactionType = "MONTHLY_ROYALTY"
	TransactionTypeStockPurchase  TransactionType = "STOCK_PURCHASE"
	TransactionTypePenalty        TransactionType = "PENALTY"
)

// ReferencePrefix returns the human-readable prefix used when allocating
// transaction references.
func (t TransactionType) ReferencePrefix() string {
	switch t {
	case TransactionTypeEntryFee:
		return "FEE"
	case TransactionTypeMonthlyRoyalty:
		return "ROY"
	case TransactionTypeStockPurchase:
		return "STK"
	case TransactionTypePenalty:
		return "PEN"
	}
	return "TXN"
}

type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusProcessing TransactionStatus = "PROCESSING"
	TransactionStatusCompleted  TransactionStatus = "COMPLETED"
	TransactionStatusCancelled  TransactionStatus = "CANCELLED"
	TransactionStatusFailed     TransactionStatus = "FAILED"
)

// IsTerminal reports whether no further transition is allowed.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusCancelled, TransactionStatusFailed:
		return true
	}
	return false
}

// CanTransitionTo encodes the registry state machine:
// pending -> processing -> completed|failed, pending/processing -> cancelled.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	switch s {
	case TransactionStatusPending:
		return next == TransactionStatusProcessing || next == TransactionStatusCancelled ||
			next == TransactionStatusCompleted || next == TransactionStatusFailed
	case TransactionStatusProcessing:
		return next == TransactionStatusCompleted || next == TransactionStatusFailed ||
			next == TransactionStatusCancelled
	}
	return false
}

// TransactionMetadata is the typed per-transaction payload. RawProviderPayload
// archives the provider's webhook body verbatim; everything the state machine
// acts on is a named field.
type TransactionMetadata struct {
	DeclaredRevenueCents int64      `json:"declared_revenue_cents,omitempty"`
	RoyaltyRate          float64    `json:"royalty_rate,omitempty"`
	Period               string     `json:"period,omitempty"` // 'YYYY-MM'
	ScheduleID           int32      `json:"schedule_id,omitempty"`
	CancelledBy          int32      `json:"cancelled_by,omitempty"`
	CancelledAt          *time.Time `json:"cancelled_at,omitempty"`
	RawProviderPayload   string     `json:"raw_provider_payload,omitempty"`
}

// Transaction is a single payment obligation moving through the registry
// state machine. ProviderIntentID is set when the gateway creates an intent
// and is the webhook lookup key (unique).
type Transaction struct {
	ID               int32               `json:"id"`
	Reference        string              `json:"reference"`
	Type             TransactionType     `json:"type"`
	FranchiseeID     int32               `json:"franchisee_id"`
	ContractID       *int32              `json:"contract_id,omitempty"`
	AmountCents      int64               `json:"amount_cents"`
	Currency         string              `json:"currency"`
	Status           TransactionStatus   `json:"status"`
	DueDate          time.Time           `json:"due_date"`
	ProviderIntentID *string             `json:"provider_intent_id,omitempty"`
	Metadata         TransactionMetadata `json:"metadata"`
	CompletedAt      *time.Time          `json:"completed_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}
