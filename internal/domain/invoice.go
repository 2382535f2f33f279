package domain

import "time"

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

// Invoice is a billing document derived from a settled transaction. Numbers
// are sequential within a calendar month: FAC-YYYYMM-NNN.
type Invoice struct {
	ID            int32         `json:"id"`
	Number        string        `json:"number"`
	TransactionID int32         `json:"transaction_id"`
	FranchiseeID  int32         `json:"franchisee_id"`
	AmountHTCents int64         `json:"amount_ht_cents"`
	VATCents      int64         `json:"vat_cents"`
	AmountTTCents int64         `json:"amount_ttc_cents"`
	VATRate       float64       `json:"vat_rate"`
	Status        InvoiceStatus `json:"status"`
	IssueDate     time.Time     `json:"issue_date"`
	DueDate       time.Time     `json:"due_date"`
	SentAt        *time.Time    `json:"sent_at,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	DocumentPath  string        `json:"document_path,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
