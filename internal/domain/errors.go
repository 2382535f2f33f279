package domain

import "errors"

var (
	ErrInvalidAmount          = errors.New("amount must be a positive number of cents")
	ErrEmptyReason            = errors.New("movement reason must not be empty")
	ErrInvalidStateTransition = errors.New("transition not allowed from current state")
	ErrAccountNotFound        = errors.New("account not found")
	ErrNoActiveContract       = errors.New("no active contract for franchisee")
	ErrNotAFranchisee         = errors.New("user is not a franchisee")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrProviderUnavailable    = errors.New("payment provider unavailable")
	ErrConcurrencyConflict    = errors.New("concurrent update conflict, retry the operation")
	ErrAlreadyInvoiced        = errors.New("transaction already has an invoice")
	ErrContractExists         = errors.New("franchisee already has a contract")
	ErrScheduleExists         = errors.New("royalty schedules already planned for contract")
)

// IsRetryable reports whether the caller should retry the operation later
// rather than treat it as a permanent failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrConcurrencyConflict)
}
