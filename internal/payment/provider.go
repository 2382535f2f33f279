// Package payment wraps the external payment provider behind a narrow
// interface: create an intent, verify and parse a webhook. Signature
// verification happens here, before the core service is invoked.
package payment

import "context"

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// IntentMetadata travels with the intent for provider-side traceability.
type IntentMetadata struct {
	TransactionID        int32
	TransactionReference string
	FranchiseeID         int32
}

// Intent is the provider's handle on a payment to be confirmed client-side.
type Intent struct {
	ID           string
	ClientSecret string
}

// WebhookEvent is a verified, parsed provider notification.
type WebhookEvent struct {
	IntentID        string
	Outcome         Outcome
	PaymentMethodID string
	RawPayload      string
}

// Provider is the external payment capability.
type Provider interface {
	// CreatePaymentIntent registers a payment of amountCents with the
	// provider. Transport failures should surface to the caller unwrapped;
	// the adapter maps them to a retryable error kind.
	CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, meta IntentMetadata) (*Intent, error)

	// VerifyAndParseWebhook checks the signature header against the raw body
	// and decodes the event. An invalid signature is an error; the core never
	// sees unverified payloads.
	VerifyAndParseWebhook(rawBody []byte, signatureHeader string) (*WebhookEvent, error)
}
