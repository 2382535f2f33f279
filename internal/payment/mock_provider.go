package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"franchise-backend/internal/logger"
)

// MockProvider simulates the payment provider for local development and
// tests. Intents live in memory; webhooks are signed with the same HMAC
// scheme the real provider uses so the verification path is exercised.
type MockProvider struct {
	webhookSecret []byte

	mu      sync.Mutex
	intents map[string]int64 // intent id -> amount cents
}

func NewMockProvider(webhookSecret string) *MockProvider {
	return &MockProvider{
		webhookSecret: []byte(webhookSecret),
		intents:       make(map[string]int64),
	}
}

func (p *MockProvider) CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, meta IntentMetadata) (*Intent, error) {
	intentID := "pi_mock_" + uuid.NewString()
	p.mu.Lock()
	p.intents[intentID] = amountCents
	p.mu.Unlock()

	logger.Debug("Mock payment intent created",
		"intent_id", intentID,
		"amount_cents", amountCents,
		"currency", currency,
		"transaction_ref", meta.TransactionReference)

	return &Intent{
		ID:           intentID,
		ClientSecret: intentID + "_secret_" + uuid.NewString(),
	}, nil
}

type webhookPayload struct {
	IntentID        string  `json:"intent_id"`
	Outcome         Outcome `json:"outcome"`
	PaymentMethodID string  `json:"payment_method_id"`
}

func (p *MockProvider) VerifyAndParseWebhook(rawBody []byte, signatureHeader string) (*WebhookEvent, error) {
	expected := p.Sign(rawBody)
	if !hmac.Equal([]byte(expected), []byte(signatureHeader)) {
		return nil, fmt.Errorf("webhook signature mismatch")
	}

	var payload webhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return nil, fmt.Errorf("malformed webhook payload: %w", err)
	}
	if payload.IntentID == "" {
		return nil, fmt.Errorf("webhook payload missing intent id")
	}

	return &WebhookEvent{
		IntentID:        payload.IntentID,
		Outcome:         payload.Outcome,
		PaymentMethodID: payload.PaymentMethodID,
		RawPayload:      string(rawBody),
	}, nil
}

// Sign computes the signature header for a body. Exposed so tests and the
// local payment page can produce deliverable webhooks.
func (p *MockProvider) Sign(rawBody []byte) string {
	mac := hmac.New(sha256.New, p.webhookSecret)
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}
