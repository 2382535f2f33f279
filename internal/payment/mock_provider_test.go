package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockProviderWebhookRoundTrip(t *testing.T) {
	p := NewMockProvider("test-webhook-secret")

	body := []byte(`{"intent_id":"pi_mock_abc","outcome":"succeeded","payment_method_id":"pm_1"}`)
	event, err := p.VerifyAndParseWebhook(body, p.Sign(body))

	assert.NoError(t, err)
	assert.Equal(t, "pi_mock_abc", event.IntentID)
	assert.Equal(t, OutcomeSucceeded, event.Outcome)
	assert.Equal(t, "pm_1", event.PaymentMethodID)
	assert.Equal(t, string(body), event.RawPayload)
}

func TestMockProviderRejectsBadSignature(t *testing.T) {
	p := NewMockProvider("test-webhook-secret")
	other := NewMockProvider("another-secret")

	body := []byte(`{"intent_id":"pi_mock_abc","outcome":"succeeded"}`)

	_, err := p.VerifyAndParseWebhook(body, other.Sign(body))
	assert.Error(t, err)

	_, err = p.VerifyAndParseWebhook(body, "")
	assert.Error(t, err)
}

func TestMockProviderRejectsMalformedPayload(t *testing.T) {
	p := NewMockProvider("test-webhook-secret")

	body := []byte(`not json`)
	_, err := p.VerifyAndParseWebhook(body, p.Sign(body))
	assert.Error(t, err)

	body = []byte(`{"outcome":"succeeded"}`)
	_, err = p.VerifyAndParseWebhook(body, p.Sign(body))
	assert.Error(t, err)
}

func TestMockProviderCreatesDistinctIntents(t *testing.T) {
	p := NewMockProvider("test-webhook-secret")

	a, err := p.CreatePaymentIntent(context.Background(), 5_000_000, "EUR", IntentMetadata{TransactionID: 1})
	assert.NoError(t, err)
	b, err := p.CreatePaymentIntent(context.Background(), 40_000, "EUR", IntentMetadata{TransactionID: 2})
	assert.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEmpty(t, a.ClientSecret)
	assert.Contains(t, a.ClientSecret, a.ID)
}
