package payscribe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyAcceptsOwnSignature(t *testing.T) {
	v := NewWebhookVerifier("top-secret")
	payload := []byte(`{"reference":"DEP-ABC123","amount":"5000.00","wallet_id":"NEXA0000000001"}`)

	assert.True(t, v.Verify(payload, v.Sign(payload)))
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	v := NewWebhookVerifier("top-secret")
	payload := []byte(`{"reference":"DEP-ABC123","amount":"5000.00"}`)
	signature := v.Sign(payload)

	// a single flipped byte must invalidate the signature
	tampered := append([]byte(nil), payload...)
	tampered[len(tampered)-3] = '9'

	assert.False(t, v.Verify(tampered, signature))
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	payload := []byte(`{"reference":"DEP-ABC123"}`)
	forged := NewWebhookVerifier("attacker-guess").Sign(payload)

	v := NewWebhookVerifier("top-secret")
	assert.False(t, v.Verify(payload, forged))
}

func TestVerifyRejectsMalformedSignature(t *testing.T) {
	v := NewWebhookVerifier("top-secret")
	payload := []byte(`{}`)

	assert.False(t, v.Verify(payload, ""))
	assert.False(t, v.Verify(payload, "not-hex-at-all"))
	assert.False(t, v.Verify(payload, "deadbeef"))
}
