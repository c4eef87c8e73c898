package payscribe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader carries the hex HMAC of the raw request body on every
// Payscribe deposit webhook.
const SignatureHeader = "X-Payscribe-Signature"

// DepositWebhook is the funding notification body. Verification happens on
// the raw bytes before this is decoded.
type DepositWebhook struct {
	Reference string `json:"reference"`
	Amount    string `json:"amount"`
	WalletID  string `json:"wallet_id"`
	Timestamp string `json:"timestamp"`
}

// WebhookVerifier checks webhook authenticity with a shared secret. The
// secret is injected so the verifier stays testable in isolation.
type WebhookVerifier struct {
	secret []byte
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// Verify computes HMAC-SHA256 over the exact raw payload bytes and compares
// against the received hex signature in constant time. It must run before
// any JSON decoding: a re-serialized object is not guaranteed byte-identical
// to what the provider signed.
func (v *WebhookVerifier) Verify(payload []byte, receivedSignature string) bool {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	expected := mac.Sum(nil)

	received, err := hex.DecodeString(receivedSignature)
	if err != nil {
		return false
	}

	return hmac.Equal(expected, received)
}

// Sign returns the hex signature for a payload, used by tests and by
// outbound callbacks.
func (v *WebhookVerifier) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
