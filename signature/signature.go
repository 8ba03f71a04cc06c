// Package signature computes and verifies HMAC-SHA256 signatures over raw
// payload bytes with a constant-time comparison.
//
// The webhook ingestion pipeline does not use it: the gateway authenticates
// deliveries by echoing the shared secret inside the payload's secret_token
// field, compared with ordinary equality. That scheme transmits the secret
// in-band and compares it non-constant-time; this package is the stronger
// alternative, kept available for callers and for when the gateway starts
// signing deliveries.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the hex-encoded HMAC-SHA256 of payload under secret.
func Sign(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches payload under secret, comparing
// in constant time. An empty secret or signature never verifies.
func Verify(secret, payload []byte, signature string) bool {
	if len(secret) == 0 || signature == "" {
		return false
	}
	expected, err := hex.DecodeString(Sign(secret, payload))
	if err != nil {
		return false
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}
