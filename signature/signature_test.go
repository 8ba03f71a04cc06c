package signature_test

import (
	"testing"

	"github.com/cassiomorais/gopay/signature"
	"github.com/stretchr/testify/assert"
)

func TestSignAndVerify(t *testing.T) {
	secret := []byte("s3cret")
	payload := []byte(`{"id":"evt_01"}`)

	sig := signature.Sign(secret, payload)
	assert.Len(t, sig, 64)
	assert.True(t, signature.Verify(secret, payload, sig))
}

func TestVerify_WrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_01"}`)
	sig := signature.Sign([]byte("s3cret"), payload)
	assert.False(t, signature.Verify([]byte("other"), payload, sig))
}

func TestVerify_TamperedPayload(t *testing.T) {
	secret := []byte("s3cret")
	sig := signature.Sign(secret, []byte(`{"amount":100}`))
	assert.False(t, signature.Verify(secret, []byte(`{"amount":999}`), sig))
}

func TestVerify_EmptySecretOrSignature(t *testing.T) {
	payload := []byte("x")
	assert.False(t, signature.Verify(nil, payload, signature.Sign([]byte("s"), payload)))
	assert.False(t, signature.Verify([]byte("s"), payload, ""))
}

func TestVerify_NonHexSignature(t *testing.T) {
	assert.False(t, signature.Verify([]byte("s"), []byte("x"), "not-hex!"))
}
