package payment_test

import (
	"encoding/json"
	"testing"

	"github.com/cassiomorais/gopay/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCard() payment.CreditCardRequest {
	return payment.CreditCardRequest{
		Name:   "Jane Customer",
		Number: "4111111111111111",
		CVC:    "123",
		Month:  12,
		Year:   2030,
	}
}

func TestCreateRequest_Valid(t *testing.T) {
	req := payment.CreateRequest{
		Amount:   5000,
		Currency: "SAR",
		Source:   validCard(),
	}
	res := req.Validate()
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestCreateRequest_CollectsAllErrors(t *testing.T) {
	req := payment.CreateRequest{
		Amount:   0,
		Currency: "XBT",
		Source:   payment.STCPayRequest{},
	}
	res := req.Validate()
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 3)
	assert.Contains(t, res.Errors[0], "amount:")
	assert.Contains(t, res.Errors[1], "currency:")
	assert.Contains(t, res.Errors[2], "source.mobile:")
}

func TestCreateRequest_MissingSource(t *testing.T) {
	req := payment.CreateRequest{Amount: 100, Currency: "USD"}
	res := req.Validate()
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, "source: is required")
}

func TestCreateRequest_CardVariantFields(t *testing.T) {
	card := validCard()
	card.Month = 13
	req := payment.CreateRequest{Amount: 100, Currency: "USD", Source: card}
	res := req.Validate()
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "source.month:")
}

func TestCreateRequest_WalletVariantRequiresToken(t *testing.T) {
	for _, src := range []payment.SourceRequest{
		payment.ApplePayRequest{},
		payment.GooglePayRequest{},
		payment.SamsungPayRequest{},
		payment.TokenRequest{},
	} {
		req := payment.CreateRequest{Amount: 100, Currency: "USD", Source: src}
		res := req.Validate()
		assert.False(t, res.Valid, "source %s", src.SourceType())
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "source.token:")
	}
}

func TestCreateRequest_MarshalInjectsSourceType(t *testing.T) {
	req := payment.CreateRequest{
		Amount:   5000,
		Currency: "SAR",
		Source:   payment.STCPayRequest{Mobile: "0551234567"},
	}
	b, err := json.Marshal(req)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &doc))

	var src map[string]string
	require.NoError(t, json.Unmarshal(doc["source"], &src))
	assert.Equal(t, "stcpay", src["type"])
	assert.Equal(t, "0551234567", src["mobile"])
}

func TestRefundRequest_NegativeAmount(t *testing.T) {
	res := payment.RefundRequest{Amount: -1}.Validate()
	assert.False(t, res.Valid)
}

func TestUpdateRequest_RequiresSomething(t *testing.T) {
	res := payment.UpdateRequest{}.Validate()
	assert.False(t, res.Valid)

	res = payment.UpdateRequest{Description: "order 42"}.Validate()
	assert.True(t, res.Valid)
}
