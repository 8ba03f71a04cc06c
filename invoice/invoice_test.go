package invoice_test

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/cassiomorais/gopay/apierror"
	"github.com/cassiomorais/gopay/invoice"
	"github.com/cassiomorais/gopay/metadata"
	"github.com/cassiomorais/gopay/payment"
	"github.com/cassiomorais/gopay/transport"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invoiceJSON = `{
	"id": "inv_01",
	"status": "initiated",
	"amount": 7500,
	"currency": "SAR",
	"description": "consulting services",
	"amount_format": "75.00 SAR",
	"url": "https://gateway.example/invoices/inv_01",
	"created_at": "2026-08-01T10:00:00Z",
	"updated_at": "2026-08-01T10:00:00Z",
	"metadata": {"project": "alpha"}
}`

func TestDecode(t *testing.T) {
	inv, err := invoice.Decode([]byte(invoiceJSON), metadata.Identity())
	require.NoError(t, err)
	assert.Equal(t, "inv_01", inv.ID)
	assert.Equal(t, invoice.StatusInitiated, inv.Status)
	assert.Equal(t, int64(7500), inv.Amount)
	assert.Equal(t, "75.00 SAR", inv.AmountFormat)
	assert.Equal(t, map[string]string{"project": "alpha"}, inv.Metadata)
}

func TestDecode_UnknownStatus(t *testing.T) {
	_, err := invoice.Decode([]byte(`{"id":"inv_1","status":"archived","amount":1}`), metadata.Identity())
	var parseErr *apierror.ResponseParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestDecodeDetailed_ReferencesPayments(t *testing.T) {
	doc := `{
		"id": "inv_02", "status": "paid", "amount": 5000, "currency": "SAR",
		"created_at": "2026-08-01T10:00:00Z", "updated_at": "2026-08-01T10:05:00Z",
		"payments": [
			{"id": "pay_77", "status": "paid", "amount": 5000, "captured": 5000, "currency": "SAR"}
		]
	}`
	inv, err := invoice.DecodeDetailed([]byte(doc), metadata.Identity())
	require.NoError(t, err)
	require.Len(t, inv.Payments, 1)
	assert.Equal(t, "pay_77", inv.Payments[0].ID)
	assert.Equal(t, payment.StatusPaid, inv.Payments[0].Status)
	assert.True(t, inv.Payments[0].CanRefund())
}

func TestCreateRequest_Validate(t *testing.T) {
	res := invoice.CreateRequest{Amount: 7500, Currency: "SAR", Description: "ok"}.Validate()
	assert.True(t, res.Valid)

	res = invoice.CreateRequest{Amount: 0, Currency: "XBT"}.Validate()
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 3)
}

func TestValidateBulk_IndexesErrors(t *testing.T) {
	reqs := []invoice.CreateRequest{
		{Amount: 7500, Currency: "SAR", Description: "fine"},
		{Amount: 0, Currency: "SAR", Description: "broken"},
	}
	res := invoice.ValidateBulk(reqs)
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Invoice 2: amount:")
}

func TestValidateBulk_Empty(t *testing.T) {
	res := invoice.ValidateBulk(nil)
	assert.False(t, res.Valid)
}

type capturedRequest struct {
	method string
	path   string
	body   any
}

func fakeTransport(response string, captured *capturedRequest) transport.Transport {
	return transport.Func(func(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
		if captured != nil {
			*captured = capturedRequest{method: method, path: path, body: body}
		}
		return json.RawMessage(response), nil
	})
}

func newService(t transport.Transport) *invoice.Service[map[string]string] {
	return invoice.NewService(t, metadata.Identity(), zerolog.Nop())
}

func TestService_Create(t *testing.T) {
	var captured capturedRequest
	svc := newService(fakeTransport(invoiceJSON, &captured))

	inv, err := svc.Create(context.Background(), invoice.CreateRequest{
		Amount: 7500, Currency: "sar", Description: "consulting services",
	})
	require.NoError(t, err)
	assert.Equal(t, "inv_01", inv.ID)
	assert.Equal(t, "POST", captured.method)
	assert.Equal(t, "/v1/invoices", captured.path)

	sent := captured.body.(invoice.CreateRequest)
	assert.Equal(t, "SAR", sent.Currency)
}

func TestService_CreateBulk(t *testing.T) {
	var captured capturedRequest
	svc := newService(fakeTransport(`{"invoices":[`+invoiceJSON+`]}`, &captured))

	out, err := svc.CreateBulk(context.Background(), []invoice.CreateRequest{
		{Amount: 7500, Currency: "SAR", Description: "one"},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "/v1/invoices/bulk", captured.path)
}

func TestService_CreateBulk_InvalidElementNeverSends(t *testing.T) {
	called := false
	svc := newService(transport.Func(func(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
		called = true
		return nil, nil
	}))

	_, err := svc.CreateBulk(context.Background(), []invoice.CreateRequest{
		{Amount: 7500, Currency: "SAR", Description: "fine"},
		{Amount: -1, Currency: "SAR", Description: "broken"},
	})
	require.Error(t, err)
	assert.False(t, called)

	var validationErr *apierror.RequestValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 1)
	assert.Contains(t, validationErr.Errors[0], "Invoice 2: ")
}

func TestService_FetchAndCancel(t *testing.T) {
	var captured capturedRequest
	svc := newService(fakeTransport(invoiceJSON, &captured))

	_, err := svc.Fetch(context.Background(), "inv_01")
	require.NoError(t, err)
	assert.Equal(t, "/v1/invoices/inv_01", captured.path)

	_, err = svc.Cancel(context.Background(), "inv_01")
	require.NoError(t, err)
	assert.Equal(t, "PUT", captured.method)
	assert.Equal(t, "/v1/invoices/inv_01/cancel", captured.path)
}
