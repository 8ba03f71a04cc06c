package payment

import (
	"encoding/json"
	"fmt"
)

// SourceType is the discriminator of the payment source union.
type SourceType string

const (
	SourceCreditCard SourceType = "creditcard"
	SourceApplePay   SourceType = "applepay"
	SourceGooglePay  SourceType = "googlepay"
	SourceSamsungPay SourceType = "samsungpay"
	SourceSTCPay     SourceType = "stcpay"
	SourceToken      SourceType = "token"
)

// SourceTypes returns every defined source type.
func SourceTypes() []SourceType {
	return []SourceType{
		SourceCreditCard, SourceApplePay, SourceGooglePay,
		SourceSamsungPay, SourceSTCPay, SourceToken,
	}
}

// Valid reports whether t is a defined source type.
func (t SourceType) Valid() bool {
	switch t {
	case SourceCreditCard, SourceApplePay, SourceGooglePay,
		SourceSamsungPay, SourceSTCPay, SourceToken:
		return true
	}
	return false
}

// Source is the response-side payment source union. The concrete variant is
// selected by the wire document's "type" discriminator.
type Source interface {
	SourceType() SourceType
}

// CreditCardSource is the card variant as returned by the gateway: the
// number is masked and the card may carry a reusable token.
type CreditCardSource struct {
	Company         string `json:"company"`
	Name            string `json:"name"`
	Number          string `json:"number"`
	GatewayID       string `json:"gateway_id"`
	ReferenceNumber string `json:"reference_number"`
	Token           string `json:"token"`
	Message         string `json:"message"`
	TransactionURL  string `json:"transaction_url"`
}

func (CreditCardSource) SourceType() SourceType { return SourceCreditCard }

// WalletSource carries the fields shared by the device-wallet variants.
type WalletSource struct {
	Company        string `json:"company"`
	Name           string `json:"name"`
	Number         string `json:"number"`
	GatewayID      string `json:"gateway_id"`
	Message        string `json:"message"`
	TransactionURL string `json:"transaction_url"`
}

type ApplePaySource struct{ WalletSource }

func (ApplePaySource) SourceType() SourceType { return SourceApplePay }

type GooglePaySource struct{ WalletSource }

func (GooglePaySource) SourceType() SourceType { return SourceGooglePay }

type SamsungPaySource struct{ WalletSource }

func (SamsungPaySource) SourceType() SourceType { return SourceSamsungPay }

type STCPaySource struct {
	Mobile          string `json:"mobile"`
	ReferenceNumber string `json:"reference_number"`
	Branch          string `json:"branch"`
	CashierID       string `json:"cashier_id"`
	Message         string `json:"message"`
	TransactionURL  string `json:"transaction_url"`
}

func (STCPaySource) SourceType() SourceType { return SourceSTCPay }

type TokenSource struct {
	Token          string `json:"token"`
	Message        string `json:"message"`
	TransactionURL string `json:"transaction_url"`
}

func (TokenSource) SourceType() SourceType { return SourceToken }

// decodeSource selects the union variant by the "type" discriminator and
// then decodes the remaining fields into it.
func decodeSource(raw json.RawMessage) (Source, error) {
	var tag struct {
		Type SourceType `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	var (
		src Source
		err error
	)
	switch tag.Type {
	case SourceCreditCard:
		var s CreditCardSource
		err = json.Unmarshal(raw, &s)
		src = s
	case SourceApplePay:
		var s ApplePaySource
		err = json.Unmarshal(raw, &s)
		src = s
	case SourceGooglePay:
		var s GooglePaySource
		err = json.Unmarshal(raw, &s)
		src = s
	case SourceSamsungPay:
		var s SamsungPaySource
		err = json.Unmarshal(raw, &s)
		src = s
	case SourceSTCPay:
		var s STCPaySource
		err = json.Unmarshal(raw, &s)
		src = s
	case SourceToken:
		var s TokenSource
		err = json.Unmarshal(raw, &s)
		src = s
	default:
		return nil, fmt.Errorf("source.type: unknown payment source type %q", tag.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("source (%s): %w", tag.Type, err)
	}
	return src, nil
}
