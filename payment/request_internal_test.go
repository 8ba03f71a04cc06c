package payment

import (
	"reflect"
	"testing"

	"github.com/cassiomorais/gopay/schema"
	"github.com/stretchr/testify/assert"
)

// Every request schema must enumerate exactly the field set of its wire
// contract; these tests fail when a field and its rule list drift apart.

func TestCreateRequest_SchemaParity(t *testing.T) {
	assert.Empty(t, schema.ParityDiff(reflect.TypeOf(CreateRequest{}), createRequestRules))
}

func TestRefundRequest_SchemaParity(t *testing.T) {
	assert.Empty(t, schema.ParityDiff(reflect.TypeOf(RefundRequest{}), refundRequestRules))
}

func TestCaptureRequest_SchemaParity(t *testing.T) {
	assert.Empty(t, schema.ParityDiff(reflect.TypeOf(CaptureRequest{}), captureRequestRules))
}

func TestUpdateRequest_SchemaParity(t *testing.T) {
	assert.Empty(t, schema.ParityDiff(reflect.TypeOf(UpdateRequest{}), updateRequestRules))
}
