package schema_test

import (
	"reflect"
	"testing"

	"github.com/cassiomorais/gopay/schema"
	"github.com/stretchr/testify/assert"
)

func TestResult_Errf(t *testing.T) {
	r := schema.OK()
	assert.True(t, r.Valid)

	r.Errf("amount", "must be at least %d", 1)
	assert.False(t, r.Valid)
	assert.Equal(t, []string{"amount: must be at least 1"}, r.Errors)
}

func TestResult_Merge(t *testing.T) {
	inner := schema.Fail("amount: too small")
	outer := schema.OK()
	outer.Merge("Invoice 2: ", inner)

	assert.False(t, outer.Valid)
	assert.Equal(t, []string{"Invoice 2: amount: too small"}, outer.Errors)
}

func TestResult_MergeValidIsNoop(t *testing.T) {
	outer := schema.OK()
	outer.Merge("Invoice 1: ", schema.OK())
	assert.True(t, outer.Valid)
	assert.Empty(t, outer.Errors)
}

func TestNormalizeCurrency(t *testing.T) {
	got, ok := schema.NormalizeCurrency("sar")
	assert.True(t, ok)
	assert.Equal(t, "SAR", got)

	got, ok = schema.NormalizeCurrency(" Usd ")
	assert.True(t, ok)
	assert.Equal(t, "USD", got)

	_, ok = schema.NormalizeCurrency("XBT")
	assert.False(t, ok)
}

func TestValidateAmount(t *testing.T) {
	assert.Nil(t, schema.ValidateAmount("amount", 1))
	assert.Nil(t, schema.ValidateAmount("amount", 5000))

	errs := schema.ValidateAmount("amount", 0)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "amount:")

	assert.NotEmpty(t, schema.ValidateAmount("amount", -100))
}

type sampleRequest struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"min=1"`
}

func TestCheckStruct_ReportsJSONNames(t *testing.T) {
	errs := schema.CheckStruct(sampleRequest{})
	assert.Len(t, errs, 2)
	assert.Contains(t, errs[0], "name:")
	assert.Contains(t, errs[1], "count:")
}

func TestCheckStruct_Valid(t *testing.T) {
	assert.Nil(t, schema.CheckStruct(sampleRequest{Name: "x", Count: 1}))
}

func TestParityDiff_Complete(t *testing.T) {
	diff := schema.ParityDiff(reflect.TypeOf(sampleRequest{}), []string{"name", "count"})
	assert.Empty(t, diff)
}

func TestParityDiff_MissingRule(t *testing.T) {
	diff := schema.ParityDiff(reflect.TypeOf(sampleRequest{}), []string{"name"})
	assert.Len(t, diff, 1)
	assert.Contains(t, diff[0], `field "count" has no validation rule`)
}

func TestParityDiff_ExtraRule(t *testing.T) {
	diff := schema.ParityDiff(reflect.TypeOf(sampleRequest{}), []string{"name", "count", "ghost"})
	assert.Len(t, diff, 1)
	assert.Contains(t, diff[0], `rule "ghost" names no field`)
}

func TestParityDiff_Pointer(t *testing.T) {
	diff := schema.ParityDiff(reflect.TypeOf(&sampleRequest{}), []string{"name", "count"})
	assert.Empty(t, diff)
}
