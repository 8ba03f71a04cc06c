// Package schema provides the building blocks for request-shape validation:
// an aggregating Result, the supported currency set, the amount rule, and a
// bridge that turns go-playground/validator struct checks into the
// field-qualified messages the rest of the client reports.
package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MinAmount is the smallest accepted amount, in minor currency units.
const MinAmount = 1

// Result is the outcome of validating a request shape. Requests are
// validated to completion so callers can present every error at once.
type Result struct {
	Valid  bool
	Errors []string
}

// OK returns a valid, empty result.
func OK() Result { return Result{Valid: true} }

// Fail returns an invalid result carrying errs.
func Fail(errs ...string) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Errf appends a formatted, path-qualified error and marks the result
// invalid.
func (r *Result) Errf(path, format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, path+": "+fmt.Sprintf(format, args...))
}

// Merge folds other into r, prefixing each of its errors.
func (r *Result) Merge(prefix string, other Result) {
	if other.Valid {
		return
	}
	r.Valid = false
	for _, e := range other.Errors {
		r.Errors = append(r.Errors, prefix+e)
	}
}

// Add appends raw error messages.
func (r *Result) Add(errs ...string) {
	if len(errs) == 0 {
		return
	}
	r.Valid = false
	r.Errors = append(r.Errors, errs...)
}

// currencies is the fixed set the gateway accepts.
var currencies = map[string]struct{}{
	"SAR": {}, "USD": {}, "EUR": {}, "GBP": {}, "AED": {},
	"KWD": {}, "BHD": {}, "OMR": {}, "QAR": {}, "JPY": {},
	"EGP": {}, "TND": {}, "KRW": {},
}

// Currencies returns the supported currency codes, unordered.
func Currencies() []string {
	out := make([]string, 0, len(currencies))
	for c := range currencies {
		out = append(out, c)
	}
	return out
}

// NormalizeCurrency matches s against the supported set case-insensitively
// and returns the uppercase code on success.
func NormalizeCurrency(s string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	_, ok := currencies[upper]
	return upper, ok
}

// ValidateAmount checks that a is a positive minor-unit count.
func ValidateAmount(path string, a int64) []string {
	if a < MinAmount {
		return []string{fmt.Sprintf("%s: must be a positive integer of at least %d, got %d", path, MinAmount, a)}
	}
	return nil
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON name so messages match the wire shape.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// CheckStruct runs go-playground/validator over v and converts each
// violation into a "field: rule" message. Fields are named by JSON tag.
func CheckStruct(v any) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s validation failed", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s validation failed", fe.Field(), fe.Tag()))
		}
	}
	return msgs
}
