package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// ParityDiff compares the JSON field set of a request struct against the
// rule names a validator declares, in both directions. A schema must
// enumerate exactly the field set of its data contract; this check replaces
// the structural-typing trick the wire contract relies on elsewhere. Each
// request schema gets a test asserting an empty diff, so adding a field to
// a type without a rule (or the reverse) fails the build's test run.
func ParityDiff(typ reflect.Type, rules []string) []string {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return []string{fmt.Sprintf("parity: %s is not a struct", typ)}
	}

	fields := map[string]struct{}{}
	collectJSONFields(typ, fields)

	ruleSet := map[string]struct{}{}
	for _, r := range rules {
		ruleSet[r] = struct{}{}
	}

	var diff []string
	for f := range fields {
		if _, ok := ruleSet[f]; !ok {
			diff = append(diff, fmt.Sprintf("field %q has no validation rule", f))
		}
	}
	for r := range ruleSet {
		if _, ok := fields[r]; !ok {
			diff = append(diff, fmt.Sprintf("rule %q names no field", r))
		}
	}
	return diff
}

func collectJSONFields(typ reflect.Type, out map[string]struct{}) {
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "-" {
			continue
		}
		if f.Anonymous && tag == "" {
			embedded := f.Type
			for embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				collectJSONFields(embedded, out)
				continue
			}
		}
		if tag == "" {
			tag = f.Name
		}
		out[tag] = struct{}{}
	}
}
