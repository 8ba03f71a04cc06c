// Package metadata defines the injected validator that turns the gateway's
// untyped key/value metadata bag into a caller-defined typed shape. One
// validator instance is threaded through every sub-service of a client, so
// "what does valid metadata look like" has a single point of truth.
package metadata

import "fmt"

// Documented gateway limits for metadata. The validation layer does not
// enforce them (matching upstream behavior); see CheckLimits for opt-in
// enforcement.
const (
	MaxKeys     = 30
	MaxKeyLen   = 40
	MaxValueLen = 500
)

// Validator parses raw metadata into T. Parse must be a pure function over
// its input and must return an error when raw does not conform.
type Validator[T any] interface {
	Parse(raw map[string]string) (T, error)
}

// Func adapts an ordinary function to the Validator interface.
type Func[T any] func(raw map[string]string) (T, error)

func (f Func[T]) Parse(raw map[string]string) (T, error) { return f(raw) }

// Identity returns the default validator: the raw mapping passed through
// untouched. A nil map becomes an empty one so consumers never see nil.
func Identity() Validator[map[string]string] {
	return Func[map[string]string](func(raw map[string]string) (map[string]string, error) {
		if raw == nil {
			return map[string]string{}, nil
		}
		return raw, nil
	})
}

// CheckLimits reports violations of the documented metadata size limits.
// It is not applied by Identity; callers wanting enforcement compose it
// into their own validator.
func CheckLimits(raw map[string]string) []string {
	var violations []string
	if len(raw) > MaxKeys {
		violations = append(violations, fmt.Sprintf("metadata: at most %d keys allowed, got %d", MaxKeys, len(raw)))
	}
	for k, v := range raw {
		if len(k) > MaxKeyLen {
			violations = append(violations, fmt.Sprintf("metadata.%s: key exceeds %d characters", k, MaxKeyLen))
		}
		if len(v) > MaxValueLen {
			violations = append(violations, fmt.Sprintf("metadata.%s: value exceeds %d characters", k, MaxValueLen))
		}
	}
	return violations
}
