package metadata_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/cassiomorais/gopay/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_PassesThrough(t *testing.T) {
	raw := map[string]string{"order_id": "42"}

	got, err := metadata.Identity().Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestIdentity_NilBecomesEmpty(t *testing.T) {
	got, err := metadata.Identity().Parse(nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

type orderMeta struct {
	OrderID string
}

func TestFunc_TypedParsing(t *testing.T) {
	parser := metadata.Func[orderMeta](func(raw map[string]string) (orderMeta, error) {
		id, ok := raw["order_id"]
		if !ok {
			return orderMeta{}, errors.New("order_id is required")
		}
		return orderMeta{OrderID: id}, nil
	})

	got, err := parser.Parse(map[string]string{"order_id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "42", got.OrderID)

	_, err = parser.Parse(map[string]string{})
	assert.EqualError(t, err, "order_id is required")
}

func TestCheckLimits(t *testing.T) {
	assert.Empty(t, metadata.CheckLimits(map[string]string{"order_id": "42"}))

	tooMany := make(map[string]string, metadata.MaxKeys+1)
	for i := 0; i <= metadata.MaxKeys; i++ {
		tooMany[strings.Repeat("k", i+1)] = "v"
	}
	assert.Len(t, metadata.CheckLimits(tooMany), 1)

	longKey := map[string]string{strings.Repeat("k", metadata.MaxKeyLen+1): "v"}
	violations := metadata.CheckLimits(longKey)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "key exceeds")

	longValue := map[string]string{"note": strings.Repeat("v", metadata.MaxValueLen+1)}
	violations = metadata.CheckLimits(longValue)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "value exceeds")
}
