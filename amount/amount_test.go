package amount_test

import (
	"testing"

	"github.com/cassiomorais/gopay/amount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_TwoDecimal(t *testing.T) {
	assert.Equal(t, "50.00 SAR", amount.Format(5000, "SAR"))
	assert.Equal(t, "100.50 USD", amount.Format(10050, "USD"))
	assert.Equal(t, "0.01 EUR", amount.Format(1, "EUR"))
}

func TestFormat_ZeroDecimal(t *testing.T) {
	assert.Equal(t, "1000 JPY", amount.Format(1000, "JPY"))
	assert.Equal(t, "5 KRW", amount.Format(5, "KRW"))
}

func TestFormat_ThreeDecimal(t *testing.T) {
	assert.Equal(t, "1.000 KWD", amount.Format(1000, "KWD"))
	assert.Equal(t, "12.345 BHD", amount.Format(12345, "BHD"))
}

func TestFormat_UnknownCurrencyFallsBackToCents(t *testing.T) {
	assert.Equal(t, "50.00 XXX", amount.Format(5000, "XXX"))
}

func TestFormat_LowercaseCurrencyNormalized(t *testing.T) {
	assert.Equal(t, "50.00 SAR", amount.Format(5000, "sar"))
}

func TestParse(t *testing.T) {
	got, err := amount.Parse("50.00 SAR", "SAR")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), got)

	got, err = amount.Parse("1000 JPY", "JPY")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got)

	got, err = amount.Parse("1.000 KWD", "KWD")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got)
}

func TestParse_StripsNonNumeric(t *testing.T) {
	got, err := amount.Parse("SAR 1,234.56", "SAR")
	require.NoError(t, err)
	assert.Equal(t, int64(123456), got)
}

func TestParse_NoDigits(t *testing.T) {
	_, err := amount.Parse("no amount here", "SAR")
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	currencies := []string{"SAR", "USD", "JPY", "KWD", "KRW", "BHD", "XYZ"}
	amounts := []int64{1, 2, 99, 100, 101, 999, 1000, 1001, 5000, 123456789}

	for _, c := range currencies {
		for _, a := range amounts {
			got, err := amount.Parse(amount.Format(a, c), c)
			require.NoError(t, err)
			assert.Equal(t, a, got, "round trip failed for %d %s", a, c)
		}
	}
}

func TestDivisor(t *testing.T) {
	assert.Equal(t, int64(1000), amount.Divisor("KWD"))
	assert.Equal(t, int64(1), amount.Divisor("jpy"))
	assert.Equal(t, int64(100), amount.Divisor("SAR"))
	assert.Equal(t, int64(100), amount.Divisor("UNKNOWN"))
}
