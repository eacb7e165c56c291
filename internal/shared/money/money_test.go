package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"19.99", 1999},
		{"0.01", 1},
		{"44.50", 4450},
		{"100", 10000},
		{"0", 0},
		{"1234.56", 123456},
	}
	for _, tc := range cases {
		got, err := PriceToCents(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestPriceToCentsRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "12,50"} {
		_, err := PriceToCents(in)
		assert.Error(t, err, in)
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "19.99", FormatCents(1999))
	assert.Equal(t, "0.01", FormatCents(1))
	assert.Equal(t, "0.00", FormatCents(0))
	assert.Equal(t, "120.00", FormatCents(12000))
}

func TestRoundTrip(t *testing.T) {
	cents, err := PriceToCents("54.00")
	require.NoError(t, err)
	assert.Equal(t, "54.00", FormatCents(cents))
}

func TestAddAmounts(t *testing.T) {
	total, err := AddAmounts("19.99", "29.00", "0.01")
	require.NoError(t, err)
	assert.Equal(t, "49.00", total)

	_, err = AddAmounts("19.99", "oops")
	assert.Error(t, err)
}
