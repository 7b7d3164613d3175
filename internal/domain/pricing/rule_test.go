package pricing

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestComputePriceLines_PercentageWithConversion(t *testing.T) {
	rule := PriceRule{
		BaseCurrency: "eur",
		Kind:         DiscountPercentage,
		Percentage:   pct(0.20),
		Conversions: []Conversion{
			{CurrencyCode: "eur", Rate: decimal.NewFromFloat(1.0)},
			{CurrencyCode: "usd", Rate: decimal.NewFromFloat(1.1)},
		},
	}

	lines := ComputePriceLines(rule, 10000)

	require.Len(t, lines, 2)
	assert.Equal(t, "eur", lines[0].CurrencyCode)
	assert.Equal(t, int64(8000), lines[0].Amount)
	assert.Equal(t, "usd", lines[1].CurrencyCode)
	assert.Equal(t, int64(8800), lines[1].Amount)
}

func TestComputePriceLines_FixedDiscount(t *testing.T) {
	tests := []struct {
		name  string
		base  int64
		fixed int64
		want  int64
	}{
		{name: "normal subtraction", base: 10000, fixed: 2000, want: 8000},
		{name: "capped at base amount", base: 1500, fixed: 2000, want: 0},
		{name: "zero discount", base: 1500, fixed: 0, want: 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := PriceRule{
				BaseCurrency: "eur",
				Kind:         DiscountFixed,
				FixedAmount:  tt.fixed,
				Conversions:  []Conversion{{CurrencyCode: "eur", Rate: decimal.NewFromInt(1)}},
			}

			lines := ComputePriceLines(rule, tt.base)

			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0].Amount)
		})
	}
}

func TestComputePriceLines_MinQuantityGate(t *testing.T) {
	rule := PriceRule{
		BaseCurrency: "eur",
		Kind:         DiscountPercentage,
		Percentage:   pct(0.20),
		MinQuantity:  5,
		Conversions:  []Conversion{{CurrencyCode: "eur", Rate: decimal.NewFromInt(1)}},
	}

	lines := ComputePriceLines(rule, 10000)

	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].MinQuantity)
}

// Increasing the discount percentage never increases the computed
// amount, and the amount never goes negative.
func TestComputePriceLines_DiscountMonotonicity(t *testing.T) {
	const base = 12345
	prev := int64(math.MaxInt64)
	for p := 0; p < 100; p++ {
		rule := PriceRule{
			BaseCurrency: "eur",
			Kind:         DiscountPercentage,
			Percentage:   decimal.NewFromInt(int64(p)).Div(decimal.NewFromInt(100)),
			Conversions:  []Conversion{{CurrencyCode: "eur", Rate: decimal.NewFromInt(1)}},
		}
		amount := ComputePriceLines(rule, base)[0].Amount
		assert.LessOrEqual(t, amount, prev, "amount increased at %d%%", p)
		assert.GreaterOrEqual(t, amount, int64(0))
		prev = amount
	}
}

// The rounded converted amount stays within one minor unit of the exact
// mathematical value.
func TestComputePriceLines_RoundingBound(t *testing.T) {
	bases := []int64{1, 99, 1999, 10000, 34900, 89900}
	rates := []float64{0.87, 1.0, 1.1, 1.1337}

	for _, base := range bases {
		for _, rate := range rates {
			rule := PriceRule{
				BaseCurrency: "eur",
				Kind:         DiscountPercentage,
				Percentage:   pct(0.15),
				Conversions:  []Conversion{{CurrencyCode: "usd", Rate: decimal.NewFromFloat(rate)}},
			}

			got := ComputePriceLines(rule, base)[0].Amount
			exact := float64(base) * 0.85 * rate

			assert.Less(t, math.Abs(float64(got)-exact), 1.0,
				"base=%d rate=%f", base, rate)
		}
	}
}

func TestPriceRule_Validate(t *testing.T) {
	eur := []Conversion{{CurrencyCode: "eur", Rate: decimal.NewFromInt(1)}}

	tests := []struct {
		name    string
		rule    PriceRule
		wantErr bool
	}{
		{
			name: "valid percentage",
			rule: PriceRule{BaseCurrency: "eur", Kind: DiscountPercentage, Percentage: pct(0.2), Conversions: eur},
		},
		{
			name:    "percentage of one is out of range",
			rule:    PriceRule{BaseCurrency: "eur", Kind: DiscountPercentage, Percentage: pct(1.0), Conversions: eur},
			wantErr: true,
		},
		{
			name:    "negative percentage",
			rule:    PriceRule{BaseCurrency: "eur", Kind: DiscountPercentage, Percentage: pct(-0.1), Conversions: eur},
			wantErr: true,
		},
		{
			name: "valid fixed",
			rule: PriceRule{BaseCurrency: "eur", Kind: DiscountFixed, FixedAmount: 500, Conversions: eur},
		},
		{
			name:    "negative fixed amount",
			rule:    PriceRule{BaseCurrency: "eur", Kind: DiscountFixed, FixedAmount: -1, Conversions: eur},
			wantErr: true,
		},
		{
			name:    "missing base currency",
			rule:    PriceRule{Kind: DiscountPercentage, Percentage: pct(0.2), Conversions: eur},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			rule:    PriceRule{BaseCurrency: "eur", Kind: "tiered", Conversions: eur},
			wantErr: true,
		},
		{
			name: "zero conversion rate",
			rule: PriceRule{BaseCurrency: "eur", Kind: DiscountFixed, FixedAmount: 1,
				Conversions: []Conversion{{CurrencyCode: "usd", Rate: decimal.Zero}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
