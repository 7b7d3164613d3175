package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/silkshop/backend/internal/domain/shared"
)

// DiscountKind selects how a price rule reduces the base amount.
type DiscountKind string

const (
	// DiscountPercentage subtracts a fraction of the base amount.
	DiscountPercentage DiscountKind = "percentage"
	// DiscountFixed subtracts a fixed minor-unit amount, capped at the
	// base amount so the result is never negative.
	DiscountFixed DiscountKind = "fixed"
)

// Conversion is one target currency with its fixed conversion rate
// relative to the rule's base currency.
type Conversion struct {
	CurrencyCode string
	Rate         decimal.Decimal
}

// PriceRule describes how a discounted multi-currency price is derived
// from a base amount in the reference currency. All amounts are integer
// minor units (cents).
type PriceRule struct {
	BaseCurrency string
	Kind         DiscountKind
	Percentage   decimal.Decimal // fraction in [0,1), for DiscountPercentage
	FixedAmount  int64           // minor units, for DiscountFixed
	Conversions  []Conversion
	MinQuantity  int // 0 = no bulk gate
}

// Validate checks the rule's invariants.
func (r PriceRule) Validate() error {
	if r.BaseCurrency == "" {
		return shared.NewDomainError("INVALID_DISCOUNT", "price rule needs a base currency")
	}
	switch r.Kind {
	case DiscountPercentage:
		if r.Percentage.IsNegative() || r.Percentage.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return shared.ErrInvalidDiscount
		}
	case DiscountFixed:
		if r.FixedAmount < 0 {
			return shared.ErrInvalidDiscount
		}
	default:
		return shared.NewDomainError("INVALID_DISCOUNT", "unknown discount kind: "+string(r.Kind))
	}
	for _, c := range r.Conversions {
		if c.CurrencyCode == "" || !c.Rate.IsPositive() {
			return shared.ErrInvalidDiscount
		}
	}
	return nil
}

// PriceLine is one computed price in a target currency.
type PriceLine struct {
	CurrencyCode string
	Amount       int64 // minor units
	MinQuantity  int   // 0 = unrestricted
}

// ComputePriceLines derives one price line per conversion in the rule.
// The discount is applied to the base amount in the reference currency,
// the result is converted with the fixed rate and rounded half away
// from zero to the nearest minor unit. A single rounding step happens
// after conversion, so the absolute error versus the exact value is
// below one minor unit. The discounted amount is never negative.
func ComputePriceLines(rule PriceRule, baseAmount int64) []PriceLine {
	base := decimal.NewFromInt(baseAmount)

	var discounted decimal.Decimal
	switch rule.Kind {
	case DiscountFixed:
		discounted = base.Sub(decimal.NewFromInt(rule.FixedAmount))
		if discounted.IsNegative() {
			discounted = decimal.Zero
		}
	default:
		discounted = base.Mul(decimal.NewFromInt(1).Sub(rule.Percentage))
	}

	lines := make([]PriceLine, 0, len(rule.Conversions))
	for _, conv := range rule.Conversions {
		amount := discounted.Mul(conv.Rate).Round(0).IntPart()
		lines = append(lines, PriceLine{
			CurrencyCode: strings.ToLower(conv.CurrencyCode),
			Amount:       amount,
			MinQuantity:  rule.MinQuantity,
		})
	}
	return lines
}
