package pricing

import "strings"

// VariantRef is the slice of a catalog variant the price computer needs:
// identity, SKU, category membership and known base prices per currency
// (minor units).
type VariantRef struct {
	ID              string
	SKU             string
	CategoryHandles []string
	BasePrices      map[string]int64
}

// VariantFilter selects the subset of catalog variants a price list
// covers, by SKU prefix or category membership. An empty filter matches
// every variant. The filter is evaluated once per price list, not per
// price line.
type VariantFilter struct {
	SKUPrefixes     []string
	CategoryHandles []string
}

// Matches reports whether the variant falls under this filter.
func (f VariantFilter) Matches(v VariantRef) bool {
	if len(f.SKUPrefixes) == 0 && len(f.CategoryHandles) == 0 {
		return true
	}
	for _, prefix := range f.SKUPrefixes {
		if strings.HasPrefix(v.SKU, prefix) {
			return true
		}
	}
	for _, handle := range f.CategoryHandles {
		for _, vh := range v.CategoryHandles {
			if vh == handle {
				return true
			}
		}
	}
	return false
}

// Select returns the variants matching the filter, preserving order.
func (f VariantFilter) Select(variants []VariantRef) []VariantRef {
	var out []VariantRef
	for _, v := range variants {
		if f.Matches(v) {
			out = append(out, v)
		}
	}
	return out
}

// PriceListTarget is the identity and scope of one computed price list.
// It is computed once per reconciliation run from the variant base
// prices known at that moment and never mutated afterwards; a list
// whose title already exists in the store is not regenerated.
type PriceListTarget struct {
	Title            string
	Description      string
	Type             string // e.g. "sale"
	Status           string // e.g. "active"
	CustomerGroupIDs []string
	Rule             PriceRule
	Filter           VariantFilter
}

// VariantPrice is one priced variant row of a price list draft.
type VariantPrice struct {
	VariantID    string
	CurrencyCode string
	Amount       int64
	MinQuantity  int
}

// PriceListDraft is a fully computed price list ready for creation.
type PriceListDraft struct {
	Title            string
	Description      string
	Type             string
	Status           string
	CustomerGroupIDs []string
	Prices           []VariantPrice
}

// BuildPriceList computes the draft for one target over the given
// variants. Variants with no discoverable base price in the rule's
// reference currency are skipped and reported back by SKU; a partial
// price list is acceptable. When no variant yields a price the draft is
// nil and the list must not be created.
func BuildPriceList(target PriceListTarget, variants []VariantRef) (*PriceListDraft, []string) {
	selected := target.Filter.Select(variants)

	var skipped []string
	var prices []VariantPrice
	for _, v := range selected {
		baseAmount, ok := v.BasePrices[target.Rule.BaseCurrency]
		if !ok {
			skipped = append(skipped, v.SKU)
			continue
		}
		for _, line := range ComputePriceLines(target.Rule, baseAmount) {
			prices = append(prices, VariantPrice{
				VariantID:    v.ID,
				CurrencyCode: line.CurrencyCode,
				Amount:       line.Amount,
				MinQuantity:  line.MinQuantity,
			})
		}
	}

	if len(prices) == 0 {
		return nil, skipped
	}
	return &PriceListDraft{
		Title:            target.Title,
		Description:      target.Description,
		Type:             target.Type,
		Status:           target.Status,
		CustomerGroupIDs: target.CustomerGroupIDs,
		Prices:           prices,
	}, skipped
}
