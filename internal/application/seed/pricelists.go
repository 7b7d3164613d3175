package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/silkshop/backend/internal/domain/catalog"
	"github.com/silkshop/backend/internal/domain/pricing"
	"github.com/silkshop/backend/internal/domain/shared"
)

// applyPriceLists derives discounted multi-currency price lists from
// the variants currently in the store. A list whose variant selection
// comes up empty is skipped with a warning rather than created empty.
func (r *run) applyPriceLists(ctx context.Context) error {
	if len(r.spec.PriceLists) == 0 {
		return nil
	}

	existingVariants, err := r.store.List(ctx, catalog.EntityTypeVariant, catalog.ListFilter{})
	if err != nil {
		return fmt.Errorf("list variants: %w", err)
	}
	refs := make([]pricing.VariantRef, 0, len(existingVariants))
	for _, v := range existingVariants {
		refs = append(refs, pricing.VariantRef{
			ID:              v.ID,
			SKU:             v.Key,
			CategoryHandles: stringSlice(v.Payload["category_handles"]),
			BasePrices:      amountMap(v.Payload["prices"]),
		})
	}

	var desired []catalog.DesiredEntity
	for _, pl := range r.spec.PriceLists {
		rule, err := priceRuleFrom(pl)
		if err != nil {
			return fmt.Errorf("price list %q: %w", pl.Title, err)
		}

		var groupIDs []string
		for _, group := range pl.CustomerGroups {
			id, ok := r.resolve(catalog.EntityTypeCustomerGroup, group)
			if !ok {
				r.warn(fmt.Sprintf("price list %q references unknown customer group %q", pl.Title, group))
				continue
			}
			groupIDs = append(groupIDs, id)
		}

		target := pricing.PriceListTarget{
			Title:            pl.Title,
			Description:      pl.Description,
			Type:             defaultString(pl.Type, "sale"),
			Status:           defaultString(pl.Status, "active"),
			CustomerGroupIDs: groupIDs,
			Rule:             rule,
			Filter: pricing.VariantFilter{
				SKUPrefixes:     pl.SKUPrefixes,
				CategoryHandles: pl.Categories,
			},
		}
		draft, skipped := pricing.BuildPriceList(target, refs)
		for _, sku := range skipped {
			r.warn(fmt.Sprintf("price list %q: variant %s has no %s base price", pl.Title, sku, rule.BaseCurrency))
		}
		if draft == nil {
			r.warn(fmt.Sprintf("price list %q matched no priceable variants, skipping", pl.Title))
			r.report.Skipped[catalog.EntityTypePriceList]++
			continue
		}

		prices := make([]map[string]any, 0, len(draft.Prices))
		for _, p := range draft.Prices {
			entry := map[string]any{
				"variant_id":    p.VariantID,
				"currency_code": p.CurrencyCode,
				"amount":        p.Amount,
			}
			if p.MinQuantity > 0 {
				entry["min_quantity"] = p.MinQuantity
			}
			prices = append(prices, entry)
		}
		desired = append(desired, catalog.DesiredEntity{
			Type: catalog.EntityTypePriceList,
			Key:  pl.Title,
			Payload: map[string]any{
				"title":              draft.Title,
				"description":        draft.Description,
				"type":               draft.Type,
				"status":             draft.Status,
				"customer_group_ids": groupIDs,
				"prices":             prices,
			},
		})
	}
	_, _, err = r.ensure(ctx, catalog.EntityTypePriceList, desired)
	return err
}

func priceRuleFrom(pl PriceListSpec) (pricing.PriceRule, error) {
	rule := pricing.PriceRule{
		BaseCurrency: strings.ToLower(defaultString(pl.BaseCurrency, "eur")),
		MinQuantity:  pl.MinQuantity,
	}
	switch {
	case pl.DiscountPercent > 0:
		rule.Kind = pricing.DiscountPercentage
		rule.Percentage = decimal.NewFromFloat(pl.DiscountPercent)
	case pl.FixedOff > 0:
		rule.Kind = pricing.DiscountFixed
		rule.FixedAmount = pl.FixedOff
	default:
		return rule, fmt.Errorf("%w: neither percentage nor fixed discount set", shared.ErrInvalidDiscount)
	}
	for _, c := range pl.Currencies {
		rule.Conversions = append(rule.Conversions, pricing.Conversion{
			CurrencyCode: strings.ToLower(c.Code),
			Rate:         decimal.NewFromFloat(c.Rate),
		})
	}
	return rule, rule.Validate()
}

// stringSlice coerces a payload attribute that may have round-tripped
// through JSON into []string.
func stringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// amountMap coerces a currency→amount payload attribute into
// map[string]int64 regardless of whether it survived as native ints or
// JSON numbers.
func amountMap(v any) map[string]int64 {
	switch m := v.(type) {
	case map[string]int64:
		return m
	case map[string]any:
		out := make(map[string]int64, len(m))
		for code, raw := range m {
			switch n := raw.(type) {
			case int64:
				out[code] = n
			case int:
				out[code] = int64(n)
			case float64:
				out[code] = int64(n)
			}
		}
		return out
	}
	return nil
}
