package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/silkshop/backend/internal/domain/catalog"
)

// applyInventoryLevels creates one inventory level per variant SKU at
// the configured stock location. Quantities are drawn from a seeded
// generator so repeated runs over an empty store produce the same
// numbers. Variants that already have a level are left untouched.
func (r *run) applyInventoryLevels(ctx context.Context) error {
	inv := r.spec.Inventory
	if inv.Location == "" {
		return nil
	}
	if _, ok := r.resolve(catalog.EntityTypeStockLocation, inv.Location); !ok {
		r.warn(fmt.Sprintf("inventory location %q not found, skipping inventory levels", inv.Location))
		return nil
	}

	variants, err := r.store.List(ctx, catalog.EntityTypeVariant, catalog.ListFilter{})
	if err != nil {
		return fmt.Errorf("list variants: %w", err)
	}

	rng := newSeededRNG(inv.Seed)
	desired := make([]catalog.DesiredEntity, 0, len(variants))
	for _, v := range variants {
		desired = append(desired, catalog.DesiredEntity{
			Type:         catalog.EntityTypeInventoryLevel,
			Key:          v.Key,
			ParentHandle: inv.Location,
			Payload: map[string]any{
				"sku":              v.Key,
				"variant_id":       v.ID,
				"stocked_quantity": stockedQuantity(inv, v.Key, rng),
			},
		})
	}
	_, _, err = r.ensure(ctx, catalog.EntityTypeInventoryLevel, desired)
	return err
}

func newSeededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// hsCodeFor picks the customs code for a SKU by substring match against
// the configured table, falling back to the default code. The longest
// matching substring wins (ties by lexical order) so a SKU matching
// several entries gets the same code on every run.
func hsCodeFor(inv InventorySpec, sku string) string {
	upper := strings.ToUpper(sku)
	best := ""
	code := inv.DefaultHSCode
	for sub, c := range inv.HSCodes {
		if !strings.Contains(upper, strings.ToUpper(sub)) {
			continue
		}
		if len(sub) > len(best) || (len(sub) == len(best) && sub < best) {
			best, code = sub, c
		}
	}
	return code
}

// enrichInventoryItems backfills customs metadata (HS code, origin
// country, material) on variants that are missing it. Unlike creation
// this step does update existing records, but only attributes that are
// absent, so manual edits survive re-runs.
func (r *run) enrichInventoryItems(ctx context.Context) error {
	inv := r.spec.Inventory
	if inv.DefaultHSCode == "" && len(inv.HSCodes) == 0 && inv.OriginCountry == "" && inv.Material == "" {
		return nil
	}

	variants, err := r.store.List(ctx, catalog.EntityTypeVariant, catalog.ListFilter{})
	if err != nil {
		return fmt.Errorf("list variants: %w", err)
	}

	enriched := 0
	for _, v := range variants {
		attrs := map[string]any{}
		if _, ok := v.Payload["hs_code"]; !ok {
			if code := hsCodeFor(inv, v.Key); code != "" {
				attrs["hs_code"] = code
			}
		}
		if _, ok := v.Payload["origin_country"]; !ok && inv.OriginCountry != "" {
			attrs["origin_country"] = strings.ToLower(inv.OriginCountry)
		}
		if _, ok := v.Payload["material"]; !ok && inv.Material != "" {
			attrs["material"] = inv.Material
		}
		if len(attrs) == 0 {
			continue
		}
		if err := r.store.Update(ctx, catalog.EntityTypeVariant, v.ID, attrs); err != nil {
			return fmt.Errorf("enrich variant %s: %w", v.Key, err)
		}
		enriched++
	}
	if enriched > 0 {
		r.log.Info("enriched inventory items", zap.Int("count", enriched))
	}
	return nil
}

// assignTypesAndTags stamps a product type (by handle prefix) and tags
// (by exact handle) onto products that lack them.
func (r *run) assignTypesAndTags(ctx context.Context) error {
	if len(r.spec.TypeByPrefix) == 0 && len(r.spec.TagsByHandle) == 0 {
		return nil
	}

	products, err := r.store.List(ctx, catalog.EntityTypeProduct, catalog.ListFilter{})
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	for _, p := range products {
		attrs := map[string]any{}
		if _, ok := p.Payload["type_id"]; !ok {
			if typeValue := typeForHandle(r.spec.TypeByPrefix, p.Key); typeValue != "" {
				typeID, ok := r.resolve(catalog.EntityTypeProductType, typeValue)
				if !ok {
					r.warn(fmt.Sprintf("product %q maps to undeclared type %q", p.Key, typeValue))
				} else {
					attrs["type_id"] = typeID
				}
			}
		}
		if _, ok := p.Payload["tag_ids"]; !ok {
			var tagIDs []string
			for _, tagValue := range r.spec.TagsByHandle[p.Key] {
				tagID, ok := r.resolve(catalog.EntityTypeProductTag, tagValue)
				if !ok {
					r.warn(fmt.Sprintf("product %q maps to undeclared tag %q", p.Key, tagValue))
					continue
				}
				tagIDs = append(tagIDs, tagID)
			}
			if len(tagIDs) > 0 {
				attrs["tag_ids"] = tagIDs
			}
		}
		if len(attrs) == 0 {
			continue
		}
		if err := r.store.Update(ctx, catalog.EntityTypeProduct, p.ID, attrs); err != nil {
			return fmt.Errorf("assign type/tags to %s: %w", p.Key, err)
		}
	}
	return nil
}

// typeForHandle returns the type value of the longest matching handle
// prefix, so "scarf-square" wins over "scarf".
func typeForHandle(byPrefix map[string]string, handle string) string {
	best := ""
	value := ""
	for prefix, v := range byPrefix {
		if strings.HasPrefix(handle, prefix) && len(prefix) > len(best) {
			best, value = prefix, v
		}
	}
	return value
}
