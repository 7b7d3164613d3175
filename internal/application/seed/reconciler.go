package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/silkshop/backend/internal/domain/catalog"
	"github.com/silkshop/backend/internal/domain/shared"
)

// Reconciler drives the catalog toward the desired state described by a
// CatalogSpec. Entity types are applied in catalog.ApplyOrder; each step
// lists what exists, creates only what is missing, and records
// store-assigned IDs so later steps can resolve references.
type Reconciler struct {
	store catalog.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewReconciler(store catalog.Store, log *zap.Logger) *Reconciler {
	return &Reconciler{store: store, log: log, now: time.Now}
}

// Report summarises one reconciliation run.
type Report struct {
	Created  map[catalog.EntityType]int `json:"created"`
	Skipped  map[catalog.EntityType]int `json:"skipped"`
	Warnings []string                   `json:"warnings,omitempty"`
	// APIKeys holds tokens generated for API keys created in this run,
	// keyed by title. Keys that already existed keep their old token and
	// do not appear here.
	APIKeys map[string]string `json:"api_keys,omitempty"`
	Elapsed time.Duration     `json:"elapsed"`
}

func newReport() *Report {
	return &Report{
		Created: make(map[catalog.EntityType]int),
		Skipped: make(map[catalog.EntityType]int),
		APIKeys: make(map[string]string),
	}
}

// TotalCreated returns the number of entities created across all types.
func (r *Report) TotalCreated() int {
	n := 0
	for _, c := range r.Created {
		n += c
	}
	return n
}

// parentTypes maps child entity types to the type their ParentHandle
// refers to.
var parentTypes = map[catalog.EntityType]catalog.EntityType{
	catalog.EntityTypeCategory:       catalog.EntityTypeCategory,
	catalog.EntityTypeVariant:        catalog.EntityTypeProduct,
	catalog.EntityTypeEmployee:       catalog.EntityTypeCompany,
	catalog.EntityTypeInventoryLevel: catalog.EntityTypeStockLocation,
}

// run carries the mutable state of a single reconciliation pass.
type run struct {
	store  catalog.Store
	log    *zap.Logger
	now    time.Time
	spec   *CatalogSpec
	report *Report

	// ids maps "type\x00handle" to the store-assigned ID, covering both
	// entities that already existed and entities created in this run.
	ids map[string]string

	// regionCurrency maps region ID to its lowercase currency code.
	regionCurrency map[string]string
	// regionOrder keeps region IDs in apply order so currency lookups
	// prefer the first matching region.
	regionOrder []string
}

func (r *run) register(t catalog.EntityType, handle, id string) {
	r.ids[string(t)+"\x00"+handle] = id
}

func (r *run) resolve(t catalog.EntityType, handle string) (string, bool) {
	id, ok := r.ids[string(t)+"\x00"+handle]
	return id, ok
}

// mustResolve is resolve with a fatal error for dangling references.
func (r *run) mustResolve(t catalog.EntityType, handle string) (string, error) {
	if id, ok := r.resolve(t, handle); ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %s %q", shared.ErrMissingParent, t, handle)
}

func (r *run) warn(msg string, fields ...zap.Field) {
	r.log.Warn(msg, fields...)
	r.report.Warnings = append(r.report.Warnings, msg)
}

// ensure lists existing entities of one type, creates the missing
// subset in a single batch, and registers every ID under its handle.
// Existing entities never get updated here; key matches are skipped.
func (r *run) ensure(ctx context.Context, t catalog.EntityType, desired []catalog.DesiredEntity) ([]catalog.ExistingEntity, []catalog.CreatedEntity, error) {
	existing, err := r.store.List(ctx, t, catalog.ListFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", t, err)
	}
	for _, e := range existing {
		r.register(t, e.Key, e.ID)
	}

	missing := catalog.Missing(desired, existing)
	r.report.Skipped[t] += len(desired) - len(missing)
	if len(missing) == 0 {
		r.log.Debug("nothing to create", zap.String("type", string(t)), zap.Int("desired", len(desired)))
		return existing, nil, nil
	}

	if parent, ok := parentTypes[t]; ok {
		for i := range missing {
			if missing[i].ParentHandle == "" {
				continue
			}
			id, err := r.mustResolve(parent, missing[i].ParentHandle)
			if err != nil {
				return nil, nil, err
			}
			if missing[i].Payload == nil {
				missing[i].Payload = map[string]any{}
			}
			missing[i].Payload["parent_id"] = id
		}
	}

	created, err := r.store.CreateBatch(ctx, t, missing)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", shared.ErrBatchFailed, t, err)
	}
	for _, c := range created {
		r.register(t, c.Handle, c.ID)
	}
	r.report.Created[t] += len(created)
	r.log.Info("created entities",
		zap.String("type", string(t)),
		zap.Int("count", len(created)),
		zap.Int("skipped", len(desired)-len(missing)))
	return existing, created, nil
}

// link records relation pairs, tolerating pairs that already exist.
func (r *run) link(ctx context.Context, relation catalog.LinkRelation, pairs []catalog.LinkPair) error {
	if len(pairs) == 0 {
		return nil
	}
	err := r.store.Link(ctx, relation, pairs)
	if err == nil {
		return nil
	}
	if errors.Is(err, catalog.ErrAlreadyLinked) {
		r.log.Debug("links already present", zap.String("relation", string(relation)))
		return nil
	}
	r.warn(fmt.Sprintf("link %s failed: %v", relation, err))
	return nil
}

// Run applies the full spec. It returns a report on success; any
// creation-batch failure or unresolvable reference aborts the run with
// an error, leaving earlier steps' entities in place.
func (r *Reconciler) Run(ctx context.Context, spec *CatalogSpec) (*Report, error) {
	started := r.now()
	ru := &run{
		store:          r.store,
		log:            r.log,
		now:            started,
		spec:           spec,
		report:         newReport(),
		ids:            make(map[string]string),
		regionCurrency: make(map[string]string),
	}

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"sales_channels", ru.applySalesChannels},
		{"store_defaults", ru.applyStoreDefaults},
		{"regions", ru.applyRegions},
		{"tax_regions", ru.applyTaxRegions},
		{"stock_locations", ru.applyStockLocations},
		{"shipping_profiles", ru.applyShippingProfiles},
		{"fulfillment_sets", ru.applyFulfillmentSets},
		{"shipping_options", ru.applyShippingOptions},
		{"api_keys", ru.applyAPIKeys},
		{"collections", ru.applyCollections},
		{"categories", ru.applyCategories},
		{"products", ru.applyProducts},
		{"customer_groups", ru.applyCustomerGroups},
		{"customers", ru.applyCustomers},
		{"companies", ru.applyCompanies},
		{"employees", ru.applyEmployees},
		{"inventory_levels", ru.applyInventoryLevels},
		{"product_types", ru.applyProductTypes},
		{"product_tags", ru.applyProductTags},
		{"type_tag_assignment", ru.assignTypesAndTags},
		{"inventory_enrichment", ru.enrichInventoryItems},
		{"price_lists", ru.applyPriceLists},
		{"campaigns", ru.applyCampaigns},
		{"promotions", ru.applyPromotions},
		{"return_reasons", ru.applyReturnReasons},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return nil, fmt.Errorf("step %s: %w", step.name, err)
		}
	}

	ru.report.Elapsed = time.Since(started)
	r.log.Info("reconciliation finished",
		zap.Int("created", ru.report.TotalCreated()),
		zap.Int("warnings", len(ru.report.Warnings)),
		zap.Duration("elapsed", ru.report.Elapsed))
	return ru.report, nil
}

func (r *run) applySalesChannels(ctx context.Context) error {
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.SalesChannels))
	for _, c := range r.spec.SalesChannels {
		desired = append(desired, catalog.DesiredEntity{
			Type: catalog.EntityTypeSalesChannel,
			Key:  c.Name,
			Payload: map[string]any{
				"name":        c.Name,
				"description": c.Description,
			},
		})
	}
	_, _, err := r.ensure(ctx, catalog.EntityTypeSalesChannel, desired)
	return err
}

// applyStoreDefaults upserts the singleton store record and points it at
// the default sales channel. Supported currencies are merged in on every
// run, so adding a currency to the spec takes effect without recreating
// the store.
func (r *run) applyStoreDefaults(ctx context.Context) error {
	s := r.spec.Store
	if s.Name == "" {
		return nil
	}
	desired := []catalog.DesiredEntity{{
		Type:    catalog.EntityTypeStore,
		Key:     s.Name,
		Payload: map[string]any{"name": s.Name},
	}}
	if _, _, err := r.ensure(ctx, catalog.EntityTypeStore, desired); err != nil {
		return err
	}
	id, err := r.mustResolve(catalog.EntityTypeStore, s.Name)
	if err != nil {
		return err
	}

	attrs := map[string]any{}
	if len(s.SupportedCurrencies) > 0 {
		currencies := make([]string, 0, len(s.SupportedCurrencies))
		for _, c := range s.SupportedCurrencies {
			currencies = append(currencies, strings.ToLower(c))
		}
		attrs["supported_currencies"] = currencies
	}
	if s.DefaultCurrency != "" {
		attrs["default_currency"] = strings.ToLower(s.DefaultCurrency)
	}
	if s.DefaultSalesChannel != "" {
		channelID, err := r.mustResolve(catalog.EntityTypeSalesChannel, s.DefaultSalesChannel)
		if err != nil {
			return err
		}
		attrs["default_sales_channel_id"] = channelID
	}
	if len(attrs) == 0 {
		return nil
	}
	return r.store.Update(ctx, catalog.EntityTypeStore, id, attrs)
}

// applyRegions claims country codes from a shared pool before creating
// regions. A country can belong to at most one region, so overlapping
// desired regions are resolved first-come-first-served in spec order.
func (r *run) applyRegions(ctx context.Context) error {
	existing, err := r.store.List(ctx, catalog.EntityTypeRegion, catalog.ListFilter{})
	if err != nil {
		return fmt.Errorf("list regions: %w", err)
	}
	pool := catalog.NewCountryPool()
	pool.SeedFromRegions(existing)
	for _, e := range existing {
		r.register(catalog.EntityTypeRegion, e.Key, e.ID)
		if cc, ok := e.Payload["currency_code"].(string); ok {
			r.trackRegion(e.ID, cc)
		}
	}

	var desired []catalog.DesiredEntity
	for _, reg := range r.spec.Regions {
		if catalog.Exists(catalog.DesiredEntity{Type: catalog.EntityTypeRegion, Key: reg.Name}, existing) {
			r.report.Skipped[catalog.EntityTypeRegion]++
			continue
		}
		countries := lowerAll(reg.Countries)
		granted, res := pool.Claim(countries, reg.Name)
		switch res {
		case catalog.ResolutionSkipped:
			r.warn(fmt.Sprintf("region %q skipped: all countries already assigned", reg.Name),
				zap.Strings("countries", countries))
			r.report.Skipped[catalog.EntityTypeRegion]++
			continue
		case catalog.ResolutionPartial:
			r.warn(fmt.Sprintf("region %q created with partial country set", reg.Name),
				zap.Strings("requested", countries), zap.Strings("granted", granted))
		}
		desired = append(desired, catalog.DesiredEntity{
			Type: catalog.EntityTypeRegion,
			Key:  reg.Name,
			Payload: map[string]any{
				"name":              reg.Name,
				"currency_code":     strings.ToLower(reg.CurrencyCode),
				"countries":         granted,
				"payment_providers": reg.PaymentProviders,
			},
		})
	}
	if len(desired) == 0 {
		return nil
	}
	created, err := r.store.CreateBatch(ctx, catalog.EntityTypeRegion, desired)
	if err != nil {
		return fmt.Errorf("%w: region: %v", shared.ErrBatchFailed, err)
	}
	for i, c := range created {
		r.register(catalog.EntityTypeRegion, c.Handle, c.ID)
		r.trackRegion(c.ID, desired[i].Payload["currency_code"].(string))
	}
	r.report.Created[catalog.EntityTypeRegion] += len(created)
	r.log.Info("created entities", zap.String("type", "region"), zap.Int("count", len(created)))
	return nil
}

func (r *run) trackRegion(id, currency string) {
	r.regionCurrency[id] = strings.ToLower(currency)
	r.regionOrder = append(r.regionOrder, id)
}

// regionWithCurrency returns the first known region using the given
// currency code.
func (r *run) regionWithCurrency(currency string) (string, bool) {
	currency = strings.ToLower(currency)
	for _, id := range r.regionOrder {
		if r.regionCurrency[id] == currency {
			return id, true
		}
	}
	return "", false
}

// applyTaxRegions creates one tax region per country that ended up in a
// region, keyed by country code.
func (r *run) applyTaxRegions(ctx context.Context) error {
	seen := make(map[string]struct{})
	var desired []catalog.DesiredEntity
	for _, reg := range r.spec.Regions {
		for _, cc := range lowerAll(reg.Countries) {
			if _, dup := seen[cc]; dup {
				continue
			}
			seen[cc] = struct{}{}
			desired = append(desired, catalog.DesiredEntity{
				Type:    catalog.EntityTypeTaxRegion,
				Key:     cc,
				Payload: map[string]any{"country_code": cc, "provider": "system"},
			})
		}
	}
	_, _, err := r.ensure(ctx, catalog.EntityTypeTaxRegion, desired)
	return err
}

func (r *run) applyStockLocations(ctx context.Context) error {
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.StockLocations))
	for _, loc := range r.spec.StockLocations {
		desired = append(desired, catalog.DesiredEntity{
			Type: catalog.EntityTypeStockLocation,
			Key:  loc.Name,
			Payload: map[string]any{
				"name":         loc.Name,
				"city":         loc.City,
				"country_code": strings.ToLower(loc.CountryCode),
				"address_1":    loc.Address,
			},
		})
	}
	if _, _, err := r.ensure(ctx, catalog.EntityTypeStockLocation, desired); err != nil {
		return err
	}

	channelID, ok := r.resolve(catalog.EntityTypeSalesChannel, r.spec.Store.DefaultSalesChannel)
	var channelPairs, providerPairs []catalog.LinkPair
	for _, loc := range r.spec.StockLocations {
		locID, err := r.mustResolve(catalog.EntityTypeStockLocation, loc.Name)
		if err != nil {
			return err
		}
		if ok {
			channelPairs = append(channelPairs, catalog.LinkPair{LeftID: channelID, RightID: locID})
		}
		providerPairs = append(providerPairs, catalog.LinkPair{LeftID: locID, RightID: "manual_manual"})
	}
	if err := r.link(ctx, catalog.LinkChannelStockLocation, channelPairs); err != nil {
		return err
	}
	return r.link(ctx, catalog.LinkLocationFulfillProvider, providerPairs)
}

func (r *run) applyShippingProfiles(ctx context.Context) error {
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.ShippingProfiles))
	for _, p := range r.spec.ShippingProfiles {
		profileType := p.Type
		if profileType == "" {
			profileType = "default"
		}
		desired = append(desired, catalog.DesiredEntity{
			Type:    catalog.EntityTypeShippingProfile,
			Key:     p.Name,
			Payload: map[string]any{"name": p.Name, "type": profileType},
		})
	}
	_, _, err := r.ensure(ctx, catalog.EntityTypeShippingProfile, desired)
	return err
}

// applyFulfillmentSets creates fulfillment sets with a single service
// zone spanning every country granted to any region, then links each
// set to its stock location.
func (r *run) applyFulfillmentSets(ctx context.Context) error {
	zoneCountries := r.allRegionCountries()
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.FulfillmentSets))
	for _, fs := range r.spec.FulfillmentSets {
		setType := fs.Type
		if setType == "" {
			setType = "shipping"
		}
		desired = append(desired, catalog.DesiredEntity{
			Type: catalog.EntityTypeFulfillmentSet,
			Key:  fs.Name,
			Payload: map[string]any{
				"name":           fs.Name,
				"type":           setType,
				"service_zone":   fs.ServiceZone,
				"zone_countries": zoneCountries,
			},
		})
	}
	if _, _, err := r.ensure(ctx, catalog.EntityTypeFulfillmentSet, desired); err != nil {
		return err
	}

	var pairs []catalog.LinkPair
	for _, fs := range r.spec.FulfillmentSets {
		setID, err := r.mustResolve(catalog.EntityTypeFulfillmentSet, fs.Name)
		if err != nil {
			return err
		}
		locID, err := r.mustResolve(catalog.EntityTypeStockLocation, fs.StockLocation)
		if err != nil {
			return err
		}
		pairs = append(pairs, catalog.LinkPair{LeftID: locID, RightID: setID})
	}
	return r.link(ctx, catalog.LinkLocationFulfillmentSet, pairs)
}

func (r *run) allRegionCountries() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, reg := range r.spec.Regions {
		for _, cc := range lowerAll(reg.Countries) {
			if _, dup := seen[cc]; dup {
				continue
			}
			seen[cc] = struct{}{}
			out = append(out, cc)
		}
	}
	return out
}

// applyShippingOptions prices each option flat in the default currency
// plus a cheaper price scoped to the primary region of that currency.
// Without a region in the default currency the regional price cannot be
// derived, which aborts the run.
func (r *run) applyShippingOptions(ctx context.Context) error {
	if len(r.spec.ShippingOptions) == 0 {
		return nil
	}
	currency := r.spec.Store.DefaultCurrency
	if currency == "" {
		currency = "eur"
	}
	regionID, ok := r.regionWithCurrency(currency)
	if !ok {
		return fmt.Errorf("%w: shipping options need a %s region", shared.ErrInvalidRegion, currency)
	}

	desired := make([]catalog.DesiredEntity, 0, len(r.spec.ShippingOptions))
	for _, opt := range r.spec.ShippingOptions {
		profileID, err := r.mustResolve(catalog.EntityTypeShippingProfile, opt.Profile)
		if err != nil {
			return err
		}
		setID, err := r.mustResolve(catalog.EntityTypeFulfillmentSet, opt.FulfillmentSet)
		if err != nil {
			return err
		}
		provider := opt.Provider
		if provider == "" {
			provider = "manual_manual"
		}
		desired = append(desired, catalog.DesiredEntity{
			Type: catalog.EntityTypeShippingOption,
			Key:  opt.Name,
			Payload: map[string]any{
				"name":                opt.Name,
				"provider_id":         provider,
				"shipping_profile_id": profileID,
				"fulfillment_set_id":  setID,
				"type": map[string]any{
					"label":       opt.TypeLabel,
					"description": opt.TypeDescription,
					"code":        opt.TypeCode,
				},
				"prices": []map[string]any{
					{"currency_code": strings.ToLower(currency), "amount": opt.Amount},
					{"region_id": regionID, "amount": opt.RegionAmount},
				},
			},
		})
	}
	_, _, err := r.ensure(ctx, catalog.EntityTypeShippingOption, desired)
	return err
}

// applyAPIKeys creates missing keys with freshly generated tokens and
// links each key to its sales channels. Tokens for keys that already
// exist are never regenerated.
func (r *run) applyAPIKeys(ctx context.Context) error {
	tokens := make(map[string]string, len(r.spec.APIKeys))
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.APIKeys))
	for _, k := range r.spec.APIKeys {
		token := newAPIToken(k.Type)
		tokens[k.Title] = token
		desired = append(desired, catalog.DesiredEntity{
			Type: catalog.EntityTypeAPIKey,
			Key:  k.Title,
			Payload: map[string]any{
				"title": k.Title,
				"type":  k.Type,
				"token": token,
			},
		})
	}
	_, created, err := r.ensure(ctx, catalog.EntityTypeAPIKey, desired)
	if err != nil {
		return err
	}
	for _, c := range created {
		r.report.APIKeys[c.Key] = tokens[c.Key]
	}

	var pairs []catalog.LinkPair
	for _, k := range r.spec.APIKeys {
		keyID, err := r.mustResolve(catalog.EntityTypeAPIKey, k.Title)
		if err != nil {
			return err
		}
		for _, channel := range k.SalesChannels {
			channelID, err := r.mustResolve(catalog.EntityTypeSalesChannel, channel)
			if err != nil {
				return err
			}
			pairs = append(pairs, catalog.LinkPair{LeftID: keyID, RightID: channelID})
		}
	}
	return r.link(ctx, catalog.LinkAPIKeySalesChannel, pairs)
}

func newAPIToken(keyType string) string {
	prefix := "pk_"
	if keyType == "secret" {
		prefix = "sk_"
	}
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (r *run) applyCollections(ctx context.Context) error {
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.Collections))
	for _, c := range r.spec.Collections {
		desired = append(desired, catalog.DesiredEntity{
			Type:    catalog.EntityTypeCollection,
			Key:     c.Handle,
			Payload: map[string]any{"title": c.Title, "handle": c.Handle},
		})
	}
	_, _, err := r.ensure(ctx, catalog.EntityTypeCollection, desired)
	return err
}

// applyCategories runs two passes so child categories can resolve their
// parent's ID regardless of spec ordering.
func (r *run) applyCategories(ctx context.Context) error {
	var roots, children []catalog.DesiredEntity
	for _, c := range r.spec.Categories {
		d := catalog.DesiredEntity{
			Type:         catalog.EntityTypeCategory,
			Key:          c.Handle,
			ParentHandle: c.Parent,
			Payload: map[string]any{
				"name":      c.Name,
				"handle":    c.Handle,
				"rank":      c.Rank,
				"is_active": c.Active,
			},
		}
		if c.Parent == "" {
			roots = append(roots, d)
		} else {
			children = append(children, d)
		}
	}
	if _, _, err := r.ensure(ctx, catalog.EntityTypeCategory, roots); err != nil {
		return err
	}
	_, _, err := r.ensure(ctx, catalog.EntityTypeCategory, children)
	return err
}

// applyProducts creates products and their variants, then links every
// product in the spec to the first shipping profile.
func (r *run) applyProducts(ctx context.Context) error {
	channelIDs := make([]string, 0, len(r.spec.SalesChannels))
	for _, c := range r.spec.SalesChannels {
		if id, ok := r.resolve(catalog.EntityTypeSalesChannel, c.Name); ok {
			channelIDs = append(channelIDs, id)
		}
	}

	desired := make([]catalog.DesiredEntity, 0, len(r.spec.Products))
	for _, p := range r.spec.Products {
		payload := map[string]any{
			"title":       p.Title,
			"handle":      p.Handle,
			"subtitle":    p.Subtitle,
			"description": p.Description,
			"status":      defaultString(p.Status, "published"),
			"material":    p.Material,
			"weight":      p.Weight,
		}
		if p.Collection != "" {
			collectionID, err := r.mustResolve(catalog.EntityTypeCollection, p.Collection)
			if err != nil {
				return err
			}
			payload["collection_id"] = collectionID
		}
		var categoryIDs []string
		for _, handle := range p.Categories {
			id, err := r.mustResolve(catalog.EntityTypeCategory, handle)
			if err != nil {
				return err
			}
			categoryIDs = append(categoryIDs, id)
		}
		payload["category_ids"] = categoryIDs
		payload["category_handles"] = p.Categories
		payload["sales_channel_ids"] = channelIDs
		if len(p.Options) > 0 {
			opts := make([]map[string]any, 0, len(p.Options))
			for _, o := range p.Options {
				opts = append(opts, map[string]any{"title": o.Title, "values": o.Values})
			}
			payload["options"] = opts
		}
		desired = append(desired, catalog.DesiredEntity{
			Type:    catalog.EntityTypeProduct,
			Key:     p.Handle,
			Payload: payload,
		})
	}
	if _, _, err := r.ensure(ctx, catalog.EntityTypeProduct, desired); err != nil {
		return err
	}

	var variants []catalog.DesiredEntity
	for _, p := range r.spec.Products {
		for _, v := range p.Variants {
			prices := make(map[string]int64, len(v.Prices))
			for code, amount := range v.Prices {
				prices[strings.ToLower(code)] = amount
			}
			variants = append(variants, catalog.DesiredEntity{
				Type:         catalog.EntityTypeVariant,
				Key:          v.SKU,
				ParentHandle: p.Handle,
				Payload: map[string]any{
					"title":            defaultString(v.Title, v.SKU),
					"sku":              v.SKU,
					"options":          v.Options,
					"prices":           prices,
					"category_handles": p.Categories,
				},
			})
		}
	}
	if _, _, err := r.ensure(ctx, catalog.EntityTypeVariant, variants); err != nil {
		return err
	}

	if len(r.spec.ShippingProfiles) == 0 {
		return nil
	}
	profileID, err := r.mustResolve(catalog.EntityTypeShippingProfile, r.spec.ShippingProfiles[0].Name)
	if err != nil {
		return err
	}
	var pairs []catalog.LinkPair
	for _, p := range r.spec.Products {
		productID, err := r.mustResolve(catalog.EntityTypeProduct, p.Handle)
		if err != nil {
			return err
		}
		pairs = append(pairs, catalog.LinkPair{LeftID: productID, RightID: profileID})
	}
	return r.link(ctx, catalog.LinkProductShippingProfile, pairs)
}

func (r *run) applyCustomerGroups(ctx context.Context) error {
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.CustomerGroups))
	for _, g := range r.spec.CustomerGroups {
		desired = append(desired, catalog.DesiredEntity{
			Type:    catalog.EntityTypeCustomerGroup,
			Key:     g.Name,
			Payload: map[string]any{"name": g.Name},
		})
	}
	_, _, err := r.ensure(ctx, catalog.EntityTypeCustomerGroup, desired)
	return err
}

func (r *run) applyCustomers(ctx context.Context) error {
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.Customers))
	for _, c := range r.spec.Customers {
		email := strings.ToLower(c.Email)
		desired = append(desired, catalog.DesiredEntity{
			Type: catalog.EntityTypeCustomer,
			Key:  email,
			Payload: map[string]any{
				"email":        email,
				"first_name":   c.FirstName,
				"last_name":    c.LastName,
				"phone":        c.Phone,
				"company_name": c.CompanyName,
			},
		})
	}
	_, _, err := r.ensure(ctx, catalog.EntityTypeCustomer, desired)
	return err
}

func (r *run) applyCompanies(ctx context.Context) error {
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.Companies))
	for _, c := range r.spec.Companies {
		desired = append(desired, catalog.DesiredEntity{
			Type: catalog.EntityTypeCompany,
			Key:  c.Name,
			Payload: map[string]any{
				"name":                  c.Name,
				"email":                 strings.ToLower(c.Email),
				"phone":                 c.Phone,
				"address":               c.Address,
				"city":                  c.City,
				"state":                 c.State,
				"zip":                   c.Zip,
				"country":               strings.ToLower(c.Country),
				"currency_code":         strings.ToLower(defaultString(c.CurrencyCode, r.spec.Store.DefaultCurrency)),
				"spending_reset_period": c.SpendingResetPeriod,
			},
		})
	}
	_, _, err := r.ensure(ctx, catalog.EntityTypeCompany, desired)
	return err
}

// applyEmployees attaches customers to companies. The employee's
// natural key is the customer email; the company is its parent.
func (r *run) applyEmployees(ctx context.Context) error {
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.Employees))
	for _, e := range r.spec.Employees {
		email := strings.ToLower(e.Customer)
		customerID, err := r.mustResolve(catalog.EntityTypeCustomer, email)
		if err != nil {
			return err
		}
		desired = append(desired, catalog.DesiredEntity{
			Type:         catalog.EntityTypeEmployee,
			Key:          email,
			ParentHandle: e.Company,
			Payload: map[string]any{
				"customer_email": email,
				"customer_id":    customerID,
				"spending_limit": e.SpendingLimit,
				"is_admin":       e.IsAdmin,
			},
		})
	}
	_, _, err := r.ensure(ctx, catalog.EntityTypeEmployee, desired)
	return err
}

func (r *run) applyProductTypes(ctx context.Context) error {
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.ProductTypes))
	for _, value := range r.spec.ProductTypes {
		desired = append(desired, catalog.DesiredEntity{
			Type:    catalog.EntityTypeProductType,
			Key:     value,
			Payload: map[string]any{"value": value},
		})
	}
	_, _, err := r.ensure(ctx, catalog.EntityTypeProductType, desired)
	return err
}

func (r *run) applyProductTags(ctx context.Context) error {
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.ProductTags))
	for _, value := range r.spec.ProductTags {
		desired = append(desired, catalog.DesiredEntity{
			Type:    catalog.EntityTypeProductTag,
			Key:     value,
			Payload: map[string]any{"value": value},
		})
	}
	_, _, err := r.ensure(ctx, catalog.EntityTypeProductTag, desired)
	return err
}

func (r *run) applyCampaigns(ctx context.Context) error {
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.Campaigns))
	for _, c := range r.spec.Campaigns {
		payload := map[string]any{
			"name":                c.Name,
			"campaign_identifier": c.Identifier,
			"description":         c.Description,
			"budget_type":         defaultString(c.BudgetType, "usage"),
			"budget_limit":        c.BudgetLimit,
		}
		if c.StartsAt != nil {
			payload["starts_at"] = c.StartsAt.UTC().Format(time.RFC3339)
		}
		if c.EndsAt != nil {
			payload["ends_at"] = c.EndsAt.UTC().Format(time.RFC3339)
		}
		desired = append(desired, catalog.DesiredEntity{
			Type:    catalog.EntityTypeCampaign,
			Key:     c.Identifier,
			Payload: payload,
		})
	}
	_, _, err := r.ensure(ctx, catalog.EntityTypeCampaign, desired)
	return err
}

// applyPromotions creates promotions and links each to its campaign.
func (r *run) applyPromotions(ctx context.Context) error {
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.Promotions))
	for _, p := range r.spec.Promotions {
		desired = append(desired, catalog.DesiredEntity{
			Type: catalog.EntityTypePromotion,
			Key:  p.Code,
			Payload: map[string]any{
				"code":   p.Code,
				"status": defaultString(p.Status, "active"),
				"application_method": map[string]any{
					"type":          p.Type,
					"target_type":   defaultString(p.TargetType, "items"),
					"allocation":    defaultString(p.Allocation, "across"),
					"value":         p.Value,
					"currency_code": strings.ToLower(p.CurrencyCode),
					"max_quantity":  p.MaxQuantity,
				},
				"campaign_identifier": p.Campaign,
			},
		})
	}
	if _, _, err := r.ensure(ctx, catalog.EntityTypePromotion, desired); err != nil {
		return err
	}

	var pairs []catalog.LinkPair
	for _, p := range r.spec.Promotions {
		if p.Campaign == "" {
			continue
		}
		campaignID, ok := r.resolve(catalog.EntityTypeCampaign, p.Campaign)
		if !ok {
			r.warn(fmt.Sprintf("promotion %q references unknown campaign %q", p.Code, p.Campaign))
			continue
		}
		promoID, err := r.mustResolve(catalog.EntityTypePromotion, p.Code)
		if err != nil {
			return err
		}
		pairs = append(pairs, catalog.LinkPair{LeftID: campaignID, RightID: promoID})
	}
	return r.link(ctx, catalog.LinkCampaignPromotion, pairs)
}

func (r *run) applyReturnReasons(ctx context.Context) error {
	desired := make([]catalog.DesiredEntity, 0, len(r.spec.ReturnReasons))
	for _, rr := range r.spec.ReturnReasons {
		desired = append(desired, catalog.DesiredEntity{
			Type: catalog.EntityTypeReturnReason,
			Key:  rr.Value,
			Payload: map[string]any{
				"value":       rr.Value,
				"label":       rr.Label,
				"description": rr.Description,
			},
		})
	}
	_, _, err := r.ensure(ctx, catalog.EntityTypeReturnReason, desired)
	return err
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}

func defaultString(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// stockedQuantity picks a deterministic pseudo-random quantity for a
// SKU based on the inventory spec's rules.
func stockedQuantity(inv InventorySpec, sku string, rng *rand.Rand) int {
	min, max := inv.DefaultMin, inv.DefaultMax
	if max <= 0 {
		min, max = 50, 250
	}
	upper := strings.ToUpper(sku)
	for _, rule := range inv.QuantityRules {
		for _, sub := range rule.Contains {
			if strings.Contains(upper, strings.ToUpper(sub)) {
				min, max = rule.Min, rule.Max
			}
		}
	}
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}
