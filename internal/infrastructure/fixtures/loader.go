package fixtures

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/silkshop/backend/internal/application/seed"
	"github.com/silkshop/backend/internal/domain/shared"
)

// Load reads a catalog fixture file (TOML) into a CatalogSpec and
// validates it. Validation failures carry the offending field path so
// fixture authors can find the mistake.
func Load(path string) (*seed.CatalogSpec, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}

	var spec seed.CatalogSpec
	if err := v.Unmarshal(&spec); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", path, err)
	}

	if err := Validate(&spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks the structural constraints of a spec plus the
// cross-references a struct validator cannot see.
func Validate(spec *seed.CatalogSpec) error {
	if err := validator.New().Struct(spec); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("%w: fixture field %s fails rule %q", shared.ErrInvalidInput, first.Namespace(), first.Tag())
		}
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	return validateReferences(spec)
}

// validateReferences rejects fixtures whose local handles dangle. The
// reconciler would catch these too, but only mid-run; failing at load
// time keeps broken fixtures from half-applying.
func validateReferences(spec *seed.CatalogSpec) error {
	channels := make(map[string]struct{}, len(spec.SalesChannels))
	for _, c := range spec.SalesChannels {
		channels[c.Name] = struct{}{}
	}
	if spec.Store.DefaultSalesChannel != "" {
		if _, ok := channels[spec.Store.DefaultSalesChannel]; !ok {
			return fmt.Errorf("%w: default sales channel %q is not declared", shared.ErrInvalidInput, spec.Store.DefaultSalesChannel)
		}
	}
	for _, k := range spec.APIKeys {
		for _, name := range k.SalesChannels {
			if _, ok := channels[name]; !ok {
				return fmt.Errorf("%w: api key %q references undeclared sales channel %q", shared.ErrInvalidInput, k.Title, name)
			}
		}
	}

	categories := make(map[string]struct{}, len(spec.Categories))
	for _, c := range spec.Categories {
		categories[c.Handle] = struct{}{}
	}
	for _, c := range spec.Categories {
		if c.Parent == "" {
			continue
		}
		if _, ok := categories[c.Parent]; !ok {
			return fmt.Errorf("%w: category %q references undeclared parent %q", shared.ErrInvalidInput, c.Handle, c.Parent)
		}
	}

	collections := make(map[string]struct{}, len(spec.Collections))
	for _, c := range spec.Collections {
		collections[c.Handle] = struct{}{}
	}
	skus := make(map[string]struct{})
	for _, p := range spec.Products {
		if p.Collection != "" {
			if _, ok := collections[p.Collection]; !ok {
				return fmt.Errorf("%w: product %q references undeclared collection %q", shared.ErrInvalidInput, p.Handle, p.Collection)
			}
		}
		for _, handle := range p.Categories {
			if _, ok := categories[handle]; !ok {
				return fmt.Errorf("%w: product %q references undeclared category %q", shared.ErrInvalidInput, p.Handle, handle)
			}
		}
		for _, variant := range p.Variants {
			if _, dup := skus[variant.SKU]; dup {
				return fmt.Errorf("%w: duplicate SKU %q", shared.ErrInvalidInput, variant.SKU)
			}
			skus[variant.SKU] = struct{}{}
		}
	}

	companies := make(map[string]struct{}, len(spec.Companies))
	for _, c := range spec.Companies {
		companies[c.Name] = struct{}{}
	}
	for _, e := range spec.Employees {
		if _, ok := companies[e.Company]; !ok {
			return fmt.Errorf("%w: employee %q references undeclared company %q", shared.ErrInvalidInput, e.Customer, e.Company)
		}
	}

	campaigns := make(map[string]struct{}, len(spec.Campaigns))
	for _, c := range spec.Campaigns {
		campaigns[c.Identifier] = struct{}{}
	}
	for _, p := range spec.Promotions {
		if p.Campaign == "" {
			continue
		}
		if _, ok := campaigns[p.Campaign]; !ok {
			return fmt.Errorf("%w: promotion %q references undeclared campaign %q", shared.ErrInvalidInput, p.Code, p.Campaign)
		}
	}

	return nil
}
