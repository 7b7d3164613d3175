package catalog

// Resolution is the outcome of a claim against a resource pool.
type Resolution string

const (
	// ResolutionGranted means every requested token was granted.
	ResolutionGranted Resolution = "granted"
	// ResolutionPartial means only a strict subset was granted; the
	// entity is still created, with the granted tokens only.
	ResolutionPartial Resolution = "partial"
	// ResolutionSkipped means no token was available; the entity must
	// not be created at all.
	ResolutionSkipped Resolution = "skipped"
)

// CountryPool tracks exclusive ownership of ISO country codes across
// all regions within a single reconciliation run. A code is owned by at
// most one region at any time; once claimed it stays claimed for the
// remainder of the run. The pool is scoped to one run and must not be
// cached across runs, since store state may change between them.
type CountryPool struct {
	owners map[string]string
}

// NewCountryPool returns an empty pool in which every code is available.
func NewCountryPool() *CountryPool {
	return &CountryPool{owners: make(map[string]string)}
}

// SeedFromRegions marks the country codes of existing regions as owned
// before any desired entity is processed.
func (p *CountryPool) SeedFromRegions(regions []ExistingEntity) {
	for _, r := range regions {
		for _, code := range r.Countries {
			if _, taken := p.owners[code]; !taken {
				p.owners[code] = r.ID
			}
		}
	}
}

// Claim grants the subset of requested codes not already owned and
// assigns them to ownerID. Granting is immediate and irrevocable for
// the remainder of the run: a later claimant competing for the same
// code always loses.
func (p *CountryPool) Claim(requested []string, ownerID string) ([]string, Resolution) {
	var granted []string
	for _, code := range requested {
		if _, taken := p.owners[code]; taken {
			continue
		}
		p.owners[code] = ownerID
		granted = append(granted, code)
	}
	switch {
	case len(granted) == 0:
		return nil, ResolutionSkipped
	case len(granted) < len(requested):
		return granted, ResolutionPartial
	default:
		return granted, ResolutionGranted
	}
}

// Owner returns the current owner of a code, if any.
func (p *CountryPool) Owner(code string) (string, bool) {
	owner, ok := p.owners[code]
	return owner, ok
}

// Owned returns the number of codes currently claimed.
func (p *CountryPool) Owned() int {
	return len(p.owners)
}
