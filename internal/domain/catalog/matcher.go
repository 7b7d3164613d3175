package catalog

// Exists reports whether a desired entity already exists in the given
// set of existing entities of the same type. Matching is exact and
// case-sensitive on the natural key only: attribute differences on an
// otherwise-matching key do not count as a mismatch, and are never
// treated as updates. Re-running reconciliation therefore never mutates
// previously created entities, it only adds missing ones.
func Exists(desired DesiredEntity, existing []ExistingEntity) bool {
	for _, e := range existing {
		if e.Type == desired.Type && e.Key == desired.Key {
			return true
		}
	}
	return false
}

// Missing filters the desired set down to entities whose natural key
// does not match any existing entity. Order is preserved.
func Missing(desired []DesiredEntity, existing []ExistingEntity) []DesiredEntity {
	if len(existing) == 0 {
		return desired
	}
	keys := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		keys[string(e.Type)+"\x00"+e.Key] = struct{}{}
	}
	var out []DesiredEntity
	for _, d := range desired {
		if _, ok := keys[string(d.Type)+"\x00"+d.Key]; !ok {
			out = append(out, d)
		}
	}
	return out
}

// FindByKey returns the existing entity with the given natural key, or
// false when none matches.
func FindByKey(existing []ExistingEntity, key string) (ExistingEntity, bool) {
	for _, e := range existing {
		if e.Key == key {
			return e, true
		}
	}
	return ExistingEntity{}, false
}
