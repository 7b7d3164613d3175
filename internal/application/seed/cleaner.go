package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/silkshop/backend/internal/domain/catalog"
)

// Cleaner tears down everything the reconciler manages, in reverse
// apply order so dependents go before their dependencies. It is the
// inverse of Reconciler.Run and exists for wiping demo environments.
type Cleaner struct {
	store catalog.Store
	log   *zap.Logger

	// Protected sales channels are kept so the storefront stays usable
	// after a wipe.
	protectedChannels map[string]struct{}
}

func NewCleaner(store catalog.Store, log *zap.Logger, protectedChannels ...string) *Cleaner {
	protected := make(map[string]struct{}, len(protectedChannels))
	for _, name := range protectedChannels {
		protected[name] = struct{}{}
	}
	return &Cleaner{store: store, log: log, protectedChannels: protected}
}

// CleanReport counts deletions per entity type.
type CleanReport struct {
	Deleted map[catalog.EntityType]int `json:"deleted"`
	Kept    map[catalog.EntityType]int `json:"kept"`
	Elapsed time.Duration              `json:"elapsed"`
}

// Run deletes all managed entities. API keys are revoked before
// deletion since the store refuses to delete live keys. Failures abort
// immediately; a partial clean is safe to re-run.
func (c *Cleaner) Run(ctx context.Context) (*CleanReport, error) {
	started := time.Now()
	report := &CleanReport{
		Deleted: make(map[catalog.EntityType]int),
		Kept:    make(map[catalog.EntityType]int),
	}

	for i := len(catalog.ApplyOrder) - 1; i >= 0; i-- {
		t := catalog.ApplyOrder[i]
		existing, err := c.store.List(ctx, t, catalog.ListFilter{})
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", t, err)
		}

		var ids []string
		for _, e := range existing {
			if t == catalog.EntityTypeSalesChannel {
				if _, keep := c.protectedChannels[e.Key]; keep {
					report.Kept[t]++
					continue
				}
			}
			ids = append(ids, e.ID)
		}
		if len(ids) == 0 {
			continue
		}

		if t == catalog.EntityTypeAPIKey {
			if err := c.store.Revoke(ctx, t, ids); err != nil {
				return nil, fmt.Errorf("revoke api keys: %w", err)
			}
		}
		if err := c.store.Delete(ctx, t, ids); err != nil {
			return nil, fmt.Errorf("delete %s: %w", t, err)
		}
		report.Deleted[t] = len(ids)
		c.log.Info("deleted entities", zap.String("type", string(t)), zap.Int("count", len(ids)))
	}

	report.Elapsed = time.Since(started)
	return report, nil
}
