package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silkshop/backend/internal/domain/catalog"
	"github.com/silkshop/backend/internal/infrastructure/config"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "catalog.db"),
	}
	db, err := NewDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	return NewGormStore(db)
}

func TestGormStore_CreateAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateBatch(ctx, catalog.EntityTypeRegion, []catalog.DesiredEntity{
		{
			Type: catalog.EntityTypeRegion,
			Key:  "Greece",
			Payload: map[string]any{
				"name":          "Greece",
				"currency_code": "eur",
				"countries":     []string{"gr", "cy"},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Contains(t, created[0].ID, "region_")
	assert.Equal(t, "Greece", created[0].Handle)

	listed, err := s.List(ctx, catalog.EntityTypeRegion, catalog.ListFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created[0].ID, listed[0].ID)
	assert.Equal(t, "Greece", listed[0].Key)
	assert.Equal(t, []string{"gr", "cy"}, listed[0].Countries)
	assert.Equal(t, "eur", listed[0].Payload["currency_code"])

	// Key filter
	byKey, err := s.List(ctx, catalog.EntityTypeRegion, catalog.ListFilter{Key: "Greece"})
	require.NoError(t, err)
	assert.Len(t, byKey, 1)
	none, err := s.List(ctx, catalog.EntityTypeRegion, catalog.ListFilter{Key: "Atlantis"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormStore_CreateBatchIsAtomic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateBatch(ctx, catalog.EntityTypeCollection, []catalog.DesiredEntity{
		{Type: catalog.EntityTypeCollection, Key: "heritage", Payload: map[string]any{"title": "Heritage"}},
		{Type: catalog.EntityTypeCollection, Key: "heritage", Payload: map[string]any{"title": "Duplicate"}},
	})
	require.Error(t, err)

	listed, err := s.List(ctx, catalog.EntityTypeCollection, catalog.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed, "failed batch must not leave partial rows")
}

func TestGormStore_SameKeyDifferentType(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateBatch(ctx, catalog.EntityTypeProductType, []catalog.DesiredEntity{
		{Type: catalog.EntityTypeProductType, Key: "Silk", Payload: map[string]any{"value": "Silk"}},
	})
	require.NoError(t, err)
	_, err = s.CreateBatch(ctx, catalog.EntityTypeProductTag, []catalog.DesiredEntity{
		{Type: catalog.EntityTypeProductTag, Key: "Silk", Payload: map[string]any{"value": "Silk"}},
	})
	require.NoError(t, err, "natural keys are only unique per type")
}

func TestGormStore_UpdateMergesPayload(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateBatch(ctx, catalog.EntityTypeVariant, []catalog.DesiredEntity{
		{Type: catalog.EntityTypeVariant, Key: "SCARF-AEGEAN-70", Payload: map[string]any{
			"sku":    "SCARF-AEGEAN-70",
			"prices": map[string]int64{"eur": 8900},
		}},
	})
	require.NoError(t, err)

	err = s.Update(ctx, catalog.EntityTypeVariant, created[0].ID, map[string]any{
		"hs_code":        "6214.53",
		"origin_country": "gr",
	})
	require.NoError(t, err)

	listed, err := s.List(ctx, catalog.EntityTypeVariant, catalog.ListFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "6214.53", listed[0].Payload["hs_code"])
	// Pre-existing attributes survive the merge.
	prices := listed[0].Payload["prices"].(map[string]any)
	assert.Equal(t, float64(8900), prices["eur"])

	err = s.Update(ctx, catalog.EntityTypeVariant, "variant_missing", map[string]any{"hs_code": "x"})
	assert.Error(t, err)
}

func TestGormStore_LinkDeduplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	pair := catalog.LinkPair{LeftID: "channel_1", RightID: "loc_1"}

	require.NoError(t, s.Link(ctx, catalog.LinkChannelStockLocation, []catalog.LinkPair{pair}))

	err := s.Link(ctx, catalog.LinkChannelStockLocation, []catalog.LinkPair{pair})
	assert.ErrorIs(t, err, catalog.ErrAlreadyLinked)

	// A mix of old and new pairs succeeds and inserts only the new one.
	err = s.Link(ctx, catalog.LinkChannelStockLocation, []catalog.LinkPair{
		pair,
		{LeftID: "channel_1", RightID: "loc_2"},
	})
	assert.NoError(t, err)
}

func TestGormStore_DeleteRemovesLinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateBatch(ctx, catalog.EntityTypeSalesChannel, []catalog.DesiredEntity{
		{Type: catalog.EntityTypeSalesChannel, Key: "B2B Portal", Payload: map[string]any{"name": "B2B Portal"}},
	})
	require.NoError(t, err)
	id := created[0].ID
	require.NoError(t, s.Link(ctx, catalog.LinkAPIKeySalesChannel, []catalog.LinkPair{{LeftID: "key_1", RightID: id}}))

	require.NoError(t, s.Delete(ctx, catalog.EntityTypeSalesChannel, []string{id}))

	listed, err := s.List(ctx, catalog.EntityTypeSalesChannel, catalog.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed)
	// Re-linking the same pair succeeds because the old row is gone.
	assert.NoError(t, s.Link(ctx, catalog.LinkAPIKeySalesChannel, []catalog.LinkPair{{LeftID: "key_1", RightID: id}}))
}

func TestGormStore_Revoke(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateBatch(ctx, catalog.EntityTypeAPIKey, []catalog.DesiredEntity{
		{Type: catalog.EntityTypeAPIKey, Key: "Webshop", Payload: map[string]any{"title": "Webshop", "type": "publishable"}},
	})
	require.NoError(t, err)

	require.NoError(t, s.Revoke(ctx, catalog.EntityTypeAPIKey, []string{created[0].ID}))

	var row CatalogEntityModel
	require.NoError(t, s.db.Where("id = ?", created[0].ID).First(&row).Error)
	assert.True(t, row.Revoked)
}
