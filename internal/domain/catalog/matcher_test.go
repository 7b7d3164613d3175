package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExists(t *testing.T) {
	existing := []ExistingEntity{
		{Type: EntityTypeRegion, ID: "reg_1", Key: "Greece"},
		{Type: EntityTypeRegion, ID: "reg_2", Key: "European Union"},
	}

	tests := []struct {
		name    string
		desired DesiredEntity
		want    bool
	}{
		{
			name:    "matching natural key",
			desired: DesiredEntity{Type: EntityTypeRegion, Key: "Greece"},
			want:    true,
		},
		{
			name:    "no match",
			desired: DesiredEntity{Type: EntityTypeRegion, Key: "United States"},
			want:    false,
		},
		{
			name:    "matching is case-sensitive",
			desired: DesiredEntity{Type: EntityTypeRegion, Key: "greece"},
			want:    false,
		},
		{
			name:    "same key different type does not match",
			desired: DesiredEntity{Type: EntityTypeSalesChannel, Key: "Greece"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Exists(tt.desired, existing))
		})
	}
}

func TestExists_IgnoresAttributeDifferences(t *testing.T) {
	existing := []ExistingEntity{
		{Type: EntityTypeProduct, ID: "prod_1", Key: "silk-scarf-aegean-blue", Payload: map[string]any{"title": "Old Title"}},
	}
	desired := DesiredEntity{
		Type:    EntityTypeProduct,
		Key:     "silk-scarf-aegean-blue",
		Payload: map[string]any{"title": "New Title"},
	}

	// A matching key means skip, never update.
	assert.True(t, Exists(desired, existing))
}

func TestMissing(t *testing.T) {
	desired := []DesiredEntity{
		{Type: EntityTypeCollection, Key: "new-arrivals"},
		{Type: EntityTypeCollection, Key: "bestsellers"},
		{Type: EntityTypeCollection, Key: "summer-edit"},
	}
	existing := []ExistingEntity{
		{Type: EntityTypeCollection, ID: "col_1", Key: "bestsellers"},
	}

	missing := Missing(desired, existing)

	assert.Len(t, missing, 2)
	assert.Equal(t, "new-arrivals", missing[0].Key)
	assert.Equal(t, "summer-edit", missing[1].Key)
}

func TestMissing_EmptyExisting(t *testing.T) {
	desired := []DesiredEntity{
		{Type: EntityTypeProductTag, Key: "mulberry-silk"},
	}

	assert.Equal(t, desired, Missing(desired, nil))
}

func TestFindByKey(t *testing.T) {
	existing := []ExistingEntity{
		{Type: EntityTypeAPIKey, ID: "apk_1", Key: "B2C Storefront"},
		{Type: EntityTypeAPIKey, ID: "apk_2", Key: "B2B Wholesale"},
	}

	found, ok := FindByKey(existing, "B2B Wholesale")
	assert.True(t, ok)
	assert.Equal(t, "apk_2", found.ID)

	_, ok = FindByKey(existing, "Nonexistent")
	assert.False(t, ok)
}

func TestDesiredEntity_LocalHandle(t *testing.T) {
	withHandle := DesiredEntity{Key: "Athens Warehouse", Handle: "main-warehouse"}
	assert.Equal(t, "main-warehouse", withHandle.LocalHandle())

	withoutHandle := DesiredEntity{Key: "Athens Warehouse"}
	assert.Equal(t, "Athens Warehouse", withoutHandle.LocalHandle())
}
