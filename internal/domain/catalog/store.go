package catalog

import (
	"context"

	"github.com/silkshop/backend/internal/domain/shared"
)

// ErrAlreadyLinked is returned by Link when the relation already holds
// the given pair. Callers are expected to tolerate it on re-runs.
var ErrAlreadyLinked = shared.NewDomainError("ALREADY_LINKED", "Relation already exists")

// LinkRelation names a cross-entity relation maintained through the
// store's link endpoint.
type LinkRelation string

const (
	LinkChannelStockLocation    LinkRelation = "sales_channel_stock_location"
	LinkAPIKeySalesChannel      LinkRelation = "api_key_sales_channel"
	LinkProductShippingProfile  LinkRelation = "product_shipping_profile"
	LinkLocationFulfillmentSet  LinkRelation = "stock_location_fulfillment_set"
	LinkLocationFulfillProvider LinkRelation = "stock_location_fulfillment_provider"
	LinkCampaignPromotion       LinkRelation = "campaign_promotion"
)

// LinkPair is one (left, right) ID pair of a relation.
type LinkPair struct {
	LeftID  string
	RightID string
}

// ListFilter narrows a listing call. Zero value lists everything of the
// type.
type ListFilter struct {
	Key      string // exact natural-key match
	ParentID string // for hierarchical types
}

// Store is the boundary to the commerce catalog's persistence layer.
// The reconciliation core only produces and consumes plain entity
// records; storage, schema validation and query execution belong to the
// implementation behind this interface.
type Store interface {
	// List returns existing entities of one type matching the filter.
	List(ctx context.Context, t EntityType, f ListFilter) ([]ExistingEntity, error)

	// CreateBatch creates all given entities in one atomic call. The
	// whole batch fails on any invalid payload; there is no
	// partial-success contract.
	CreateBatch(ctx context.Context, t EntityType, entities []DesiredEntity) ([]CreatedEntity, error)

	// Update merges attributes into an existing entity's payload.
	Update(ctx context.Context, t EntityType, id string, attrs map[string]any) error

	// Link records relation pairs. Returns ErrAlreadyLinked when a pair
	// already exists.
	Link(ctx context.Context, relation LinkRelation, pairs []LinkPair) error

	// Delete removes entities of one type by ID.
	Delete(ctx context.Context, t EntityType, ids []string) error

	// Revoke marks entities revoked. Some types (API keys) require this
	// before Delete.
	Revoke(ctx context.Context, t EntityType, ids []string) error
}
