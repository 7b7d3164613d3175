package catalog

// EntityType identifies one kind of catalog object managed by the
// reconciler. The set mirrors what the commerce store exposes through
// its list/create endpoints.
type EntityType string

const (
	EntityTypeSalesChannel    EntityType = "sales_channel"
	EntityTypeRegion          EntityType = "region"
	EntityTypeTaxRegion       EntityType = "tax_region"
	EntityTypeStockLocation   EntityType = "stock_location"
	EntityTypeShippingProfile EntityType = "shipping_profile"
	EntityTypeFulfillmentSet  EntityType = "fulfillment_set"
	EntityTypeShippingOption  EntityType = "shipping_option"
	EntityTypeAPIKey          EntityType = "api_key"
	EntityTypeCollection      EntityType = "collection"
	EntityTypeCategory        EntityType = "category"
	EntityTypeProduct         EntityType = "product"
	EntityTypeVariant         EntityType = "variant"
	EntityTypeCustomerGroup   EntityType = "customer_group"
	EntityTypeCustomer        EntityType = "customer"
	EntityTypeCompany         EntityType = "company"
	EntityTypeEmployee        EntityType = "employee"
	EntityTypeInventoryLevel  EntityType = "inventory_level"
	EntityTypeProductType     EntityType = "product_type"
	EntityTypeProductTag      EntityType = "product_tag"
	EntityTypePriceList       EntityType = "price_list"
	EntityTypeCampaign        EntityType = "campaign"
	EntityTypePromotion       EntityType = "promotion"
	EntityTypeReturnReason    EntityType = "return_reason"

	// EntityTypeStore is the singleton store-settings record. It is not
	// part of ApplyOrder; the reconciler handles it explicitly once the
	// default sales channel is known.
	EntityTypeStore EntityType = "store"
)

// ApplyOrder is the fixed topological order in which entity types are
// reconciled. Later types may reference IDs of earlier ones, so the
// order must not change without revisiting every reference in the
// reconciler.
var ApplyOrder = []EntityType{
	EntityTypeSalesChannel,
	EntityTypeRegion,
	EntityTypeTaxRegion,
	EntityTypeStockLocation,
	EntityTypeShippingProfile,
	EntityTypeFulfillmentSet,
	EntityTypeShippingOption,
	EntityTypeAPIKey,
	EntityTypeCollection,
	EntityTypeCategory,
	EntityTypeProduct,
	EntityTypeVariant,
	EntityTypeCustomerGroup,
	EntityTypeCustomer,
	EntityTypeCompany,
	EntityTypeEmployee,
	EntityTypeInventoryLevel,
	EntityTypeProductType,
	EntityTypeProductTag,
	EntityTypePriceList,
	EntityTypeCampaign,
	EntityTypePromotion,
	EntityTypeReturnReason,
}

// naturalKeyFields maps each entity type to the attribute that acts as
// its natural key: a stable, human-meaningful identifier used to decide
// whether a desired entity already exists, independent of store IDs.
var naturalKeyFields = map[EntityType]string{
	EntityTypeSalesChannel:    "name",
	EntityTypeRegion:          "name",
	EntityTypeTaxRegion:       "country_code",
	EntityTypeStockLocation:   "name",
	EntityTypeShippingProfile: "name",
	EntityTypeFulfillmentSet:  "name",
	EntityTypeShippingOption:  "name",
	EntityTypeAPIKey:          "title",
	EntityTypeCollection:      "handle",
	EntityTypeCategory:        "handle",
	EntityTypeProduct:         "handle",
	EntityTypeVariant:         "sku",
	EntityTypeCustomerGroup:   "name",
	EntityTypeCustomer:        "email",
	EntityTypeCompany:         "name",
	EntityTypeEmployee:        "customer_email",
	EntityTypeInventoryLevel:  "sku",
	EntityTypeProductType:     "value",
	EntityTypeProductTag:      "value",
	EntityTypePriceList:       "title",
	EntityTypeCampaign:        "campaign_identifier",
	EntityTypePromotion:       "code",
	EntityTypeReturnReason:    "value",
	EntityTypeStore:           "name",
}

// NaturalKeyField returns the payload attribute used as the natural key
// for the given entity type.
func NaturalKeyField(t EntityType) string {
	return naturalKeyFields[t]
}

// DesiredEntity describes one catalog object the reconciler wants to
// exist. Key is the value of the type's natural key. Handle is a
// run-local symbolic name other desired entities may reference before
// a store ID is assigned; it defaults to Key when empty.
type DesiredEntity struct {
	Type         EntityType
	Key          string
	Handle       string
	ParentHandle string
	Payload      map[string]any
}

// LocalHandle returns the symbolic handle used to register this entity
// in the run's ID map.
func (d DesiredEntity) LocalHandle() string {
	if d.Handle != "" {
		return d.Handle
	}
	return d.Key
}

// ExistingEntity is a catalog object returned by the store's listing
// operation. It shares the natural-key shape of DesiredEntity so the
// two can be compared.
type ExistingEntity struct {
	Type      EntityType
	ID        string
	Key       string
	ParentID  string
	Countries []string // populated for regions listed with country relations
	Payload   map[string]any
}

// CreatedEntity is the store's acknowledgement of a creation request.
type CreatedEntity struct {
	ID     string
	Key    string
	Handle string
}
