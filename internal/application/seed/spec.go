package seed

import "time"

// CatalogSpec is the declarative desired state of the commerce catalog.
// It is loaded from a fixture file (see infrastructure/fixtures) and
// handed to the Reconciler; nothing in it references store-assigned
// IDs, only natural keys and local handles.
type CatalogSpec struct {
	Store            StoreDefaults         `mapstructure:"store"`
	SalesChannels    []SalesChannelSpec    `mapstructure:"sales_channels" validate:"min=1,dive"`
	Regions          []RegionSpec          `mapstructure:"regions" validate:"dive"`
	StockLocations   []StockLocationSpec   `mapstructure:"stock_locations" validate:"dive"`
	ShippingProfiles []ShippingProfileSpec `mapstructure:"shipping_profiles" validate:"dive"`
	FulfillmentSets  []FulfillmentSetSpec  `mapstructure:"fulfillment_sets" validate:"dive"`
	ShippingOptions  []ShippingOptionSpec  `mapstructure:"shipping_options" validate:"dive"`
	APIKeys          []APIKeySpec          `mapstructure:"api_keys" validate:"dive"`
	Collections      []CollectionSpec      `mapstructure:"collections" validate:"dive"`
	Categories       []CategorySpec        `mapstructure:"categories" validate:"dive"`
	Products         []ProductSpec         `mapstructure:"products" validate:"dive"`
	CustomerGroups   []CustomerGroupSpec   `mapstructure:"customer_groups" validate:"dive"`
	Customers        []CustomerSpec        `mapstructure:"customers" validate:"dive"`
	Companies        []CompanySpec         `mapstructure:"companies" validate:"dive"`
	Employees        []EmployeeSpec        `mapstructure:"employees" validate:"dive"`
	Inventory        InventorySpec         `mapstructure:"inventory"`
	ProductTypes     []string              `mapstructure:"product_types"`
	ProductTags      []string              `mapstructure:"product_tags"`
	TypeByPrefix     map[string]string     `mapstructure:"type_by_prefix"`
	TagsByHandle     map[string][]string   `mapstructure:"tags_by_handle"`
	PriceLists       []PriceListSpec       `mapstructure:"price_lists" validate:"dive"`
	Campaigns        []CampaignSpec        `mapstructure:"campaigns" validate:"dive"`
	Promotions       []PromotionSpec       `mapstructure:"promotions" validate:"dive"`
	ReturnReasons    []ReturnReasonSpec    `mapstructure:"return_reasons" validate:"dive"`
}

// StoreDefaults are the store-level settings applied once per run.
type StoreDefaults struct {
	Name                string   `mapstructure:"name"`
	SupportedCurrencies []string `mapstructure:"supported_currencies" validate:"dive,len=3"`
	DefaultCurrency     string   `mapstructure:"default_currency" validate:"omitempty,len=3"`
	DefaultSalesChannel string   `mapstructure:"default_sales_channel"`
}

type SalesChannelSpec struct {
	Name        string `mapstructure:"name" validate:"required"`
	Description string `mapstructure:"description"`
}

type RegionSpec struct {
	Name             string   `mapstructure:"name" validate:"required"`
	CurrencyCode     string   `mapstructure:"currency_code" validate:"required,len=3"`
	Countries        []string `mapstructure:"countries" validate:"min=1,dive,len=2"`
	PaymentProviders []string `mapstructure:"payment_providers"`
}

type StockLocationSpec struct {
	Name        string `mapstructure:"name" validate:"required"`
	City        string `mapstructure:"city"`
	CountryCode string `mapstructure:"country_code" validate:"omitempty,len=2"`
	Address     string `mapstructure:"address"`
}

type ShippingProfileSpec struct {
	Name string `mapstructure:"name" validate:"required"`
	Type string `mapstructure:"type"`
}

type FulfillmentSetSpec struct {
	Name          string `mapstructure:"name" validate:"required"`
	Type          string `mapstructure:"type"`
	ServiceZone   string `mapstructure:"service_zone"`
	StockLocation string `mapstructure:"stock_location" validate:"required"`
	Provider      string `mapstructure:"provider"`
}

type ShippingOptionSpec struct {
	Name            string `mapstructure:"name" validate:"required"`
	Provider        string `mapstructure:"provider"`
	Profile         string `mapstructure:"profile" validate:"required"`
	FulfillmentSet  string `mapstructure:"fulfillment_set" validate:"required"`
	TypeLabel       string `mapstructure:"type_label"`
	TypeDescription string `mapstructure:"type_description"`
	TypeCode        string `mapstructure:"type_code"`
	// Flat price in the reference currency, plus a cheaper price scoped
	// to the primary region of that currency.
	Amount       int64 `mapstructure:"amount" validate:"min=0"`
	RegionAmount int64 `mapstructure:"region_amount" validate:"min=0"`
}

type APIKeySpec struct {
	Title         string   `mapstructure:"title" validate:"required"`
	Type          string   `mapstructure:"type" validate:"oneof=publishable secret"`
	SalesChannels []string `mapstructure:"sales_channels"`
}

type CollectionSpec struct {
	Title  string `mapstructure:"title" validate:"required"`
	Handle string `mapstructure:"handle" validate:"required"`
}

type CategorySpec struct {
	Name   string `mapstructure:"name" validate:"required"`
	Handle string `mapstructure:"handle" validate:"required"`
	Parent string `mapstructure:"parent"`
	Rank   int    `mapstructure:"rank"`
	Active bool   `mapstructure:"active"`
}

type ProductOptionSpec struct {
	Title  string   `mapstructure:"title" validate:"required"`
	Values []string `mapstructure:"values" validate:"min=1"`
}

type VariantSpec struct {
	Title   string            `mapstructure:"title"`
	SKU     string            `mapstructure:"sku" validate:"required"`
	Options map[string]string `mapstructure:"options"`
	// Currency code (lowercase) to minor-unit amount.
	Prices map[string]int64 `mapstructure:"prices" validate:"min=1"`
}

type ProductSpec struct {
	Title       string              `mapstructure:"title" validate:"required"`
	Handle      string              `mapstructure:"handle" validate:"required"`
	Subtitle    string              `mapstructure:"subtitle"`
	Description string              `mapstructure:"description"`
	Status      string              `mapstructure:"status"`
	Material    string              `mapstructure:"material"`
	Weight      int                 `mapstructure:"weight"`
	Collection  string              `mapstructure:"collection"`
	Categories  []string            `mapstructure:"categories"`
	Options     []ProductOptionSpec `mapstructure:"options"`
	Variants    []VariantSpec       `mapstructure:"variants" validate:"dive"`
}

type CustomerGroupSpec struct {
	Name string `mapstructure:"name" validate:"required"`
}

type CustomerSpec struct {
	Email       string `mapstructure:"email" validate:"required,email"`
	FirstName   string `mapstructure:"first_name"`
	LastName    string `mapstructure:"last_name"`
	Phone       string `mapstructure:"phone"`
	CompanyName string `mapstructure:"company_name"`
}

type CompanySpec struct {
	Name                string `mapstructure:"name" validate:"required"`
	Email               string `mapstructure:"email" validate:"omitempty,email"`
	Phone               string `mapstructure:"phone"`
	Address             string `mapstructure:"address"`
	City                string `mapstructure:"city"`
	State               string `mapstructure:"state"`
	Zip                 string `mapstructure:"zip"`
	Country             string `mapstructure:"country" validate:"omitempty,len=2"`
	CurrencyCode        string `mapstructure:"currency_code" validate:"omitempty,len=3"`
	SpendingResetPeriod string `mapstructure:"spending_reset_period"`
}

type EmployeeSpec struct {
	Company       string `mapstructure:"company" validate:"required"`
	Customer      string `mapstructure:"customer" validate:"required,email"`
	SpendingLimit int64  `mapstructure:"spending_limit" validate:"min=0"`
	IsAdmin       bool   `mapstructure:"is_admin"`
}

// QuantityRule selects a stocked-quantity range for variants whose SKU
// contains one of the given substrings (case-insensitive).
type QuantityRule struct {
	Contains []string `mapstructure:"contains" validate:"min=1"`
	Min      int      `mapstructure:"min" validate:"min=0"`
	Max      int      `mapstructure:"max" validate:"gtefield=Min"`
}

// InventorySpec drives inventory level creation and item metadata
// enrichment.
type InventorySpec struct {
	Location      string            `mapstructure:"location"`
	Seed          int64             `mapstructure:"seed"`
	QuantityRules []QuantityRule    `mapstructure:"quantity_rules" validate:"dive"`
	DefaultMin    int               `mapstructure:"default_min"`
	DefaultMax    int               `mapstructure:"default_max"`
	HSCodes       map[string]string `mapstructure:"hs_codes"`
	DefaultHSCode string            `mapstructure:"default_hs_code"`
	OriginCountry string            `mapstructure:"origin_country"`
	Material      string            `mapstructure:"material"`
}

type CurrencyRateSpec struct {
	Code string  `mapstructure:"code" validate:"required,len=3"`
	Rate float64 `mapstructure:"rate" validate:"gt=0"`
}

type PriceListSpec struct {
	Title           string             `mapstructure:"title" validate:"required"`
	Description     string             `mapstructure:"description"`
	Type            string             `mapstructure:"type"`
	Status          string             `mapstructure:"status"`
	BaseCurrency    string             `mapstructure:"base_currency" validate:"omitempty,len=3"`
	DiscountPercent float64            `mapstructure:"discount_percent" validate:"gte=0,lt=1"`
	FixedOff        int64              `mapstructure:"fixed_off" validate:"min=0"`
	MinQuantity     int                `mapstructure:"min_quantity" validate:"min=0"`
	CustomerGroups  []string           `mapstructure:"customer_groups"`
	SKUPrefixes     []string           `mapstructure:"sku_prefixes"`
	Categories      []string           `mapstructure:"categories"`
	Currencies      []CurrencyRateSpec `mapstructure:"currencies" validate:"min=1,dive"`
}

type CampaignSpec struct {
	Name        string     `mapstructure:"name" validate:"required"`
	Identifier  string     `mapstructure:"identifier" validate:"required"`
	Description string     `mapstructure:"description"`
	BudgetType  string     `mapstructure:"budget_type"`
	BudgetLimit int        `mapstructure:"budget_limit" validate:"min=0"`
	StartsAt    *time.Time `mapstructure:"starts_at"`
	EndsAt      *time.Time `mapstructure:"ends_at"`
}

type PromotionSpec struct {
	Code         string `mapstructure:"code" validate:"required"`
	Campaign     string `mapstructure:"campaign"`
	Status       string `mapstructure:"status"`
	Type         string `mapstructure:"type" validate:"oneof=percentage fixed"`
	TargetType   string `mapstructure:"target_type"`
	Allocation   string `mapstructure:"allocation"`
	Value        int64  `mapstructure:"value" validate:"min=0"`
	CurrencyCode string `mapstructure:"currency_code" validate:"omitempty,len=3"`
	MaxQuantity  int    `mapstructure:"max_quantity" validate:"min=0"`
}

type ReturnReasonSpec struct {
	Value       string `mapstructure:"value" validate:"required"`
	Label       string `mapstructure:"label" validate:"required"`
	Description string `mapstructure:"description"`
}
