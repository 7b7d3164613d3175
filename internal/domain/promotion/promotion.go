package promotion

import "time"

// Status of a promotion as stored in the catalog.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDraft    Status = "draft"
)

// Application method shapes recognised by the projector.
const (
	MethodTypePercentage = "percentage"
	MethodTypeFixed      = "fixed"

	TargetTypeItems           = "items"
	TargetTypeShippingMethods = "shipping_methods"
)

// ApplicationMethod describes how a promotion applies its value.
type ApplicationMethod struct {
	Type         string // percentage | fixed
	TargetType   string // items | shipping_methods
	Allocation   string // across | each
	Value        int64  // percent points for percentage, minor units for fixed
	CurrencyCode string
	MaxQuantity  int
}

// Campaign is the optional time window and budget a promotion belongs
// to. A nil StartsAt or EndsAt leaves the window open-ended on that
// side.
type Campaign struct {
	ID          string
	Name        string
	Identifier  string
	Description string
	BudgetType  string
	BudgetLimit int
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// ActiveAt reports whether the campaign window covers the given
// instant. The start boundary is inclusive, the end boundary exclusive:
// a campaign whose EndsAt equals now is already over.
func (c *Campaign) ActiveAt(now time.Time) bool {
	if c.StartsAt != nil && c.StartsAt.After(now) {
		return false
	}
	if c.EndsAt != nil && !c.EndsAt.After(now) {
		return false
	}
	return true
}

// Promotion is a discount code with an optional campaign and an
// application method.
type Promotion struct {
	ID       string
	Code     string
	Status   Status
	Method   *ApplicationMethod
	Campaign *Campaign
}

// ActiveAt reports whether the promotion should currently be shown.
// A promotion without a campaign is always considered active.
func (p Promotion) ActiveAt(now time.Time) bool {
	if p.Status != StatusActive {
		return false
	}
	if p.Campaign == nil {
		return true
	}
	return p.Campaign.ActiveAt(now)
}
