package promotion

import (
	"fmt"
	"strings"
	"time"
)

// Announcement is a derived, non-persisted view of one live promotion,
// shaped for the storefront announcement bar. It is rebuilt on every
// projection call and never stored.
type Announcement struct {
	ID        string     `json:"id"`
	Message   string     `json:"message"`
	Code      string     `json:"code,omitempty"`
	CTAText   string     `json:"cta_text,omitempty"`
	CTAHref   string     `json:"cta_href,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// messageRule maps one recognised promotion shape to a display message.
// Rules are evaluated top-down; the first match wins. A promotion
// matching no rule is dropped from the projection.
type messageRule struct {
	matches func(p Promotion) bool
	render  func(p Promotion) (message, ctaText string)
}

func campaignNameContains(p Promotion, substrs ...string) bool {
	if p.Campaign == nil {
		return false
	}
	name := strings.ToLower(p.Campaign.Name)
	for _, s := range substrs {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

var messageRules = []messageRule{
	{
		matches: func(p Promotion) bool { return p.Method.TargetType == TargetTypeShippingMethods },
		render: func(p Promotion) (string, string) {
			return fmt.Sprintf("Free shipping on all orders · use %s at checkout", p.Code), "Shop Now"
		},
	},
	{
		matches: func(p Promotion) bool {
			return p.Method.Type == MethodTypePercentage && campaignNameContains(p, "welcome")
		},
		render: func(p Promotion) (string, string) {
			return fmt.Sprintf("New here? %d%% off your first order · use %s", p.Method.Value, p.Code), "Shop the sale"
		},
	},
	{
		matches: func(p Promotion) bool {
			return p.Method.Type == MethodTypePercentage && campaignNameContains(p, "summer")
		},
		render: func(p Promotion) (string, string) {
			return fmt.Sprintf("Summer Sale — %d%% off · use %s", p.Method.Value, p.Code), "Shop the sale"
		},
	},
	{
		matches: func(p Promotion) bool {
			return p.Method.Type == MethodTypePercentage && campaignNameContains(p, "b2b", "bulk")
		},
		render: func(p Promotion) (string, string) {
			return fmt.Sprintf("B2B wholesale — %d%% off bulk orders · use %s", p.Method.Value, p.Code), "Shop the sale"
		},
	},
	{
		matches: func(p Promotion) bool { return p.Method.Type == MethodTypePercentage },
		render: func(p Promotion) (string, string) {
			return fmt.Sprintf("%d%% off — use %s at checkout", p.Method.Value, p.Code), "Shop the sale"
		},
	},
	{
		matches: func(p Promotion) bool { return p.Method.Type == MethodTypeFixed },
		render: func(p Promotion) (string, string) {
			// Fixed amounts are stored in minor units; display whole units.
			return fmt.Sprintf("€%d off your order · use %s", p.Method.Value/100, p.Code), "Shop Now"
		},
	},
}

// Project maps the currently active promotions to announcements. It is
// a pure, stateless projection: activity depends on now, so the result
// is recomputed on every call and never cached. Output preserves input
// order; promotions with no application method or an unrecognised shape
// are dropped silently.
func Project(promotions []Promotion, now time.Time) []Announcement {
	announcements := make([]Announcement, 0, len(promotions))
	for _, p := range promotions {
		if !p.ActiveAt(now) || p.Method == nil {
			continue
		}
		for _, rule := range messageRules {
			if !rule.matches(p) {
				continue
			}
			message, ctaText := rule.render(p)
			a := Announcement{
				ID:      p.ID,
				Message: message,
				Code:    p.Code,
				CTAText: ctaText,
				CTAHref: "/store",
			}
			if p.Campaign != nil && p.Campaign.EndsAt != nil {
				expires := *p.Campaign.EndsAt
				a.ExpiresAt = &expires
			}
			announcements = append(announcements, a)
			break
		}
	}
	return announcements
}
