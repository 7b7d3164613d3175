package promotion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)

func tp(t time.Time) *time.Time { return &t }

func activePromo(code string, method *ApplicationMethod, campaign *Campaign) Promotion {
	return Promotion{ID: "promo_" + code, Code: code, Status: StatusActive, Method: method, Campaign: campaign}
}

func TestCampaign_ActiveAt(t *testing.T) {
	tests := []struct {
		name     string
		startsAt *time.Time
		endsAt   *time.Time
		want     bool
	}{
		{name: "open-ended both sides", want: true},
		{name: "start boundary is inclusive", startsAt: tp(now), want: true},
		{name: "starts in future", startsAt: tp(now.Add(time.Hour)), want: false},
		{name: "end boundary is exclusive", endsAt: tp(now), want: false},
		{name: "ends one microsecond after now", endsAt: tp(now.Add(time.Microsecond)), want: true},
		{name: "already ended", endsAt: tp(now.Add(-time.Hour)), want: false},
		{name: "inside window", startsAt: tp(now.Add(-time.Hour)), endsAt: tp(now.Add(time.Hour)), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Campaign{Name: "Test", StartsAt: tt.startsAt, EndsAt: tt.endsAt}
			assert.Equal(t, tt.want, c.ActiveAt(now))
		})
	}
}

func TestProject_FreeShipping(t *testing.T) {
	promos := []Promotion{
		activePromo("FREESHIP", &ApplicationMethod{
			Type: MethodTypeFixed, TargetType: TargetTypeShippingMethods, Value: 500, CurrencyCode: "eur",
		}, nil),
	}

	out := Project(promos, now)

	require.Len(t, out, 1)
	assert.Equal(t, "Free shipping on all orders · use FREESHIP at checkout", out[0].Message)
	assert.Equal(t, "FREESHIP", out[0].Code)
	assert.Equal(t, "Shop Now", out[0].CTAText)
	assert.Equal(t, "/store", out[0].CTAHref)
	assert.Nil(t, out[0].ExpiresAt)
}

func TestProject_PercentageTemplates(t *testing.T) {
	tests := []struct {
		name     string
		campaign string
		value    int64
		code     string
		want     string
	}{
		{name: "welcome campaign", campaign: "Welcome Program", value: 5, code: "WELCOME5",
			want: "New here? 5% off your first order · use WELCOME5"},
		{name: "summer campaign", campaign: "Summer 2026", value: 10, code: "SUMMER10",
			want: "Summer Sale — 10% off · use SUMMER10"},
		{name: "b2b campaign", campaign: "B2B Bulk Programme", value: 25, code: "BULK25",
			want: "B2B wholesale — 25% off bulk orders · use BULK25"},
		{name: "generic fallback", campaign: "Anniversary", value: 15, code: "FIFTEEN",
			want: "15% off — use FIFTEEN at checkout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promos := []Promotion{
				activePromo(tt.code, &ApplicationMethod{
					Type: MethodTypePercentage, TargetType: TargetTypeItems, Value: tt.value,
				}, &Campaign{Name: tt.campaign}),
			}

			out := Project(promos, now)

			require.Len(t, out, 1)
			assert.Equal(t, tt.want, out[0].Message)
		})
	}
}

func TestProject_FixedAmountDisplay(t *testing.T) {
	promos := []Promotion{
		activePromo("TENOFF", &ApplicationMethod{
			Type: MethodTypeFixed, TargetType: TargetTypeItems, Value: 1000, CurrencyCode: "eur",
		}, nil),
	}

	out := Project(promos, now)

	require.Len(t, out, 1)
	// Minor units divided by 100 for display.
	assert.Equal(t, "€10 off your order · use TENOFF", out[0].Message)
}

func TestProject_FutureCampaignExcluded(t *testing.T) {
	campaign := &Campaign{
		Name:     "Summer 2026",
		StartsAt: tp(now.AddDate(0, 1, 0)),
		EndsAt:   tp(now.AddDate(0, 4, 0)),
	}
	promos := []Promotion{
		activePromo("SUMMER10", &ApplicationMethod{
			Type: MethodTypePercentage, TargetType: TargetTypeItems, Value: 10,
		}, campaign),
	}

	assert.Empty(t, Project(promos, now))
}

func TestProject_DropsUnrecognisedShapes(t *testing.T) {
	promos := []Promotion{
		{ID: "promo_1", Code: "NOMETHOD", Status: StatusActive},
		activePromo("BOGO", &ApplicationMethod{Type: "buyget", TargetType: TargetTypeItems, Value: 1}, nil),
		{ID: "promo_3", Code: "INACTIVE", Status: StatusInactive,
			Method: &ApplicationMethod{Type: MethodTypePercentage, Value: 10}},
	}

	assert.Empty(t, Project(promos, now))
}

func TestProject_PreservesInputOrderAndExpiry(t *testing.T) {
	ends := now.Add(48 * time.Hour)
	campaign := &Campaign{Name: "Summer 2026", EndsAt: tp(ends)}
	promos := []Promotion{
		activePromo("SUMMER10", &ApplicationMethod{Type: MethodTypePercentage, TargetType: TargetTypeItems, Value: 10}, campaign),
		activePromo("FREESHIP", &ApplicationMethod{Type: MethodTypeFixed, TargetType: TargetTypeShippingMethods, Value: 500}, campaign),
	}

	out := Project(promos, now)

	require.Len(t, out, 2)
	assert.Equal(t, "promo_SUMMER10", out[0].ID)
	assert.Equal(t, "promo_FREESHIP", out[1].ID)
	require.NotNil(t, out[0].ExpiresAt)
	assert.True(t, out[0].ExpiresAt.Equal(ends))
}
