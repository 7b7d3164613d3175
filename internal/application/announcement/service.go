package announcement

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/silkshop/backend/internal/domain/catalog"
	"github.com/silkshop/backend/internal/domain/promotion"
)

// Service turns the promotions stored in the catalog into storefront
// announcement banners. It is strictly read-only and degrades to an
// empty list on any store failure, so a broken promotion setup can
// never take the storefront down.
type Service struct {
	store catalog.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store catalog.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// Active returns the announcements for all currently active promotions,
// in store listing order. The returned slice is never nil.
func (s *Service) Active(ctx context.Context) []promotion.Announcement {
	promos, err := s.loadPromotions(ctx)
	if err != nil {
		s.log.Warn("listing promotions failed, serving no announcements", zap.Error(err))
		return []promotion.Announcement{}
	}
	out := promotion.Project(promos, s.now())
	if out == nil {
		out = []promotion.Announcement{}
	}
	return out
}

func (s *Service) loadPromotions(ctx context.Context) ([]promotion.Promotion, error) {
	campaignRecs, err := s.store.List(ctx, catalog.EntityTypeCampaign, catalog.ListFilter{})
	if err != nil {
		return nil, err
	}
	campaigns := make(map[string]*promotion.Campaign, len(campaignRecs))
	for _, rec := range campaignRecs {
		campaigns[rec.Key] = decodeCampaign(rec)
	}

	promoRecs, err := s.store.List(ctx, catalog.EntityTypePromotion, catalog.ListFilter{})
	if err != nil {
		return nil, err
	}
	promos := make([]promotion.Promotion, 0, len(promoRecs))
	for _, rec := range promoRecs {
		p := decodePromotion(rec)
		if identifier, ok := rec.Payload["campaign_identifier"].(string); ok && identifier != "" {
			p.Campaign = campaigns[identifier]
		}
		promos = append(promos, p)
	}
	return promos, nil
}

func decodeCampaign(rec catalog.ExistingEntity) *promotion.Campaign {
	c := &promotion.Campaign{
		ID:         rec.ID,
		Identifier: rec.Key,
		Name:       payloadString(rec.Payload, "name"),
	}
	c.StartsAt = payloadTime(rec.Payload, "starts_at")
	c.EndsAt = payloadTime(rec.Payload, "ends_at")
	return c
}

func decodePromotion(rec catalog.ExistingEntity) promotion.Promotion {
	p := promotion.Promotion{
		ID:     rec.ID,
		Code:   rec.Key,
		Status: promotion.Status(payloadString(rec.Payload, "status")),
	}
	method, ok := rec.Payload["application_method"].(map[string]any)
	if !ok {
		return p
	}
	p.Method = &promotion.ApplicationMethod{
		Type:         payloadString(method, "type"),
		TargetType:   payloadString(method, "target_type"),
		Allocation:   payloadString(method, "allocation"),
		Value:        payloadInt64(method, "value"),
		CurrencyCode: payloadString(method, "currency_code"),
		MaxQuantity:  int(payloadInt64(method, "max_quantity")),
	}
	return p
}

func payloadString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func payloadInt64(m map[string]any, key string) int64 {
	switch n := m[key].(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

func payloadTime(m map[string]any, key string) *time.Time {
	switch v := m[key].(type) {
	case time.Time:
		return &v
	case string:
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return &ts
		}
	}
	return nil
}
