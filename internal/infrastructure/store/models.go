package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/silkshop/backend/internal/domain/catalog"
)

// CatalogEntityModel is the single-table persistence shape for every
// catalog entity type. Type-specific attributes live in the Payload
// JSON column; the indexed columns are only what listing, matching and
// hierarchy traversal need.
type CatalogEntityModel struct {
	ID        string `gorm:"primaryKey;size:64"`
	Type      string `gorm:"size:32;not null;uniqueIndex:idx_catalog_type_key,priority:1"`
	Key       string `gorm:"size:255;not null;uniqueIndex:idx_catalog_type_key,priority:2"`
	ParentID  string `gorm:"size:64;index"`
	Payload   string `gorm:"type:text"`
	Revoked   bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CatalogEntityModel) TableName() string { return "catalog_entities" }

// CatalogLinkModel records one pair of a cross-entity relation.
type CatalogLinkModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Relation  string `gorm:"size:64;not null;uniqueIndex:idx_catalog_link,priority:1"`
	LeftID    string `gorm:"size:64;not null;uniqueIndex:idx_catalog_link,priority:2"`
	RightID   string `gorm:"size:64;not null;uniqueIndex:idx_catalog_link,priority:3"`
	CreatedAt time.Time
}

func (CatalogLinkModel) TableName() string { return "catalog_links" }

func newEntityID(t catalog.EntityType) string {
	return fmt.Sprintf("%s_%s", t, strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func modelFromDesired(t catalog.EntityType, d catalog.DesiredEntity) (CatalogEntityModel, error) {
	payload, err := json.Marshal(d.Payload)
	if err != nil {
		return CatalogEntityModel{}, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	parentID := ""
	if d.Payload != nil {
		if p, ok := d.Payload["parent_id"].(string); ok {
			parentID = p
		}
	}
	return CatalogEntityModel{
		ID:       newEntityID(t),
		Type:     string(t),
		Key:      d.Key,
		ParentID: parentID,
		Payload:  string(payload),
	}, nil
}

// toExisting converts the row back into the domain listing shape. The
// payload round-trips through JSON, so callers see float64 numbers.
func (m CatalogEntityModel) toExisting() catalog.ExistingEntity {
	e := catalog.ExistingEntity{
		Type:     catalog.EntityType(m.Type),
		ID:       m.ID,
		Key:      m.Key,
		ParentID: m.ParentID,
	}
	if m.Payload != "" {
		var payload map[string]any
		if err := json.Unmarshal([]byte(m.Payload), &payload); err == nil {
			e.Payload = payload
			if raw, ok := payload["countries"].([]any); ok {
				for _, c := range raw {
					if s, ok := c.(string); ok {
						e.Countries = append(e.Countries, s)
					}
				}
			}
		}
	}
	return e
}
