package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/silkshop/backend/internal/domain/catalog"
	"github.com/silkshop/backend/internal/domain/shared"
)

// GormStore implements catalog.Store on top of the single-table
// catalog schema.
type GormStore struct {
	db *gorm.DB
}

var _ catalog.Store = (*GormStore)(nil)

func NewGormStore(db *Database) *GormStore {
	return &GormStore{db: db.DB}
}

func (s *GormStore) List(ctx context.Context, t catalog.EntityType, f catalog.ListFilter) ([]catalog.ExistingEntity, error) {
	q := s.db.WithContext(ctx).Where("type = ?", string(t))
	if f.Key != "" {
		q = q.Where("key = ?", f.Key)
	}
	if f.ParentID != "" {
		q = q.Where("parent_id = ?", f.ParentID)
	}

	var rows []CatalogEntityModel
	if err := q.Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", t, err)
	}
	out := make([]catalog.ExistingEntity, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toExisting())
	}
	return out, nil
}

// CreateBatch inserts all entities inside one transaction; a duplicate
// natural key or marshalling failure rolls the whole batch back.
func (s *GormStore) CreateBatch(ctx context.Context, t catalog.EntityType, entities []catalog.DesiredEntity) ([]catalog.CreatedEntity, error) {
	if len(entities) == 0 {
		return nil, nil
	}
	created := make([]catalog.CreatedEntity, 0, len(entities))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range entities {
			row, err := modelFromDesired(t, d)
			if err != nil {
				return err
			}
			if err := tx.Create(&row).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: %s %q", shared.ErrAlreadyExists, t, d.Key)
				}
				return fmt.Errorf("create %s %q: %w", t, d.Key, err)
			}
			created = append(created, catalog.CreatedEntity{ID: row.ID, Key: d.Key, Handle: d.LocalHandle()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *GormStore) Update(ctx context.Context, t catalog.EntityType, id string, attrs map[string]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row CatalogEntityModel
		err := tx.Where("type = ? AND id = ?", string(t), id).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s %s", shared.ErrNotFound, t, id)
		}
		if err != nil {
			return fmt.Errorf("load %s %s: %w", t, id, err)
		}

		payload := map[string]any{}
		if row.Payload != "" {
			if err := json.Unmarshal([]byte(row.Payload), &payload); err != nil {
				return fmt.Errorf("unmarshal %s %s payload: %w", t, id, err)
			}
		}
		for k, v := range attrs {
			payload[k] = v
		}
		merged, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s %s payload: %w", t, id, err)
		}

		updates := map[string]any{"payload": string(merged)}
		if parentID, ok := attrs["parent_id"].(string); ok {
			updates["parent_id"] = parentID
		}
		return tx.Model(&CatalogEntityModel{}).Where("id = ?", id).Updates(updates).Error
	})
}

// Link inserts missing pairs and reports catalog.ErrAlreadyLinked when
// every requested pair was already present.
func (s *GormStore) Link(ctx context.Context, relation catalog.LinkRelation, pairs []catalog.LinkPair) error {
	if len(pairs) == 0 {
		return nil
	}
	inserted := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range pairs {
			var count int64
			err := tx.Model(&CatalogLinkModel{}).
				Where("relation = ? AND left_id = ? AND right_id = ?", string(relation), p.LeftID, p.RightID).
				Count(&count).Error
			if err != nil {
				return fmt.Errorf("check link %s: %w", relation, err)
			}
			if count > 0 {
				continue
			}
			row := CatalogLinkModel{Relation: string(relation), LeftID: p.LeftID, RightID: p.RightID}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("create link %s: %w", relation, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return err
	}
	if inserted == 0 {
		return catalog.ErrAlreadyLinked
	}
	return nil
}

// Delete removes entities and any link rows that reference them.
func (s *GormStore) Delete(ctx context.Context, t catalog.EntityType, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("type = ? AND id IN ?", string(t), ids).Delete(&CatalogEntityModel{}).Error; err != nil {
			return fmt.Errorf("delete %s: %w", t, err)
		}
		if err := tx.Where("left_id IN ? OR right_id IN ?", ids, ids).Delete(&CatalogLinkModel{}).Error; err != nil {
			return fmt.Errorf("delete links of %s: %w", t, err)
		}
		return nil
	})
}

func (s *GormStore) Revoke(ctx context.Context, t catalog.EntityType, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&CatalogEntityModel{}).
		Where("type = ? AND id IN ?", string(t), ids).
		Update("revoked", true).Error
}
