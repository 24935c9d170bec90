package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ironcraft/apperr"
)

// record is the single table backing every collection: one jsonb blob per
// document, keyed by (collection, id).
type record struct {
	Collection string `gorm:"primaryKey;size:64"`
	ID         string `gorm:"primaryKey;size:64"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Fields     []byte `gorm:"type:jsonb;not null"`
}

func (record) TableName() string {
	return "documents"
}

type Postgres struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) List(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	query := p.db.WithContext(ctx).Model(&record{}).Where("collection = ?", collection)
	for _, f := range filters {
		expr := fmt.Sprintf("fields->>'%s'", f.Field)
		switch f.Op {
		case OpEq:
			query = query.Where(expr+" = ?", scalar(f.Value))
		case OpGte:
			query = query.Where(expr+" >= ?", scalar(f.Value))
		case OpLte:
			query = query.Where(expr+" <= ?", scalar(f.Value))
		case OpIn:
			values, ok := f.Value.([]string)
			if !ok {
				return nil, fmt.Errorf("in filter on %s wants []string", f.Field)
			}
			query = query.Where(expr+" IN ?", values)
		default:
			return nil, fmt.Errorf("unknown filter op %q", f.Op)
		}
	}

	var rows []record
	if err := query.Order("created_at asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	docs := make([]Document, len(rows))
	for i, r := range rows {
		docs[i] = r.document()
	}
	return docs, nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (Document, error) {
	var r record
	err := p.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Document{}, apperr.NotFound(collection, id)
	}
	if err != nil {
		return Document{}, err
	}
	return r.document(), nil
}

func (p *Postgres) Create(ctx context.Context, collection, id string, v any) (Document, error) {
	fields, err := json.Marshal(v)
	if err != nil {
		return Document{}, err
	}
	r := record{Collection: collection, ID: id, Fields: fields}
	if err := p.db.WithContext(ctx).Create(&r).Error; err != nil {
		return Document{}, err
	}
	return r.document(), nil
}

func (p *Postgres) Update(ctx context.Context, collection, id string, v any) (Document, error) {
	patch, err := json.Marshal(v)
	if err != nil {
		return Document{}, err
	}
	result := p.db.WithContext(ctx).Model(&record{}).
		Where("collection = ? AND id = ?", collection, id).
		Updates(map[string]any{
			"fields":     gorm.Expr("fields || ?::jsonb", string(patch)),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return Document{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Document{}, apperr.NotFound(collection, id)
	}
	return p.Get(ctx, collection, id)
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	result := p.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&record{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound(collection, id)
	}
	return nil
}

func (r record) document() Document {
	return Document{
		Collection: r.Collection,
		ID:         r.ID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		Fields:     r.Fields,
	}
}
