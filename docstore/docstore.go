// Package docstore is the boundary to the schemaless collection store.
// Each call is independently atomic; there are no cross-document
// transactions, and callers are written to tolerate that.
package docstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Collection string
	ID         string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Fields     json.RawMessage
}

type Op string

const (
	OpEq  Op = "eq"
	OpGte Op = "gte"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

type Filter struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: value}
}

// Gte and Lte compare text: dates are stored as YYYY-MM-DD day strings,
// for which lexicographic order is date order.
func Gte(field, value string) Filter {
	return Filter{Field: field, Op: OpGte, Value: value}
}

func Lte(field, value string) Filter {
	return Filter{Field: field, Op: OpLte, Value: value}
}

func In(field string, values []string) Filter {
	return Filter{Field: field, Op: OpIn, Value: values}
}

type Store interface {
	List(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Create(ctx context.Context, collection, id string, v any) (Document, error)
	// Update merges the JSON object fields of v into the stored document.
	Update(ctx context.Context, collection, id string, v any) (Document, error)
	Delete(ctx context.Context, collection, id string) error
}

// NewID mints a document id for Create.
func NewID() string {
	return uuid.NewString()
}

type metaSetter interface {
	SetDocMeta(id string, createdAt time.Time)
}

// Decode unmarshals a document into a typed model and attaches the
// store-assigned id and creation time.
func Decode[T any](doc Document) (T, error) {
	var v T
	if err := json.Unmarshal(doc.Fields, &v); err != nil {
		return v, err
	}
	if m, ok := any(&v).(metaSetter); ok {
		m.SetDocMeta(doc.ID, doc.CreatedAt)
	}
	return v, nil
}

func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := Decode[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
