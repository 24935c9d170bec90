package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ironcraft/apperr"
)

// Memory is a map-backed Store used for local development
// (STORE_DRIVER=memory) and in package tests.
type Memory struct {
	mu          sync.Mutex
	collections map[string]map[string]Document
	lastCreated time.Time
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]Document)}
}

func (m *Memory) List(ctx context.Context, collection string, filters ...Filter) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Document
	for _, doc := range m.collections[collection] {
		ok, err := matches(doc, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return Document{}, apperr.NotFound(collection, id)
	}
	return doc, nil
}

func (m *Memory) Create(ctx context.Context, collection, id string, v any) (Document, error) {
	fields, err := json.Marshal(v)
	if err != nil {
		return Document{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.collections[collection][id]; exists {
		return Document{}, fmt.Errorf("%s %s already exists", collection, id)
	}
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]Document)
	}

	// Strictly increasing creation times so created_at ordering is
	// deterministic even on coarse clocks.
	now := time.Now().UTC()
	if !now.After(m.lastCreated) {
		now = m.lastCreated.Add(time.Microsecond)
	}
	m.lastCreated = now

	doc := Document{
		Collection: collection,
		ID:         id,
		CreatedAt:  now,
		UpdatedAt:  now,
		Fields:     fields,
	}
	m.collections[collection][id] = doc
	return doc, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, v any) (Document, error) {
	patch, err := json.Marshal(v)
	if err != nil {
		return Document{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return Document{}, apperr.NotFound(collection, id)
	}
	merged, err := mergeFields(doc.Fields, patch)
	if err != nil {
		return Document{}, err
	}
	doc.Fields = merged
	doc.UpdatedAt = time.Now().UTC()
	m.collections[collection][id] = doc
	return doc, nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[collection][id]; !ok {
		return apperr.NotFound(collection, id)
	}
	delete(m.collections[collection], id)
	return nil
}

func mergeFields(existing, patch json.RawMessage) (json.RawMessage, error) {
	var base, overlay map[string]any
	if err := json.Unmarshal(existing, &base); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return nil, err
	}
	for k, v := range overlay {
		base[k] = v
	}
	return json.Marshal(base)
}

func matches(doc Document, filters []Filter) (bool, error) {
	var fields map[string]any
	if len(filters) > 0 {
		if err := json.Unmarshal(doc.Fields, &fields); err != nil {
			return false, err
		}
	}
	for _, f := range filters {
		got, ok := fields[f.Field]
		if !ok {
			return false, nil
		}
		switch f.Op {
		case OpEq:
			if scalar(got) != scalar(f.Value) {
				return false, nil
			}
		case OpGte:
			if strings.Compare(scalar(got), scalar(f.Value)) < 0 {
				return false, nil
			}
		case OpLte:
			if strings.Compare(scalar(got), scalar(f.Value)) > 0 {
				return false, nil
			}
		case OpIn:
			values, ok := f.Value.([]string)
			if !ok {
				return false, fmt.Errorf("in filter on %s wants []string", f.Field)
			}
			found := false
			for _, v := range values {
				if scalar(got) == v {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unknown filter op %q", f.Op)
		}
	}
	return true, nil
}

// scalar normalizes JSON scalars to comparable text, matching the
// text-expression comparisons of the postgres driver.
func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%v", t), ".0")
	default:
		return fmt.Sprintf("%v", t)
	}
}
