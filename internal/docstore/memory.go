package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps documents in process. It backs DOCSTORE_DRIVER=memory for
// local runs and the handler tests. Documents go through a JSON round trip on
// write so readers see the same value types PostgresStore returns.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]any)}
}

func (s *MemoryStore) Find(_ context.Context, q Query) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Document
	for id, data := range s.collections[q.Collection] {
		if !matches(data, q.Filters) {
			continue
		}
		docs = append(docs, Document{ID: id, Data: maps.Clone(data)})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		c := compareOrderField(docs[i].Data, docs[j].Data, q)
		if c == 0 {
			return docs[i].ID < docs[j].ID
		}
		return c < 0
	})

	if q.Max > 0 && len(docs) > q.Max {
		docs = docs[:q.Max]
	}
	return docs, nil
}

func (s *MemoryStore) Count(ctx context.Context, q Query) (int, error) {
	q.Max = 0
	docs, err := s.Find(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return nil, nil
	}
	return &Document{ID: id, Data: maps.Clone(data)}, nil
}

func (s *MemoryStore) Put(_ context.Context, collection, id string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized, err := normalize(data)
	if err != nil {
		return err
	}

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]any)
	}
	s.collections[collection][id] = normalized
	return nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, fields map[string]any, conds ...Filter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.collections[collection][id]
	if !ok || !matches(data, conds) {
		return false, nil
	}
	normalized, err := normalize(fields)
	if err != nil {
		return false, err
	}
	maps.Copy(data, normalized)
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return false, nil
	}
	delete(s.collections[collection], id)
	return true, nil
}

func matches(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		if !f.match(data) {
			return false
		}
	}
	return true
}

func (f Filter) match(data map[string]any) bool {
	v := String(data[f.Field])
	found := false
	for _, want := range f.Values {
		w := fmt.Sprint(want)
		if v == w || (f.Fold && strings.EqualFold(v, w)) {
			found = true
			break
		}
	}
	return found != f.Not
}

// compareOrderField compares two documents on q.OrderBy in the requested
// direction. A missing or unreadable value always compares after a present
// one, like NULLS LAST.
func compareOrderField(a, b map[string]any, q Query) int {
	if q.OrderBy == "" {
		return 0
	}

	var c int
	if q.ByTime {
		ta, tb := Time(a[q.OrderBy]), Time(b[q.OrderBy])
		switch {
		case ta == nil && tb == nil:
			return 0
		case ta == nil:
			return 1
		case tb == nil:
			return -1
		}
		c = ta.Compare(*tb)
	} else {
		sa, sb := String(a[q.OrderBy]), String(b[q.OrderBy])
		switch {
		case sa == "" && sb == "":
			return 0
		case sa == "":
			return 1
		case sb == "":
			return -1
		}
		c = strings.Compare(sa, sb)
	}

	if q.Descending {
		return -c
	}
	return c
}

func normalize(data map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	out := make(map[string]any)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}
