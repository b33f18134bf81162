// Package docstore is a small document-database abstraction: documents are
// JSON objects grouped into named collections and addressed by id.
package docstore

import "context"

type Document struct {
	ID   string         `json:"id"`
	Data map[string]any `json:"data"`
}

// Store is implemented by PostgresStore and MemoryStore. Get returns a nil
// document, not an error, when the id does not exist. Update applies fields
// only when every condition holds and reports false otherwise.
type Store interface {
	Find(ctx context.Context, q Query) ([]Document, error)
	Count(ctx context.Context, q Query) (int, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	Put(ctx context.Context, collection, id string, data map[string]any) error
	Update(ctx context.Context, collection, id string, fields map[string]any, conds ...Filter) (bool, error)
	Delete(ctx context.Context, collection, id string) (bool, error)
}

// Filter matches documents whose field equals one of Values. Fold compares
// case-insensitively and Not inverts the match; a missing field reads as "".
type Filter struct {
	Field  string
	Values []any
	Fold   bool
	Not    bool
}

func NotIn(field string, values ...any) Filter {
	return Filter{Field: field, Values: values, Not: true}
}

// Query selects documents of one collection. Filters are ANDed; a filter with
// several values matches any of them. Documents without the OrderBy field
// sort last in either direction.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Descending bool
	// ByTime orders by the instant Time reads from the field instead of its
	// text.
	ByTime bool
	Max    int
}

func Collection(name string) Query {
	return Query{Collection: name}
}

func (q Query) Where(field string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Values: []any{value}})
	return q
}

func (q Query) WhereIn(field string, values ...any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Values: values})
	return q
}

// WhereFold matches field against value ignoring case.
func (q Query) WhereFold(field, value string) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Values: []any{value}, Fold: true})
	return q
}

func (q Query) OrderByDesc(field string) Query {
	q.OrderBy = field
	q.Descending = true
	q.ByTime = false
	return q
}

func (q Query) OrderByAsc(field string) Query {
	q.OrderBy = field
	q.Descending = false
	q.ByTime = false
	return q
}

// NewestFirst orders by a timestamp field, latest instant first. The field may
// hold any format Time understands.
func (q Query) NewestFirst(field string) Query {
	q.OrderBy = field
	q.Descending = true
	q.ByTime = true
	return q
}

func (q Query) Limit(n int) Query {
	q.Max = n
	return q
}
