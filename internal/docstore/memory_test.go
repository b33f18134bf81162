package docstore

import (
	"context"
	"testing"
	"time"
)

func seed(t *testing.T, s *MemoryStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	docs := []struct {
		id   string
		data map[string]any
	}{
		{"o1", map[string]any{"status": "completed", "createdAt": base.Add(1 * time.Hour)}},
		{"o2", map[string]any{"status": "pending", "createdAt": base.Add(3 * time.Hour)}},
		{"o3", map[string]any{"status": "completed", "createdAt": base.Add(2 * time.Hour)}},
		{"o4", map[string]any{"status": "shipped"}},
	}
	for _, d := range docs {
		if err := s.Put(ctx, "orders", d.id, d.data); err != nil {
			t.Fatalf("failed to put %s: %v", d.id, err)
		}
	}
}

func ids(docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestMemoryStore_Find(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seed(t, s)

	t.Run("orders by field descending", func(t *testing.T) {
		docs, err := s.Find(ctx, Collection("orders").OrderByDesc("createdAt").Limit(3))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := ids(docs)
		want := []string{"o2", "o3", "o1"}
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
	})

	t.Run("filters by equality", func(t *testing.T) {
		docs, err := s.Find(ctx, Collection("orders").Where("status", "completed"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(docs) != 2 {
			t.Errorf("expected 2 documents, got %v", ids(docs))
		}
	})

	t.Run("filters by any of several values", func(t *testing.T) {
		n, err := s.Count(ctx, Collection("orders").WhereIn("status", "pending", "shipped"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2, got %d", n)
		}
	})

	t.Run("unknown collection is empty", func(t *testing.T) {
		docs, err := s.Find(ctx, Collection("nope"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("expected no documents, got %v", ids(docs))
		}
	})
}

func TestMemoryStore_GetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seed(t, s)

	doc, err := s.Get(ctx, "orders", "missing")
	if err != nil || doc != nil {
		t.Fatalf("expected nil document, got %v, %v", doc, err)
	}

	ok, err := s.Update(ctx, "orders", "o2", map[string]any{"status": "completed"})
	if err != nil || !ok {
		t.Fatalf("expected update to succeed, got %v, %v", ok, err)
	}

	doc, err = s.Get(ctx, "orders", "o2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Data["status"] != "completed" {
		t.Errorf("expected completed, got %v", doc.Data["status"])
	}
	if _, isString := doc.Data["createdAt"].(string); !isString {
		t.Errorf("expected timestamps stored as JSON strings, got %T", doc.Data["createdAt"])
	}

	doc.Data["status"] = "tampered"
	again, _ := s.Get(ctx, "orders", "o2")
	if again.Data["status"] != "completed" {
		t.Error("expected Get to return a copy")
	}

	ok, err = s.Delete(ctx, "orders", "o2")
	if err != nil || !ok {
		t.Fatalf("expected delete to succeed, got %v, %v", ok, err)
	}
	ok, err = s.Delete(ctx, "orders", "o2")
	if err != nil || ok {
		t.Fatalf("expected second delete to report absence, got %v, %v", ok, err)
	}

	ok, err = s.Update(ctx, "orders", "o2", map[string]any{"status": "x"})
	if err != nil || ok {
		t.Fatalf("expected update of missing document to report absence, got %v, %v", ok, err)
	}
}

func TestMemoryStore_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	// All on 2024-06-15 UTC: a 00:00, m 02:00, x 03:00, y 05:00, z 08:00.
	docs := map[string]any{
		"a-seconds-old": map[string]any{"seconds": float64(1718409600), "nanoseconds": float64(0)},
		"z-seconds-new": map[string]any{"seconds": float64(1718438400), "nanoseconds": float64(0)},
		"x-offset":      "2024-06-15T10:00:00+07:00",
		"y-utc":         "2024-06-15T05:00:00Z",
		"m-millis":      float64(1718416800000),
		"n-garbage":     "yesterday",
	}
	for id, createdAt := range docs {
		if err := s.Put(ctx, "orders", id, map[string]any{"createdAt": createdAt}); err != nil {
			t.Fatalf("failed to put %s: %v", id, err)
		}
	}
	if err := s.Put(ctx, "orders", "b-undated", map[string]any{"status": "pending"}); err != nil {
		t.Fatalf("failed to put b-undated: %v", err)
	}

	got, err := s.Find(ctx, Collection("orders").NewestFirst("createdAt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"z-seconds-new", "y-utc", "x-offset", "m-millis", "a-seconds-old", "b-undated", "n-garbage"}
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("expected %v, got %v", want, gotIDs)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, gotIDs)
		}
	}

	recent, err := s.Find(ctx, Collection("orders").NewestFirst("createdAt").Limit(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != "z-seconds-new" {
		t.Errorf("expected z-seconds-new, got %v", ids(recent))
	}
}

func TestMemoryStore_ConditionalUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seed(t, s)

	final := NotIn("status", "completed", "cancelled")

	ok, err := s.Update(ctx, "orders", "o1", map[string]any{"status": "completed"}, final)
	if err != nil || ok {
		t.Fatalf("expected update of a completed order to be refused, got %v, %v", ok, err)
	}

	ok, err = s.Update(ctx, "orders", "o2", map[string]any{"status": "completed"}, final)
	if err != nil || !ok {
		t.Fatalf("expected update of a pending order to succeed, got %v, %v", ok, err)
	}

	ok, err = s.Update(ctx, "orders", "o2", map[string]any{"status": "cancelled"}, final)
	if err != nil || ok {
		t.Fatalf("expected second update to be refused, got %v, %v", ok, err)
	}

	doc, _ := s.Get(ctx, "orders", "o2")
	if doc.Data["status"] != "completed" {
		t.Errorf("expected completed, got %v", doc.Data["status"])
	}
}

func TestMemoryStore_WhereFold(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Put(ctx, "users", "u1", map[string]any{"email": "Legacy@Example.COM"}); err != nil {
		t.Fatalf("failed to put: %v", err)
	}

	docs, err := s.Find(ctx, Collection("users").WhereFold("email", "legacy@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("expected a case-insensitive match, got %v", ids(docs))
	}

	docs, _ = s.Find(ctx, Collection("users").Where("email", "legacy@example.com"))
	if len(docs) != 0 {
		t.Errorf("expected Where to stay case-sensitive, got %v", ids(docs))
	}
}
