//go:build integration

package docstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/storefront-admin/internal/docstore"
	"github.com/joao-fontenele/storefront-admin/internal/testutil"
)

func TestPostgresStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	connStr := testutil.SetupPostgres(ctx, t)

	for _, driver := range []string{"postgres", "pgx"} {
		t.Run(driver, func(t *testing.T) {
			store, closeStore, err := docstore.Open(ctx, driver, connStr, 2)
			require.NoError(t, err)
			defer func() { _ = closeStore() }()

			collection := "orders_" + driver
			require.NoError(t, store.Put(ctx, collection, "o1", map[string]any{"status": "completed", "createdAt": "2024-06-15T08:00:00Z", "totalAmount": 1500}))
			require.NoError(t, store.Put(ctx, collection, "o2", map[string]any{"status": "pending", "createdAt": "2024-06-16T08:00:00Z"}))
			require.NoError(t, store.Put(ctx, collection, "o3", map[string]any{"status": "shipped"}))

			docs, err := store.Find(ctx, docstore.Collection(collection).OrderByDesc("createdAt"))
			require.NoError(t, err)
			require.Len(t, docs, 3)
			assert.Equal(t, []string{"o2", "o1", "o3"}, []string{docs[0].ID, docs[1].ID, docs[2].ID})
			assert.Equal(t, float64(1500), docs[1].Data["totalAmount"])

			n, err := store.Count(ctx, docstore.Collection(collection).WhereIn("status", "pending", "shipped"))
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			ok, err := store.Update(ctx, collection, "o2", map[string]any{"status": "completed"})
			require.NoError(t, err)
			assert.True(t, ok)

			doc, err := store.Get(ctx, collection, "o2")
			require.NoError(t, err)
			require.NotNil(t, doc)
			assert.Equal(t, "completed", doc.Data["status"])
			assert.Equal(t, "2024-06-16T08:00:00Z", doc.Data["createdAt"])

			ok, err = store.Delete(ctx, collection, "o3")
			require.NoError(t, err)
			assert.True(t, ok)

			doc, err = store.Get(ctx, collection, "o3")
			require.NoError(t, err)
			assert.Nil(t, doc)

			_, err = store.Find(ctx, docstore.Collection(collection).Where("status'; --", "x"))
			assert.Error(t, err)

			ok, err = store.Update(ctx, collection, "o2", map[string]any{"status": "cancelled"},
				docstore.NotIn("status", "completed", "cancelled"))
			require.NoError(t, err)
			assert.False(t, ok, "completed order must not be overwritten")
		})
	}
}

func TestPostgresStore_NewestFirstAndFold(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	connStr := testutil.SetupPostgres(ctx, t)

	for _, driver := range []string{"postgres", "pgx"} {
		t.Run(driver, func(t *testing.T) {
			store, closeStore, err := docstore.Open(ctx, driver, connStr, 2)
			require.NoError(t, err)
			defer func() { _ = closeStore() }()

			collection := "timed_" + driver
			for id, createdAt := range map[string]any{
				"a-seconds-old": map[string]any{"seconds": 1718409600, "nanoseconds": 0},
				"z-seconds-new": map[string]any{"seconds": 1718438400, "nanoseconds": 0},
				"x-offset":      "2024-06-15T10:00:00+07:00",
				"y-utc":         "2024-06-15T05:00:00Z",
				"m-millis":      1718416800000,
				"n-garbage":     "yesterday",
			} {
				require.NoError(t, store.Put(ctx, collection, id, map[string]any{"createdAt": createdAt}))
			}

			docs, err := store.Find(ctx, docstore.Collection(collection).NewestFirst("createdAt"))
			require.NoError(t, err)
			got := make([]string, len(docs))
			for i, d := range docs {
				got[i] = d.ID
			}
			assert.Equal(t, []string{"z-seconds-new", "y-utc", "x-offset", "m-millis", "a-seconds-old", "n-garbage"}, got)

			require.NoError(t, store.Put(ctx, "users_"+driver, "u1", map[string]any{"email": "Legacy@Example.COM"}))
			n, err := store.Count(ctx, docstore.Collection("users_"+driver).WhereFold("email", "legacy@example.com"))
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})
	}
}
