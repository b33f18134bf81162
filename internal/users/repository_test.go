package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/storefront-admin/internal/docstore"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(docstore.NewMemoryStore())
	joined := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	for _, u := range []*domain.User{
		{ID: "admin-1", Name: "Rina", Email: " Rina@Hijabina.id ", Role: domain.RoleAdmin, PasswordHash: "$argon2id$hash"},
		{ID: "c1", Name: "Siti", Email: "siti@example.com", Role: domain.RoleCustomer, CreatedAt: &joined},
		{ID: "c2", Name: "Ayu", Role: domain.RoleCustomer},
	} {
		require.NoError(t, repo.Save(ctx, u))
	}

	t.Run("finds by email case-insensitively", func(t *testing.T) {
		user, err := repo.GetByEmail(ctx, "RINA@hijabina.id")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "admin-1", user.ID)
		assert.Equal(t, domain.RoleAdmin, user.Role)
		assert.Equal(t, "$argon2id$hash", user.PasswordHash)
	})

	t.Run("finds legacy mixed-case emails", func(t *testing.T) {
		store := docstore.NewMemoryStore()
		require.NoError(t, store.Put(ctx, Collection, "legacy-1", map[string]any{
			"email": "Dewi.Admin@Hijabina.ID",
			"role":  "admin",
		}))

		user, err := NewUserRepository(store).GetByEmail(ctx, "dewi.admin@hijabina.id")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "legacy-1", user.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		user, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("lists only customers", func(t *testing.T) {
		customers, err := repo.ListCustomers(ctx)
		require.NoError(t, err)
		require.Len(t, customers, 2)
		assert.Equal(t, "c2", customers[0].ID)
		require.NotNil(t, customers[1].CreatedAt)
		assert.True(t, customers[1].CreatedAt.Equal(joined))

		n, err := repo.CountCustomers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("get by id", func(t *testing.T) {
		user, err := repo.GetByID(ctx, "c1")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "Siti", user.Name)

		user, err = repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}
