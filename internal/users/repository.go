package users

import (
	"context"
	"strings"
	"time"

	"github.com/joao-fontenele/storefront-admin/internal/docstore"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

const Collection = "users"

type UserRepository struct {
	store docstore.Store
}

func NewUserRepository(store docstore.Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	doc, err := r.store.Get(ctx, Collection, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	user := decode(*doc)
	return &user, nil
}

// GetByEmail matches the address case-insensitively, so documents written
// before Save lower-cased emails are still found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	docs, err := r.store.Find(ctx, docstore.Collection(Collection).WhereFold("email", normalizeEmail(email)).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	user := decode(docs[0])
	return &user, nil
}

func (r *UserRepository) ListCustomers(ctx context.Context) ([]domain.User, error) {
	docs, err := r.store.Find(ctx, r.customers().OrderByAsc("name"))
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, decode(doc))
	}
	return users, nil
}

func (r *UserRepository) CountCustomers(ctx context.Context) (int, error) {
	return r.store.Count(ctx, r.customers())
}

func (r *UserRepository) customers() docstore.Query {
	return docstore.Collection(Collection).Where("role", string(domain.RoleCustomer))
}

// Save creates or replaces a user document, password hash included.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	data := map[string]any{
		"name":         user.Name,
		"email":        normalizeEmail(user.Email),
		"phone":        user.Phone,
		"role":         string(user.Role),
		"passwordHash": user.PasswordHash,
	}
	if user.CreatedAt != nil {
		data["createdAt"] = user.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return r.store.Put(ctx, Collection, user.ID, data)
}

func decode(doc docstore.Document) domain.User {
	return domain.User{
		ID:           doc.ID,
		Name:         docstore.String(doc.Data["name"]),
		Email:        docstore.String(doc.Data["email"]),
		Phone:        docstore.String(doc.Data["phone"]),
		Role:         domain.Role(docstore.String(doc.Data["role"])),
		CreatedAt:    docstore.Time(doc.Data["createdAt"]),
		PasswordHash: docstore.String(doc.Data["passwordHash"]),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
