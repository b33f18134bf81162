package products

import (
	"context"

	"github.com/joao-fontenele/storefront-admin/internal/docstore"
	"github.com/joao-fontenele/storefront-admin/internal/domain"
)

const Collection = "products"

type ProductRepository struct {
	store docstore.Store
}

func NewProductRepository(store docstore.Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	docs, err := r.store.Find(ctx, docstore.Collection(Collection).OrderByAsc("name"))
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, decode(doc))
	}
	return products, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	return r.store.Count(ctx, docstore.Collection(Collection))
}

// Delete removes a product permanently and reports whether it existed.
func (r *ProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.store.Delete(ctx, Collection, id)
}

func decode(doc docstore.Document) domain.Product {
	return domain.Product{
		ID:       doc.ID,
		Name:     docstore.String(doc.Data["name"]),
		Category: docstore.String(doc.Data["category"]),
		Price:    docstore.Float(doc.Data["price"]),
		Stock:    docstore.Int(doc.Data["stock"]),
		Image:    docstore.String(doc.Data["image"]),
	}
}
