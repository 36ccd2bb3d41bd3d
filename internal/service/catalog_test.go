package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/internal/transport"
)

func newCatalogService(t *testing.T) *CatalogService {
	t.Helper()
	// cache and index stay nil-backed: disabled, same as running without
	// Redis or Elasticsearch configured
	return &CatalogService{Repo: newTestRepo(t)}
}

func TestCreateProduct(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:        "widget",
		Description: "a widget",
		Price:       9.99,
		Stock:       3,
	})
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	items, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "widget", items[0].Name)
	assert.EqualValues(t, 9.99, items[0].Price)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "widget", Price: 0})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "price")

	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "widget", Price: -1})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "  ", Price: 10})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "name")

	items, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "invalid products must not be persisted")
}

func TestListProducts_EmptyCatalog(t *testing.T) {
	svc := newCatalogService(t)

	items, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetProduct(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "widget", Price: 5})
	require.NoError(t, err)

	p, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "widget", p.Name)

	_, err = svc.GetProduct(ctx, created.ID+1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPatchProduct_PartialMerge(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:        "widget",
		Description: "a widget",
		Price:       5,
		Stock:       3,
	})
	require.NoError(t, err)

	newPrice := 7.5
	p, err := svc.PatchProduct(ctx, created.ID, transport.PatchProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.EqualValues(t, 7.5, p.Price)
	assert.Equal(t, "widget", p.Name, "untouched fields keep their values")
	assert.EqualValues(t, 3, p.Stock)
}

func TestPatchProduct_RevalidatesChangedFields(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "widget", Price: 5})
	require.NoError(t, err)

	badPrice := -2.0
	_, err = svc.PatchProduct(ctx, created.ID, transport.PatchProductRequest{Price: &badPrice})
	require.ErrorIs(t, err, ErrValidation)

	p, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, p.Price, "rejected patch leaves the product unchanged")
}

func TestPatchProduct_NotFound(t *testing.T) {
	svc := newCatalogService(t)

	name := "x"
	_, err := svc.PatchProduct(context.Background(), 42, transport.PatchProductRequest{Name: &name})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "widget", Price: 5})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	require.ErrorIs(t, svc.DeleteProduct(ctx, created.ID), ErrNotFound)
}
