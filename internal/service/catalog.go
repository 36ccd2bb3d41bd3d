package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"shop-backend/internal/cache"
	"shop-backend/internal/logging"
	"shop-backend/internal/models"
	"shop-backend/internal/repo"
	"shop-backend/internal/search"
	"shop-backend/internal/transport"
)

type CatalogService struct {
	Repo  *repo.GormRepo
	Cache *cache.ProductCache
	Index *search.Index
}

func validateProductFields(name *string, price *float64) []string {
	var bad []string
	if name != nil && strings.TrimSpace(*name) == "" {
		bad = append(bad, "name")
	}
	if price != nil && *price <= 0 {
		bad = append(bad, "price")
	}
	return bad
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	if bad := validateProductFields(&req.Name, &req.Price); len(bad) > 0 {
		return nil, fmt.Errorf("%w: invalid fields: %s", ErrValidation, strings.Join(bad, ", "))
	}

	p := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := s.Repo.CreateProduct(ctx, &p); err != nil {
		l.Error("create_product_failed", "status", 500, "error", err)
		return nil, err
	}

	if err := s.Index.IndexProduct(ctx, &p); err != nil {
		l.Warn("product_index_failed", "product_id", p.ID, "error", err)
	}
	return &p, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	if p, ok := s.Cache.Get(ctx, id); ok {
		return p, nil
	}

	p, err := s.Repo.Product(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product not found", ErrNotFound)
		}
		return nil, err
	}

	if err := s.Cache.Set(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("product_cache_set_failed", "product_id", id, "error", err)
	}
	return p, nil
}

// ListProducts returns an empty list for an empty catalog rather than an
// error; the emptiness is visible in the response itself.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.Products(ctx)
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.patch_product")

	if bad := validateProductFields(req.Name, req.Price); len(bad) > 0 {
		return nil, fmt.Errorf("%w: invalid fields: %s", ErrValidation, strings.Join(bad, ", "))
	}

	p, err := s.Repo.PatchProduct(ctx, id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product not found", ErrNotFound)
		}
		l.Error("patch_product_failed", "status", 500, "error", err)
		return nil, err
	}

	if err := s.Cache.Invalidate(ctx, id); err != nil {
		l.Warn("product_cache_invalidate_failed", "product_id", id, "error", err)
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil {
		l.Warn("product_index_failed", "product_id", id, "error", err)
	}
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_product")

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product not found", ErrNotFound)
		}
		l.Error("delete_product_failed", "status", 500, "error", err)
		return err
	}

	if err := s.Cache.Invalidate(ctx, id); err != nil {
		l.Warn("product_cache_invalidate_failed", "product_id", id, "error", err)
	}
	if err := s.Index.DeleteProduct(ctx, id); err != nil {
		l.Warn("product_deindex_failed", "product_id", id, "error", err)
	}
	return nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	return s.Index.Search(ctx, query, from, size)
}
