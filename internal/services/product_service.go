// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/price-compare/internal/models"
	"github.com/javajoker/price-compare/internal/repository"
	"github.com/javajoker/price-compare/internal/utils"
)

const DefaultCatalogLimit = 12

var catalogSort = utils.SortRule{
	Allowed:      []string{repository.SortCreatedAt, repository.SortName},
	DefaultField: repository.SortCreatedAt,
	DefaultDesc:  true,
	Fallback:     repository.Sort{Field: repository.SortCreatedAt, Desc: true},
}

type ProductService struct {
	products repository.ProductRepository
}

type CreateProductRequest struct {
	Name        string  `json:"name" form:"name" validate:"notblank,max=255"`
	Description string  `json:"description" form:"description"`
	Image       *string `json:"image,omitempty" form:"imageUrl"`
}

// UpdateProductRequest only touches the fields that are present.
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty" form:"name" validate:"omitempty,notblank,max=255"`
	Description *string `json:"description,omitempty" form:"description"`
	Image       *string `json:"image,omitempty" form:"imageUrl"`
}

// DeleteResult reports a cascade delete.
type DeleteResult struct {
	Name          string
	DeletedPrices int64
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) ListProducts(ctx context.Context, params utils.PaginationParams) ([]models.Product, int64, error) {
	params = utils.NormalizePagination(params, DefaultCatalogLimit)

	products, total, err := s.products.List(ctx, repository.ListQuery{
		Search: params.Search,
		Sort:   catalogSort.Resolve(params.SortBy, params.Order),
		Skip:   params.Skip,
		Limit:  params.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Image:       emptyToNil(req.Image),
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product created")

	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Image != nil {
		product.Image = emptyToNil(req.Image)
	}

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return s.GetProduct(ctx, id)
}

// DeleteProduct removes the product together with all its price entries.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	deleted, err := s.products.DeleteCascade(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"product_id":     id,
		"deleted_prices": deleted,
	}).Info("Product deleted")

	return &DeleteResult{Name: product.Name, DeletedPrices: deleted}, nil
}

// emptyToNil clears the image when an empty string is sent.
func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
