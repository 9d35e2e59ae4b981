// Package repository describes the Record Store the services persist
// products, stores and price entries through.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/javajoker/price-compare/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Sortable fields understood by every backend.
const (
	SortCreatedAt   = "createdAt"
	SortName        = "name"
	SortPrice       = "price"
	SortLastUpdated = "lastUpdated"
	SortStoreName   = "storeName"
	SortProductName = "productName"
)

type Sort struct {
	Field string
	Desc  bool
}

type ListQuery struct {
	Search string
	Sort   Sort
	Skip   int
	Limit  int
}

type PriceQuery struct {
	ProductID *uuid.UUID
	StoreID   *uuid.UUID
	Available *bool
	Sort      Sort
	Skip      int
	Limit     int

	// Joins requested for the returned entries.
	WithProduct bool
	WithStore   bool
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, q ListQuery) ([]models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	// DeleteCascade removes the product and every price entry referencing
	// it, returning how many entries were removed.
	DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error)
}

type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	List(ctx context.Context, q ListQuery) ([]models.Store, int64, error)
	Create(ctx context.Context, store *models.Store) error
	Update(ctx context.Context, store *models.Store) error
	DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error)
}

type PriceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID, withProduct, withStore bool) (*models.PriceEntry, error)
	FindByPair(ctx context.Context, productID, storeID uuid.UUID) (*models.PriceEntry, error)
	Find(ctx context.Context, q PriceQuery) ([]models.PriceEntry, int64, error)
	FindAllByProduct(ctx context.Context, productID uuid.UUID) ([]models.PriceEntry, error)
	FindAllByStore(ctx context.Context, storeID uuid.UUID) ([]models.PriceEntry, error)
	Create(ctx context.Context, entry *models.PriceEntry) error
	Update(ctx context.Context, entry *models.PriceEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repositories bundles one backend's implementations.
type Repositories struct {
	Products ProductRepository
	Stores   StoreRepository
	Prices   PriceRepository

	// Ping reports whether the backend is reachable.
	Ping func(ctx context.Context) error
	// Close releases the backend's resources.
	Close func() error
}
