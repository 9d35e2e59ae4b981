// internal/services/price_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/price-compare/internal/models"
	"github.com/javajoker/price-compare/internal/repository"
	"github.com/javajoker/price-compare/internal/utils"
)

const (
	DefaultCompareLimit     = 10
	DefaultStorePricesLimit = 12
	DefaultPriceListLimit   = 12
)

// The product view sorts cheapest first, the store and general views newest
// first. Unknown keys fall back to each view's default, not to a common one.
var (
	compareSort = utils.SortRule{
		Allowed:      []string{repository.SortPrice, repository.SortLastUpdated, repository.SortStoreName},
		DefaultField: repository.SortPrice,
		DefaultDesc:  false,
		Fallback:     repository.Sort{Field: repository.SortPrice},
	}
	storePricesSort = utils.SortRule{
		Allowed:      []string{repository.SortPrice, repository.SortLastUpdated},
		DefaultField: repository.SortLastUpdated,
		DefaultDesc:  true,
		Fallback:     repository.Sort{Field: repository.SortLastUpdated, Desc: true},
	}
	priceListSort = utils.SortRule{
		Allowed:      []string{repository.SortLastUpdated, repository.SortPrice, repository.SortProductName},
		DefaultField: repository.SortLastUpdated,
		DefaultDesc:  true,
		Fallback:     repository.Sort{Field: repository.SortLastUpdated, Desc: true},
	}
)

type PriceService struct {
	products repository.ProductRepository
	stores   repository.StoreRepository
	prices   repository.PriceRepository
	now      func() time.Time
}

type UpsertPriceRequest struct {
	ProductID     string   `json:"productId" validate:"required"`
	StoreID       string   `json:"storeId" validate:"required"`
	Price         *float64 `json:"price" validate:"required,gte=0"`
	Currency      string   `json:"currency" validate:"omitempty,currency"`
	IsAvailable   *bool    `json:"isAvailable"`
	StockQuantity *int     `json:"stockQuantity" validate:"omitempty,gte=0"`
	Notes         string   `json:"notes" validate:"max=2000"`
}

// PriceFilter narrows a price listing.
type PriceFilter struct {
	utils.PaginationParams
	ProductID *uuid.UUID
	StoreID   *uuid.UUID
	Available *bool
}

// Comparison is the price view of one product. Stats cover every entry of
// the product regardless of filter and page.
type Comparison struct {
	Product *models.Product     `json:"product"`
	Prices  []models.PriceEntry `json:"prices"`
	Stats   models.PriceStats   `json:"stats"`
	Total   int64               `json:"-"`
}

// StoreComparison is the price view of one store.
type StoreComparison struct {
	Store  *models.Store       `json:"store"`
	Prices []models.PriceEntry `json:"prices"`
	Stats  models.PriceStats   `json:"stats"`
	Total  int64               `json:"-"`
}

func NewPriceService(products repository.ProductRepository, stores repository.StoreRepository, prices repository.PriceRepository) *PriceService {
	return &PriceService{
		products: products,
		stores:   stores,
		prices:   prices,
		now:      time.Now,
	}
}

func (s *PriceService) findProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *PriceService) findStore(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store, err := s.stores.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return store, nil
}

// Compare returns one page of a product's prices joined with store contact
// data. The availability filter only narrows the page.
func (s *PriceService) Compare(ctx context.Context, productID uuid.UUID, filter PriceFilter) (*Comparison, error) {
	product, err := s.findProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	params := utils.NormalizePagination(filter.PaginationParams, DefaultCompareLimit)
	prices, total, err := s.prices.Find(ctx, repository.PriceQuery{
		ProductID: &productID,
		Available: filter.Available,
		Sort:      compareSort.Resolve(params.SortBy, params.Order),
		Skip:      params.Skip,
		Limit:     params.Limit,
		WithStore: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product prices: %w", err)
	}

	all, err := s.prices.FindAllByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute product stats: %w", err)
	}

	return &Comparison{
		Product: product,
		Prices:  prices,
		Stats:   ComputePriceStats(all),
		Total:   total,
	}, nil
}

// CompareByStore returns one page of a store's prices joined with product
// data.
func (s *PriceService) CompareByStore(ctx context.Context, storeID uuid.UUID, filter PriceFilter) (*StoreComparison, error) {
	store, err := s.findStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	params := utils.NormalizePagination(filter.PaginationParams, DefaultStorePricesLimit)
	prices, total, err := s.prices.Find(ctx, repository.PriceQuery{
		StoreID:     &storeID,
		Available:   filter.Available,
		Sort:        storePricesSort.Resolve(params.SortBy, params.Order),
		Skip:        params.Skip,
		Limit:       params.Limit,
		WithProduct: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch store prices: %w", err)
	}

	all, err := s.prices.FindAllByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute store stats: %w", err)
	}

	return &StoreComparison{
		Store:  store,
		Prices: prices,
		Stats:  ComputePriceStats(all),
		Total:  total,
	}, nil
}

// ListPrices returns price entries joined with both product and store.
func (s *PriceService) ListPrices(ctx context.Context, filter PriceFilter) ([]models.PriceEntry, int64, error) {
	params := utils.NormalizePagination(filter.PaginationParams, DefaultPriceListLimit)
	prices, total, err := s.prices.Find(ctx, repository.PriceQuery{
		ProductID:   filter.ProductID,
		StoreID:     filter.StoreID,
		Available:   filter.Available,
		Sort:        priceListSort.Resolve(params.SortBy, params.Order),
		Skip:        params.Skip,
		Limit:       params.Limit,
		WithProduct: true,
		WithStore:   true,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list prices: %w", err)
	}
	return prices, total, nil
}

func (s *PriceService) GetPrice(ctx context.Context, id uuid.UUID) (*models.PriceEntry, error) {
	entry, err := s.prices.FindByID(ctx, id, true, true)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPriceNotFound
		}
		return nil, fmt.Errorf("failed to get price: %w", err)
	}
	return entry, nil
}

// UpsertPrice writes the price of a product at a store. An existing entry for
// the pair is overwritten in full: omitted optional fields go back to their
// defaults. The returned bool reports whether a new entry was created.
func (s *PriceService) UpsertPrice(ctx context.Context, req *UpsertPriceRequest) (*models.PriceEntry, bool, error) {
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if err := utils.ValidateStruct(req); err != nil {
		return nil, false, validationError(err)
	}

	productID, err := uuid.Parse(strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, false, ErrProductNotFound
	}
	storeID, err := uuid.Parse(strings.TrimSpace(req.StoreID))
	if err != nil {
		return nil, false, ErrStoreNotFound
	}

	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, false, err
	}
	if _, err := s.findStore(ctx, storeID); err != nil {
		return nil, false, err
	}

	existing, err := s.prices.FindByPair(ctx, productID, storeID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up price: %w", err)
	}

	created := existing == nil
	entry := existing
	if created {
		entry = &models.PriceEntry{ProductID: productID, StoreID: storeID}
	}
	req.applyTo(entry)
	entry.Touch(s.now())

	if created {
		err = s.prices.Create(ctx, entry)
	} else {
		err = s.prices.Update(ctx, entry)
	}
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, false, ErrPriceConflict
	case errors.Is(err, repository.ErrNotFound) && created:
		// product or store vanished between the lookup and the insert
		return nil, false, ErrProductNotFound
	case errors.Is(err, repository.ErrNotFound):
		return nil, false, ErrPriceNotFound
	case err != nil:
		return nil, false, fmt.Errorf("failed to save price: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"price_id":   entry.ID,
		"product_id": productID,
		"store_id":   storeID,
		"created":    created,
	}).Info("Price saved")

	saved, err := s.GetPrice(ctx, entry.ID)
	if err != nil {
		return nil, false, err
	}
	return saved, created, nil
}

func (r *UpsertPriceRequest) applyTo(entry *models.PriceEntry) {
	entry.Price = *r.Price
	entry.Currency = models.DefaultCurrency
	if r.Currency != "" {
		entry.Currency = r.Currency
	}
	entry.IsAvailable = true
	if r.IsAvailable != nil {
		entry.IsAvailable = *r.IsAvailable
	}
	entry.StockQuantity = 0
	if r.StockQuantity != nil {
		entry.StockQuantity = *r.StockQuantity
	}
	entry.Notes = strings.TrimSpace(r.Notes)
}

func (s *PriceService) DeletePrice(ctx context.Context, id uuid.UUID) error {
	if err := s.prices.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPriceNotFound
		}
		return fmt.Errorf("failed to delete price: %w", err)
	}

	logrus.WithField("price_id", id).Info("Price deleted")
	return nil
}
