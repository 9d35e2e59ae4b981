// Package memory keeps the Record Store in process memory. It follows the
// same filter, sort and pagination rules as the postgres backend and is
// meant for tests and local runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/price-compare/internal/models"
	"github.com/javajoker/price-compare/internal/repository"
)

type db struct {
	mu       sync.RWMutex
	products map[uuid.UUID]models.Product
	stores   map[uuid.UUID]models.Store
	prices   map[uuid.UUID]models.PriceEntry
	now      func() time.Time
}

// New returns empty repositories sharing one in-memory database.
func New() *repository.Repositories {
	return NewWithClock(time.Now)
}

// NewWithClock is New with a custom source for record timestamps.
func NewWithClock(now func() time.Time) *repository.Repositories {
	d := &db{
		products: make(map[uuid.UUID]models.Product),
		stores:   make(map[uuid.UUID]models.Store),
		prices:   make(map[uuid.UUID]models.PriceEntry),
		now:      now,
	}
	return &repository.Repositories{
		Products: &productRepo{d},
		Stores:   &storeRepo{d},
		Prices:   &priceRepo{d},
		Ping:     func(context.Context) error { return nil },
		Close:    func() error { return nil },
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func window[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	if skip > 0 {
		items = items[skip:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// lessBy orders by the compare result of the sort key, then by id ascending.
func lessBy(cmp int, desc bool, a, b uuid.UUID) bool {
	if cmp != 0 {
		if desc {
			return cmp > 0
		}
		return cmp < 0
	}
	return strings.Compare(a.String(), b.String()) < 0
}

// compareName orders names case-insensitively by their lowercased bytes.
func compareName(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

type productRepo struct{ *db }

func (r *productRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &product, nil
}

func (r *productRepo) List(_ context.Context, q repository.ListQuery) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.TrimSpace(q.Search)
	items := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if search != "" && !containsFold(p.Name, search) && !containsFold(p.Description, search) {
			continue
		}
		items = append(items, p)
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var cmp int
		if q.Sort.Field == repository.SortName {
			cmp = compareName(a.Name, b.Name)
		} else {
			cmp = compareTime(a.CreatedAt, b.CreatedAt)
		}
		return lessBy(cmp, q.Sort.Desc, a.ID, b.ID)
	})

	return window(items, q.Skip, q.Limit), int64(len(items)), nil
}

func (r *productRepo) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.EnsureID()
	if _, exists := r.products[product.ID]; exists {
		return repository.ErrDuplicate
	}
	now := r.now()
	product.CreatedAt, product.UpdatedAt = now, now
	r.products[product.ID] = *product
	return nil
}

func (r *productRepo) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[product.ID]
	if !ok {
		return repository.ErrNotFound
	}
	product.CreatedAt = current.CreatedAt
	product.UpdatedAt = r.now()
	r.products[product.ID] = *product
	return nil
}

func (r *productRepo) DeleteCascade(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return 0, repository.ErrNotFound
	}

	var deleted int64
	for priceID, entry := range r.prices {
		if entry.ProductID == id {
			delete(r.prices, priceID)
			deleted++
		}
	}
	delete(r.products, id)
	return deleted, nil
}

type storeRepo struct{ *db }

func (r *storeRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	store, ok := r.stores[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &store, nil
}

func (r *storeRepo) List(_ context.Context, q repository.ListQuery) ([]models.Store, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.TrimSpace(q.Search)
	items := make([]models.Store, 0, len(r.stores))
	for _, s := range r.stores {
		if search != "" && !containsFold(s.Name, search) {
			continue
		}
		items = append(items, s)
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var cmp int
		if q.Sort.Field == repository.SortName {
			cmp = compareName(a.Name, b.Name)
		} else {
			cmp = compareTime(a.CreatedAt, b.CreatedAt)
		}
		return lessBy(cmp, q.Sort.Desc, a.ID, b.ID)
	})

	return window(items, q.Skip, q.Limit), int64(len(items)), nil
}

func (r *storeRepo) Create(_ context.Context, store *models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store.EnsureID()
	if _, exists := r.stores[store.ID]; exists {
		return repository.ErrDuplicate
	}
	now := r.now()
	store.CreatedAt, store.UpdatedAt = now, now
	r.stores[store.ID] = *store
	return nil
}

func (r *storeRepo) Update(_ context.Context, store *models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.stores[store.ID]
	if !ok {
		return repository.ErrNotFound
	}
	store.CreatedAt = current.CreatedAt
	store.UpdatedAt = r.now()
	r.stores[store.ID] = *store
	return nil
}

func (r *storeRepo) DeleteCascade(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[id]; !ok {
		return 0, repository.ErrNotFound
	}

	var deleted int64
	for priceID, entry := range r.prices {
		if entry.StoreID == id {
			delete(r.prices, priceID)
			deleted++
		}
	}
	delete(r.stores, id)
	return deleted, nil
}
