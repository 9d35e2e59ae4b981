package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/javajoker/price-compare/internal/models"
	"github.com/javajoker/price-compare/internal/repository"
)

type priceRepo struct{ *db }

// join copies the entry and attaches the requested summaries. Callers hold
// the read lock.
func (r *priceRepo) join(entry models.PriceEntry, withProduct, withStore bool) models.PriceEntry {
	entry.Product, entry.Store = nil, nil
	if withProduct {
		if p, ok := r.products[entry.ProductID]; ok {
			entry.Product = p.Summary()
		}
	}
	if withStore {
		if s, ok := r.stores[entry.StoreID]; ok {
			entry.Store = s.Summary()
		}
	}
	return entry
}

func (r *priceRepo) FindByID(_ context.Context, id uuid.UUID, withProduct, withStore bool) (*models.PriceEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.prices[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	joined := r.join(entry, withProduct, withStore)
	return &joined, nil
}

func (r *priceRepo) FindByPair(_ context.Context, productID, storeID uuid.UUID) (*models.PriceEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.prices {
		if entry.ProductID == productID && entry.StoreID == storeID {
			found := r.join(entry, false, false)
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *priceRepo) Find(_ context.Context, q repository.PriceQuery) ([]models.PriceEntry, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	withProduct := q.WithProduct || q.Sort.Field == repository.SortProductName
	withStore := q.WithStore || q.Sort.Field == repository.SortStoreName

	items := make([]models.PriceEntry, 0)
	for _, entry := range r.prices {
		if q.ProductID != nil && entry.ProductID != *q.ProductID {
			continue
		}
		if q.StoreID != nil && entry.StoreID != *q.StoreID {
			continue
		}
		if q.Available != nil && entry.IsAvailable != *q.Available {
			continue
		}
		items = append(items, r.join(entry, withProduct, withStore))
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var cmp int
		switch q.Sort.Field {
		case repository.SortPrice:
			cmp = compareFloat(a.Price, b.Price)
		case repository.SortStoreName:
			cmp = compareName(storeName(a), storeName(b))
		case repository.SortProductName:
			cmp = compareName(productName(a), productName(b))
		default:
			cmp = compareTime(a.LastUpdated, b.LastUpdated)
		}
		return lessBy(cmp, q.Sort.Desc, a.ID, b.ID)
	})

	page := window(items, q.Skip, q.Limit)
	if !q.WithProduct || !q.WithStore {
		for i := range page {
			if !q.WithProduct {
				page[i].Product = nil
			}
			if !q.WithStore {
				page[i].Store = nil
			}
		}
	}
	return page, int64(len(items)), nil
}

func storeName(e models.PriceEntry) string {
	if e.Store == nil {
		return ""
	}
	return e.Store.Name
}

func productName(e models.PriceEntry) string {
	if e.Product == nil {
		return ""
	}
	return e.Product.Name
}

func (r *priceRepo) FindAllByProduct(_ context.Context, productID uuid.UUID) ([]models.PriceEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]models.PriceEntry, 0)
	for _, entry := range r.prices {
		if entry.ProductID == productID {
			entries = append(entries, r.join(entry, false, false))
		}
	}
	return entries, nil
}

func (r *priceRepo) FindAllByStore(_ context.Context, storeID uuid.UUID) ([]models.PriceEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]models.PriceEntry, 0)
	for _, entry := range r.prices {
		if entry.StoreID == storeID {
			entries = append(entries, r.join(entry, false, false))
		}
	}
	return entries, nil
}

func (r *priceRepo) Create(_ context.Context, entry *models.PriceEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[entry.ProductID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.stores[entry.StoreID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range r.prices {
		if existing.ProductID == entry.ProductID && existing.StoreID == entry.StoreID {
			return repository.ErrDuplicate
		}
	}

	entry.EnsureID()
	if _, exists := r.prices[entry.ID]; exists {
		return repository.ErrDuplicate
	}
	stored := *entry
	stored.Product, stored.Store = nil, nil
	r.prices[entry.ID] = stored
	return nil
}

func (r *priceRepo) Update(_ context.Context, entry *models.PriceEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.prices[entry.ID]
	if !ok {
		return repository.ErrNotFound
	}
	current.Price = entry.Price
	current.Currency = entry.Currency
	current.IsAvailable = entry.IsAvailable
	current.StockQuantity = entry.StockQuantity
	current.Notes = entry.Notes
	current.LastUpdated = entry.LastUpdated
	r.prices[entry.ID] = current
	return nil
}

func (r *priceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.prices[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.prices, id)
	return nil
}
