package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/javajoker/price-compare/internal/models"
	"github.com/javajoker/price-compare/internal/repository"
	"github.com/javajoker/price-compare/internal/repository/memory"
)

// testClock hands out strictly increasing timestamps.
type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.current = c.current.Add(time.Minute)
	return c.current
}

type fixture struct {
	repos    *repository.Repositories
	products *ProductService
	stores   *StoreService
	prices   *PriceService
	clock    *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := newTestClock()
	repos := memory.NewWithClock(clock.Now)
	prices := NewPriceService(repos.Products, repos.Stores, repos.Prices)
	prices.now = clock.Now

	return &fixture{
		repos:    repos,
		products: NewProductService(repos.Products),
		stores:   NewStoreService(repos.Stores),
		prices:   prices,
		clock:    clock,
	}
}

func (f *fixture) product(t *testing.T, name string) *models.Product {
	t.Helper()
	p, err := f.products.CreateProduct(context.Background(), &CreateProductRequest{Name: name})
	require.NoError(t, err)
	return p
}

func (f *fixture) store(t *testing.T, name string) *models.Store {
	t.Helper()
	s, err := f.stores.CreateStore(context.Background(), &CreateStoreRequest{Name: name})
	require.NoError(t, err)
	return s
}

func (f *fixture) price(t *testing.T, p *models.Product, s *models.Store, price float64, available bool) *models.PriceEntry {
	t.Helper()
	entry, _, err := f.prices.UpsertPrice(context.Background(), &UpsertPriceRequest{
		ProductID:   p.ID.String(),
		StoreID:     s.ID.String(),
		Price:       &price,
		IsAvailable: &available,
	})
	require.NoError(t, err)
	return entry
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }
