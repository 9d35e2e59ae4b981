// Package repotest holds the behaviour every repository backend must share.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/price-compare/internal/models"
	"github.com/javajoker/price-compare/internal/repository"
)

// Factory returns empty repositories for one subtest.
type Factory func(t *testing.T) *repository.Repositories

func Run(t *testing.T, newRepos Factory) {
	t.Run("ProductCRUD", func(t *testing.T) { testProductCRUD(t, newRepos(t)) })
	t.Run("ListSearchSortPaginate", func(t *testing.T) { testList(t, newRepos(t)) })
	t.Run("NameOrderIgnoresCase", func(t *testing.T) { testNameOrder(t, newRepos(t)) })
	t.Run("PriceLifecycle", func(t *testing.T) { testPriceLifecycle(t, newRepos(t)) })
	t.Run("PriceFind", func(t *testing.T) { testPriceFind(t, newRepos(t)) })
	t.Run("DeleteCascade", func(t *testing.T) { testDeleteCascade(t, newRepos(t)) })
}

func mustProduct(t *testing.T, repos *repository.Repositories, name, description string) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Description: description}
	require.NoError(t, repos.Products.Create(context.Background(), p))
	return p
}

func mustStore(t *testing.T, repos *repository.Repositories, name string) *models.Store {
	t.Helper()
	s := &models.Store{Name: name, Address: name + " 123"}
	require.NoError(t, repos.Stores.Create(context.Background(), s))
	return s
}

func mustPrice(t *testing.T, repos *repository.Repositories, p *models.Product, s *models.Store, price float64, available bool, at time.Time) *models.PriceEntry {
	t.Helper()
	e := &models.PriceEntry{
		ProductID:   p.ID,
		StoreID:     s.ID,
		Price:       price,
		Currency:    models.DefaultCurrency,
		IsAvailable: available,
		LastUpdated: at,
	}
	require.NoError(t, repos.Prices.Create(context.Background(), e))
	return e
}

func testProductCRUD(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	p := mustProduct(t, repos, "Leche", "Entera")
	assert.NotEqual(t, uuid.Nil, p.ID)

	got, err := repos.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Leche", got.Name)
	assert.Nil(t, got.Image)

	image := "https://cdn.example.com/leche.png"
	got.Name = "Leche descremada"
	got.Image = &image
	require.NoError(t, repos.Products.Update(ctx, got))

	got, err = repos.Products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Leche descremada", got.Name)
	require.NotNil(t, got.Image)
	assert.Equal(t, image, *got.Image)

	_, err = repos.Products.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	missing := &models.Product{Name: "Nada"}
	missing.ID = uuid.New()
	assert.ErrorIs(t, repos.Products.Update(ctx, missing), repository.ErrNotFound)
}

func testList(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	mustProduct(t, repos, "Banana", "amarilla")
	mustProduct(t, repos, "Arroz", "grano largo")
	mustProduct(t, repos, "Café", "molido 100% arábica")
	mustStore(t, repos, "Norte")
	mustStore(t, repos, "Sur")

	byName := repository.Sort{Field: repository.SortName}
	products, total, err := repos.Products.List(ctx, repository.ListQuery{Sort: byName})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, products, 3)
	assert.Equal(t, "Arroz", products[0].Name)
	assert.Equal(t, "Café", products[2].Name)

	products, total, err = repos.Products.List(ctx, repository.ListQuery{Sort: repository.Sort{Field: repository.SortName, Desc: true}, Skip: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Banana", products[0].Name)

	// Search matches description too, and treats % literally.
	products, total, err = repos.Products.List(ctx, repository.ListQuery{Search: "LARGO", Sort: byName})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Arroz", products[0].Name)

	products, total, err = repos.Products.List(ctx, repository.ListQuery{Search: "100%", Sort: byName})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Café", products[0].Name)

	products, total, err = repos.Products.List(ctx, repository.ListQuery{Search: "%", Sort: byName})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, products, 1)

	products, _, err = repos.Products.List(ctx, repository.ListQuery{Skip: 10, Sort: byName})
	require.NoError(t, err)
	assert.Empty(t, products)

	stores, total, err := repos.Stores.List(ctx, repository.ListQuery{Search: "su", Sort: byName})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Sur", stores[0].Name)
}

func testNameOrder(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	for _, name := range []string{"café", "Banana", "arroz", "Cafetera"} {
		mustProduct(t, repos, name, "")
		mustStore(t, repos, name)
	}
	want := []string{"arroz", "Banana", "Cafetera", "café"}

	products, _, err := repos.Products.List(ctx, repository.ListQuery{Sort: repository.Sort{Field: repository.SortName}})
	require.NoError(t, err)
	got := make([]string, 0, len(products))
	for _, p := range products {
		got = append(got, p.Name)
	}
	assert.Equal(t, want, got)

	stores, _, err := repos.Stores.List(ctx, repository.ListQuery{Sort: repository.Sort{Field: repository.SortName, Desc: true}})
	require.NoError(t, err)
	got = got[:0]
	for _, s := range stores {
		got = append(got, s.Name)
	}
	assert.Equal(t, []string{"café", "Cafetera", "Banana", "arroz"}, got)
}

func testPriceLifecycle(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	p := mustProduct(t, repos, "Aceite", "")
	s := mustStore(t, repos, "Centro")
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	entry := mustPrice(t, repos, p, s, 12.5, true, at)

	dup := &models.PriceEntry{ProductID: p.ID, StoreID: s.ID, Price: 1, Currency: "USD", LastUpdated: at}
	assert.ErrorIs(t, repos.Prices.Create(ctx, dup), repository.ErrDuplicate)

	orphan := &models.PriceEntry{ProductID: uuid.New(), StoreID: s.ID, Price: 1, Currency: "USD", LastUpdated: at}
	assert.Error(t, repos.Prices.Create(ctx, orphan))

	found, err := repos.Prices.FindByPair(ctx, p.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, found.ID)

	found.Price = 9.99
	found.IsAvailable = false
	found.StockQuantity = 4
	found.Notes = "liquidación"
	found.LastUpdated = at.Add(time.Hour)
	require.NoError(t, repos.Prices.Update(ctx, found))

	joined, err := repos.Prices.FindByID(ctx, entry.ID, true, true)
	require.NoError(t, err)
	assert.Equal(t, 9.99, joined.Price)
	assert.False(t, joined.IsAvailable)
	assert.Equal(t, 4, joined.StockQuantity)
	assert.Equal(t, "liquidación", joined.Notes)
	assert.True(t, joined.LastUpdated.Equal(at.Add(time.Hour)))
	require.NotNil(t, joined.Product)
	require.NotNil(t, joined.Store)
	assert.Equal(t, "Aceite", joined.Product.Name)
	assert.Equal(t, "Centro 123", joined.Store.Address)

	bare, err := repos.Prices.FindByID(ctx, entry.ID, false, false)
	require.NoError(t, err)
	assert.Nil(t, bare.Product)
	assert.Nil(t, bare.Store)

	require.NoError(t, repos.Prices.Delete(ctx, entry.ID))
	assert.ErrorIs(t, repos.Prices.Delete(ctx, entry.ID), repository.ErrNotFound)
	_, err = repos.Prices.FindByPair(ctx, p.ID, s.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testPriceFind(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	p := mustProduct(t, repos, "Yerba", "")
	other := mustProduct(t, repos, "Azúcar", "")
	beta := mustStore(t, repos, "Beta")
	alfa := mustStore(t, repos, "Alfa")
	gamma := mustStore(t, repos, "Gamma")
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	mustPrice(t, repos, p, beta, 7, true, at)
	mustPrice(t, repos, p, alfa, 9, false, at.Add(time.Minute))
	mustPrice(t, repos, p, gamma, 5, true, at.Add(2*time.Minute))
	mustPrice(t, repos, other, alfa, 1, true, at.Add(3*time.Minute))

	entries, total, err := repos.Prices.Find(ctx, repository.PriceQuery{
		ProductID: &p.ID,
		Sort:      repository.Sort{Field: repository.SortPrice},
		WithStore: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, entries, 3)
	assert.Equal(t, []float64{5, 7, 9}, []float64{entries[0].Price, entries[1].Price, entries[2].Price})
	require.NotNil(t, entries[0].Store)
	assert.Equal(t, "Gamma", entries[0].Store.Name)
	assert.Nil(t, entries[0].Product)

	entries, _, err = repos.Prices.Find(ctx, repository.PriceQuery{
		ProductID: &p.ID,
		Sort:      repository.Sort{Field: repository.SortStoreName, Desc: true},
		WithStore: true,
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Gamma", entries[0].Store.Name)
	assert.Equal(t, "Alfa", entries[2].Store.Name)

	available := true
	entries, total, err = repos.Prices.Find(ctx, repository.PriceQuery{
		ProductID: &p.ID,
		Available: &available,
		Sort:      repository.Sort{Field: repository.SortLastUpdated, Desc: true},
		Limit:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 1)
	assert.Equal(t, 5.0, entries[0].Price)

	entries, total, err = repos.Prices.Find(ctx, repository.PriceQuery{
		StoreID:     &alfa.ID,
		Sort:        repository.Sort{Field: repository.SortProductName},
		WithProduct: true,
		WithStore:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 2)
	assert.Equal(t, "Azúcar", entries[0].Product.Name)
	assert.Equal(t, "Yerba", entries[1].Product.Name)

	all, err := repos.Prices.FindAllByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byStore, err := repos.Prices.FindAllByStore(ctx, alfa.ID)
	require.NoError(t, err)
	assert.Len(t, byStore, 2)
}

func testDeleteCascade(t *testing.T, repos *repository.Repositories) {
	ctx := context.Background()
	p := mustProduct(t, repos, "Pan", "")
	keep := mustProduct(t, repos, "Manteca", "")
	s1 := mustStore(t, repos, "Uno")
	s2 := mustStore(t, repos, "Dos")
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mustPrice(t, repos, p, s1, 1, true, at)
	mustPrice(t, repos, p, s2, 2, true, at)
	mustPrice(t, repos, keep, s1, 3, true, at)

	deleted, err := repos.Products.DeleteCascade(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	left, err := repos.Prices.FindAllByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	_, err = repos.Products.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	deleted, err = repos.Stores.DeleteCascade(ctx, s1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	left, err = repos.Prices.FindAllByProduct(ctx, keep.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	_, err = repos.Products.DeleteCascade(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repos.Stores.DeleteCascade(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
