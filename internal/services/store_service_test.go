package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/price-compare/internal/utils"
)

func TestCreateStoreValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	store, err := f.stores.CreateStore(ctx, &CreateStoreRequest{
		Name:    "Ferretería",
		Address: " Av. Siempre Viva 742 ",
		Website: "https://ferreteria.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Av. Siempre Viva 742", store.Address)

	_, err = f.stores.CreateStore(ctx, &CreateStoreRequest{Name: "Mala", Website: "no es una url"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.stores.CreateStore(ctx, &CreateStoreRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateStoreIsPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.stores.CreateStore(ctx, &CreateStoreRequest{Name: "Verdulería", Phone: "555-1234"})
	require.NoError(t, err)

	address := "Calle 1"
	updated, err := f.stores.UpdateStore(ctx, created.ID, &UpdateStoreRequest{Address: &address})
	require.NoError(t, err)
	assert.Equal(t, "Verdulería", updated.Name)
	assert.Equal(t, "555-1234", updated.Phone)
	assert.Equal(t, "Calle 1", updated.Address)

	_, err = f.stores.UpdateStore(ctx, uuid.New(), &UpdateStoreRequest{Address: &address})
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestListStoresSearchesNameOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.stores.CreateStore(ctx, &CreateStoreRequest{Name: "Norte", Description: "cerca del sur"})
	require.NoError(t, err)
	f.store(t, "Sur")

	stores, total, err := f.stores.ListStores(ctx, utils.PaginationParams{Search: "sur"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, stores, 1)
	assert.Equal(t, "Sur", stores[0].Name)
}

func TestDeleteStoreCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.store(t, "Cerrada")
	open := f.store(t, "Abierta")
	p1 := f.product(t, "Uno")
	p2 := f.product(t, "Dos")
	f.price(t, p1, s, 1, true)
	f.price(t, p2, s, 2, false)
	f.price(t, p1, open, 3, true)

	result, err := f.stores.DeleteStore(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cerrada", result.Name)
	assert.Equal(t, int64(2), result.DeletedPrices)

	remaining, err := f.repos.Prices.FindAllByStore(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	cmp, err := f.prices.Compare(ctx, p1.ID, PriceFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, cmp.Stats.TotalStores)

	_, err = f.stores.DeleteStore(ctx, s.ID)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}
