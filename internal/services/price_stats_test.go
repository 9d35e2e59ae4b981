package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/price-compare/internal/models"
)

func TestComputePriceStats(t *testing.T) {
	entries := []models.PriceEntry{
		{Price: 10.00, IsAvailable: true},
		{Price: 8.50, IsAvailable: false},
		{Price: 12.00, IsAvailable: true},
	}

	stats := ComputePriceStats(entries)

	assert.Equal(t, 3, stats.TotalStores)
	assert.Equal(t, 2, stats.AvailableStores)
	assert.Equal(t, 1, stats.UnavailableStores)
	require.NotNil(t, stats.MinPrice)
	require.NotNil(t, stats.MaxPrice)
	require.NotNil(t, stats.AvgPrice)
	assert.Equal(t, 10.00, *stats.MinPrice)
	assert.Equal(t, 12.00, *stats.MaxPrice)
	assert.Equal(t, 11.00, *stats.AvgPrice)
}

func TestComputePriceStatsNoneAvailable(t *testing.T) {
	stats := ComputePriceStats([]models.PriceEntry{
		{Price: 3, IsAvailable: false},
		{Price: 4, IsAvailable: false},
	})

	assert.Equal(t, 2, stats.TotalStores)
	assert.Equal(t, 0, stats.AvailableStores)
	assert.Equal(t, 2, stats.UnavailableStores)
	assert.Nil(t, stats.MinPrice)
	assert.Nil(t, stats.MaxPrice)
	assert.Nil(t, stats.AvgPrice)
}

func TestComputePriceStatsEmpty(t *testing.T) {
	stats := ComputePriceStats(nil)

	assert.Equal(t, models.PriceStats{}, stats)
}

func TestComputePriceStatsOrdering(t *testing.T) {
	entries := []models.PriceEntry{
		{Price: 0.10, IsAvailable: true},
		{Price: 0.20, IsAvailable: true},
		{Price: 0.70, IsAvailable: true},
		{Price: 99.99, IsAvailable: false},
	}

	stats := ComputePriceStats(entries)

	assert.Equal(t, stats.TotalStores, stats.AvailableStores+stats.UnavailableStores)
	assert.LessOrEqual(t, *stats.MinPrice, *stats.AvgPrice)
	assert.LessOrEqual(t, *stats.AvgPrice, *stats.MaxPrice)
	assert.InDelta(t, 0.3333, *stats.AvgPrice, 0.0001)
	assert.Equal(t, 0.70, *stats.MaxPrice)
}
