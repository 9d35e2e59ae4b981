// internal/services/price_stats.go
package services

import (
	"github.com/shopspring/decimal"

	"github.com/javajoker/price-compare/internal/models"
)

// ComputePriceStats summarises entries. Min, max and average only consider
// available entries and stay nil when there are none.
func ComputePriceStats(entries []models.PriceEntry) models.PriceStats {
	stats := models.PriceStats{TotalStores: len(entries)}

	var (
		sum    decimal.Decimal
		lo, hi decimal.Decimal
	)
	for _, entry := range entries {
		if !entry.IsAvailable {
			continue
		}
		price := decimal.NewFromFloat(entry.Price)
		if stats.AvailableStores == 0 {
			lo, hi = price, price
		} else {
			if price.LessThan(lo) {
				lo = price
			}
			if price.GreaterThan(hi) {
				hi = price
			}
		}
		sum = sum.Add(price)
		stats.AvailableStores++
	}
	stats.UnavailableStores = stats.TotalStores - stats.AvailableStores

	if stats.AvailableStores == 0 {
		return stats
	}

	avg := sum.Div(decimal.NewFromInt(int64(stats.AvailableStores)))
	stats.MinPrice = floatPtr(lo)
	stats.MaxPrice = floatPtr(hi)
	stats.AvgPrice = floatPtr(avg)
	return stats
}

func floatPtr(d decimal.Decimal) *float64 {
	f, _ := d.Float64()
	return &f
}
