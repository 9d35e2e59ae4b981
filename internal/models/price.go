// internal/models/price.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// PriceEntry ties one product to one store. At most one entry exists per
// (ProductID, StoreID) pair.
type PriceEntry struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID     uuid.UUID `json:"productId" gorm:"type:uuid;not null;uniqueIndex:idx_price_entries_product_store,priority:1"`
	StoreID       uuid.UUID `json:"storeId" gorm:"type:uuid;not null;uniqueIndex:idx_price_entries_product_store,priority:2;index"`
	Price         float64   `json:"price" gorm:"type:decimal(10,2);not null;check:chk_price_entries_price,price >= 0"`
	Currency      string    `json:"currency" gorm:"size:8;not null;default:'USD'"`
	IsAvailable   bool      `json:"isAvailable" gorm:"not null;index"`
	StockQuantity int       `json:"stockQuantity" gorm:"not null;default:0;check:chk_price_entries_stock,stock_quantity >= 0"`
	Notes         string    `json:"notes" gorm:"type:text"`
	LastUpdated   time.Time `json:"lastUpdated" gorm:"not null;index"`

	// Relationships, loaded on demand
	Product *ProductSummary `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Store   *StoreSummary   `json:"store,omitempty" gorm:"foreignKey:StoreID"`
}

func (e *PriceEntry) EnsureID() {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
}

// Touch stamps the entry with the time of the write.
func (e *PriceEntry) Touch(now time.Time) {
	e.LastUpdated = now
}

// PriceStats summarises every price entry of a product. The price fields
// only consider available entries and stay nil when none is available.
type PriceStats struct {
	TotalStores       int      `json:"totalStores"`
	AvailableStores   int      `json:"availableStores"`
	UnavailableStores int      `json:"unavailableStores"`
	MinPrice          *float64 `json:"minPrice"`
	MaxPrice          *float64 `json:"maxPrice"`
	AvgPrice          *float64 `json:"avgPrice"`
}
