// internal/models/product.go
package models

import (
	"github.com/google/uuid"
)

type Product struct {
	BaseModel
	Name        string  `json:"name" gorm:"size:255;not null"`
	Description string  `json:"description" gorm:"type:text"`
	Image       *string `json:"image" gorm:"size:1024"`

	// Relationships
	Prices []PriceEntry `json:"-" gorm:"foreignKey:ProductID"`
}

// ProductSummary is the abbreviated product embedded in price responses.
type ProductSummary struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

func (ProductSummary) TableName() string {
	return "products"
}

func (p *Product) Summary() *ProductSummary {
	return &ProductSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
	}
}
