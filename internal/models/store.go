// internal/models/store.go
package models

import (
	"github.com/google/uuid"
)

type Store struct {
	BaseModel
	Name        string  `json:"name" gorm:"size:255;not null"`
	Description string  `json:"description" gorm:"type:text"`
	Address     string  `json:"address" gorm:"size:512"`
	Phone       string  `json:"phone" gorm:"size:64"`
	Website     string  `json:"website" gorm:"size:512"`
	Image       *string `json:"image" gorm:"size:1024"`

	// Relationships
	Prices []PriceEntry `json:"-" gorm:"foreignKey:StoreID"`
}

// StoreSummary carries the store contact fields shown next to a price.
type StoreSummary struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	Phone   string    `json:"phone"`
	Website string    `json:"website"`
}

func (StoreSummary) TableName() string {
	return "stores"
}

func (s *Store) Summary() *StoreSummary {
	return &StoreSummary{
		ID:      s.ID,
		Name:    s.Name,
		Address: s.Address,
		Phone:   s.Phone,
		Website: s.Website,
	}
}
