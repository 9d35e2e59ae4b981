// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields. Rows are hard-deleted so the
// (product_id, store_id) unique index never collides with a tombstone.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EnsureID assigns a fresh identifier when the record has none yet.
func (m *BaseModel) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

const DefaultCurrency = "USD"
