package entity

import (
	"github.com/google/uuid"
)

// db model
// Products are owned by farmers and only read by the auction flow. Stock is
// never decremented here; that happens at settlement, outside this service.
type Product struct {
	Id       uuid.UUID `json:"id" db:"id"`
	FarmerId uuid.UUID `json:"farmerId" db:"farmer_id"`
	Name     string    `json:"name" db:"name"`
	Category string    `json:"category" db:"category"`
	Stock    int       `json:"stock" db:"stock"`
	Organic  bool      `json:"organic" db:"organic"`
}
