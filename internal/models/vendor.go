package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a supplier the buyer can invite. Email is the identity key
// used for communication; identity is immutable once a proposal refers
// to the vendor.
type Vendor struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	CreatedAt time.Time `json:"createdAt"`
}
