package models

import (
	"time"

	"github.com/google/uuid"
)

// LineItem is one requested item inside an RFP.
type LineItem struct {
	Name     string `json:"name"`
	Quantity *int   `json:"quantity"`
	Specs    string `json:"specs"`
}

// RfpFields is the structured record extracted from a buyer's free-text
// procurement request. Numeric fields are pointers so "unknown" survives
// the round trip through the model and the reconciler.
type RfpFields struct {
	Title                string     `json:"title"`
	Budget               *float64   `json:"budget"`
	DeliveryTimelineDays *int       `json:"deliveryTimelineDays"`
	WarrantyMonths       *int       `json:"warrantyMonths"`
	PaymentTerms         string     `json:"paymentTerms"`
	Items                []LineItem `json:"items"`
	OtherRequirements    string     `json:"otherRequirements"`
}

// Rfp is a buyer's procurement request. Description is the original
// free text and is immutable once created; Structured may be edited by the
// buyer afterwards but is never auto-regenerated.
type Rfp struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Structured  RfpFields `json:"structured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
