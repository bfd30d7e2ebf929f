package models

import (
	"time"

	"github.com/google/uuid"
)

// ProposalStatus tracks the proposal lifecycle.
type ProposalStatus string

const (
	ProposalStatusSent      ProposalStatus = "sent"
	ProposalStatusResponded ProposalStatus = "responded"
)

// ProposalFields is the structured record extracted from a vendor's
// free-text reply. All fields stay at their zero value while the proposal
// is in the sent state; Notes is always populated once responded, falling
// back to the raw reply text when nothing else was extracted.
type ProposalFields struct {
	Price          *float64 `json:"price"`
	DeliveryDays   *int     `json:"deliveryDays"`
	WarrantyMonths *int     `json:"warrantyMonths"`
	PaymentTerms   string   `json:"paymentTerms"`
	Notes          string   `json:"notes"`
}

// Proposal binds one Rfp and one Vendor.
type Proposal struct {
	ID       uuid.UUID      `json:"id"`
	RfpID    uuid.UUID      `json:"rfpId"`
	VendorID uuid.UUID      `json:"vendorId"`
	Status   ProposalStatus `json:"status"`
	ProposalFields
	Vendor    *Vendor   `json:"vendor,omitempty"` // populated on reads that join vendors
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
