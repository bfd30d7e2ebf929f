package models

import "github.com/google/uuid"

// DispatchOutcome is the result of one vendor's notification unit. A
// failed notification still carries the id of the proposal record created
// before the send was attempted; ProposalID is uuid.Nil only when record
// creation itself failed.
type DispatchOutcome struct {
	VendorID   uuid.UUID `json:"vendorId"`
	Email      string    `json:"email"`
	OK         bool      `json:"ok"`
	Error      string    `json:"error,omitempty"`
	ProposalID uuid.UUID `json:"proposalId,omitempty"`
}

// DispatchResult aggregates a fan-out over N vendors. Attempted always
// equals len(Outcomes); partial failure never aborts the batch.
type DispatchResult struct {
	Attempted int               `json:"attempted"`
	Sent      int               `json:"sent"`
	Failed    int               `json:"failed"`
	Outcomes  []DispatchOutcome `json:"results"`
}
