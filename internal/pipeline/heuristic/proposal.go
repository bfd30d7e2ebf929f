package heuristic

import (
	"rfp-pipeline/internal/models"
)

// ParseProposal derives structured proposal fields from a vendor's raw
// reply. Notes carries the entire reply verbatim so a responded proposal
// is never left without context, even when no numeric field matched.
func ParseProposal(text string) models.ProposalFields {
	return models.ProposalFields{
		Price:          matchAmount(text),
		DeliveryDays:   matchDeliveryDays(text),
		WarrantyMonths: matchWarrantyMonths(text),
		PaymentTerms:   matchPaymentTerms(text),
		Notes:          text,
	}
}
