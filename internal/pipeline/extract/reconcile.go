package extract

import "rfp-pipeline/internal/models"

// Field-by-field merge of AI-extracted and heuristic-extracted records.
// The AI value wins when present; empty or null fields are back-filled
// from the heuristic parse. Each field resolves independently.

func ReconcileRfp(ai, fb models.RfpFields) models.RfpFields {
	out := ai
	if out.Title == "" {
		out.Title = fb.Title
	}
	if out.Budget == nil {
		out.Budget = fb.Budget
	}
	if out.DeliveryTimelineDays == nil {
		out.DeliveryTimelineDays = fb.DeliveryTimelineDays
	}
	if out.WarrantyMonths == nil {
		out.WarrantyMonths = fb.WarrantyMonths
	}
	if out.PaymentTerms == "" {
		out.PaymentTerms = fb.PaymentTerms
	}
	if len(out.Items) == 0 {
		out.Items = fb.Items
	}
	if out.OtherRequirements == "" {
		out.OtherRequirements = fb.OtherRequirements
	}
	return out
}

func ReconcileProposal(ai, fb models.ProposalFields) models.ProposalFields {
	out := ai
	if out.Price == nil {
		out.Price = fb.Price
	}
	if out.DeliveryDays == nil {
		out.DeliveryDays = fb.DeliveryDays
	}
	if out.WarrantyMonths == nil {
		out.WarrantyMonths = fb.WarrantyMonths
	}
	if out.PaymentTerms == "" {
		out.PaymentTerms = fb.PaymentTerms
	}
	if out.Notes == "" {
		out.Notes = fb.Notes
	}
	return out
}
