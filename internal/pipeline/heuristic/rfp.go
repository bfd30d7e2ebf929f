package heuristic

import (
	"rfp-pipeline/internal/models"
)

const (
	titlePrefix   = "RFP - "
	titleLen      = 40
	itemSpecsLen  = 140
	scopeItemName = "Scope described in text"
)

// ParseRfp derives a structured RFP record from free text without any AI
// involvement. The title is synthesized from the opening of the text and a
// single line item captures the described scope.
func ParseRfp(text string) models.RfpFields {
	title := titlePrefix + truncateRunes(text, titleLen)
	if len([]rune(text)) > titleLen {
		title += "..."
	}

	return models.RfpFields{
		Title:                title,
		Budget:               matchAmount(text),
		DeliveryTimelineDays: matchDeliveryDays(text),
		WarrantyMonths:       matchWarrantyMonths(text),
		PaymentTerms:         matchPaymentTerms(text),
		Items: []models.LineItem{
			{
				Name:     scopeItemName,
				Quantity: nil,
				Specs:    truncateRunes(text, itemSpecsLen),
			},
		},
		OtherRequirements: "",
	}
}
