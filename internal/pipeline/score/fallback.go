package score

import (
	"math"

	"rfp-pipeline/internal/models"
)

// FallbackReason is attached to every heuristically scored proposal.
const FallbackReason = "Score computed using heuristic fallback."

// Component weights. Price dominates, then delivery, then warranty.
const (
	priceWeight    = 40.0
	deliveryWeight = 35.0
	warrantyWeight = 25.0
)

// fallbackScore computes the deterministic weighted fit of one proposal
// against the RFP, in [0,10] rounded to one decimal. A component is
// skipped when the proposal lacks the field; when the RFP lacks the
// target, the proposal's own value stands in, yielding a neutral ratio of
// 1. Price and delivery ratios point request/proposal (cheaper and faster
// beat the target); the warranty ratio points proposal/request, since a
// longer warranty exceeds it.
func fallbackScore(p models.ProposalFields, rfp models.RfpFields) float64 {
	var weighted, weightTotal float64

	if p.Price != nil {
		target := *p.Price
		if rfp.Budget != nil && *rfp.Budget != 0 {
			target = *rfp.Budget
		}
		weighted += clampRatio(target / *p.Price) * priceWeight
		weightTotal += priceWeight
	}

	if p.DeliveryDays != nil {
		target := *p.DeliveryDays
		if rfp.DeliveryTimelineDays != nil && *rfp.DeliveryTimelineDays != 0 {
			target = *rfp.DeliveryTimelineDays
		}
		weighted += clampRatio(float64(target)/float64(*p.DeliveryDays)) * deliveryWeight
		weightTotal += deliveryWeight
	}

	if p.WarrantyMonths != nil {
		target := *p.WarrantyMonths
		if rfp.WarrantyMonths != nil && *rfp.WarrantyMonths != 0 {
			target = *rfp.WarrantyMonths
		}
		weighted += clampRatio(float64(*p.WarrantyMonths)/float64(target)) * warrantyWeight
		weightTotal += warrantyWeight
	}

	if weightTotal == 0 {
		return 0
	}
	return math.Round(weighted/weightTotal*10*10) / 10
}

func clampRatio(ratio float64) float64 {
	if ratio < 0 {
		return 0
	}
	if ratio > 1.5 {
		return 1.5
	}
	return ratio
}
