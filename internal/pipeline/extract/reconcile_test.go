package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfp-pipeline/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestReconcileRfp_AIWinsWherePresent(t *testing.T) {
	ai := models.RfpFields{
		Title:        "Office chair procurement",
		Budget:       floatPtr(5000),
		PaymentTerms: "net 30",
	}
	fb := models.RfpFields{
		Title:                "RFP - Need 10 chairs...",
		Budget:               floatPtr(4000),
		DeliveryTimelineDays: intPtr(20),
		WarrantyMonths:       intPtr(24),
		PaymentTerms:         "net 15",
		Items:                []models.LineItem{{Name: "Scope described in text"}},
	}

	out := ReconcileRfp(ai, fb)

	assert.Equal(t, "Office chair procurement", out.Title)
	require.NotNil(t, out.Budget)
	assert.Equal(t, 5000.0, *out.Budget)
	assert.Equal(t, "net 30", out.PaymentTerms)
	// missing AI fields back-filled from the deterministic parse
	require.NotNil(t, out.DeliveryTimelineDays)
	assert.Equal(t, 20, *out.DeliveryTimelineDays)
	require.NotNil(t, out.WarrantyMonths)
	assert.Equal(t, 24, *out.WarrantyMonths)
	require.Len(t, out.Items, 1)
}

func TestReconcileRfp_FieldsResolveIndependently(t *testing.T) {
	ai := models.RfpFields{Budget: floatPtr(9000)}
	fb := models.RfpFields{
		Title:  "RFP - fallback title",
		Budget: floatPtr(1000),
	}

	out := ReconcileRfp(ai, fb)

	assert.Equal(t, "RFP - fallback title", out.Title)
	assert.Equal(t, 9000.0, *out.Budget)
}

func TestReconcileRfp_FullRecordUnchanged(t *testing.T) {
	ai := models.RfpFields{
		Title:                "Office chair procurement",
		Budget:               floatPtr(5000),
		DeliveryTimelineDays: intPtr(20),
		WarrantyMonths:       intPtr(24),
		PaymentTerms:         "net 30",
		Items:                []models.LineItem{{Name: "Office chair", Quantity: intPtr(10)}},
		OtherRequirements:    "delivery to two sites",
	}
	fb := models.RfpFields{
		Title:        "RFP - something else",
		Budget:       floatPtr(1),
		PaymentTerms: "net 90",
		Items:        []models.LineItem{{Name: "ignored"}},
	}

	assert.Equal(t, ai, ReconcileRfp(ai, fb))
}

func TestReconcileRfp_EmptyItemsBackfilled(t *testing.T) {
	ai := models.RfpFields{Title: "t", Items: nil}
	fb := models.RfpFields{Items: []models.LineItem{{Name: "scope", Specs: "s"}}}

	out := ReconcileRfp(ai, fb)

	require.Len(t, out.Items, 1)
	assert.Equal(t, "scope", out.Items[0].Name)
}

func TestReconcileProposal_NotesNeverEmpty(t *testing.T) {
	raw := "We quote $4800, 18 days delivery"
	ai := models.ProposalFields{Price: floatPtr(4800)}
	fb := models.ProposalFields{
		Price:        floatPtr(4800),
		DeliveryDays: intPtr(18),
		Notes:        raw,
	}

	out := ReconcileProposal(ai, fb)

	assert.Equal(t, raw, out.Notes)
	require.NotNil(t, out.DeliveryDays)
	assert.Equal(t, 18, *out.DeliveryDays)
}

func TestReconcileProposal_AINotesKept(t *testing.T) {
	ai := models.ProposalFields{Notes: "summarized terms"}
	fb := models.ProposalFields{Notes: "the raw reply"}

	out := ReconcileProposal(ai, fb)

	assert.Equal(t, "summarized terms", out.Notes)
}
