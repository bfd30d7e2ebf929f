package notify

import (
	"fmt"
	"strconv"
	"strings"

	"rfp-pipeline/internal/models"
)

// InviteSubject builds the subject line for an RFP invitation.
func InviteSubject(rfp *models.Rfp) string {
	title := rfp.Title
	if title == "" {
		title = "New RFP from our company"
	}
	return "RFP: " + title
}

// InviteBody renders the plain-text invitation from the RFP's structured
// fields and raw description. Missing fields render as N/A rather than
// being dropped so vendors see the full expected shape.
func InviteBody(rfp *models.Rfp, vendor *models.Vendor, appLink string) string {
	structured := rfp.Structured

	name := vendor.Name
	if name == "" {
		name = "Vendor"
	}

	title := rfp.Title
	if title == "" {
		title = "(no title)"
	}

	description := rfp.Description
	if description == "" {
		description = "(not provided)"
	}

	var items []string
	for _, it := range structured.Items {
		qty := ""
		if it.Quantity != nil {
			qty = fmt.Sprintf("%d", *it.Quantity)
		}
		items = append(items, fmt.Sprintf("- %s %s (%s)", qty, it.Name, it.Specs))
	}
	itemsText := strings.Join(items, "\n")
	if itemsText == "" {
		itemsText = "(not listed)"
	}

	if appLink == "" {
		appLink = "http://localhost:5000"
	}

	body := fmt.Sprintf(`Hi %s,

You have been invited to respond to the following Request for Proposal (RFP).

Title: %s

Original description:
%s

Key details:
- Budget: %s
- Delivery timeline (days): %s
- Minimum warranty (months): %s
- Payment terms: %s

Items / Scope:
%s

How to respond:
Please reply to this email with your commercial & technical proposal, including:
- Total price
- Delivery timeline
- Warranty terms
- Payment terms
- Any other conditions

Your response will be automatically parsed by our internal AI RFP tool.

If you have any questions, reply to this email.

Best regards,
RFP Team

(Internal link for requester: %s)`,
		name,
		title,
		description,
		floatOrNA(structured.Budget),
		intOrNA(structured.DeliveryTimelineDays),
		intOrNA(structured.WarrantyMonths),
		stringOrNA(structured.PaymentTerms),
		itemsText,
		appLink,
	)

	return strings.TrimSpace(body)
}

func floatOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intOrNA(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v)
}

func stringOrNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
