package score

import "github.com/xeipuuv/gojsonschema"

// scoringPayload is what the inference service sees: the RFP's structured
// fields and every proposal's extracted fields, vendor identity included
// for context only.
type scoringPayload struct {
	Rfp       interface{}       `json:"rfp"`
	Proposals []payloadProposal `json:"proposals"`
}

type payloadProposal struct {
	ProposalID     string   `json:"proposalId"`
	VendorName     string   `json:"vendorName,omitempty"`
	VendorEmail    string   `json:"vendorEmail,omitempty"`
	Price          *float64 `json:"price"`
	DeliveryDays   *int     `json:"deliveryDays"`
	WarrantyMonths *int     `json:"warrantyMonths"`
	PaymentTerms   string   `json:"paymentTerms"`
	Notes          string   `json:"notes"`
}

// aiScoreReply mirrors the JSON the model is instructed to return.
type aiScoreReply struct {
	Scores []aiScoreEntry `json:"scores"`
}

type aiScoreEntry struct {
	ProposalID    string  `json:"proposalId"`
	Score         float64 `json:"score"`
	IsRecommended bool    `json:"isRecommended"`
	Reason        string  `json:"reason"`
}

const scoringSystemPrompt = `
You are an AI assistant helping with procurement decisions.

You will receive:
1) The structured RFP (requirements, budget, delivery timeline, warranty, etc.)
2) A list of vendor proposals with extracted fields: price, delivery days, warranty months, payment terms, and notes.

Your job:
- Evaluate each proposal against the RFP.
- Give each proposal a score from 0 to 10 (10 = best fit).
- Indicate which single proposal you recommend.
- Provide one short sentence explanation per proposal.

Important:
- Return ONLY valid JSON. No extra text.
- JSON format:

{
  "scores": [
    {
      "proposalId": "<proposal id string>",
      "score": number,
      "isRecommended": boolean,
      "reason": string
    }
  ]
}
`

const scoreReplySchema = `{
  "type": "object",
  "required": ["scores"],
  "properties": {
    "scores": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["proposalId", "score"],
        "properties": {
          "proposalId": {"type": "string"},
          "score": {"type": "number"},
          "isRecommended": {"type": ["boolean", "null"]},
          "reason": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var scoreReplyValidator = gojsonschema.NewStringLoader(scoreReplySchema)
