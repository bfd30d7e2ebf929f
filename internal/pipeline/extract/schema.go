package extract

import "github.com/xeipuuv/gojsonschema"

// Schema names surfaced in logs and metrics.
const (
	SchemaRfp      = "rfp"
	SchemaProposal = "proposal"
)

// System instructions sent to the inference service. Each embeds the exact
// field set so the reply can be decoded without prose stripping.

const rfpSystemPrompt = `
You are an assistant that extracts structured RFP data from free text.
Respond ONLY with valid JSON. No commentary.

Schema:
{
  "title": string,
  "budget": number | null,
  "deliveryTimelineDays": number | null,
  "warrantyMonths": number | null,
  "paymentTerms": string | null,
  "items": [
    { "name": string, "quantity": number | null, "specs": string | null }
  ],
  "otherRequirements": string | null
}
`

const proposalSystemPrompt = `
You read vendor proposal emails and extract structured fields.
Respond ONLY with valid JSON and no extra text.

Schema (all keys required):
{
  "price": number | null,
  "deliveryDays": number | null,
  "warrantyMonths": number | null,
  "paymentTerms": string | null,
  "notes": string
}
Always fill every key. If unknown, use null or empty string.
`

// JSON Schemas the model reply is validated against before decoding. A
// well-formed but semantically wrong value (negative budget, say) passes;
// type mismatches trigger the fallback path.

const rfpReplySchema = `{
  "type": "object",
  "properties": {
    "title": {"type": ["string", "null"]},
    "budget": {"type": ["number", "null"]},
    "deliveryTimelineDays": {"type": ["integer", "null"]},
    "warrantyMonths": {"type": ["integer", "null"]},
    "paymentTerms": {"type": ["string", "null"]},
    "items": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": ["string", "null"]},
          "quantity": {"type": ["integer", "null"]},
          "specs": {"type": ["string", "null"]}
        }
      }
    },
    "otherRequirements": {"type": ["string", "null"]}
  }
}`

const proposalReplySchema = `{
  "type": "object",
  "properties": {
    "price": {"type": ["number", "null"]},
    "deliveryDays": {"type": ["integer", "null"]},
    "warrantyMonths": {"type": ["integer", "null"]},
    "paymentTerms": {"type": ["string", "null"]},
    "notes": {"type": ["string", "null"]}
  }
}`

var (
	rfpReplyValidator      = gojsonschema.NewStringLoader(rfpReplySchema)
	proposalReplyValidator = gojsonschema.NewStringLoader(proposalReplySchema)
)
