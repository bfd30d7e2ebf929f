package extract

import "rfp-pipeline/internal/models"

// RfpResult is a structured RFP record plus the provenance of the strategy
// that produced it. Source is SourceAI whenever the primary path yielded a
// decodable record, even if single fields were back-filled heuristically.
type RfpResult struct {
	Fields models.RfpFields `json:"fields"`
	Source models.Source    `json:"source"`
}

// ProposalResult is the proposal-schema counterpart of RfpResult.
type ProposalResult struct {
	Fields models.ProposalFields `json:"fields"`
	Source models.Source         `json:"source"`
}
