package models

import "github.com/google/uuid"

// Source marks which strategy produced a result.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// ScoredProposal is one proposal annotated with its fit against the RFP.
// Score and IsRecommended are computed per comparison, never persisted as
// proposal identity.
type ScoredProposal struct {
	Proposal
	Score         float64 `json:"score"`
	IsRecommended bool    `json:"isRecommended"`
	Reason        string  `json:"reason"`
}

// ComparisonResult is the ephemeral ranked comparison of all responded
// proposals for one RFP, sorted by score descending (arrival order kept on
// ties). At most one proposal carries IsRecommended.
type ComparisonResult struct {
	RfpID     uuid.UUID        `json:"rfpId"`
	Proposals []ScoredProposal `json:"proposals"`
	Source    Source           `json:"source"`
}
