package respond

import (
	"context"
	"strings"

	"github.com/google/uuid"

	stderrors "rfp-pipeline/internal/common/errors"
	"rfp-pipeline/internal/common/logger"
	"rfp-pipeline/internal/models"
	"rfp-pipeline/internal/pipeline/extract"
)

// Extractor turns a vendor's raw reply into structured proposal fields.
type Extractor interface {
	ExtractProposal(ctx context.Context, text string) (*extract.ProposalResult, error)
}

// ProposalStore is the persistence slice the respond flow needs.
type ProposalStore interface {
	GetProposal(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	RecordResponse(ctx context.Context, id uuid.UUID, fields models.ProposalFields) (*models.Proposal, error)
}

// Invalidator drops a cached comparison when its inputs change.
type Invalidator interface {
	Invalidate(ctx context.Context, rfpID string)
}

// Service handles a vendor's reply: extract fields from the raw text,
// transition the proposal to responded, and drop the RFP's cached
// comparison since its input set just changed.
type Service struct {
	extractor Extractor
	proposals ProposalStore
	scorer    Invalidator
	logger    logger.Logger
}

func NewService(extractor Extractor, proposals ProposalStore, scorer Invalidator, log logger.Logger) *Service {
	return &Service{
		extractor: extractor,
		proposals: proposals,
		scorer:    scorer,
		logger:    log.WithFields(map[string]interface{}{"component": "respond"}),
	}
}

// Respond records a vendor's reply against a proposal. The extractor
// guarantees Notes ends up non-empty, so a responded proposal always
// carries at least the raw reply text.
func (s *Service) Respond(ctx context.Context, proposalID uuid.UUID, text string) (*models.Proposal, error) {
	if strings.TrimSpace(text) == "" {
		return nil, stderrors.NewValidationFailedError("response text is required")
	}

	proposal, err := s.proposals.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	result, err := s.extractor.ExtractProposal(ctx, text)
	if err != nil {
		return nil, err
	}

	updated, err := s.proposals.RecordResponse(ctx, proposalID, result.Fields)
	if err != nil {
		return nil, err
	}

	if s.scorer != nil {
		s.scorer.Invalidate(ctx, proposal.RfpID.String())
	}

	s.logger.Info("proposal response recorded", map[string]interface{}{
		"proposalId": proposalID.String(),
		"rfpId":      proposal.RfpID.String(),
		"source":     string(result.Source),
	})
	return updated, nil
}
