package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	stderrors "rfp-pipeline/internal/common/errors"
	"rfp-pipeline/internal/common/logger"
	"rfp-pipeline/internal/common/metrics"
	"rfp-pipeline/internal/common/observability"
	"rfp-pipeline/internal/common/ollama"
	"rfp-pipeline/internal/models"
	"rfp-pipeline/internal/pipeline/heuristic"

	"github.com/xeipuuv/gojsonschema"
)

// Service turns free text into structured records. The AI path is primary;
// any failure there is absorbed into the deterministic heuristic path, so
// callers only ever see a hard error for missing input.
type Service struct {
	config *Config
	llm    ollama.Chatter
	obs    *observability.Observability
	logger logger.Logger
}

func NewService(config *Config, llm ollama.Chatter, obs *observability.Observability, log logger.Logger) *Service {
	return &Service{
		config: config,
		llm:    llm,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "extract"}),
	}
}

// ExtractRfp produces a structured RFP record from a buyer's free text.
func (s *Service) ExtractRfp(ctx context.Context, text string) (*RfpResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, stderrors.NewValidationFailedError("request text is required")
	}

	start := time.Now()
	defer func() { s.obs.RecordDuration(ctx, "extract_rfp", time.Since(start)) }()

	fb := heuristic.ParseRfp(text)

	var aiFields models.RfpFields
	err := s.aiExtract(ctx, SchemaRfp, rfpSystemPrompt, rfpReplyValidator, text, &aiFields)
	if err != nil {
		s.logger.Warn("AI extraction failed, falling back", map[string]interface{}{
			"schema": SchemaRfp,
			"error":  err.Error(),
		})
		metrics.ExtractionsTotal.WithLabelValues(SchemaRfp, string(models.SourceFallback)).Inc()
		s.obs.RecordOperation(ctx, "extract_rfp", "fallback")
		return &RfpResult{Fields: fb, Source: models.SourceFallback}, nil
	}

	merged := ReconcileRfp(aiFields, fb)
	metrics.ExtractionsTotal.WithLabelValues(SchemaRfp, string(models.SourceAI)).Inc()
	s.obs.RecordOperation(ctx, "extract_rfp", "ok")

	s.logger.Info("rfp extracted", map[string]interface{}{
		"title":     merged.Title,
		"hasBudget": merged.Budget != nil,
		"itemCount": len(merged.Items),
	})

	return &RfpResult{Fields: merged, Source: models.SourceAI}, nil
}

// ExtractProposal produces structured proposal fields from a vendor reply.
// Notes is always populated, falling back to the raw reply text.
func (s *Service) ExtractProposal(ctx context.Context, text string) (*ProposalResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, stderrors.NewValidationFailedError("response text is required")
	}

	start := time.Now()
	defer func() { s.obs.RecordDuration(ctx, "extract_proposal", time.Since(start)) }()

	fb := heuristic.ParseProposal(text)

	var aiFields models.ProposalFields
	err := s.aiExtract(ctx, SchemaProposal, proposalSystemPrompt, proposalReplyValidator, text, &aiFields)
	if err != nil {
		s.logger.Warn("AI extraction failed, falling back", map[string]interface{}{
			"schema": SchemaProposal,
			"error":  err.Error(),
		})
		metrics.ExtractionsTotal.WithLabelValues(SchemaProposal, string(models.SourceFallback)).Inc()
		s.obs.RecordOperation(ctx, "extract_proposal", "fallback")
		return &ProposalResult{Fields: fb, Source: models.SourceFallback}, nil
	}

	merged := ReconcileProposal(aiFields, fb)
	metrics.ExtractionsTotal.WithLabelValues(SchemaProposal, string(models.SourceAI)).Inc()
	s.obs.RecordOperation(ctx, "extract_proposal", "ok")

	s.logger.Info("proposal extracted", map[string]interface{}{
		"hasPrice":    merged.Price != nil,
		"hasDelivery": merged.DeliveryDays != nil,
	})

	return &ProposalResult{Fields: merged, Source: models.SourceAI}, nil
}

// aiExtract runs one structured chat turn and decodes the reply into out.
// The reply is checked against the embedded JSON schema first so a typed
// mismatch fails over instead of half-decoding.
func (s *Service) aiExtract(ctx context.Context, schema, systemPrompt string, validator gojsonschema.JSONLoader, text string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.llm.Chat(ctx, systemPrompt, text)
	metrics.InferenceDuration.WithLabelValues("extract_" + schema).Observe(time.Since(start).Seconds())
	if err != nil {
		return stderrors.NewExtractionFailedError(schema, err)
	}

	result, err := gojsonschema.Validate(validator, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return stderrors.NewExtractionFailedError(schema, fmt.Errorf("reply is not valid JSON: %w", err))
	}
	if !result.Valid() {
		return stderrors.NewExtractionFailedError(schema, fmt.Errorf("reply does not match schema: %v", result.Errors()))
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return stderrors.NewExtractionFailedError(schema, fmt.Errorf("decoding reply: %w", err))
	}
	return nil
}
