package score

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	stderrors "rfp-pipeline/internal/common/errors"
	"rfp-pipeline/internal/common/logger"
	"rfp-pipeline/internal/common/metrics"
	"rfp-pipeline/internal/common/observability"
	"rfp-pipeline/internal/common/ollama"
	"rfp-pipeline/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/xeipuuv/gojsonschema"
)

// Service ranks responded proposals against their RFP. The AI path is
// primary; any failure there (unreachable service, undecodable reply,
// empty score list) is absorbed into the deterministic weighted heuristic.
// Only missing input surfaces as an error.
type Service struct {
	config *Config
	llm    ollama.Chatter
	cache  *redis.Client // optional, nil disables comparison caching
	obs    *observability.Observability
	logger logger.Logger
}

func NewService(config *Config, llm ollama.Chatter, cache *redis.Client, obs *observability.Observability, log logger.Logger) *Service {
	return &Service{
		config: config,
		llm:    llm,
		cache:  cache,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "score"}),
	}
}

// Compare scores every proposal in [0,10], flags exactly one recommendation
// when any score is defined, and returns the list sorted by score
// descending with arrival order kept on ties. The result carries the
// provenance of the strategy that produced it.
func (s *Service) Compare(ctx context.Context, rfp *models.Rfp, proposals []models.Proposal) (*models.ComparisonResult, error) {
	if rfp == nil {
		return nil, stderrors.NewValidationFailedError("rfp is required")
	}
	if len(proposals) == 0 {
		return nil, stderrors.NewValidationFailedError("at least one responded proposal is required")
	}

	start := time.Now()
	defer func() { s.obs.RecordDuration(ctx, "compare", time.Since(start)) }()

	cacheKey := "rfp:comparison:" + rfp.ID.String()
	if cached := s.cacheGet(ctx, cacheKey); cached != nil {
		s.obs.RecordOperation(ctx, "compare", "cached")
		return cached, nil
	}

	scored, err := s.aiScores(ctx, rfp, proposals)
	source := models.SourceAI
	if err != nil {
		s.logger.Warn("AI scoring failed, using fallback", map[string]interface{}{
			"rfpId": rfp.ID.String(),
			"error": err.Error(),
		})
		scored = s.fallbackScores(rfp, proposals)
		source = models.SourceFallback
	}

	// Stable sort keeps arrival order among equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	result := &models.ComparisonResult{
		RfpID:     rfp.ID,
		Proposals: scored,
		Source:    source,
	}

	metrics.ScoringsTotal.WithLabelValues(string(source)).Inc()
	s.obs.RecordOperation(ctx, "compare", string(source))
	s.cacheSet(ctx, cacheKey, result)

	s.logger.Info("proposals compared", map[string]interface{}{
		"rfpId":     rfp.ID.String(),
		"proposals": len(scored),
		"source":    string(source),
	})

	return result, nil
}

func (s *Service) aiScores(ctx context.Context, rfp *models.Rfp, proposals []models.Proposal) ([]models.ScoredProposal, error) {
	payload := scoringPayload{Rfp: rfp}
	for _, p := range proposals {
		pp := payloadProposal{
			ProposalID:     p.ID.String(),
			Price:          p.Price,
			DeliveryDays:   p.DeliveryDays,
			WarrantyMonths: p.WarrantyMonths,
			PaymentTerms:   p.PaymentTerms,
			Notes:          p.Notes,
		}
		if p.Vendor != nil {
			pp.VendorName = p.Vendor.Name
			pp.VendorEmail = p.Vendor.Email
		}
		payload.Proposals = append(payload.Proposals, pp)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, stderrors.NewScoringFailedError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.llm.Chat(ctx, scoringSystemPrompt, string(body))
	metrics.InferenceDuration.WithLabelValues("score").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, stderrors.NewScoringFailedError(err)
	}

	valid, err := gojsonschema.Validate(scoreReplyValidator, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, stderrors.NewScoringFailedError(fmt.Errorf("reply is not valid JSON: %w", err))
	}
	if !valid.Valid() {
		return nil, stderrors.NewScoringFailedError(fmt.Errorf("reply does not match schema: %v", valid.Errors()))
	}

	var reply aiScoreReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, stderrors.NewScoringFailedError(fmt.Errorf("decoding reply: %w", err))
	}
	if len(reply.Scores) == 0 {
		return nil, stderrors.NewScoringFailedError(fmt.Errorf("empty score list"))
	}

	byID := make(map[string]aiScoreEntry, len(reply.Scores))
	for _, e := range reply.Scores {
		byID[e.ProposalID] = e
	}

	scored := make([]models.ScoredProposal, 0, len(proposals))
	for _, p := range proposals {
		e := byID[p.ID.String()]
		scored = append(scored, models.ScoredProposal{
			Proposal:      p,
			Score:         e.Score,
			IsRecommended: e.IsRecommended,
			Reason:        e.Reason,
		})
	}

	normalizeRecommendation(scored)
	return scored, nil
}

func (s *Service) fallbackScores(rfp *models.Rfp, proposals []models.Proposal) []models.ScoredProposal {
	scored := make([]models.ScoredProposal, 0, len(proposals))
	for _, p := range proposals {
		scored = append(scored, models.ScoredProposal{
			Proposal: p,
			Score:    fallbackScore(p.ProposalFields, rfp.Structured),
			Reason:   FallbackReason,
		})
	}

	// Strict maximum, first seen wins ties. No recommendation when every
	// score is 0 (no fields present on any proposal).
	best := -1
	bestScore := 0.0
	for i, sp := range scored {
		if sp.Score > bestScore {
			bestScore = sp.Score
			best = i
		}
	}
	if best >= 0 {
		scored[best].IsRecommended = true
	}

	return scored
}

// normalizeRecommendation enforces the exactly-one invariant on the AI
// path: when the model flags zero or multiple proposals, the flag moves to
// the strict maximum score, first seen winning ties.
func normalizeRecommendation(scored []models.ScoredProposal) {
	flagged := 0
	for _, sp := range scored {
		if sp.IsRecommended {
			flagged++
		}
	}
	if flagged == 1 {
		return
	}

	best := 0
	for i := range scored {
		scored[i].IsRecommended = false
		if scored[i].Score > scored[best].Score {
			best = i
		}
	}
	scored[best].IsRecommended = true
}

func (s *Service) cacheGet(ctx context.Context, key string) *models.ComparisonResult {
	if s.cache == nil || s.config.CacheTTL == 0 {
		return nil
	}
	val, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var result models.ComparisonResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil
	}
	return &result
}

func (s *Service) cacheSet(ctx context.Context, key string, result *models.ComparisonResult) {
	if s.cache == nil || s.config.CacheTTL == 0 {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL).Err(); err != nil {
		s.logger.Debug("comparison cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// Invalidate drops the cached comparison for an RFP, called after a new
// proposal response lands.
func (s *Service) Invalidate(ctx context.Context, rfpID string) {
	if s.cache == nil {
		return
	}
	s.cache.Del(ctx, "rfp:comparison:"+rfpID)
}
