package score

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "rfp-pipeline/internal/common/errors"
	"rfp-pipeline/internal/common/logger"
	"rfp-pipeline/internal/models"
)

type fakeChatter struct {
	reply string
	err   error
	calls int
}

func (f *fakeChatter) Chat(ctx context.Context, systemPrompt, userContent string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestService(llm *fakeChatter, cache *redis.Client) *Service {
	return NewService(
		&Config{Timeout: 5 * time.Second, CacheTTL: time.Minute},
		llm, cache, nil,
		logger.NewNoOpLogger(),
	)
}

func testRfp() *models.Rfp {
	return &models.Rfp{
		ID:    uuid.New(),
		Title: "Office chairs",
		Structured: models.RfpFields{
			Budget:               floatPtr(5000),
			DeliveryTimelineDays: intPtr(20),
		},
	}
}

func testProposal(price float64) models.Proposal {
	return models.Proposal{
		ID:     uuid.New(),
		Status: models.ProposalStatusResponded,
		ProposalFields: models.ProposalFields{
			Price: floatPtr(price),
		},
	}
}

func TestCompare_AIPath(t *testing.T) {
	rfp := testRfp()
	p1 := testProposal(4800)
	p2 := testProposal(5200)

	llm := &fakeChatter{reply: fmt.Sprintf(`{"scores": [
		{"proposalId": %q, "score": 7.0, "isRecommended": false, "reason": "slightly over budget"},
		{"proposalId": %q, "score": 9.0, "isRecommended": true, "reason": "best value"}
	]}`, p2.ID, p1.ID)}

	result, err := newTestService(llm, nil).Compare(context.Background(), rfp, []models.Proposal{p1, p2})

	require.NoError(t, err)
	assert.Equal(t, models.SourceAI, result.Source)
	require.Len(t, result.Proposals, 2)
	// sorted by score descending
	assert.Equal(t, p1.ID, result.Proposals[0].ID)
	assert.Equal(t, 9.0, result.Proposals[0].Score)
	assert.True(t, result.Proposals[0].IsRecommended)
	assert.Equal(t, "best value", result.Proposals[0].Reason)
	assert.False(t, result.Proposals[1].IsRecommended)
}

func TestCompare_AIMultipleFlagsNormalized(t *testing.T) {
	rfp := testRfp()
	p1 := testProposal(4800)
	p2 := testProposal(5200)

	llm := &fakeChatter{reply: fmt.Sprintf(`{"scores": [
		{"proposalId": %q, "score": 6.0, "isRecommended": true, "reason": "ok"},
		{"proposalId": %q, "score": 8.0, "isRecommended": true, "reason": "better"}
	]}`, p1.ID, p2.ID)}

	result, err := newTestService(llm, nil).Compare(context.Background(), rfp, []models.Proposal{p1, p2})

	require.NoError(t, err)
	flagged := 0
	for _, sp := range result.Proposals {
		if sp.IsRecommended {
			flagged++
			assert.Equal(t, p2.ID, sp.ID)
		}
	}
	assert.Equal(t, 1, flagged)
}

func TestCompare_FallbackOnChatError(t *testing.T) {
	rfp := testRfp()
	cheap := testProposal(4000)
	pricey := testProposal(6000)

	llm := &fakeChatter{err: errors.New("connection refused")}

	result, err := newTestService(llm, nil).Compare(context.Background(), rfp, []models.Proposal{pricey, cheap})

	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, result.Source)
	require.Len(t, result.Proposals, 2)
	assert.Equal(t, cheap.ID, result.Proposals[0].ID)
	assert.True(t, result.Proposals[0].IsRecommended)
	assert.Equal(t, FallbackReason, result.Proposals[0].Reason)
	assert.False(t, result.Proposals[1].IsRecommended)
}

func TestCompare_FallbackTieKeepsArrivalOrder(t *testing.T) {
	rfp := testRfp()
	low := testProposal(10000) // well over budget
	first := testProposal(5000)
	second := testProposal(5000)

	llm := &fakeChatter{err: errors.New("model not loaded")}

	result, err := newTestService(llm, nil).Compare(context.Background(), rfp, []models.Proposal{low, first, second})

	require.NoError(t, err)
	require.Len(t, result.Proposals, 3)
	assert.Equal(t, first.ID, result.Proposals[0].ID)
	assert.Equal(t, second.ID, result.Proposals[1].ID)
	assert.Equal(t, low.ID, result.Proposals[2].ID)
	assert.True(t, result.Proposals[0].IsRecommended)
	assert.False(t, result.Proposals[1].IsRecommended)
}

func TestCompare_FallbackAllZeroNoRecommendation(t *testing.T) {
	rfp := testRfp()
	// No extractable fields on either proposal.
	p1 := models.Proposal{ID: uuid.New(), Status: models.ProposalStatusResponded}
	p2 := models.Proposal{ID: uuid.New(), Status: models.ProposalStatusResponded}

	llm := &fakeChatter{err: errors.New("down")}

	result, err := newTestService(llm, nil).Compare(context.Background(), rfp, []models.Proposal{p1, p2})

	require.NoError(t, err)
	for _, sp := range result.Proposals {
		assert.Equal(t, 0.0, sp.Score)
		assert.False(t, sp.IsRecommended)
	}
}

func TestCompare_FallbackOnEmptyScoreList(t *testing.T) {
	rfp := testRfp()
	p := testProposal(4800)

	llm := &fakeChatter{reply: `{"scores": []}`}

	result, err := newTestService(llm, nil).Compare(context.Background(), rfp, []models.Proposal{p})

	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, result.Source)
}

func TestCompare_FallbackOnUndecodableReply(t *testing.T) {
	rfp := testRfp()
	p := testProposal(4800)

	llm := &fakeChatter{reply: "I think the first proposal looks great!"}

	result, err := newTestService(llm, nil).Compare(context.Background(), rfp, []models.Proposal{p})

	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, result.Source)
}

func TestCompare_ValidationErrors(t *testing.T) {
	svc := newTestService(&fakeChatter{}, nil)

	_, err := svc.Compare(context.Background(), nil, []models.Proposal{testProposal(1)})
	assert.True(t, stderrors.IsValidation(err))

	_, err = svc.Compare(context.Background(), testRfp(), nil)
	assert.True(t, stderrors.IsValidation(err))
}

func TestCompare_CachedResultSkipsInference(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	rfp := testRfp()
	p := testProposal(4800)
	llm := &fakeChatter{reply: fmt.Sprintf(
		`{"scores": [{"proposalId": %q, "score": 8.5, "isRecommended": true, "reason": "good"}]}`, p.ID)}

	svc := newTestService(llm, cache)

	first, err := svc.Compare(context.Background(), rfp, []models.Proposal{p})
	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls)

	second, err := svc.Compare(context.Background(), rfp, []models.Proposal{p})
	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls, "second comparison should be served from cache")
	assert.Equal(t, first.RfpID, second.RfpID)
	require.Len(t, second.Proposals, 1)
	assert.Equal(t, first.Proposals[0].Score, second.Proposals[0].Score)

	svc.Invalidate(context.Background(), rfp.ID.String())

	_, err = svc.Compare(context.Background(), rfp, []models.Proposal{p})
	require.NoError(t, err)
	assert.Equal(t, 2, llm.calls, "invalidation should force recompute")
}
