package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "rfp-pipeline/internal/common/errors"
	"rfp-pipeline/internal/common/logger"
	"rfp-pipeline/internal/models"
)

type fakeProposals struct {
	mu      sync.Mutex
	created []models.Proposal
	failFor map[uuid.UUID]error
}

func (f *fakeProposals) CreateProposal(ctx context.Context, rfpID, vendorID uuid.UUID) (*models.Proposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[vendorID]; ok {
		return nil, err
	}
	p := models.Proposal{
		ID:       uuid.New(),
		RfpID:    rfpID,
		VendorID: vendorID,
		Status:   models.ProposalStatusSent,
	}
	f.created = append(f.created, p)
	return &p, nil
}

type fakeVendors struct {
	all []models.Vendor
}

func (f *fakeVendors) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	return f.all, nil
}

func (f *fakeVendors) ListVendorsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Vendor, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Vendor
	for _, v := range f.all {
		if want[v.ID] {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeTransport struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]error
}

func (f *fakeTransport) Send(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, to)
	return nil
}

func testVendors(n int) []models.Vendor {
	vendors := make([]models.Vendor, n)
	for i := range vendors {
		vendors[i] = models.Vendor{
			ID:    uuid.New(),
			Name:  "Vendor",
			Email: uuid.NewString() + "@example.com",
		}
	}
	return vendors
}

func newTestCoordinator(proposals *fakeProposals, vendors *fakeVendors, transport *fakeTransport) *Coordinator {
	return NewCoordinator(
		&Config{SendTimeout: 5 * time.Second},
		proposals, vendors, transport, nil,
		logger.NewNoOpLogger(),
	)
}

func TestSend_AllSucceed(t *testing.T) {
	rfp := &models.Rfp{ID: uuid.New(), Title: "Chairs"}
	vendors := testVendors(3)
	proposals := &fakeProposals{}
	transport := &fakeTransport{}

	result, err := newTestCoordinator(proposals, &fakeVendors{}, transport).
		Send(context.Background(), rfp, vendors)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 3, result.Sent)
	assert.Zero(t, result.Failed)
	require.Len(t, result.Outcomes, 3)
	for i, o := range result.Outcomes {
		assert.Equal(t, vendors[i].ID, o.VendorID, "outcomes keep vendor order")
		assert.True(t, o.OK)
		assert.NotEqual(t, uuid.Nil, o.ProposalID)
	}
	assert.Len(t, proposals.created, 3)
}

func TestSend_PartialFailureSettlesAll(t *testing.T) {
	rfp := &models.Rfp{ID: uuid.New(), Title: "Chairs"}
	vendors := testVendors(3)
	proposals := &fakeProposals{}
	transport := &fakeTransport{failFor: map[string]error{
		vendors[1].Email: errors.New("mailbox unavailable"),
	}}

	result, err := newTestCoordinator(proposals, &fakeVendors{}, transport).
		Send(context.Background(), rfp, vendors)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)

	failed := result.Outcomes[1]
	assert.False(t, failed.OK)
	assert.Contains(t, failed.Error, "mailbox unavailable")
	// the proposal record created before the failed send is kept
	assert.NotEqual(t, uuid.Nil, failed.ProposalID)
	assert.Len(t, proposals.created, 3)
}

func TestSend_CreateFailureLeavesNilProposal(t *testing.T) {
	rfp := &models.Rfp{ID: uuid.New(), Title: "Chairs"}
	vendors := testVendors(2)
	proposals := &fakeProposals{failFor: map[uuid.UUID]error{
		vendors[0].ID: errors.New("insert failed"),
	}}
	transport := &fakeTransport{}

	result, err := newTestCoordinator(proposals, &fakeVendors{}, transport).
		Send(context.Background(), rfp, vendors)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, uuid.Nil, result.Outcomes[0].ProposalID)
	assert.False(t, result.Outcomes[0].OK)
	assert.True(t, result.Outcomes[1].OK)
	// no invitation goes out without a proposal record
	assert.Len(t, transport.sent, 1)
}

func TestSend_ValidationErrors(t *testing.T) {
	c := newTestCoordinator(&fakeProposals{}, &fakeVendors{}, &fakeTransport{})

	_, err := c.Send(context.Background(), nil, testVendors(1))
	assert.True(t, stderrors.IsValidation(err))

	_, err = c.Send(context.Background(), &models.Rfp{ID: uuid.New()}, nil)
	assert.True(t, stderrors.IsValidation(err))
}

func TestSendByIDs_EmptyListTargetsAllVendors(t *testing.T) {
	rfp := &models.Rfp{ID: uuid.New(), Title: "Chairs"}
	all := testVendors(3)
	proposals := &fakeProposals{}
	transport := &fakeTransport{}

	result, err := newTestCoordinator(proposals, &fakeVendors{all: all}, transport).
		SendByIDs(context.Background(), rfp, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 3, result.Sent)
}

func TestSendByIDs_SubsetResolved(t *testing.T) {
	rfp := &models.Rfp{ID: uuid.New(), Title: "Chairs"}
	all := testVendors(3)
	proposals := &fakeProposals{}
	transport := &fakeTransport{}

	result, err := newTestCoordinator(proposals, &fakeVendors{all: all}, transport).
		SendByIDs(context.Background(), rfp, []uuid.UUID{all[0].ID, all[2].ID})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 2, result.Sent)
}
