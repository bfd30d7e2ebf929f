package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	stderrors "rfp-pipeline/internal/common/errors"
	"rfp-pipeline/internal/common/logger"
	"rfp-pipeline/internal/common/metrics"
	"rfp-pipeline/internal/common/observability"
	"rfp-pipeline/internal/models"
	"rfp-pipeline/internal/notify"
)

// ProposalCreator records a sent proposal binding one RFP to one vendor.
type ProposalCreator interface {
	CreateProposal(ctx context.Context, rfpID, vendorID uuid.UUID) (*models.Proposal, error)
}

// VendorDirectory resolves which vendors a dispatch targets.
type VendorDirectory interface {
	ListVendors(ctx context.Context) ([]models.Vendor, error)
	ListVendorsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Vendor, error)
}

// Coordinator fans an RFP invitation out across vendors concurrently and
// settles every unit before reporting. One vendor's failure never aborts
// another vendor's unit and never fails the batch as a whole.
type Coordinator struct {
	config    *Config
	proposals ProposalCreator
	vendors   VendorDirectory
	transport notify.Transport
	obs       *observability.Observability
	logger    logger.Logger
}

func NewCoordinator(config *Config, proposals ProposalCreator, vendors VendorDirectory, transport notify.Transport, obs *observability.Observability, log logger.Logger) *Coordinator {
	return &Coordinator{
		config:    config,
		proposals: proposals,
		vendors:   vendors,
		transport: transport,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"component": "dispatch"}),
	}
}

// SendByIDs resolves vendor ids and fans the invitation out. An empty id
// list targets every registered vendor.
func (c *Coordinator) SendByIDs(ctx context.Context, rfp *models.Rfp, vendorIDs []uuid.UUID) (*models.DispatchResult, error) {
	if rfp == nil {
		return nil, stderrors.NewValidationFailedError("rfp is required")
	}

	var vendors []models.Vendor
	var err error
	if len(vendorIDs) == 0 {
		vendors, err = c.vendors.ListVendors(ctx)
	} else {
		vendors, err = c.vendors.ListVendorsByIDs(ctx, vendorIDs)
	}
	if err != nil {
		return nil, err
	}

	return c.Send(ctx, rfp, vendors)
}

// Send creates a sent-state proposal for every vendor and emails each one
// an invitation. Outcomes keep the order of the vendors argument. A
// proposal created before a failed send is kept, so the vendor can still
// be tracked and chased manually.
func (c *Coordinator) Send(ctx context.Context, rfp *models.Rfp, vendors []models.Vendor) (*models.DispatchResult, error) {
	if rfp == nil {
		return nil, stderrors.NewValidationFailedError("rfp is required")
	}
	if len(vendors) == 0 {
		return nil, stderrors.NewValidationFailedError("at least one vendor is required")
	}

	start := time.Now()
	defer func() { c.obs.RecordDuration(ctx, "dispatch", time.Since(start)) }()

	outcomes := make([]models.DispatchOutcome, len(vendors))

	var wg sync.WaitGroup
	for i, vendor := range vendors {
		wg.Add(1)
		go func(i int, vendor models.Vendor) {
			defer wg.Done()
			outcomes[i] = c.sendOne(ctx, rfp, vendor)
		}(i, vendor)
	}
	wg.Wait()

	result := &models.DispatchResult{
		Attempted: len(outcomes),
		Outcomes:  outcomes,
	}
	for _, o := range outcomes {
		if o.OK {
			result.Sent++
			metrics.DispatchOutcomes.WithLabelValues("sent").Inc()
			c.obs.RecordOperation(ctx, "dispatch", "ok")
		} else {
			result.Failed++
			metrics.DispatchOutcomes.WithLabelValues("failed").Inc()
			c.obs.RecordOperation(ctx, "dispatch", "error")
		}
	}

	c.logger.Info("dispatch settled", map[string]interface{}{
		"rfpId":     rfp.ID.String(),
		"attempted": result.Attempted,
		"sent":      result.Sent,
		"failed":    result.Failed,
	})

	return result, nil
}

func (c *Coordinator) sendOne(ctx context.Context, rfp *models.Rfp, vendor models.Vendor) models.DispatchOutcome {
	ctx, cancel := context.WithTimeout(ctx, c.config.SendTimeout)
	defer cancel()

	outcome := models.DispatchOutcome{
		VendorID: vendor.ID,
		Email:    vendor.Email,
	}

	proposal, err := c.proposals.CreateProposal(ctx, rfp.ID, vendor.ID)
	if err != nil {
		c.logger.Error("proposal record creation failed", map[string]interface{}{
			"rfpId":    rfp.ID.String(),
			"vendorId": vendor.ID.String(),
			"error":    err.Error(),
		})
		outcome.Error = err.Error()
		return outcome
	}
	outcome.ProposalID = proposal.ID

	subject := notify.InviteSubject(rfp)
	body := notify.InviteBody(rfp, &vendor, c.config.AppLink)
	if err := c.transport.Send(ctx, vendor.Email, subject, body); err != nil {
		c.logger.Error("invitation send failed", map[string]interface{}{
			"rfpId":    rfp.ID.String(),
			"vendorId": vendor.ID.String(),
			"email":    vendor.Email,
			"error":    err.Error(),
		})
		outcome.Error = err.Error()
		return outcome
	}

	outcome.OK = true
	return outcome
}
