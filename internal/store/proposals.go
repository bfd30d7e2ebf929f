package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	stderrors "rfp-pipeline/internal/common/errors"
	"rfp-pipeline/internal/models"
)

// CreateProposal records a sent-state proposal binding one RFP to one
// vendor. Structured fields stay empty until the vendor responds.
func (s *Store) CreateProposal(ctx context.Context, rfpID, vendorID uuid.UUID) (*models.Proposal, error) {
	proposal := &models.Proposal{
		ID:        uuid.New(),
		RfpID:     rfpID,
		VendorID:  vendorID,
		Status:    models.ProposalStatusSent,
		CreatedAt: time.Now().UTC(),
	}
	proposal.UpdatedAt = proposal.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO proposals (id, rfp_id, vendor_id, status, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, '{}', $5, $5)`,
		proposal.ID, proposal.RfpID, proposal.VendorID, proposal.Status, proposal.CreatedAt,
	)
	if err != nil {
		return nil, stderrors.NewDatabaseInsertFailedError("proposal", err)
	}
	return proposal, nil
}

// GetProposal loads one proposal by id, with its vendor joined in.
func (s *Store) GetProposal(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.rfp_id, p.vendor_id, p.status, p.fields, p.created_at, p.updated_at,
		       v.id, v.name, v.email, v.company, v.created_at
		FROM proposals p
		JOIN vendors v ON v.id = p.vendor_id
		WHERE p.id = $1`, id)

	proposal, err := scanProposal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, stderrors.NewRecordNotFoundError("proposal", id.String())
	}
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get proposal", err)
	}
	return proposal, nil
}

// ListProposalsByRfp returns an RFP's proposals in creation order,
// optionally filtered by status. Pass "" for no filter.
func (s *Store) ListProposalsByRfp(ctx context.Context, rfpID uuid.UUID, status models.ProposalStatus) ([]models.Proposal, error) {
	query := `
		SELECT p.id, p.rfp_id, p.vendor_id, p.status, p.fields, p.created_at, p.updated_at,
		       v.id, v.name, v.email, v.company, v.created_at
		FROM proposals p
		JOIN vendors v ON v.id = p.vendor_id
		WHERE p.rfp_id = $1`
	args := []interface{}{rfpID}
	if status != "" {
		query += ` AND p.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY p.created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("list proposals", err)
	}
	defer rows.Close()

	var proposals []models.Proposal
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("scan proposal", err)
		}
		proposals = append(proposals, *proposal)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("list proposals", err)
	}
	return proposals, nil
}

// RecordResponse transitions a sent proposal to responded and stores the
// extracted fields. Responding twice overwrites the previous fields; the
// transition itself is idempotent.
func (s *Store) RecordResponse(ctx context.Context, id uuid.UUID, fields models.ProposalFields) (*models.Proposal, error) {
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("encode proposal fields", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE proposals
		SET status = $2, fields = $3, updated_at = $4
		WHERE id = $1`,
		id, models.ProposalStatusResponded, fieldsJSON, time.Now().UTC(),
	)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("record response", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return nil, stderrors.NewRecordNotFoundError("proposal", id.String())
	}

	return s.GetProposal(ctx, id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProposal(row rowScanner) (*models.Proposal, error) {
	var proposal models.Proposal
	var vendor models.Vendor
	var fieldsJSON []byte

	err := row.Scan(
		&proposal.ID, &proposal.RfpID, &proposal.VendorID, &proposal.Status,
		&fieldsJSON, &proposal.CreatedAt, &proposal.UpdatedAt,
		&vendor.ID, &vendor.Name, &vendor.Email, &vendor.Company, &vendor.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(fieldsJSON, &proposal.ProposalFields); err != nil {
		return nil, err
	}
	proposal.Vendor = &vendor
	return &proposal, nil
}
