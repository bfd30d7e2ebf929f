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

// CreateRfp stores a new RFP. Description is the buyer's original free
// text and is never rewritten afterwards; structured holds the extracted
// fields at creation time.
func (s *Store) CreateRfp(ctx context.Context, title, description string, fields models.RfpFields) (*models.Rfp, error) {
	structuredJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, stderrors.NewDatabaseInsertFailedError("rfp", err)
	}

	rfp := &models.Rfp{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Structured:  fields,
		CreatedAt:   time.Now().UTC(),
	}
	rfp.UpdatedAt = rfp.CreatedAt

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rfps (id, title, description, structured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`,
		rfp.ID, rfp.Title, rfp.Description, structuredJSON, rfp.CreatedAt,
	)
	if err != nil {
		return nil, stderrors.NewDatabaseInsertFailedError("rfp", err)
	}

	s.logger.Info("rfp created", map[string]interface{}{
		"rfpId": rfp.ID.String(),
		"title": rfp.Title,
	})
	return rfp, nil
}

// GetRfp loads one RFP by id.
func (s *Store) GetRfp(ctx context.Context, id uuid.UUID) (*models.Rfp, error) {
	var rfp models.Rfp
	var structuredJSON []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, structured, created_at, updated_at
		FROM rfps
		WHERE id = $1`, id).Scan(
		&rfp.ID, &rfp.Title, &rfp.Description, &structuredJSON,
		&rfp.CreatedAt, &rfp.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, stderrors.NewRecordNotFoundError("rfp", id.String())
	}
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get rfp", err)
	}

	if err := json.Unmarshal(structuredJSON, &rfp.Structured); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("decode rfp structured fields", err)
	}
	return &rfp, nil
}

// ListRfps returns all RFPs, newest first.
func (s *Store) ListRfps(ctx context.Context) ([]models.Rfp, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, structured, created_at, updated_at
		FROM rfps
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("list rfps", err)
	}
	defer rows.Close()

	var rfps []models.Rfp
	for rows.Next() {
		var rfp models.Rfp
		var structuredJSON []byte
		if err := rows.Scan(&rfp.ID, &rfp.Title, &rfp.Description, &structuredJSON,
			&rfp.CreatedAt, &rfp.UpdatedAt); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("scan rfp", err)
		}
		if err := json.Unmarshal(structuredJSON, &rfp.Structured); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("decode rfp structured fields", err)
		}
		rfps = append(rfps, rfp)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("list rfps", err)
	}
	return rfps, nil
}

// UpdateRfpStructured replaces the structured fields of an RFP with a
// buyer's edit. The raw description is left untouched.
func (s *Store) UpdateRfpStructured(ctx context.Context, id uuid.UUID, fields models.RfpFields) (*models.Rfp, error) {
	structuredJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("encode rfp structured fields", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE rfps
		SET structured = $2, updated_at = $3
		WHERE id = $1`,
		id, structuredJSON, time.Now().UTC(),
	)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("update rfp", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return nil, stderrors.NewRecordNotFoundError("rfp", id.String())
	}

	return s.GetRfp(ctx, id)
}
