package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	stderrors "rfp-pipeline/internal/common/errors"
	"rfp-pipeline/internal/models"
)

// CreateVendor registers a supplier. Email is unique; a duplicate
// registration surfaces as an insert failure.
func (s *Store) CreateVendor(ctx context.Context, name, email, company string) (*models.Vendor, error) {
	vendor := &models.Vendor{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Company:   company,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vendors (id, name, email, company, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		vendor.ID, vendor.Name, vendor.Email, vendor.Company, vendor.CreatedAt,
	)
	if err != nil {
		return nil, stderrors.NewDatabaseInsertFailedError("vendor", err)
	}

	s.logger.Info("vendor created", map[string]interface{}{
		"vendorId": vendor.ID.String(),
		"email":    vendor.Email,
	})
	return vendor, nil
}

// GetVendor loads one vendor by id.
func (s *Store) GetVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, company, created_at
		FROM vendors
		WHERE id = $1`, id).Scan(
		&vendor.ID, &vendor.Name, &vendor.Email, &vendor.Company, &vendor.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, stderrors.NewRecordNotFoundError("vendor", id.String())
	}
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("get vendor", err)
	}
	return &vendor, nil
}

// ListVendors returns all registered vendors, oldest first.
func (s *Store) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, company, created_at
		FROM vendors
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("list vendors", err)
	}
	defer rows.Close()
	return scanVendors(rows)
}

// ListVendorsByIDs returns the vendors matching ids, in database order.
// Unknown ids are silently skipped; callers wanting strictness compare
// lengths.
func (s *Store) ListVendorsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Vendor, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, company, created_at
		FROM vendors
		WHERE id = ANY($1)
		ORDER BY created_at ASC`, pq.Array(idStrings))
	if err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("list vendors by ids", err)
	}
	defer rows.Close()
	return scanVendors(rows)
}

func scanVendors(rows *sql.Rows) ([]models.Vendor, error) {
	var vendors []models.Vendor
	for rows.Next() {
		var vendor models.Vendor
		if err := rows.Scan(&vendor.ID, &vendor.Name, &vendor.Email,
			&vendor.Company, &vendor.CreatedAt); err != nil {
			return nil, stderrors.NewQueryExecutionFailedError("scan vendor", err)
		}
		vendors = append(vendors, vendor)
	}
	if err := rows.Err(); err != nil {
		return nil, stderrors.NewQueryExecutionFailedError("list vendors", err)
	}
	return vendors, nil
}
