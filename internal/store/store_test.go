package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "rfp-pipeline/internal/common/errors"
	"rfp-pipeline/internal/common/logger"
	"rfp-pipeline/internal/models"
)

func setupMockDB(t *testing.T) (*Store, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return New(db, logger.NewTestLogger(t)), mock, db
}

func floatPtr(v float64) *float64 { return &v }

func TestCreateRfp(t *testing.T) {
	st, mock, db := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO rfps").
		WithArgs(sqlmock.AnyArg(), "Office chairs", "Need 10 chairs", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rfp, err := st.CreateRfp(context.Background(), "Office chairs", "Need 10 chairs",
		models.RfpFields{Budget: floatPtr(5000)})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, rfp.ID)
	assert.Equal(t, "Office chairs", rfp.Title)
	assert.Equal(t, "Need 10 chairs", rfp.Description)
	require.NotNil(t, rfp.Structured.Budget)
	assert.Equal(t, 5000.0, *rfp.Structured.Budget)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRfp_InsertError(t *testing.T) {
	st, mock, db := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO rfps").
		WillReturnError(sql.ErrConnDone)

	_, err := st.CreateRfp(context.Background(), "t", "d", models.RfpFields{})

	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeDatabaseInsertFailed, stderrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRfp(t *testing.T) {
	st, mock, db := setupMockDB(t)
	defer db.Close()

	id := uuid.New()
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "title", "description", "structured", "created_at", "updated_at"}).
		AddRow(id.String(), "Office chairs", "Need 10 chairs", []byte(`{"budget": 5000}`), now, now)

	mock.ExpectQuery("SELECT id, title, description, structured, created_at, updated_at").
		WithArgs(id).
		WillReturnRows(rows)

	rfp, err := st.GetRfp(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, rfp.ID)
	require.NotNil(t, rfp.Structured.Budget)
	assert.Equal(t, 5000.0, *rfp.Structured.Budget)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRfp_NotFound(t *testing.T) {
	st, mock, db := setupMockDB(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectQuery("SELECT id, title, description, structured, created_at, updated_at").
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := st.GetRfp(context.Background(), id)

	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeRecordNotFound, stderrors.CodeOf(err))
}

func TestUpdateRfpStructured_NotFound(t *testing.T) {
	st, mock, db := setupMockDB(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec("UPDATE rfps").
		WithArgs(id, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := st.UpdateRfpStructured(context.Background(), id, models.RfpFields{})

	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeRecordNotFound, stderrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVendor(t *testing.T) {
	st, mock, db := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO vendors").
		WithArgs(sqlmock.AnyArg(), "Acme", "sales@acme.example", "Acme Corp", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	vendor, err := st.CreateVendor(context.Background(), "Acme", "sales@acme.example", "Acme Corp")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, vendor.ID)
	assert.Equal(t, "sales@acme.example", vendor.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListVendors(t *testing.T) {
	st, mock, db := setupMockDB(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "company", "created_at"}).
		AddRow(uuid.NewString(), "Acme", "sales@acme.example", "Acme Corp", now).
		AddRow(uuid.NewString(), "Globex", "rfp@globex.example", "Globex Inc", now)

	mock.ExpectQuery("SELECT id, name, email, company, created_at").
		WillReturnRows(rows)

	vendors, err := st.ListVendors(context.Background())

	require.NoError(t, err)
	require.Len(t, vendors, 2)
	assert.Equal(t, "Acme", vendors[0].Name)
	assert.Equal(t, "Globex", vendors[1].Name)
}

func TestListVendorsByIDs_EmptyInput(t *testing.T) {
	st, _, db := setupMockDB(t)
	defer db.Close()

	vendors, err := st.ListVendorsByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, vendors)
}

func TestCreateProposal(t *testing.T) {
	st, mock, db := setupMockDB(t)
	defer db.Close()

	rfpID, vendorID := uuid.New(), uuid.New()
	mock.ExpectExec("INSERT INTO proposals").
		WithArgs(sqlmock.AnyArg(), rfpID, vendorID, models.ProposalStatusSent, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	proposal, err := st.CreateProposal(context.Background(), rfpID, vendorID)

	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusSent, proposal.Status)
	assert.Equal(t, rfpID, proposal.RfpID)
	assert.Equal(t, vendorID, proposal.VendorID)
	assert.Nil(t, proposal.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProposal_JoinsVendor(t *testing.T) {
	st, mock, db := setupMockDB(t)
	defer db.Close()

	id, rfpID, vendorID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now().UTC()
	rows := proposalRows().
		AddRow(id.String(), rfpID.String(), vendorID.String(), "responded",
			[]byte(`{"price": 4800, "notes": "quick turnaround"}`), now, now,
			vendorID.String(), "Acme", "sales@acme.example", "Acme Corp", now)

	mock.ExpectQuery("SELECT p.id, p.rfp_id, p.vendor_id, p.status").
		WithArgs(id).
		WillReturnRows(rows)

	proposal, err := st.GetProposal(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusResponded, proposal.Status)
	require.NotNil(t, proposal.Price)
	assert.Equal(t, 4800.0, *proposal.Price)
	require.NotNil(t, proposal.Vendor)
	assert.Equal(t, "Acme", proposal.Vendor.Name)
}

func TestListProposalsByRfp_StatusFilter(t *testing.T) {
	st, mock, db := setupMockDB(t)
	defer db.Close()

	rfpID := uuid.New()
	vendorID := uuid.New()
	now := time.Now().UTC()
	rows := proposalRows().
		AddRow(uuid.NewString(), rfpID.String(), vendorID.String(), "responded",
			[]byte(`{"price": 4800}`), now, now,
			vendorID.String(), "Acme", "sales@acme.example", "", now)

	mock.ExpectQuery("SELECT p.id, p.rfp_id, p.vendor_id, p.status").
		WithArgs(rfpID, models.ProposalStatusResponded).
		WillReturnRows(rows)

	proposals, err := st.ListProposalsByRfp(context.Background(), rfpID, models.ProposalStatusResponded)

	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, models.ProposalStatusResponded, proposals[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordResponse(t *testing.T) {
	st, mock, db := setupMockDB(t)
	defer db.Close()

	id := uuid.New()
	rfpID, vendorID := uuid.New(), uuid.New()
	now := time.Now().UTC()

	mock.ExpectExec("UPDATE proposals").
		WithArgs(id, models.ProposalStatusResponded, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows := proposalRows().
		AddRow(id.String(), rfpID.String(), vendorID.String(), "responded",
			[]byte(`{"price": 4800, "notes": "we quote $4800"}`), now, now,
			vendorID.String(), "Acme", "sales@acme.example", "", now)
	mock.ExpectQuery("SELECT p.id, p.rfp_id, p.vendor_id, p.status").
		WithArgs(id).
		WillReturnRows(rows)

	proposal, err := st.RecordResponse(context.Background(), id,
		models.ProposalFields{Price: floatPtr(4800), Notes: "we quote $4800"})

	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusResponded, proposal.Status)
	assert.Equal(t, "we quote $4800", proposal.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordResponse_NotFound(t *testing.T) {
	st, mock, db := setupMockDB(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec("UPDATE proposals").
		WithArgs(id, models.ProposalStatusResponded, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := st.RecordResponse(context.Background(), id, models.ProposalFields{})

	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeRecordNotFound, stderrors.CodeOf(err))
}

func proposalRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "rfp_id", "vendor_id", "status", "fields", "created_at", "updated_at",
		"v_id", "v_name", "v_email", "v_company", "v_created_at",
	})
}
