package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*ComplaintRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewComplaintRepo(db), mock
}

func summaryRows(serials ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"serial_no", "email", "issue_type", "department", "priority",
		"status", "created_at", "location", "pincode", "zone", "confidence",
	})
	for i, sn := range serials {
		rows.AddRow(sn, "a@b.com", "potholes", "Public Works Department (PWD)", 8,
			StatusPending, time.Now().Add(-time.Duration(i)*time.Minute), "Main St", "500001", "North", 0.9)
	}
	return rows
}

func validInsert() InsertParams {
	return InsertParams{
		Email:         "a@b.com",
		ImageBase64:   "AAAA",
		IssueType:     "potholes",
		Department:    "Public Works Department (PWD)",
		Priority:      8,
		Justification: "urgent road hazard",
		Confidence:    0.9,
		Location:      "Main St",
		Pincode:       "500001",
		Zone:          "North",
	}
}

func TestInsertReturnsSerial(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("insert into complaints").
		WithArgs("a@b.com", "AAAA", "potholes", "Public Works Department (PWD)", 8,
			"urgent road hazard", 0.9, "Main St", "500001", "North").
		WillReturnRows(sqlmock.NewRows([]string{"serial_no"}).AddRow(int64(7)))

	id, err := repo.Insert(context.Background(), validInsert())
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRejectsMissingFields(t *testing.T) {
	repo, mock := newMockRepo(t)

	p := validInsert()
	p.Pincode = ""
	_, err := repo.Insert(context.Background(), p)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "no query must reach the database")
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("from complaints").WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByIDIncludesImage(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{
		"serial_no", "email", "image_base64", "issue_type", "department", "priority",
		"justification", "confidence", "status", "created_at", "location", "pincode", "zone",
	}).AddRow(int64(3), "a@b.com", "AAAA", "garbage", "Urban Development Department (Municipal Sanitation Wing)",
		4, "overflowing bin", 0.7, StatusPending, time.Now(), "Market Rd", "500002", "South")
	mock.ExpectQuery("from complaints").WithArgs(int64(3)).WillReturnRows(rows)

	c, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.SerialNo)
	assert.Equal(t, "AAAA", c.ImageBase64)
	assert.Equal(t, "garbage", c.IssueType)
}

func TestGetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("where email").WithArgs("a@b.com").WillReturnRows(summaryRows(2, 1))

	list, err := repo.GetByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].SerialNo)
}

func TestGetByDepartmentMatchesLoose(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`lower\(trim\(department\)\)`).
		WithArgs("  public works department (pwd) ").
		WillReturnRows(summaryRows(5))

	list, err := repo.GetByDepartment(context.Background(), "  public works department (pwd) ")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("update complaints set status").
		WithArgs(int64(1), StatusResolved).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), 1, StatusResolved))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("update complaints set status").
		WithArgs(int64(404), StatusResolved).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 404, StatusResolved)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPendingAlertAboveThreshold(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("where status = 'pending'").WillReturnRows(summaryRows(6, 5, 4, 3, 2, 1))

	al, err := repo.PendingAlert(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, al.ShouldAlert)
	assert.Equal(t, 6, al.PendingCount)
	assert.Len(t, al.Complaints, 6)
}

func TestPendingAlertWithinThreshold(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("where status = 'pending'").WillReturnRows(summaryRows(6, 5, 4, 3, 2, 1))

	al, err := repo.PendingAlert(context.Background(), 6)
	require.NoError(t, err)
	assert.False(t, al.ShouldAlert)
	assert.Equal(t, 6, al.PendingCount)
	assert.Len(t, al.Complaints, 6, "pending list comes back regardless of the flag")
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusInProgress, StatusResolved, StatusRejected} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("closed"))
	assert.False(t, ValidStatus(""))
}
