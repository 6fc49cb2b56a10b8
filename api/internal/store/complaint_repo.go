// Package store persists complaint records in Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = sql.ErrNoRows

// Complaint statuses. A complaint is created pending and only moves via an
// explicit status update.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusRejected   = "rejected"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Complaint is the full record, image payload included. Everything except
// Status is immutable after insert.
type Complaint struct {
	SerialNo      int64     `json:"serial_no"`
	Email         string    `json:"email"`
	ImageBase64   string    `json:"image_base64"`
	IssueType     string    `json:"issue_type"`
	Department    string    `json:"department"`
	Priority      int       `json:"priority"`
	Justification string    `json:"justification"`
	Confidence    float64   `json:"confidence"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"datetime"`
	Location      string    `json:"location"`
	Pincode       string    `json:"pincode"`
	Zone          string    `json:"zone"`
}

// Summary is the list form: no image payload, no justification.
type Summary struct {
	SerialNo   int64     `json:"serial_no"`
	Email      string    `json:"email"`
	IssueType  string    `json:"issue_type"`
	Department string    `json:"department"`
	Priority   int       `json:"priority"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"datetime"`
	Location   string    `json:"location"`
	Pincode    string    `json:"pincode"`
	Zone       string    `json:"zone"`
	Confidence float64   `json:"confidence"`
}

type Alert struct {
	ShouldAlert  bool
	PendingCount int
	Complaints   []Summary
}

type InsertParams struct {
	Email         string
	ImageBase64   string
	IssueType     string
	Department    string
	Priority      int
	Justification string
	Confidence    float64
	Location      string
	Pincode       string
	Zone          string
}

type ComplaintRepo struct{ DB *sql.DB }

func NewComplaintRepo(db *sql.DB) *ComplaintRepo { return &ComplaintRepo{DB: db} }

// EnsureSchema creates the complaints table if it is missing. bigserial keeps
// serial numbers unique and strictly increasing under concurrent inserts.
func (r *ComplaintRepo) EnsureSchema(ctx context.Context) error {
	const q = `
create table if not exists complaints (
  serial_no     bigserial primary key,
  email         text not null,
  image_base64  text not null,
  issue_type    text,
  department    text,
  priority      integer,
  justification text,
  confidence    double precision,
  status        text not null default 'pending',
  created_at    timestamptz not null default now(),
  location      text not null,
  pincode       text not null,
  zone          text not null
)`
	_, err := r.DB.ExecContext(ctx, q)
	return err
}

// Insert persists a new pending complaint and returns its serial number.
// The empty-field check is a last line of defense; the pipeline validates
// before any external call is made.
func (r *ComplaintRepo) Insert(ctx context.Context, p InsertParams) (int64, error) {
	if p.Email == "" || p.ImageBase64 == "" || p.Location == "" || p.Pincode == "" || p.Zone == "" {
		return 0, errors.New("store: missing required complaint fields")
	}
	const q = `
insert into complaints (
  email, image_base64, issue_type, department, priority,
  justification, confidence, status, location, pincode, zone
) values ($1,$2,$3,$4,$5,$6,$7,'pending',$8,$9,$10)
returning serial_no`
	var id int64
	err := r.DB.QueryRowContext(ctx, q,
		p.Email, p.ImageBase64, p.IssueType, p.Department, p.Priority,
		p.Justification, p.Confidence, p.Location, p.Pincode, p.Zone,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert complaint: %w", err)
	}
	return id, nil
}

// GetByID returns the full record, image payload included.
func (r *ComplaintRepo) GetByID(ctx context.Context, serialNo int64) (*Complaint, error) {
	const q = `
select serial_no, email, image_base64,
       coalesce(issue_type,'') as issue_type,
       coalesce(department,'') as department,
       coalesce(priority,0) as priority,
       coalesce(justification,'') as justification,
       coalesce(confidence,0) as confidence,
       status, created_at, location, pincode, zone
from complaints
where serial_no = $1`
	var c Complaint
	err := r.DB.QueryRowContext(ctx, q, serialNo).Scan(
		&c.SerialNo, &c.Email, &c.ImageBase64, &c.IssueType, &c.Department,
		&c.Priority, &c.Justification, &c.Confidence, &c.Status, &c.CreatedAt,
		&c.Location, &c.Pincode, &c.Zone,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const summaryColumns = `
select serial_no, email,
       coalesce(issue_type,'') as issue_type,
       coalesce(department,'') as department,
       coalesce(priority,0) as priority,
       status, created_at, location, pincode, zone,
       coalesce(confidence,0) as confidence
from complaints`

func (r *ComplaintRepo) GetByEmail(ctx context.Context, email string) ([]Summary, error) {
	q := summaryColumns + `
where email = $1
order by created_at desc`
	return r.querySummaries(ctx, q, email)
}

// GetByDepartment matches case- and trim-insensitively against the stored
// department.
func (r *ComplaintRepo) GetByDepartment(ctx context.Context, department string) ([]Summary, error) {
	q := summaryColumns + `
where lower(trim(department)) = lower(trim($1))
order by created_at desc`
	return r.querySummaries(ctx, q, department)
}

func (r *ComplaintRepo) GetAll(ctx context.Context) ([]Summary, error) {
	q := summaryColumns + `
order by created_at desc`
	return r.querySummaries(ctx, q)
}

// UpdateStatus changes the status in place and nothing else. The status value
// is validated by the caller.
func (r *ComplaintRepo) UpdateStatus(ctx context.Context, serialNo int64, status string) error {
	const q = `update complaints set status = $2 where serial_no = $1`
	res, err := r.DB.ExecContext(ctx, q, serialNo, status)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrNotFound
	}
	return nil
}

// PendingAlert counts the pending backlog and flags when it exceeds the
// threshold. The pending summaries come back either way.
func (r *ComplaintRepo) PendingAlert(ctx context.Context, threshold int) (Alert, error) {
	q := summaryColumns + `
where status = 'pending'
order by created_at desc`
	pending, err := r.querySummaries(ctx, q)
	if err != nil {
		return Alert{}, err
	}
	return Alert{
		ShouldAlert:  len(pending) > threshold,
		PendingCount: len(pending),
		Complaints:   pending,
	}, nil
}

func (r *ComplaintRepo) querySummaries(ctx context.Context, q string, args ...any) ([]Summary, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query complaints: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(
			&s.SerialNo, &s.Email, &s.IssueType, &s.Department, &s.Priority,
			&s.Status, &s.CreatedAt, &s.Location, &s.Pincode, &s.Zone, &s.Confidence,
		); err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
