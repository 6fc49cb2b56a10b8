// Package admin is the operator-facing read/update facade over the
// complaint store. Input normalization only; no business logic.
package admin

import (
	"context"
	"errors"
	"strings"

	"civic-agent/api/internal/store"
)

var ErrBadStatus = errors.New("invalid status")

// Store is the read/update slice of the complaint store the facade exposes.
type Store interface {
	GetByID(ctx context.Context, serialNo int64) (*store.Complaint, error)
	GetByEmail(ctx context.Context, email string) ([]store.Summary, error)
	GetByDepartment(ctx context.Context, department string) ([]store.Summary, error)
	GetAll(ctx context.Context) ([]store.Summary, error)
	UpdateStatus(ctx context.Context, serialNo int64, status string) error
	PendingAlert(ctx context.Context, threshold int) (store.Alert, error)
}

type Service struct {
	store Store
}

func New(st Store) *Service { return &Service{store: st} }

func (s *Service) Complaint(ctx context.Context, serialNo int64) (*store.Complaint, error) {
	return s.store.GetByID(ctx, serialNo)
}

func (s *Service) ComplaintsByEmail(ctx context.Context, email string) ([]store.Summary, error) {
	return s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) ComplaintsByDepartment(ctx context.Context, department string) ([]store.Summary, error) {
	return s.store.GetByDepartment(ctx, strings.TrimSpace(department))
}

func (s *Service) AllComplaints(ctx context.Context) ([]store.Summary, error) {
	return s.store.GetAll(ctx)
}

func (s *Service) PendingAlert(ctx context.Context, threshold int) (store.Alert, error) {
	return s.store.PendingAlert(ctx, threshold)
}

// SetStatus validates the enum here; the store does not re-validate.
func (s *Service) SetStatus(ctx context.Context, serialNo int64, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if !store.ValidStatus(status) {
		return ErrBadStatus
	}
	return s.store.UpdateStatus(ctx, serialNo, status)
}
