// Package pipeline runs the complaint intake: validate, decode, classify,
// resolve a fallback department, triage, persist. Each step short-circuits
// the rest; no partial record is ever written.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"civic-agent/api/internal/classify"
	"civic-agent/api/internal/depart"
	"civic-agent/api/internal/imgcodec"
	"civic-agent/api/internal/store"
	"civic-agent/api/internal/triage"
)

// Store is the slice of the complaint store the pipeline needs.
type Store interface {
	Insert(ctx context.Context, p store.InsertParams) (int64, error)
}

type Request struct {
	Email       string `json:"email"`
	ImageBase64 string `json:"image_base64"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Pincode     string `json:"pincode"`
	Zone        string `json:"zone"`
}

type Result struct {
	SerialNo            int64
	IssueType           string
	Confidence          float64
	PredictedDepartment string
	Priority            int
	FinalDepartment     string
	Justification       string
	Status              string
}

// ValidationError names the first missing input field class.
type ValidationError struct{ Field string }

func (e *ValidationError) Error() string { return "missing " + e.Field }

// NotSavedError signals that classification and triage succeeded but the
// record could not be persisted. It stays distinguishable from earlier-stage
// failures and carries the finished analysis.
type NotSavedError struct {
	Result *Result
	Err    error
}

func (e *NotSavedError) Error() string {
	return fmt.Sprintf("analysis succeeded but complaint was not saved: %v", e.Err)
}

func (e *NotSavedError) Unwrap() error { return e.Err }

type Pipeline struct {
	classifier classify.Classifier
	engine     triage.Engine
	store      Store
	log        *logrus.Logger
}

func New(classifier classify.Classifier, engine triage.Engine, st Store, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		engine:     engine,
		store:      st,
		log:        log,
	}
}

// Intake processes one submitted report end to end and returns the persisted
// outcome. Field checks run in a fixed order: email, image, then the
// location/pincode/zone trio together.
func (p *Pipeline) Intake(ctx context.Context, req Request) (*Result, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, &ValidationError{Field: "email"}
	}
	if strings.TrimSpace(req.ImageBase64) == "" {
		return nil, &ValidationError{Field: "image_base64"}
	}
	if strings.TrimSpace(req.Location) == "" ||
		strings.TrimSpace(req.Pincode) == "" ||
		strings.TrimSpace(req.Zone) == "" {
		return nil, &ValidationError{Field: "location, pincode or zone"}
	}

	img, err := imgcodec.Decode(req.ImageBase64)
	if err != nil {
		return nil, err
	}

	cls, err := p.classifier.Classify(ctx, img)
	if err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{
		"issue_type": cls.IssueType,
		"confidence": cls.Confidence,
	}).Info("image classified")

	fallback := depart.Resolve(cls.IssueType)

	rep, err := p.engine.Triage(ctx, triage.Input{
		IssueType:   cls.IssueType,
		Confidence:  cls.Confidence,
		Description: req.Description,
		Location:    fmt.Sprintf("%s, %s, %s", req.Location, req.Zone, req.Pincode),
	})
	if err != nil {
		return nil, err
	}

	// The triage department wins when it is non-empty; otherwise the
	// deterministic table fallback.
	final := strings.TrimSpace(rep.Department)
	if final == "" {
		final = fallback
	}

	res := &Result{
		IssueType:           cls.IssueType,
		Confidence:          cls.Confidence,
		PredictedDepartment: fallback,
		Priority:            rep.Priority,
		FinalDepartment:     final,
		Justification:       rep.Justification,
		Status:              store.StatusPending,
	}

	id, err := p.store.Insert(ctx, store.InsertParams{
		Email:         email,
		ImageBase64:   req.ImageBase64, // verbatim, for audit/replay
		IssueType:     cls.IssueType,
		Department:    final,
		Priority:      rep.Priority,
		Justification: rep.Justification,
		Confidence:    cls.Confidence,
		Location:      req.Location,
		Pincode:       req.Pincode,
		Zone:          req.Zone,
	})
	if err != nil {
		p.log.WithError(err).Error("complaint analysis not persisted")
		return nil, &NotSavedError{Result: res, Err: err}
	}
	res.SerialNo = id

	p.log.WithFields(logrus.Fields{
		"serial_no":  id,
		"department": final,
		"priority":   rep.Priority,
	}).Info("complaint registered")
	return res, nil
}
