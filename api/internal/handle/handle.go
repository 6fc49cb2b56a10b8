// Package handle is the HTTP surface: request decoding, error-to-status
// mapping and JSON responses. All domain decisions live below it.
package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"civic-agent/api/internal/admin"
	"civic-agent/api/internal/alert"
	"civic-agent/api/internal/imgcodec"
	"civic-agent/api/internal/pipeline"
	"civic-agent/api/internal/store"
)

// Intaker is what /analyze needs from the pipeline.
type Intaker interface {
	Intake(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

type Handle struct {
	pipe      Intaker
	admin     *admin.Service
	alerts    *alert.Notifier // nil when not configured
	threshold int
	log       *logrus.Logger
}

func New(pipe Intaker, adm *admin.Service, alerts *alert.Notifier, threshold int, log *logrus.Logger) *Handle {
	return &Handle{
		pipe:      pipe,
		admin:     adm,
		alerts:    alerts,
		threshold: threshold,
		log:       log,
	}
}

func (h *Handle) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Post("/analyze", h.Analyze)
	r.Route("/api", func(r chi.Router) {
		r.Get("/complaints/department/{department}", h.ComplaintsByDepartment)
		r.Get("/complaints/{key}", h.ComplaintByKey)
		r.Get("/admin/complaints", h.AllComplaints)
		r.Get("/admin/alert", h.PendingAlert)
		r.Put("/admin/complaint/{serial_no}/status", h.UpdateStatus)
	})
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeFailure maps the error taxonomy onto HTTP codes. Anything unnamed
// degrades to a 500 with the raw message; nothing is swallowed.
func (h *Handle) writeFailure(w http.ResponseWriter, err error) {
	var ve *pipeline.ValidationError
	var nse *pipeline.NotSavedError
	switch {
	case errors.As(err, &ve):
		writeErr(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, imgcodec.ErrInvalidImage):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &nse):
		writeErr(w, http.StatusInternalServerError, nse.Error())
	case errors.Is(err, admin.ErrBadStatus):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeErr(w, http.StatusNotFound, "complaint not found")
	default:
		h.log.WithError(err).Error("request failed")
		writeErr(w, http.StatusInternalServerError, err.Error())
	}
}
