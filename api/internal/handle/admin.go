package handle

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (h *Handle) AllComplaints(w http.ResponseWriter, r *http.Request) {
	list, err := h.admin.AllComplaints(r.Context())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(list), Complaints: list})
}

// PendingAlert reports the pending backlog against the configured threshold.
// The pending list is included only when the alert fires, and the Telegram
// notifier (when configured) is pinged best-effort.
func (h *Handle) PendingAlert(w http.ResponseWriter, r *http.Request) {
	al, err := h.admin.PendingAlert(r.Context(), h.threshold)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	resp := map[string]any{
		"success":       true,
		"alert":         al.ShouldAlert,
		"pending_count": al.PendingCount,
		"threshold":     h.threshold,
	}
	if al.ShouldAlert {
		resp["message"] = fmt.Sprintf("%d complaints pending, above the threshold of %d", al.PendingCount, h.threshold)
		resp["complaints"] = al.Complaints
		if err := h.alerts.PendingBacklog(al.PendingCount, h.threshold); err != nil {
			h.log.WithError(err).Warn("backlog notification failed")
		}
	} else {
		resp["message"] = fmt.Sprintf("%d complaints pending, within the threshold of %d", al.PendingCount, h.threshold)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handle) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "serial_no"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "invalid serial_no")
		return
	}
	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	if status == "" {
		writeErr(w, http.StatusBadRequest, "missing status query parameter")
		return
	}

	if err := h.admin.SetStatus(r.Context(), id, status); err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    fmt.Sprintf("complaint %d moved to %s", id, status),
		"serial_no":  id,
		"new_status": status,
	})
}
