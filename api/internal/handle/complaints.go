package handle

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"civic-agent/api/internal/store"
)

type listResponse struct {
	Success    bool            `json:"success"`
	Count      int             `json:"count"`
	Complaints []store.Summary `json:"complaints"`
}

// ComplaintByKey serves both GET /api/complaints/{email} and
// GET /api/complaints/{serial_no}: an integer key is a serial number,
// anything else is a submitter email.
func (h *Handle) ComplaintByKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		c, err := h.admin.Complaint(r.Context(), id)
		if err != nil {
			h.writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"complaint": c,
		})
		return
	}

	list, err := h.admin.ComplaintsByEmail(r.Context(), key)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(list), Complaints: list})
}

func (h *Handle) ComplaintsByDepartment(w http.ResponseWriter, r *http.Request) {
	list, err := h.admin.ComplaintsByDepartment(r.Context(), chi.URLParam(r, "department"))
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(list), Complaints: list})
}
