package handle

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"civic-agent/api/internal/pipeline"
)

// Classification plus triage can each take the better part of a minute on a
// cold model, so the whole intake gets a generous budget.
const intakeTimeout = 180 * time.Second

type analyzeResponse struct {
	Success             bool    `json:"success"`
	ComplaintID         int64   `json:"complaint_id"`
	IssueType           string  `json:"issue_type"`
	Confidence          float64 `json:"confidence"`
	PredictedDepartment string  `json:"predicted_department"`
	PriorityLevel       int     `json:"priority_level"`
	FinalDepartment     string  `json:"final_department"`
	Justification       string  `json:"justification"`
	Status              string  `json:"status"`
}

func (h *Handle) Analyze(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), intakeTimeout)
	defer cancel()

	res, err := h.pipe.Intake(ctx, req)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:             true,
		ComplaintID:         res.SerialNo,
		IssueType:           res.IssueType,
		Confidence:          res.Confidence,
		PredictedDepartment: res.PredictedDepartment,
		PriorityLevel:       res.Priority,
		FinalDepartment:     res.FinalDepartment,
		Justification:       res.Justification,
		Status:              res.Status,
	})
}
