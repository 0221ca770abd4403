package handler

import (
	"net/http"

	"github.com/studyagent/server/internal/application/sweep"
)

// SweepHandler exposes the daily reset to the scheduled trigger.
type SweepHandler struct {
	svc sweep.Service
}

func NewSweepHandler(svc sweep.Service) *SweepHandler {
	return &SweepHandler{svc: svc}
}

// ReportEnvelope wraps the sweep tally.
type ReportEnvelope struct {
	Envelope
	Report *sweep.Report `json:"report,omitempty"`
}

func (h *SweepHandler) Reset(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Run(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReportEnvelope{
		Envelope: Envelope{Success: true, Message: "daily reset complete"},
		Report:   report,
	})
}
