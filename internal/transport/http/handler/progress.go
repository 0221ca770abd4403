package handler

import (
	"encoding/json"
	"net/http"

	"github.com/studyagent/server/internal/application/progress"
	"github.com/studyagent/server/internal/domain"
	"github.com/studyagent/server/internal/pkg/validate"
)

// ProgressHandler handles one practice domain's tracker endpoints. The
// router constructs one per domain.
type ProgressHandler struct {
	svc progress.Service
}

func NewProgressHandler(svc progress.Service) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

type emailRequest struct {
	Email string `json:"user_email" validate:"required,email"`
}

type pickItemRequest struct {
	Email  string `json:"user_email" validate:"required,email"`
	UnitID string `json:"chosen_unit" validate:"required"`
}

type progressUpdateRequest struct {
	Email string `json:"user_email" validate:"required,email"`
	domain.ProgressUpdateRequest
}

// UnitPickEnvelope wraps unit selection results.
type UnitPickEnvelope struct {
	Envelope
	Unit      *domain.Unit `json:"unit,omitempty"`
	Remaining int          `json:"remaining_count,omitempty"`
}

// ItemPickEnvelope wraps item selection results.
type ItemPickEnvelope struct {
	Envelope
	Item *domain.Item `json:"question,omitempty"`
}

func (h *ProgressHandler) PickUnit(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	pick, err := h.svc.PickUnit(r.Context(), req.Email)
	if err != nil {
		httpError(w, err)
		return
	}
	if pick.Reset {
		writeJSON(w, http.StatusOK, Envelope{
			Success: false,
			Message: "You completed all units so in order to continue your progress was reset. Your streak remains unaffected.",
		})
		return
	}
	writeJSON(w, http.StatusOK, UnitPickEnvelope{
		Envelope:  Envelope{Success: true},
		Unit:      pick.Unit,
		Remaining: pick.Remaining,
	})
}

func (h *ProgressHandler) PickItem(w http.ResponseWriter, r *http.Request) {
	var req pickItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	pick, err := h.svc.PickItem(r.Context(), req.Email, req.UnitID)
	if err != nil {
		httpError(w, err)
		return
	}
	if pick.Exhausted {
		writeJSON(w, http.StatusOK, Envelope{
			Success: true,
			Message: "All questions have been answered correctly for the given unit.",
		})
		return
	}
	writeJSON(w, http.StatusOK, ItemPickEnvelope{
		Envelope: Envelope{Success: true},
		Item:     pick.Item,
	})
}

func (h *ProgressHandler) Updates(w http.ResponseWriter, r *http.Request) {
	var req progressUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.svc.RecordUpdates(r.Context(), req.Email, req.ProgressUpdateRequest); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Updated user successfully"})
}

func (h *ProgressHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.svc.Complete(r.Context(), req.Email); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Streak incremented, correctly answered pool cleared, and daily completion recorded.",
	})
}

func (h *ProgressHandler) Demo(w http.ResponseWriter, r *http.Request) {
	unit, err := h.svc.DemoUnit(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UnitPickEnvelope{
		Envelope: Envelope{Success: true},
		Unit:     unit,
	})
}
