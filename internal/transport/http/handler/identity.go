package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/studyagent/server/internal/application/identity"
	"github.com/studyagent/server/internal/domain"
	"github.com/studyagent/server/internal/pkg/validate"
)

// IdentityHandler handles the signup, verification, and login endpoints.
type IdentityHandler struct {
	svc identity.Service
}

func NewIdentityHandler(svc identity.Service) *IdentityHandler {
	return &IdentityHandler{svc: svc}
}

// AccountEnvelope wraps account lookups with the lifecycle state.
type AccountEnvelope struct {
	Envelope
	Status  string                `json:"status,omitempty"`
	Account *domain.Account       `json:"user,omitempty"`
	Pending *domain.PendingSignup `json:"pending,omitempty"`
}

func (h *IdentityHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	resent, err := h.svc.Signup(r.Context(), req.Email)
	if err != nil {
		httpError(w, err)
		return
	}
	msg := "Sent OTP code to email."
	if resent {
		msg = "Email already exists. Resending the OTP code for sign up."
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: msg})
}

func (h *IdentityHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	created, err := h.svc.Verify(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	msg := "OTP codes from verified user match."
	if created {
		msg = "Account created successfully. Please log in now."
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: msg})
}

func (h *IdentityHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.AuthenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.svc.Authenticate(r.Context(), req.Email, req.Credential); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Successful login!"})
}

func (h *IdentityHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.svc.ResendOTP(r.Context(), req.Email); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "User OTP has been updated. Please watch for an email with the new OTP code.",
	})
}

func (h *IdentityHandler) Get(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Get(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AccountEnvelope{
		Envelope: Envelope{Success: true},
		Status:   info.Status,
		Account:  info.Account,
		Pending:  info.Pending,
	})
}

func (h *IdentityHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.Update(r.Context(), chi.URLParam(r, "email"), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "User updated successfully"})
}
