// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/eventline/registration/internal/model"
	"github.com/eventline/registration/internal/service"
	"github.com/eventline/registration/internal/session"
)

// Error codes carried in the JSON error envelope.
const (
	CodeBadEmail      = "bad_email"
	CodeBadCaptcha    = "bad_captcha"
	CodeMethodUnknown = "method_unknown"
	CodeInternal      = "internal_error"
)

// RegistrationHandler holds the HTTP handlers for the registration API.
type RegistrationHandler struct {
	svc      *service.RegistrationService
	sessions *session.Issuer
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(svc *service.RegistrationService, sessions *session.Issuer) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, sessions: sessions}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, model.ErrorResponse{
		Error: model.ErrorDetail{Code: code, Message: msg},
	})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// Register handles POST /api/register.
// Responds 201 with the new registration on first signup, 200 with the
// stored registration on repeats, and sets the session cookie on success.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadEmail, "invalid request body: "+err.Error())
		return
	}

	reg, isNew, err := h.svc.Register(r.Context(), req.Email, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadEmail):
			writeError(w, http.StatusBadRequest, CodeBadEmail, "email address is not valid")
		case errors.Is(err, service.ErrBadCaptcha):
			writeError(w, http.StatusBadRequest, CodeBadCaptcha, "captcha verification failed")
		default:
			log.Printf("register: %v", err)
			writeError(w, http.StatusInternalServerError, CodeInternal, "registration failed")
		}
		return
	}

	cookie, err := h.sessions.Cookie(reg.ID)
	if err != nil {
		log.Printf("issue session: %v", err)
		writeError(w, http.StatusInternalServerError, CodeInternal, "registration failed")
		return
	}
	http.SetCookie(w, cookie)

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	writeJSON(w, status, reg)
}

// MethodNotAllowed replaces chi's default 405: the API contract reports
// unknown verbs as 501 method_unknown.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotImplemented, CodeMethodUnknown, "method "+r.Method+" is not supported")
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
