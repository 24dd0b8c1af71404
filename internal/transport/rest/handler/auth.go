package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mattressfit/internal/fault"
	"mattressfit/internal/model"
	"mattressfit/internal/service"
	"net/http"
)

const maxBodyBytes = 1 << 20

// AuthHandler handles admin login and logout
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login handles POST /api/admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authSvc.Login(req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeFault(w, fault.NewInternalError("failed to sign token", err))
		return
	}

	http.SetCookie(w, h.authSvc.SessionCookie(resp.Token))
	writeJSON(w, http.StatusOK, resp)
}

// Logout handles POST /api/admin/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.authSvc.ClearCookie())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// writeFault renders err with the status its kind maps to.
// Unclassified errors never leak their text.
func writeFault(w http.ResponseWriter, err error) {
	status := fault.HTTPStatus(err)
	body := ErrorResponse{Error: "Internal server error"}
	if f, ok := fault.As(err); ok {
		body = ErrorResponse{Error: f.Message, Field: f.Field, Reason: f.Reason}
	}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "component", "http", "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a bounded JSON body, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
