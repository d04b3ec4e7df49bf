package handler

import (
	"encoding/json"
	"net/http"

	"decant-store/internal/auth"
	"decant-store/internal/middleware"
	"decant-store/internal/model"
	"decant-store/internal/session"

	"github.com/rs/zerolog"
)

// AuthHandler handles session creation and login/signup/logout.
type AuthHandler struct {
	manager *session.Manager
	engine  *auth.Engine
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(manager *session.Manager, engine *auth.Engine, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		manager: manager,
		engine:  engine,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string `json:"token"`
	User  string `json:"user,omitempty"`
}

// CreateSession handles POST /api/session requests: it mints a fresh
// anonymous session, the equivalent of opening the shop in a new browser tab.
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	token, _ := h.manager.Create()
	writeJSON(w, http.StatusCreated, sessionResponse{Token: token})
}

// Login handles POST /api/auth/login requests. An existing session token is
// reused (its anonymous state is replaced by the account's); otherwise a new
// session is minted.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	token := r.Header.Get(middleware.SessionTokenHeader)
	sess, ok := h.manager.Get(token)
	if !ok {
		token, sess = h.manager.Create()
	}

	sess.Lock()
	defer sess.Unlock()

	if !h.engine.Login(r.Context(), sess, req.Username, req.Password) {
		writeDomainError(w, model.ErrInvalidCredentials, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: sess.User})
}

// Signup handles POST /api/auth/signup requests.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	token := r.Header.Get(middleware.SessionTokenHeader)
	sess, ok := h.manager.Get(token)
	if !ok {
		token, sess = h.manager.Create()
	}

	sess.Lock()
	defer sess.Unlock()

	if err := h.engine.Signup(r.Context(), sess, req.Username, req.Password); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, User: sess.User})
}

// Logout handles POST /api/auth/logout requests: flush, then reset to the
// anonymous defaults. The session itself stays usable for further browsing.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	sess, ok := sessionFor(r, h.manager)
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unknown session", h.logger)
		return
	}

	sess.Lock()
	defer sess.Unlock()

	if err := h.engine.Logout(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to log out", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
