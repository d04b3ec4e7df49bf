package handler

import (
	"encoding/json"
	"net/http"

	"decant-store/internal/auth"
	"decant-store/internal/favorites"
	"decant-store/internal/model"
	"decant-store/internal/session"

	"github.com/rs/zerolog"
)

// FavoritesHandler handles the favorites page. There is deliberately no
// delete route; see the favorites engine.
type FavoritesHandler struct {
	manager *session.Manager
	engine  *favorites.Engine
	auth    *auth.Engine
	logger  zerolog.Logger
}

// NewFavoritesHandler creates a new favorites handler.
func NewFavoritesHandler(
	manager *session.Manager,
	engine *favorites.Engine,
	authEngine *auth.Engine,
	logger zerolog.Logger,
) *FavoritesHandler {
	return &FavoritesHandler{
		manager: manager,
		engine:  engine,
		auth:    authEngine,
		logger:  logger.With().Str("handler", "favorites").Logger(),
	}
}

type addFavoriteRequest struct {
	Name string `json:"name"`
}

func (h *FavoritesHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := sessionFor(r, h.manager)
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "unknown session", h.logger)
		return nil, false
	}
	if err := h.auth.RequireAuthenticated(sess); err != nil {
		writeDomainError(w, err, h.logger)
		return nil, false
	}
	return sess, true
}

// List handles GET /api/favorites requests.
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.Lock()
	defer sess.Unlock()

	writeJSON(w, http.StatusOK, map[string][]string{"favorites": h.engine.List(sess)})
}

// Add handles POST /api/favorites requests.
func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req addFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "product name is required", h.logger)
		return
	}

	sess.Lock()
	defer sess.Unlock()

	if err := h.engine.Add(r.Context(), sess, req.Name); err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to add favorite", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string][]string{"favorites": h.engine.List(sess)})
}
