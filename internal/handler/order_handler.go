package handler

import (
	"net/http"

	"decant-store/internal/auth"
	"decant-store/internal/checkout"
	"decant-store/internal/model"
	"decant-store/internal/session"

	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and purchase history.
type OrderHandler struct {
	manager  *session.Manager
	checkout *checkout.Engine
	auth     *auth.Engine
	logger   zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(
	manager *session.Manager,
	checkoutEngine *checkout.Engine,
	authEngine *auth.Engine,
	logger zerolog.Logger,
) *OrderHandler {
	return &OrderHandler{
		manager:  manager,
		checkout: checkoutEngine,
		auth:     authEngine,
		logger:   logger.With().Str("handler", "order").Logger(),
	}
}

func (h *OrderHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
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

// Create handles POST /api/orders requests: checkout of the current cart.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.Lock()
	defer sess.Unlock()

	order, err := h.checkout.Checkout(r.Context(), sess)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetAll handles GET /api/orders requests: the purchase history, oldest
// first, exactly as stored.
func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.Lock()
	defer sess.Unlock()

	writeJSON(w, http.StatusOK, map[string][]model.Order{"orders": sess.History})
}
