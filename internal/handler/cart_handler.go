package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"decant-store/internal/auth"
	"decant-store/internal/cart"
	"decant-store/internal/catalog"
	"decant-store/internal/model"
	"decant-store/internal/session"

	"github.com/rs/zerolog"
)

// CartHandler handles cart-related HTTP requests.
type CartHandler struct {
	manager *session.Manager
	engine  *cart.Engine
	auth    *auth.Engine
	catalog *catalog.Catalog
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(
	manager *session.Manager,
	engine *cart.Engine,
	authEngine *auth.Engine,
	cat *catalog.Catalog,
	logger zerolog.Logger,
) *CartHandler {
	return &CartHandler{
		manager: manager,
		engine:  engine,
		auth:    authEngine,
		catalog: cat,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

type addLineRequest struct {
	Name     string `json:"name"`
	VolumeML int    `json:"qte_ml"`
	Units    int    `json:"units"`
}

type setUnitsRequest struct {
	Units int `json:"units"`
}

type removeLinesRequest struct {
	Indices []int `json:"indices"`
}

type cartLineView struct {
	model.CartLine
	LineTotal float64 `json:"line_total"`
	ImagePath string  `json:"image_path,omitempty"`
	ImageID   int     `json:"image_id,omitempty"`
}

type cartResponse struct {
	Lines      []cartLineView `json:"lines"`
	ItemCount  int            `json:"item_count"`
	GrandTotal float64        `json:"grand_total"`
}

// session resolves and authorises the request's session.
func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
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

// Get handles GET /api/cart requests: the working cart with line totals, the
// grand total, and the live bottle count for the badge.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	sess.Cart = h.engine.Normalize(sess.Cart)

	lines := make([]cartLineView, len(sess.Cart))
	for i, line := range sess.Cart {
		view := cartLineView{CartLine: line, LineTotal: cart.LineTotal(line)}
		// A line can reference a product since removed from the catalogue;
		// it still renders, just without an image.
		if product, found := h.catalog.ByName(line.Name); found {
			view.ImagePath = product.ImagePath
			view.ImageID = product.ImageID
		}
		lines[i] = view
	}

	writeJSON(w, http.StatusOK, cartResponse{
		Lines:      lines,
		ItemCount:  h.engine.ItemCount(sess),
		GrandTotal: cart.GrandTotal(sess.Cart),
	})
}

// AddLine handles POST /api/cart/items requests. The price is resolved from
// the catalogue at add time and snapshotted into the line.
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "product name is required", h.logger)
		return
	}

	product, found := h.catalog.ByName(req.Name)
	if !found {
		writeDomainError(w, model.ErrProductNotFound, h.logger)
		return
	}

	price, valid := product.PriceFor(req.VolumeML)
	if !valid {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "volume must be 10, 20 or 30 ml", h.logger)
		return
	}

	sess.Lock()
	defer sess.Unlock()

	if err := h.engine.AddLine(r.Context(), sess, product.Name, price, req.VolumeML, req.Units); err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to add to cart", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int{"item_count": h.engine.ItemCount(sess)})
}

// SetUnits handles PUT /api/cart/items/{index} requests.
func (h *CartHandler) SetUnits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	idxStr := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
	index, err := strconv.Atoi(idxStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid line index", h.logger)
		return
	}

	var req setUnitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	sess.Lock()
	defer sess.Unlock()

	if err := h.engine.SetLineUnits(r.Context(), sess, index, req.Units); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"item_count": h.engine.ItemCount(sess)})
}

// RemoveLines handles POST /api/cart/remove requests.
func (h *CartHandler) RemoveLines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req removeLinesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	sess.Lock()
	defer sess.Unlock()

	if err := h.engine.RemoveLines(r.Context(), sess, req.Indices); err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to remove lines", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"item_count": h.engine.ItemCount(sess)})
}

// Clear handles POST /api/cart/clear requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
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

	if err := h.engine.Clear(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to clear cart", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"item_count": 0})
}
