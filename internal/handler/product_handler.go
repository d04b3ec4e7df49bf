package handler

import (
	"net/http"
	"strconv"
	"strings"

	"decant-store/internal/catalog"
	"decant-store/internal/composition"
	"decant-store/internal/model"

	"github.com/rs/zerolog"
)

// ProductHandler serves the catalogue: listing with filtering and sorting,
// and the per-perfume detail view.
type ProductHandler struct {
	catalog      *catalog.Catalog
	compositions composition.Map
	logger       zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(cat *catalog.Catalog, compositions composition.Map, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:      cat,
		compositions: compositions,
		logger:       logger.With().Str("handler", "product").Logger(),
	}
}

type productListResponse struct {
	Products []catalog.Product `json:"products"`
	Total    int               `json:"total"`
}

type productDetailResponse struct {
	catalog.Product
	Composition string `json:"composition,omitempty"`
}

// GetAll handles GET /api/products requests with optional category, search
// and sort parameters.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	products := h.catalog.All()

	if category := r.URL.Query().Get("category"); category != "" {
		products = catalog.FilterCategory(products, category)
	}

	if query := r.URL.Query().Get("q"); query != "" {
		products = catalog.FilterName(products, query)
	}

	switch r.URL.Query().Get("sort") {
	case "price_asc":
		catalog.SortByPrice10(products, true)
	case "price_desc":
		catalog.SortByPrice10(products, false)
	default:
		catalog.SortByName(products)
	}

	total := len(products)

	limit, offset := paging(r)
	if offset > len(products) {
		offset = len(products)
	}
	products = products[offset:]
	if limit < len(products) {
		products = products[:limit]
	}

	h.logger.Debug().
		Int("count", len(products)).
		Int("total", total).
		Msg("products listed")

	writeJSON(w, http.StatusOK, productListResponse{Products: products, Total: total})
}

// GetByID handles GET /api/products/{image_id} requests: the perfume detail
// view with prices and composition notes. A non-integer id is a bad request
// rather than a lookup.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/products/")
	if idStr == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "product id is required", h.logger)
		return
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid product id", h.logger)
		return
	}

	product, ok := h.catalog.ByImageID(id)
	if !ok {
		writeDomainError(w, model.ErrProductNotFound, h.logger)
		return
	}

	resp := productDetailResponse{Product: product}
	if text, ok := h.compositions.Describe(product.Name); ok {
		resp.Composition = text
	}

	writeJSON(w, http.StatusOK, resp)
}

// paging clamps limit and offset the way the rest of the API does: limit
// defaults to 10 and caps at 100, offset is never negative.
func paging(r *http.Request) (limit, offset int) {
	limit = 10
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > 100 {
		limit = 100
	}

	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
