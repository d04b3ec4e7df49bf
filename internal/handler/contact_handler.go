package handler

import (
	"encoding/json"
	"net/http"

	"decant-store/internal/mailer"
	"decant-store/internal/model"

	"github.com/rs/zerolog"
)

// ContactHandler handles the contact form.
type ContactHandler struct {
	mailer *mailer.Mailer
	logger zerolog.Logger
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(m *mailer.Mailer, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		mailer: m,
		logger: logger.With().Str("handler", "contact").Logger(),
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Send handles POST /api/contact requests. Name, email and message are
// required, the subject is optional.
func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if req.Name == "" || req.Email == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField,
			"name, email and message are required", h.logger)
		return
	}

	if err := h.mailer.Send(req.Name, req.Email, req.Subject, req.Message); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
