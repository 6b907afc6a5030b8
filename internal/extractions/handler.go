package extractions

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/beacon/internal/documents"
	"github.com/JaimeStill/beacon/pkg/handlers"
	"github.com/JaimeStill/beacon/pkg/routes"
)

// Handler provides HTTP endpoints for extraction runs.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "extractions"),
	}
}

// Routes returns the route group definition for extraction endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/extractions",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/batch", Handler: h.ExtractBatch},
			{Method: "POST", Pattern: "/all", Handler: h.ExtractAll},
			{Method: "POST", Pattern: "/{documentId}", Handler: h.Extract},
		},
	}
}

// Extract runs extraction over a single document.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(r.PathValue("documentId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, documents.ErrNotFound)
		return
	}

	summary, err := h.sys.Extract(r.Context(), documentID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, summary)
}

// ExtractBatch runs extraction over the documents named by a BatchCommand
// body. An empty body takes the oldest registered documents.
func (h *Handler) ExtractBatch(w http.ResponseWriter, r *http.Request) {
	var cmd BatchCommand
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
	}

	summary, err := h.sys.ExtractBatch(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, summary)
}

// ExtractAll runs extraction over up to ?limit= registered documents.
func (h *Handler) ExtractAll(w http.ResponseWriter, r *http.Request) {
	var limit int
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidLimit)
			return
		}
		limit = n
	}

	summary, err := h.sys.ExtractAll(r.Context(), limit)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, summary)
}
