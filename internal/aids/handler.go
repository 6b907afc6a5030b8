package aids

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/beacon/pkg/handlers"
	"github.com/JaimeStill/beacon/pkg/pagination"
	"github.com/JaimeStill/beacon/pkg/routes"
)

// ExportContentType is the media type of Export output.
const ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errInvalidRequest = errors.New("invalid request")

// Handler provides HTTP endpoints for navigation aid records.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// ListRequest combines pagination and filter criteria for the list search endpoint.
type ListRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "aids"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for record endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/aids",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/count", Handler: h.Count},
			{Method: "GET", Pattern: "/statistics", Handler: h.Statistics},
			{Method: "GET", Pattern: "/export", Handler: h.Export},
			{Method: "GET", Pattern: "/aggregate/{field}", Handler: h.Aggregate},
			{Method: "GET", Pattern: "/identifier/{identifier}", Handler: h.FindByIdentifier},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/query", Handler: h.Query},
		},
	}
}

// List returns a paginated list of records filtered by query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Query accepts pagination and filter criteria as a JSON body.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req ListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single record by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	rec, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// FindByIdentifier returns the latest record for an ESM or SYSSI identifier.
func (h *Handler) FindByIdentifier(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sys.FindByIdentifier(r.Context(), r.PathValue("identifier"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// Search returns up to SearchLimit records matching a term.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Term == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidRequest)
		return
	}

	records, err := h.sys.Search(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, records)
}

// Count returns the number of records matching the query parameter filters.
func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	total, err := h.sys.Count(r.Context(), FiltersFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]int{"count": total})
}

// Aggregate groups records by an allowed field.
func (h *Handler) Aggregate(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.sys.AggregateByField(r.Context(), r.PathValue("field"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, buckets)
}

// Statistics returns totals and breakdowns over all stored records.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.Statistics(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Export streams the filtered records as an XLSX workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.sys.Export(r.Context(), &buf, FiltersFromQuery(r.URL.Query())); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", ExportContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="aids.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
