package leads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cavespring/plumbing-leads/internal/observability/metrics"
	"github.com/cavespring/plumbing-leads/pkg/logging"
)

// Handler handles HTTP requests for leads
type Handler struct {
	repo    Repository
	logger  *logging.Logger
	metrics *metrics.LeadMetrics
}

// NewHandler creates a new leads handler
func NewHandler(repo Repository, logger *logging.Logger, m *metrics.LeadMetrics) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:    repo,
		logger:  logger,
		metrics: m,
	}
}

// Create handles POST /leads requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Source == "" {
		req.Source = "website"
	}

	lead, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create lead", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create lead")
		return
	}

	h.logger.Info("lead created", "id", lead.ID, "service", lead.Service, "source", lead.Source)
	h.metrics.ObserveCreated(lead.Source)

	writeJSON(w, http.StatusCreated, lead)
}

// ListResponse is the response for GET /leads. Stats always cover the
// full lead set even when a status filter is applied.
type ListResponse struct {
	Leads []*Lead `json:"leads"`
	Stats Stats   `json:"stats"`
}

// List handles GET /leads requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}

	filtered := all
	if status := Status(r.URL.Query().Get("status")); status != "" && status != "all" {
		if !ValidStatus(status) {
			writeError(w, http.StatusBadRequest, "status: unknown status filter")
			return
		}
		filtered = FilterByStatus(all, status)
	}
	if filtered == nil {
		filtered = []*Lead{}
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Leads: filtered,
		Stats: ComputeStats(all),
	})
}

// Update handles PATCH /leads requests
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateLeadRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lead, err := h.repo.Update(r.Context(), &req)
	if err != nil {
		h.respondStoreError(w, err, "failed to update lead")
		return
	}

	if req.Status != nil {
		h.metrics.ObserveStatusSet(string(*req.Status))
	}
	h.logger.Info("lead updated", "id", lead.ID, "status", lead.Status, "priority", lead.Priority)

	writeJSON(w, http.StatusOK, lead)
}

// Delete handles DELETE /leads?id= requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id: lead id is required")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.respondStoreError(w, err, "failed to delete lead")
		return
	}

	h.metrics.ObserveDeleted()
	h.logger.Info("lead deleted", "id", id)

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) respondStoreError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrLeadNotFound):
		writeError(w, http.StatusNotFound, ErrLeadNotFound.Error())
	default:
		h.logger.Error(fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
