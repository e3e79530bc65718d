package intake

import (
	"encoding/json"
	"net/http"

	"github.com/cavespring/plumbing-leads/internal/leads"
	"github.com/cavespring/plumbing-leads/pkg/logging"
)

// Handler exposes the two intake paths over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new intake handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// SubmitResponse acknowledges an accepted submission. The lead write is
// still in flight when this goes out.
type SubmitResponse struct {
	Accepted bool     `json:"accepted"`
	FollowUp FollowUp `json:"follow_up"`
}

// Contact handles POST /intake/contact requests
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var sub ContactFormSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	action, err := h.service.SubmitContact(r.Context(), &sub)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, SubmitResponse{Accepted: true, FollowUp: action})
}

// Emergency handles POST /intake/emergency requests
func (h *Handler) Emergency(w http.ResponseWriter, r *http.Request) {
	var sub WizardSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	action, err := h.service.SubmitWizard(r.Context(), &sub)
	if err != nil {
		if leads.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("intake: wizard submission failed", "error", err)
		writeError(w, http.StatusInternalServerError, "submission failed")
		return
	}

	writeJSON(w, http.StatusAccepted, SubmitResponse{Accepted: true, FollowUp: action})
}

// Options handles GET /intake/options requests, serving the wizard
// taxonomies so the frontend stays in sync with validation.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]Option{
		"problems":  ProblemOptions,
		"urgencies": UrgencyOptions,
		"locations": LocationOptions,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
