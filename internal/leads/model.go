package leads

import (
	"net/mail"
	"strings"
	"time"
	"unicode"
)

// Status tracks where a lead sits in the staff triage workflow.
type Status string

const (
	StatusNew        Status = "new"
	StatusContacted  Status = "contacted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Contact preference values accepted on intake.
const (
	ContactCall  = "call"
	ContactEmail = "email"
	ContactSMS   = "sms"
)

// Urgency values collected by the emergency wizard.
var urgencyValues = map[string]struct{}{
	"emergency": {},
	"today":     {},
	"this-week": {},
	"scheduled": {},
}

// Lead represents a tracked customer inquiry.
type Lead struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	Service           string     `json:"service"`
	Message           string     `json:"message"`
	Urgency           string     `json:"urgency,omitempty"`
	ProblemType       string     `json:"problem_type,omitempty"`
	LocationInHome    string     `json:"location_in_home,omitempty"`
	ContactPreference string     `json:"contact_preference"`
	Status            Status     `json:"status"`
	Priority          bool       `json:"priority"`
	Notes             string     `json:"notes,omitempty"`
	Source            string     `json:"source,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	ContactedAt       *time.Time `json:"contacted_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// CreateLeadRequest represents the request body for creating a lead
type CreateLeadRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Service           string `json:"service"`
	Message           string `json:"message"`
	Urgency           string `json:"urgency,omitempty"`
	ProblemType       string `json:"problem_type,omitempty"`
	LocationInHome    string `json:"location_in_home,omitempty"`
	ContactPreference string `json:"contact_preference,omitempty"`
	Source            string `json:"source,omitempty"`
}

// Validate checks required fields and normalizes defaults in place.
func (r *CreateLeadRequest) Validate() error {
	if len(strings.TrimSpace(r.Name)) < 2 {
		return &ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return &ValidationError{Field: "email", Message: "invalid email address"}
	}
	if countDigits(r.Phone) < 10 {
		return &ValidationError{Field: "phone", Message: "phone must contain at least 10 digits"}
	}
	if strings.TrimSpace(r.Service) == "" {
		return &ValidationError{Field: "service", Message: "service is required"}
	}
	if len(strings.TrimSpace(r.Message)) < 10 {
		return &ValidationError{Field: "message", Message: "message must be at least 10 characters"}
	}
	if r.ContactPreference == "" {
		r.ContactPreference = ContactCall
	}
	switch r.ContactPreference {
	case ContactCall, ContactEmail, ContactSMS:
	default:
		return &ValidationError{Field: "contact_preference", Message: "must be one of call, email, sms"}
	}
	if r.Urgency != "" {
		if _, ok := urgencyValues[r.Urgency]; !ok {
			return &ValidationError{Field: "urgency", Message: "must be one of emergency, today, this-week, scheduled"}
		}
	}
	return nil
}

// UpdateLeadRequest is a typed partial update. Only non-nil fields are
// applied; unknown JSON fields are rejected at decode time.
type UpdateLeadRequest struct {
	ID       string  `json:"id"`
	Status   *Status `json:"status,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	Priority *bool   `json:"priority,omitempty"`
}

// Validate validates the partial update request.
func (r *UpdateLeadRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return &ValidationError{Field: "id", Message: "lead id is required"}
	}
	if r.Status != nil && !ValidStatus(*r.Status) {
		return &ValidationError{Field: "status", Message: "must be one of new, contacted, in_progress, completed, cancelled"}
	}
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
