package intake

import (
	"fmt"
	"net/url"

	"github.com/cavespring/plumbing-leads/internal/leads"
)

// BusinessInfo is the contact identity used for wizard follow-up links
// and for the wizard's placeholder lead fields.
type BusinessInfo struct {
	Name  string
	Phone string
	SMS   string
	Email string
}

// The wizard collects no real contact identity, so persisted wizard
// leads carry clearly-marked placeholders. Known product gap: staff can
// only reach these leads through the channel the visitor opened
// themselves. Collecting real contact fields in the wizard would
// resolve it.
const (
	placeholderName  = "Emergency Quiz Lead"
	placeholderEmail = "quiz@pending.com"
)

// Intake sources stamped on created leads.
const (
	SourceContactForm = "contact_form"
	SourceWizard      = "emergency_wizard"
)

// ContactFormSubmission is the free-form contact page payload.
type ContactFormSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Message string `json:"message"`
}

func (s *ContactFormSubmission) leadRequest() *leads.CreateLeadRequest {
	return &leads.CreateLeadRequest{
		Name:    s.Name,
		Email:   s.Email,
		Phone:   s.Phone,
		Service: s.Service,
		Message: s.Message,
		Source:  SourceContactForm,
	}
}

// WizardSubmission is the 5-step emergency wizard payload.
type WizardSubmission struct {
	Problem       string `json:"problem"`
	Urgency       string `json:"urgency"`
	Location      string `json:"location"`
	Description   string `json:"description,omitempty"`
	ContactMethod string `json:"contact_method,omitempty"`
}

// Validate checks every category against its taxonomy.
func (s *WizardSubmission) Validate() error {
	if _, ok := labelFor(ProblemOptions, s.Problem); !ok {
		return &leads.ValidationError{Field: "problem", Message: "unknown problem type"}
	}
	if _, ok := labelFor(UrgencyOptions, s.Urgency); !ok {
		return &leads.ValidationError{Field: "urgency", Message: "unknown urgency"}
	}
	if _, ok := labelFor(LocationOptions, s.Location); !ok {
		return &leads.ValidationError{Field: "location", Message: "unknown location"}
	}
	if s.ContactMethod == "" {
		s.ContactMethod = leads.ContactCall
	}
	switch s.ContactMethod {
	case leads.ContactCall, leads.ContactEmail, leads.ContactSMS:
	default:
		return &leads.ValidationError{Field: "contact_method", Message: "must be one of call, email, sms"}
	}
	return nil
}

// message renders the templated block staff see on a wizard lead.
func (s *WizardSubmission) message() string {
	problemLabel, _ := labelFor(ProblemOptions, s.Problem)
	urgencyLabel, _ := labelFor(UrgencyOptions, s.Urgency)
	locationLabel, _ := labelFor(LocationOptions, s.Location)
	description := s.Description
	if description == "" {
		description = "Not provided"
	}
	return fmt.Sprintf(`EMERGENCY PLUMBING REQUEST

Problem Type: %s
Urgency: %s
Location: %s
Description: %s

Please contact me as soon as possible.`, problemLabel, urgencyLabel, locationLabel, description)
}

func (s *WizardSubmission) leadRequest(business BusinessInfo) *leads.CreateLeadRequest {
	problemLabel, _ := labelFor(ProblemOptions, s.Problem)
	return &leads.CreateLeadRequest{
		Name:              placeholderName,
		Email:             placeholderEmail,
		Phone:             business.Phone,
		Service:           problemLabel,
		Message:           s.message(),
		Urgency:           s.Urgency,
		ProblemType:       s.Problem,
		LocationInHome:    s.Location,
		ContactPreference: s.ContactMethod,
		Source:            SourceWizard,
	}
}

// FollowUp is the contact action the frontend opens immediately,
// independent of whether the lead record persisted.
type FollowUp struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

func buildFollowUp(method string, business BusinessInfo, subject, body string) FollowUp {
	switch method {
	case leads.ContactEmail:
		return FollowUp{
			Method: method,
			URL: "mailto:" + business.Email +
				"?subject=" + url.QueryEscape(subject) +
				"&body=" + url.QueryEscape(body),
		}
	case leads.ContactSMS:
		return FollowUp{
			Method: method,
			URL:    "sms:" + business.SMS + "?body=" + url.QueryEscape(body),
		}
	default:
		return FollowUp{Method: leads.ContactCall, URL: "tel:" + business.Phone}
	}
}
