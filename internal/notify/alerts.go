package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/cavespring/plumbing-leads/internal/leads"
	"github.com/cavespring/plumbing-leads/pkg/logging"
)

// AlertService emails the shop whenever a lead lands in the store. It
// satisfies the intake notifier contract; send failures are logged and
// never bubble back to the visitor path.
type AlertService struct {
	email      EmailSender
	recipients []string
	business   string
	logger     *logging.Logger
}

// NewAlertService creates a lead alert service. Returns nil when there
// is no sender or nobody to notify, so callers can pass it straight
// through as a disabled notifier.
func NewAlertService(email EmailSender, recipients []string, business string, logger *logging.Logger) *AlertService {
	if email == nil || len(recipients) == 0 {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if business == "" {
		business = "Emergency Plumbing Services"
	}
	return &AlertService{
		email:      email,
		recipients: recipients,
		business:   business,
		logger:     logger,
	}
}

// LeadCreated emails every configured recipient about the new lead.
func (s *AlertService) LeadCreated(ctx context.Context, lead *leads.Lead) {
	if s == nil || lead == nil {
		return
	}

	subject := fmt.Sprintf("New Lead - %s", lead.Name)
	if lead.Urgency == "emergency" {
		subject = fmt.Sprintf("🚨 EMERGENCY Lead - %s", lead.Name)
	}

	var details []string
	details = append(details,
		fmt.Sprintf("Name: %s", lead.Name),
		fmt.Sprintf("Phone: %s", lead.Phone),
		fmt.Sprintf("Email: %s", lead.Email),
		fmt.Sprintf("Service: %s", lead.Service),
	)
	if lead.Urgency != "" {
		details = append(details, fmt.Sprintf("Urgency: %s", lead.Urgency))
	}
	if lead.ContactPreference != "" {
		details = append(details, fmt.Sprintf("Preferred contact: %s", lead.ContactPreference))
	}
	details = append(details,
		fmt.Sprintf("Source: %s", lead.Source),
		"",
		"Message:",
		lead.Message,
	)

	body := fmt.Sprintf("A new lead has come in!\n\n%s\n\n— %s", strings.Join(details, "\n"), s.business)

	for _, recipient := range s.recipients {
		msg := EmailMessage{
			To:      recipient,
			Subject: subject,
			Body:    body,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("lead alert email failed", "error", err, "to", recipient, "lead_id", lead.ID)
			continue
		}
		s.logger.Info("lead alert email sent", "to", recipient, "lead_id", lead.ID)
	}
}
