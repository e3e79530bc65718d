package intake

import (
	"context"
	"sync"
	"time"

	"github.com/cavespring/plumbing-leads/internal/leads"
	"github.com/cavespring/plumbing-leads/internal/observability/metrics"
	"github.com/cavespring/plumbing-leads/pkg/logging"
)

// Notifier is told about leads that actually persisted. Failures are
// the notifier's problem; intake never waits on it.
type Notifier interface {
	LeadCreated(ctx context.Context, lead *leads.Lead)
}

// Service normalizes both submission shapes into lead records. The
// store write is best-effort: validation happens synchronously, the
// persist runs detached so the visitor's follow-up action is never
// gated on the database.
type Service struct {
	repo           leads.Repository
	notifier       Notifier
	logger         *logging.Logger
	metrics        *metrics.LeadMetrics
	business       BusinessInfo
	persistTimeout time.Duration

	wg sync.WaitGroup
}

// NewService creates the intake service. notifier and m may be nil.
func NewService(repo leads.Repository, notifier Notifier, business BusinessInfo, logger *logging.Logger, m *metrics.LeadMetrics) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:           repo,
		notifier:       notifier,
		logger:         logger,
		metrics:        m,
		business:       business,
		persistTimeout: 10 * time.Second,
	}
}

// SubmitContact validates a contact-form submission, kicks off the
// detached persist and returns the follow-up action.
func (s *Service) SubmitContact(ctx context.Context, sub *ContactFormSubmission) (FollowUp, error) {
	req := sub.leadRequest()
	if err := req.Validate(); err != nil {
		return FollowUp{}, err
	}

	subject := "Plumbing Service Request - " + sub.Service
	action := buildFollowUp(req.ContactPreference, s.business, subject, sub.Message)

	s.persistAsync(ctx, "contact", req)
	return action, nil
}

// SubmitWizard validates an emergency-wizard submission, kicks off the
// detached persist and returns the follow-up action.
func (s *Service) SubmitWizard(ctx context.Context, sub *WizardSubmission) (FollowUp, error) {
	if err := sub.Validate(); err != nil {
		return FollowUp{}, err
	}
	req := sub.leadRequest(s.business)
	if err := req.Validate(); err != nil {
		// Placeholder identity should always pass; a failure here means
		// the configured business phone is unusable.
		s.logger.Error("intake: wizard lead invalid", "error", err)
		return FollowUp{}, err
	}

	problemLabel, _ := labelFor(ProblemOptions, sub.Problem)
	subject := "Emergency Plumbing Request - " + problemLabel
	action := buildFollowUp(sub.ContactMethod, s.business, subject, sub.message())

	s.persistAsync(ctx, "emergency", req)
	return action, nil
}

// persistAsync writes the lead on a detached context. Failure is logged
// and counted, never surfaced to the submitting visitor.
func (s *Service) persistAsync(ctx context.Context, path string, req *leads.CreateLeadRequest) {
	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		start := time.Now()
		lead, err := s.repo.Create(detached, req)
		s.metrics.ObservePersist(path, time.Since(start).Seconds())
		if err != nil {
			s.logger.Error("intake: lead persist failed", "error", err, "path", path)
			return
		}
		s.metrics.ObserveCreated(lead.Source)
		s.logger.Info("intake: lead persisted", "id", lead.ID, "source", lead.Source, "service", lead.Service)

		if s.notifier != nil {
			s.notifier.LeadCreated(detached, lead)
		}
	}()
}

// Wait blocks until in-flight persists finish. Called on shutdown and
// by tests.
func (s *Service) Wait() {
	s.wg.Wait()
}
