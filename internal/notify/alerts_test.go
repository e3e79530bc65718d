package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cavespring/plumbing-leads/internal/leads"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []EmailMessage
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func sampleLead() *leads.Lead {
	return &leads.Lead{
		ID:      "lead-1",
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "5551234567",
		Service: "Drain Cleaning",
		Message: "Kitchen sink is clogged badly",
		Source:  "website",
	}
}

func TestAlertServiceEmailsEveryRecipient(t *testing.T) {
	sender := &recordingSender{}
	svc := NewAlertService(sender, []string{"owner@example.com", "dispatch@example.com"}, "Emergency Plumbing Services", nil)
	require.NotNil(t, svc)

	svc.LeadCreated(context.Background(), sampleLead())

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "owner@example.com", sender.sent[0].To)
	assert.Equal(t, "dispatch@example.com", sender.sent[1].To)
	assert.Equal(t, "New Lead - Jane Doe", sender.sent[0].Subject)
	assert.True(t, strings.Contains(sender.sent[0].Body, "Phone: 5551234567"))
	assert.True(t, strings.Contains(sender.sent[0].Body, "Kitchen sink is clogged badly"))
}

func TestAlertServiceEmergencySubject(t *testing.T) {
	sender := &recordingSender{}
	svc := NewAlertService(sender, []string{"owner@example.com"}, "Emergency Plumbing Services", nil)

	lead := sampleLead()
	lead.Urgency = "emergency"
	svc.LeadCreated(context.Background(), lead)

	require.Len(t, sender.sent, 1)
	assert.True(t, strings.Contains(sender.sent[0].Subject, "EMERGENCY"))
}

func TestAlertServiceSwallowsSendFailures(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	svc := NewAlertService(sender, []string{"owner@example.com"}, "", nil)

	// Must not panic or surface an error to the caller.
	svc.LeadCreated(context.Background(), sampleLead())
	assert.Empty(t, sender.sent)
}

func TestNewAlertServiceDisabled(t *testing.T) {
	assert.Nil(t, NewAlertService(nil, []string{"owner@example.com"}, "", nil))
	assert.Nil(t, NewAlertService(&recordingSender{}, nil, "", nil))
}

func TestAlertServiceNilReceiver(t *testing.T) {
	var svc *AlertService
	svc.LeadCreated(context.Background(), sampleLead())
}
