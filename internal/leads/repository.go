package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	List(ctx context.Context) ([]*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	Update(ctx context.Context, req *UpdateLeadRequest) (*Lead, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository keeps leads in memory. Used in development when no
// DATABASE_URL is configured, and in handler tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
	now   func() time.Time
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the repository clock. Test hook.
func (r *InMemoryRepository) SetClock(now func() time.Time) {
	r.now = now
}

// Create validates the request and stores a new lead with status "new".
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.now()
	lead := &Lead{
		ID:                uuid.New().String(),
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Service:           req.Service,
		Message:           req.Message,
		Urgency:           req.Urgency,
		ProblemType:       req.ProblemType,
		LocationInHome:    req.LocationInHome,
		ContactPreference: req.ContactPreference,
		Status:            StatusNew,
		Source:            req.Source,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	r.mu.Lock()
	r.leads[lead.ID] = lead
	r.mu.Unlock()

	return copyLead(lead), nil
}

// List returns all leads newest first.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Lead, error) {
	r.mu.RLock()
	out := make([]*Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		out = append(out, copyLead(lead))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// GetByID retrieves a lead by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	return copyLead(lead), nil
}

// Update applies the non-nil fields of req. contacted_at and
// completed_at are set only the first time the lead reaches those
// statuses; later passes through the same status leave them alone.
func (r *InMemoryRepository) Update(ctx context.Context, req *UpdateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[req.ID]
	if !ok {
		return nil, ErrLeadNotFound
	}

	now := r.now()
	// updated_at must strictly increase even under a coarse clock.
	if !now.After(lead.UpdatedAt) {
		now = lead.UpdatedAt.Add(time.Microsecond)
	}

	if req.Status != nil {
		lead.Status = *req.Status
		if *req.Status == StatusContacted && lead.ContactedAt == nil {
			t := now
			lead.ContactedAt = &t
		}
		if *req.Status == StatusCompleted && lead.CompletedAt == nil {
			t := now
			lead.CompletedAt = &t
		}
	}
	if req.Notes != nil {
		lead.Notes = *req.Notes
	}
	if req.Priority != nil {
		lead.Priority = *req.Priority
	}
	lead.UpdatedAt = now

	return copyLead(lead), nil
}

// Delete removes the lead permanently.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.leads[id]; !ok {
		return ErrLeadNotFound
	}
	delete(r.leads, id)
	return nil
}

func copyLead(l *Lead) *Lead {
	c := *l
	if l.ContactedAt != nil {
		t := *l.ContactedAt
		c.ContactedAt = &t
	}
	if l.CompletedAt != nil {
		t := *l.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
