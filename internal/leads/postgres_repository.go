package leads

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const leadColumns = `id, name, email, phone, service, message, urgency, problem_type,
	location_in_home, contact_preference, status, priority, notes, source,
	created_at, updated_at, contacted_at, completed_at`

// Create inserts a new row with status "new".
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, name, email, phone, service, message, urgency,
			problem_type, location_in_home, contact_preference, status, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'new', $11)
		RETURNING created_at, updated_at
	`
	lead := &Lead{
		ID:                id.String(),
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
	}
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.Name,
		req.Email,
		req.Phone,
		req.Service,
		req.Message,
		req.Urgency,
		req.ProblemType,
		req.LocationInHome,
		req.ContactPreference,
		req.Source,
	).Scan(&lead.CreatedAt, &lead.UpdatedAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return lead, nil
}

// List returns all leads newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return out, nil
}

// GetByID fetches a single lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// Update applies the non-nil fields in a single round trip. The CASE
// expressions keep contacted_at/completed_at at their first-set values.
func (r *PostgresRepository) Update(ctx context.Context, req *UpdateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var status *string
	if req.Status != nil {
		s := string(*req.Status)
		status = &s
	}

	query := `
		UPDATE leads SET
			status = COALESCE($2, status),
			notes = COALESCE($3, notes),
			priority = COALESCE($4, priority),
			contacted_at = CASE WHEN $2 = 'contacted' AND contacted_at IS NULL THEN now() ELSE contacted_at END,
			completed_at = CASE WHEN $2 = 'completed' AND completed_at IS NULL THEN now() ELSE completed_at END,
			updated_at = GREATEST(now(), updated_at + interval '1 microsecond')
		WHERE id = $1
		RETURNING ` + leadColumns
	lead, err := scanLead(r.pool.QueryRow(ctx, query, req.ID, status, req.Notes, req.Priority))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: update failed: %w", err)
	}
	return lead, nil
}

// Delete removes the row permanently.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("leads: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Service,
		&lead.Message,
		&lead.Urgency,
		&lead.ProblemType,
		&lead.LocationInHome,
		&lead.ContactPreference,
		&lead.Status,
		&lead.Priority,
		&lead.Notes,
		&lead.Source,
		&lead.CreatedAt,
		&lead.UpdatedAt,
		&lead.ContactedAt,
		&lead.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}
