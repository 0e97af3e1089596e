// AngelaMos | 2026
// repository.go

package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/tiered-events/internal/core"
	"github.com/carterperez-dev/tiered-events/internal/tier"
)

type Repository interface {
	ListByTiers(ctx context.Context, tiers []tier.Tier) ([]Event, error)
	ListAll(ctx context.Context) ([]Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db      core.DBTX
	timeout time.Duration
}

func NewRepository(db core.DBTX, queryTimeout time.Duration) Repository {
	return &repository{db: db, timeout: queryTimeout}
}

// ListByTiers returns every event gated at one of the given tiers,
// date ascending with id as the deterministic tie-break so repeated
// reads over unchanged data order identically.
func (r *repository) ListByTiers(
	ctx context.Context,
	tiers []tier.Tier,
) ([]Event, error) {
	if len(tiers) == 0 {
		return []Event{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	names := make([]string, 0, len(tiers))
	for _, t := range tiers {
		names = append(names, t.String())
	}

	query, args, err := sqlx.In(`
		SELECT id, title, description, event_date, image_url, tier
		FROM events
		WHERE tier IN (?)
		ORDER BY event_date ASC, id ASC`,
		names,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: build query: %w", err)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	events := []Event{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, storageError("list events", err)
	}

	return events, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, title, description, event_date, image_url, tier
		FROM events
		ORDER BY event_date ASC, id ASC`

	events := []Event{}
	if err := r.db.SelectContext(ctx, &events, query); err != nil {
		return nil, storageError("list all events", err)
	}

	return events, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Event, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, title, description, event_date, image_url, tier
		FROM events
		WHERE id = $1`

	var e Event
	err := r.db.GetContext(ctx, &e, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get event: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, storageError("get event", err)
	}

	return &e, nil
}

func (r *repository) Create(ctx context.Context, e *Event) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	query := `
		INSERT INTO events (id, title, description, event_date, image_url, tier)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Title,
		e.Description,
		e.EventDate,
		e.ImageURL,
		e.Tier,
	)
	if err != nil {
		return storageError("create event", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, e *Event) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE events
		SET title = $2, description = $3, event_date = $4,
		    image_url = $5, tier = $6
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Title,
		e.Description,
		e.EventDate,
		e.ImageURL,
		e.Tier,
	)
	if err != nil {
		return storageError("update event", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storageError("update event", err)
	}

	if rows == 0 {
		return fmt.Errorf("update event: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `DELETE FROM events WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return storageError("delete event", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storageError("delete event", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete event: %w", core.ErrNotFound)
	}

	return nil
}

func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, core.ErrUnavailable, err)
}
