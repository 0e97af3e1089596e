// AngelaMos | 2026
// repository.go

package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/tiered-events/internal/core"
	"github.com/carterperez-dev/tiered-events/internal/tier"
)

type Repository interface {
	Ensure(ctx context.Context, externalID string) (*Member, error)
	GetByExternalID(ctx context.Context, externalID string) (*Member, error)
	UpdateTierGuarded(
		ctx context.Context,
		externalID string,
		from, to tier.Tier,
	) (*Member, error)
	Delete(ctx context.Context, externalID string) error
}

type repository struct {
	db      core.DBTX
	timeout time.Duration
}

func NewRepository(db core.DBTX, queryTimeout time.Duration) Repository {
	return &repository{db: db, timeout: queryTimeout}
}

// Ensure gets the member for externalID, creating one at the free tier
// if absent. The insert and the conflict path both resolve to the same
// single row; a lost insert race falls through to the fetch.
func (r *repository) Ensure(
	ctx context.Context,
	externalID string,
) (*Member, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO users (id, external_id, tier)
		VALUES ($1, $2, $3)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING id, external_id, tier, created_at, updated_at`

	var m Member
	err := r.db.GetContext(ctx, &m, query,
		uuid.New().String(),
		externalID,
		tier.Free,
	)
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, storageError("ensure member", err)
	}

	// Conflict: someone else won the insert. Return the existing row.
	existing, err := r.getByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("ensure member: %w", err)
	}

	return existing, nil
}

func (r *repository) GetByExternalID(
	ctx context.Context,
	externalID string,
) (*Member, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	m, err := r.getByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (r *repository) getByExternalID(
	ctx context.Context,
	externalID string,
) (*Member, error) {
	query := `
		SELECT id, external_id, tier, created_at, updated_at
		FROM users
		WHERE external_id = $1`

	var m Member
	err := r.db.GetContext(ctx, &m, query, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, storageError("select member", err)
	}

	return &m, nil
}

// UpdateTierGuarded applies a tier change as a single conditional
// statement. The WHERE tier = from guard makes the read used for the
// legality check and this write atomic with respect to concurrent
// transitions on the same row: a stale caller misses the guard and
// gets core.ErrNotFound back.
func (r *repository) UpdateTierGuarded(
	ctx context.Context,
	externalID string,
	from, to tier.Tier,
) (*Member, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE users
		SET tier = $3, updated_at = NOW()
		WHERE external_id = $1 AND tier = $2
		RETURNING id, external_id, tier, created_at, updated_at`

	var m Member
	err := r.db.GetContext(ctx, &m, query, externalID, from, to)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update tier: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, storageError("update tier", err)
	}

	return &m, nil
}

func (r *repository) Delete(ctx context.Context, externalID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `DELETE FROM users WHERE external_id = $1`

	result, err := r.db.ExecContext(ctx, query, externalID)
	if err != nil {
		return storageError("delete member", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storageError("delete member", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete member: %w", core.ErrNotFound)
	}

	return nil
}

// storageError folds driver and timeout failures into the unavailable
// sentinel the rest of the system reacts to. Constraint violations
// keep their own sentinel.
func storageError(op string, err error) error {
	if isDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, core.ErrDuplicateKey)
	}
	return fmt.Errorf("%s: %w: %w", op, core.ErrUnavailable, err)
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
