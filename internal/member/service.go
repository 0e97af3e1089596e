// AngelaMos | 2026
// service.go

package member

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/tiered-events/internal/core"
	"github.com/carterperez-dev/tiered-events/internal/tier"
)

// IllegalTransitionError reports a tier change that skips ranks. It
// carries both sides so the caller can render the violated rule.
type IllegalTransitionError struct {
	Current   tier.Tier
	Requested tier.Tier
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf(
		"cannot change tier from %s to %s: upgrades move one tier at a time",
		e.Current,
		e.Requested,
	)
}

// tierChangeRetries bounds the re-read loop when a concurrent
// transition invalidates the legality check.
const tierChangeRetries = 3

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureMember returns the member for externalID, creating one at the
// free tier on first access. A missing member is the normal creation
// path, never an error.
func (s *Service) EnsureMember(
	ctx context.Context,
	externalID string,
) (*Member, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, fmt.Errorf("ensure member: %w", core.ErrInvalidInput)
	}

	return s.repo.Ensure(ctx, externalID)
}

// ChangeTier validates and applies a tier change for the member behind
// externalID, provisioning the member first if needed. Downgrades are
// unrestricted; upgrades move exactly one rank. The guarded update
// keeps the check-then-write atomic per member: when a concurrent
// transition moves the row first, the legality check re-runs against
// the fresh tier.
func (s *Service) ChangeTier(
	ctx context.Context,
	externalID string,
	target tier.Tier,
) (*Member, error) {
	if !target.Valid() {
		return nil, fmt.Errorf(
			"change tier to %q: %w",
			target.String(),
			core.ErrInvalidTier,
		)
	}

	m, err := s.EnsureMember(ctx, externalID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		if !tier.UpgradeAllowed(m.Tier, target) {
			return nil, &IllegalTransitionError{
				Current:   m.Tier,
				Requested: target,
			}
		}

		if m.Tier == target {
			// Same-tier request is a no-op success.
			return m, nil
		}

		updated, err := s.repo.UpdateTierGuarded(ctx, externalID, m.Tier, target)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, core.ErrNotFound) {
			return nil, err
		}

		// Guard miss: another transition landed between our read and
		// write. Re-read and re-evaluate against the current tier.
		if attempt >= tierChangeRetries {
			return nil, fmt.Errorf(
				"change tier: contention on member %s: %w",
				externalID,
				core.ErrUnavailable,
			)
		}

		m, err = s.repo.GetByExternalID(ctx, externalID)
		if err != nil {
			return nil, err
		}
	}
}

// Tier returns the current tier for externalID, provisioning the
// member on first access.
func (s *Service) Tier(
	ctx context.Context,
	externalID string,
) (tier.Tier, error) {
	m, err := s.EnsureMember(ctx, externalID)
	if err != nil {
		return "", err
	}
	return m.Tier, nil
}

// Get looks up a member without auto-creating one. Reserved for admin
// reads; regular flows go through EnsureMember.
func (s *Service) Get(
	ctx context.Context,
	externalID string,
) (*Member, error) {
	return s.repo.GetByExternalID(ctx, externalID)
}

// Remove hard-deletes a member. Irreversible; future lookups by the
// same external identity provision a fresh free-tier member. Events
// are unaffected.
func (s *Service) Remove(ctx context.Context, externalID string) error {
	return s.repo.Delete(ctx, externalID)
}
