// AngelaMos | 2026
// service.go

package showcase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/carterperez-dev/tiered-events/internal/event"
	"github.com/carterperez-dev/tiered-events/internal/member"
	"github.com/carterperez-dev/tiered-events/internal/tier"
)

// EventsResult is the uniform shape the read path hands to the
// presentation layer. Failures arrive inline: Success false, empty
// events, tier defaulted to free, and a message fit for display.
type EventsResult struct {
	Events []event.Event
	Tier   tier.Tier
	Error  string
}

func (r EventsResult) Success() bool {
	return r.Error == ""
}

// Service is the façade bridging an authenticated caller to member
// provisioning, tier transitions, and tier-filtered event retrieval.
//
// The read path degrades (errors reported inline, never propagated);
// the write path propagates structured errors so a failed mutation is
// never mistaken for success.
type Service struct {
	members *member.Service
	events  *event.Service
	logger  *slog.Logger
}

func NewService(
	members *member.Service,
	events *event.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		members: members,
		events:  events,
		logger:  logger,
	}
}

// EventsForCaller provisions the caller if needed, then returns every
// event visible at their tier, date ascending.
func (s *Service) EventsForCaller(
	ctx context.Context,
	externalID string,
) EventsResult {
	m, err := s.members.EnsureMember(ctx, externalID)
	if err != nil {
		s.logger.Error("provision caller for event listing",
			"external_id", externalID,
			"error", err,
		)
		return EventsResult{
			Events: []event.Event{},
			Tier:   tier.Free,
			Error:  "Failed to load your membership. Please try again.",
		}
	}

	visible, err := s.events.VisibleTo(ctx, m.Tier)
	if err != nil {
		s.logger.Error("list events for caller",
			"external_id", externalID,
			"tier", m.Tier.String(),
			"error", err,
		)
		return EventsResult{
			Events: []event.Event{},
			Tier:   tier.Free,
			Error:  "Failed to load events. Please try again.",
		}
	}

	return EventsResult{
		Events: visible,
		Tier:   m.Tier,
	}
}

// RequestTierChange applies a tier change for the caller. Unlike the
// read path this propagates: the caller must know an upgrade did not
// happen.
func (s *Service) RequestTierChange(
	ctx context.Context,
	externalID string,
	target tier.Tier,
) error {
	_, err := s.members.ChangeTier(ctx, externalID, target)
	if err != nil {
		var illegal *member.IllegalTransitionError
		if errors.As(err, &illegal) {
			s.logger.Info("tier change rejected",
				"external_id", externalID,
				"current", illegal.Current.String(),
				"requested", illegal.Requested.String(),
			)
			return err
		}

		s.logger.Error("tier change failed",
			"external_id", externalID,
			"requested", target.String(),
			"error", err,
		)
		return err
	}

	return nil
}

// CallerTier returns the caller's current tier, provisioning them at
// free on first access. Storage errors propagate.
func (s *Service) CallerTier(
	ctx context.Context,
	externalID string,
) (tier.Tier, error) {
	t, err := s.members.Tier(ctx, externalID)
	if err != nil {
		s.logger.Error("resolve caller tier",
			"external_id", externalID,
			"error", err,
		)
		return "", err
	}
	return t, nil
}

// CallerTierName is a best-effort tier lookup for infrastructure that
// cannot react to errors, such as the tiered rate limiter. Failures
// fall back to free.
func (s *Service) CallerTierName(ctx context.Context, externalID string) string {
	if externalID == "" {
		return ""
	}

	t, err := s.members.Tier(ctx, externalID)
	if err != nil {
		return tier.Free.String()
	}
	return t.String()
}
