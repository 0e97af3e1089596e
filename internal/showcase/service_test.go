// AngelaMos | 2026
// service_test.go

package showcase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/tiered-events/internal/core"
	"github.com/carterperez-dev/tiered-events/internal/event"
	"github.com/carterperez-dev/tiered-events/internal/member"
	"github.com/carterperez-dev/tiered-events/internal/tier"
)

type memberStore struct {
	mu      sync.Mutex
	members map[string]*member.Member
	failAll bool
}

func newMemberStore() *memberStore {
	return &memberStore{members: make(map[string]*member.Member)}
}

func (s *memberStore) unavailable(op string) error {
	return fmt.Errorf("%s: %w: dial tcp: refused", op, core.ErrUnavailable)
}

func (s *memberStore) Ensure(_ context.Context, externalID string) (*member.Member, error) {
	if s.failAll {
		return nil, s.unavailable("ensure member")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[externalID]
	if !ok {
		now := time.Now().UTC()
		m = &member.Member{
			ID:         uuid.New().String(),
			ExternalID: externalID,
			Tier:       tier.Free,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		s.members[externalID] = m
	}
	snapshot := *m
	return &snapshot, nil
}

func (s *memberStore) GetByExternalID(_ context.Context, externalID string) (*member.Member, error) {
	if s.failAll {
		return nil, s.unavailable("get member")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[externalID]
	if !ok {
		return nil, core.ErrNotFound
	}
	snapshot := *m
	return &snapshot, nil
}

func (s *memberStore) UpdateTierGuarded(
	_ context.Context,
	externalID string,
	from, to tier.Tier,
) (*member.Member, error) {
	if s.failAll {
		return nil, s.unavailable("update tier")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[externalID]
	if !ok || m.Tier != from {
		return nil, fmt.Errorf("update tier: %w", core.ErrNotFound)
	}
	m.Tier = to
	m.UpdatedAt = time.Now().UTC()
	snapshot := *m
	return &snapshot, nil
}

func (s *memberStore) Delete(_ context.Context, externalID string) error {
	if s.failAll {
		return s.unavailable("delete member")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[externalID]; !ok {
		return fmt.Errorf("delete member: %w", core.ErrNotFound)
	}
	delete(s.members, externalID)
	return nil
}

type eventStore struct {
	events  []event.Event
	failAll bool
}

func (s *eventStore) ListByTiers(_ context.Context, tiers []tier.Tier) ([]event.Event, error) {
	if s.failAll {
		return nil, fmt.Errorf("select events: %w: dial tcp: refused", core.ErrUnavailable)
	}

	allowed := make(map[tier.Tier]bool, len(tiers))
	for _, t := range tiers {
		allowed[t] = true
	}
	out := make([]event.Event, 0, len(s.events))
	for _, e := range s.events {
		if allowed[e.Tier] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *eventStore) ListAll(ctx context.Context) ([]event.Event, error) {
	return s.ListByTiers(ctx, tier.All())
}

func (s *eventStore) GetByID(_ context.Context, id string) (*event.Event, error) {
	for i := range s.events {
		if s.events[i].ID == id {
			e := s.events[i]
			return &e, nil
		}
	}
	return nil, fmt.Errorf("get event: %w", core.ErrNotFound)
}

func (s *eventStore) Create(_ context.Context, e *event.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	s.events = append(s.events, *e)
	return nil
}

func (s *eventStore) Update(_ context.Context, e *event.Event) error {
	for i := range s.events {
		if s.events[i].ID == e.ID {
			s.events[i] = *e
			return nil
		}
	}
	return fmt.Errorf("update event: %w", core.ErrNotFound)
}

func (s *eventStore) Delete(_ context.Context, id string) error {
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete event: %w", core.ErrNotFound)
}

func newTestService(members *memberStore, events *eventStore) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(
		member.NewService(members),
		event.NewService(events),
		logger,
	)
}

func gatedEvent(title string, gate tier.Tier) event.Event {
	return event.Event{
		ID:          uuid.New().String(),
		Title:       title,
		Description: "seeded for facade tests",
		EventDate:   time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC),
		Tier:        gate,
	}
}

func TestEventsForCallerProvisionsAndFilters(t *testing.T) {
	members := newMemberStore()
	events := &eventStore{events: []event.Event{
		gatedEvent("Community Meetup", tier.Free),
		gatedEvent("Premium Gala", tier.Silver),
		gatedEvent("VIP Dinner", tier.Gold),
	}}
	svc := newTestService(members, events)
	ctx := context.Background()

	res := svc.EventsForCaller(ctx, "auth0|alice")
	require.True(t, res.Success())
	assert.Equal(t, tier.Free, res.Tier, "first access provisions at free")
	assert.Len(t, res.Events, 1)
	assert.Equal(t, "Community Meetup", res.Events[0].Title)

	// The listing follows the stored tier, not the first one seen.
	require.NoError(t, svc.RequestTierChange(ctx, "auth0|alice", tier.Silver))
	res = svc.EventsForCaller(ctx, "auth0|alice")
	require.True(t, res.Success())
	assert.Equal(t, tier.Silver, res.Tier)
	assert.Len(t, res.Events, 2)
}

func TestEventsForCallerDegradesOnStorageFailure(t *testing.T) {
	members := newMemberStore()
	members.failAll = true
	svc := newTestService(members, &eventStore{})

	res := svc.EventsForCaller(context.Background(), "auth0|alice")
	assert.False(t, res.Success())
	assert.Equal(t, tier.Free, res.Tier)
	assert.Empty(t, res.Events)
	assert.NotEmpty(t, res.Error)
}

func TestEventsForCallerDegradesOnListingFailure(t *testing.T) {
	members := newMemberStore()
	events := &eventStore{failAll: true}
	svc := newTestService(members, events)
	ctx := context.Background()

	require.NoError(t, svc.RequestTierChange(ctx, "auth0|alice", tier.Silver))

	res := svc.EventsForCaller(ctx, "auth0|alice")
	assert.False(t, res.Success())
	assert.Equal(t, tier.Free, res.Tier,
		"every failure path reports the lowest tier, even after an upgrade landed")
	assert.Empty(t, res.Events)
	assert.NotEmpty(t, res.Error)
}

func TestRequestTierChangePropagatesIllegalTransition(t *testing.T) {
	members := newMemberStore()
	svc := newTestService(members, &eventStore{})
	ctx := context.Background()

	err := svc.RequestTierChange(ctx, "auth0|alice", tier.Gold)
	require.Error(t, err)

	var illegal *member.IllegalTransitionError
	require.True(t, errors.As(err, &illegal))
	assert.Equal(t, tier.Free, illegal.Current)
	assert.Equal(t, tier.Gold, illegal.Requested)

	current, err := svc.CallerTier(ctx, "auth0|alice")
	require.NoError(t, err)
	assert.Equal(t, tier.Free, current)
}

func TestRequestTierChangePropagatesStorageFailure(t *testing.T) {
	members := newMemberStore()
	members.failAll = true
	svc := newTestService(members, &eventStore{})

	err := svc.RequestTierChange(context.Background(), "auth0|alice", tier.Silver)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnavailable))
}

func TestCallerTierRoundTrip(t *testing.T) {
	members := newMemberStore()
	svc := newTestService(members, &eventStore{})
	ctx := context.Background()

	current, err := svc.CallerTier(ctx, "auth0|alice")
	require.NoError(t, err)
	assert.Equal(t, tier.Free, current)

	require.NoError(t, svc.RequestTierChange(ctx, "auth0|alice", tier.Silver))

	current, err = svc.CallerTier(ctx, "auth0|alice")
	require.NoError(t, err)
	assert.Equal(t, tier.Silver, current)
}

func TestCallerTierNameFallsBackToFree(t *testing.T) {
	members := newMemberStore()
	svc := newTestService(members, &eventStore{})
	ctx := context.Background()

	assert.Equal(t, "", svc.CallerTierName(ctx, ""))
	assert.Equal(t, "free", svc.CallerTierName(ctx, "auth0|alice"))

	members.failAll = true
	assert.Equal(t, "free", svc.CallerTierName(ctx, "auth0|alice"))
}
