// AngelaMos | 2026
// service_test.go

package event

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/tiered-events/internal/core"
	"github.com/carterperez-dev/tiered-events/internal/tier"
)

// fakeRepository serves events from memory with the same ordering
// contract as the SQL repository: event date ascending, id tie-break.
type fakeRepository struct {
	mu      sync.Mutex
	events  map[string]*Event
	failAll bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{events: make(map[string]*Event)}
}

func (f *fakeRepository) ListByTiers(
	_ context.Context,
	tiers []tier.Tier,
) ([]Event, error) {
	if f.failAll {
		return nil, fmt.Errorf("select events: %w: dial tcp: refused", core.ErrUnavailable)
	}

	allowed := make(map[tier.Tier]bool, len(tiers))
	for _, t := range tiers {
		allowed[t] = true
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Event, 0, len(f.events))
	for _, e := range f.events {
		if allowed[e.Tier] {
			out = append(out, *e)
		}
	}
	sortEvents(out)
	return out, nil
}

func (f *fakeRepository) ListAll(ctx context.Context) ([]Event, error) {
	return f.ListByTiers(ctx, tier.All())
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.events[id]
	if !ok {
		return nil, fmt.Errorf("get event: %w", core.ErrNotFound)
	}
	snapshot := *e
	return &snapshot, nil
}

func (f *fakeRepository) Create(_ context.Context, e *Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	stored := *e
	f.events[e.ID] = &stored
	return nil
}

func (f *fakeRepository) Update(_ context.Context, e *Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.events[e.ID]; !ok {
		return fmt.Errorf("update event: %w", core.ErrNotFound)
	}
	stored := *e
	f.events[e.ID] = &stored
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.events[id]; !ok {
		return fmt.Errorf("delete event: %w", core.ErrNotFound)
	}
	delete(f.events, id)
	return nil
}

func sortEvents(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].EventDate.Equal(events[j].EventDate) {
			return events[i].EventDate.Before(events[j].EventDate)
		}
		return events[i].ID < events[j].ID
	})
}

func seedEvent(t *testing.T, repo *fakeRepository, title string, gate tier.Tier, date time.Time) *Event {
	t.Helper()
	e := &Event{
		ID:          uuid.New().String(),
		Title:       title,
		Description: "an event used by the visibility tests",
		EventDate:   date,
		Tier:        gate,
	}
	require.NoError(t, repo.Create(context.Background(), e))
	return e
}

func TestVisibleToFiltersAtOrBelowTier(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	base := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	seedEvent(t, repo, "Community Meetup", tier.Free, base)
	seedEvent(t, repo, "Open Workshop", tier.Free, base.AddDate(0, 0, 3))
	seedEvent(t, repo, "Premium Gala", tier.Silver, base.AddDate(0, 0, 1))
	seedEvent(t, repo, "VIP Dinner", tier.Gold, base.AddDate(0, 0, 2))
	seedEvent(t, repo, "Concierge Retreat", tier.Platinum, base.AddDate(0, 0, 4))

	cases := []struct {
		caller tier.Tier
		want   int
	}{
		{tier.Free, 2},
		{tier.Silver, 3},
		{tier.Gold, 4},
		{tier.Platinum, 5},
	}
	for _, tc := range cases {
		events, err := svc.VisibleTo(ctx, tc.caller)
		require.NoError(t, err)
		assert.Len(t, events, tc.want, "caller=%s", tc.caller)
		for _, e := range events {
			assert.LessOrEqual(t, e.Tier.Rank(), tc.caller.Rank(),
				"%s saw %s-gated %q", tc.caller, e.Tier, e.Title)
		}
	}
}

func TestVisibleToOrdersByDate(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	base := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	seedEvent(t, repo, "Third", tier.Free, base.AddDate(0, 1, 0))
	seedEvent(t, repo, "First", tier.Free, base)
	seedEvent(t, repo, "Second", tier.Silver, base.AddDate(0, 0, 10))

	events, err := svc.VisibleTo(context.Background(), tier.Silver)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "First", events[0].Title)
	assert.Equal(t, "Second", events[1].Title)
	assert.Equal(t, "Third", events[2].Title)
}

func TestVisibleToEmptyCatalog(t *testing.T) {
	svc := NewService(newFakeRepository())

	events, err := svc.VisibleTo(context.Background(), tier.Platinum)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestVisibleToRejectsInvalidTier(t *testing.T) {
	svc := NewService(newFakeRepository())

	_, err := svc.VisibleTo(context.Background(), tier.Tier("bronze"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidTier))
}

func TestCreateParsesTier(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateEventRequest{
		Title:       "Premium Gala",
		Description: "A yearly gathering for silver members and up",
		EventDate:   time.Date(2026, 11, 5, 19, 0, 0, 0, time.UTC),
		Tier:        "silver",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, tier.Silver, created.Tier)

	_, err = svc.Create(ctx, CreateEventRequest{
		Title:       "Bad Gate",
		Description: "An event with a tier nobody has",
		EventDate:   time.Now(),
		Tier:        "diamond",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidTier))
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	e := seedEvent(t, repo, "Premium Gala", tier.Silver,
		time.Date(2026, 11, 5, 19, 0, 0, 0, time.UTC))

	newTitle := "Premium Gala 2026"
	newTier := "gold"
	updated, err := svc.Update(ctx, e.ID, UpdateEventRequest{
		Title: &newTitle,
		Tier:  &newTier,
	})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, tier.Gold, updated.Tier)
	assert.Equal(t, e.Description, updated.Description, "untouched fields survive")
	assert.True(t, e.EventDate.Equal(updated.EventDate))
}

func TestUpdateUnknownEvent(t *testing.T) {
	svc := NewService(newFakeRepository())

	title := "Ghost"
	_, err := svc.Update(context.Background(), uuid.New().String(), UpdateEventRequest{
		Title: &title,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestDeleteRemovesFromListing(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	e := seedEvent(t, repo, "Premium Gala", tier.Free, time.Now().UTC())

	require.NoError(t, svc.Delete(ctx, e.ID))

	events, err := svc.VisibleTo(ctx, tier.Free)
	require.NoError(t, err)
	assert.Empty(t, events)

	err = svc.Delete(ctx, e.ID)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}
