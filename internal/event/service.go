// AngelaMos | 2026
// service.go

package event

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/tiered-events/internal/core"
	"github.com/carterperez-dev/tiered-events/internal/tier"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// VisibleTo returns the events a member at t may see: everything gated
// at or below their tier, date ascending. Zero matches yield an empty
// slice, not an error.
func (s *Service) VisibleTo(
	ctx context.Context,
	t tier.Tier,
) ([]Event, error) {
	if !t.Valid() {
		return nil, fmt.Errorf(
			"events visible to %q: %w",
			t.String(),
			core.ErrInvalidTier,
		)
	}

	return s.repo.ListByTiers(ctx, tier.Accessible(t))
}

func (s *Service) ListAll(ctx context.Context) ([]Event, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateEventRequest,
) (*Event, error) {
	t, err := tier.Parse(req.Tier)
	if err != nil {
		return nil, err
	}

	e := &Event{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		ImageURL:    req.ImageURL,
		Tier:        t,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateEventRequest,
) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.EventDate != nil {
		e.EventDate = *req.EventDate
	}
	if req.ImageURL != nil {
		e.ImageURL = req.ImageURL
	}
	if req.Tier != nil {
		t, err := tier.Parse(*req.Tier)
		if err != nil {
			return nil, err
		}
		e.Tier = t
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
