package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/clubhub-api/internal/domain"
	"github.com/clubhub-api/internal/pkg/id"
)

var ErrEventNotFound = fmt.Errorf("event not found: %w", domain.ErrNotFound)

type EventStore interface {
	Put(ctx context.Context, e *domain.Event) error
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	Scan(ctx context.Context) ([]domain.Event, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Event, error)
	SearchByTitle(ctx context.Context, letters string) ([]domain.Event, error)
	Update(ctx context.Context, eventID string, updates map[string]interface{}) error
	Delete(ctx context.Context, eventID string) error
}

type MembershipStore interface {
	ListByEvent(ctx context.Context, eventID string) ([]domain.EventMembership, error)
	ListByMember(ctx context.Context, memberID string) ([]domain.EventMembership, error)
	DeleteByEvent(ctx context.Context, eventID string) error
}

type MemberGetter interface {
	Get(ctx context.Context, memberID string) (*domain.Member, error)
}

type PicResolver interface {
	Resolve(ctx context.Context, key, pic string) (string, error)
}

type Service interface {
	Create(ctx context.Context, req domain.CreateEventRequest) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, eventID string) (*domain.Event, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Event, error)
	Search(ctx context.Context, letters string) ([]domain.Event, error)
	MemberParticipation(ctx context.Context, memberID string) ([]domain.Event, error)
	JoinedMembers(ctx context.Context, eventID string) ([]domain.Member, error)
	Update(ctx context.Context, eventID string, req domain.UpdateEventRequest) (changed bool, err error)
	Delete(ctx context.Context, eventID string) error
}

type service struct {
	events      EventStore
	memberships MembershipStore
	members     MemberGetter
	pics        PicResolver
}

func NewService(events EventStore, memberships MembershipStore, members MemberGetter, pics PicResolver) Service {
	return &service{events: events, memberships: memberships, members: members, pics: pics}
}

func (s *service) Create(ctx context.Context, req domain.CreateEventRequest) (*domain.Event, error) {
	e := &domain.Event{
		EventID:  id.New(),
		Title:    req.Title,
		Category: req.Category,
		Details:  req.Details,
		Date:     req.Date,
		JoinBy:   req.JoinBy,
		Pic:      req.Pic,
	}
	pic, err := s.pics.Resolve(ctx, "events/"+e.EventID, e.Pic)
	if err != nil {
		return nil, fmt.Errorf("store event picture: %w", err)
	}
	e.Pic = pic
	if err := s.events.Put(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) List(ctx context.Context) ([]domain.Event, error) {
	return s.events.Scan(ctx)
}

func (s *service) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	return e, nil
}

func (s *service) ListByCategory(ctx context.Context, category string) ([]domain.Event, error) {
	return s.events.ListByCategory(ctx, category)
}

func (s *service) Search(ctx context.Context, letters string) ([]domain.Event, error) {
	return s.events.SearchByTitle(ctx, letters)
}

// MemberParticipation resolves the events a member has joined.
func (s *service) MemberParticipation(ctx context.Context, memberID string) ([]domain.Event, error) {
	memberships, err := s.memberships.ListByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	events := make([]domain.Event, 0, len(memberships))
	for _, em := range memberships {
		e, err := s.events.Get(ctx, em.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		events = append(events, *e)
	}
	return events, nil
}

// JoinedMembers resolves the members who joined an event. An event with no
// joins yields an empty list, not an error.
func (s *service) JoinedMembers(ctx context.Context, eventID string) ([]domain.Member, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	memberships, err := s.memberships.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	members := make([]domain.Member, 0, len(memberships))
	for _, em := range memberships {
		m, err := s.members.Get(ctx, em.MemberID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		members = append(members, *m)
	}
	return members, nil
}

func (s *service) Update(ctx context.Context, eventID string, req domain.UpdateEventRequest) (bool, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Details != nil {
		updates["details"] = *req.Details
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.JoinBy != nil {
		updates["joinby"] = *req.JoinBy
	}
	if req.Pic != nil {
		pic, err := s.pics.Resolve(ctx, "events/"+eventID, *req.Pic)
		if err != nil {
			return false, fmt.Errorf("store event picture: %w", err)
		}
		updates["pic"] = pic
	}
	if len(updates) == 0 {
		return false, nil
	}
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return false, ErrEventNotFound
	}
	if err := s.events.Update(ctx, eventID, updates); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the event and all of its join records.
func (s *service) Delete(ctx context.Context, eventID string) error {
	if err := s.events.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return s.memberships.DeleteByEvent(ctx, eventID)
}
