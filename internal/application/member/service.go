package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/clubhub-api/internal/domain"
	"github.com/clubhub-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// Flow-specific failures the handlers translate to their contractual
// messages. All chain to the domain sentinels for status mapping.
var (
	ErrEventNotFound  = fmt.Errorf("event not found: %w", domain.ErrNotFound)
	ErrMemberNotFound = fmt.Errorf("member not found: %w", domain.ErrNotFound)
	ErrAlreadyJoined  = fmt.Errorf("event already joined: %w", domain.ErrBadRequest)
)

type MemberStore interface {
	Put(ctx context.Context, m *domain.Member) error
	Get(ctx context.Context, memberID string) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	Scan(ctx context.Context) ([]domain.Member, error)
	ListByPosition(ctx context.Context, position string) ([]domain.Member, error)
	Update(ctx context.Context, memberID string, updates map[string]interface{}) error
	Delete(ctx context.Context, memberID string) error
	IncrementJoinedEvents(ctx context.Context, memberID string) error
}

type EventStore interface {
	Get(ctx context.Context, eventID string) (*domain.Event, error)
}

type MembershipStore interface {
	Get(ctx context.Context, eventID, memberID string) (*domain.EventMembership, error)
	Put(ctx context.Context, em *domain.EventMembership) error
}

// PicResolver turns an inline data-URI picture into a stored object URL.
// Plain URLs pass through untouched.
type PicResolver interface {
	Resolve(ctx context.Context, key, pic string) (string, error)
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterMemberRequest) (*domain.Member, error)
	List(ctx context.Context) ([]domain.Member, error)
	Get(ctx context.Context, memberID string) (*domain.Member, error)
	ListByPosition(ctx context.Context, position string) ([]domain.Member, error)
	Update(ctx context.Context, memberID string, req domain.UpdateMemberRequest) (changed bool, err error)
	UpdatePlacement(ctx context.Context, memberID string, position, title *string) (changed bool, err error)
	Delete(ctx context.Context, memberID string) error
	JoinEvent(ctx context.Context, memberID, eventID, joinedDate string) error
}

type service struct {
	members     MemberStore
	events      EventStore
	memberships MembershipStore
	pics        PicResolver
}

func NewService(members MemberStore, events EventStore, memberships MembershipStore, pics PicResolver) Service {
	return &service{members: members, events: events, memberships: memberships, pics: pics}
}

// Register creates a member record with the club defaults filled in.
// The email must not already be registered.
func (s *service) Register(ctx context.Context, req domain.RegisterMemberRequest) (*domain.Member, error) {
	if _, err := s.members.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	m := &domain.Member{
		MemberID:     id.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Mobile:       req.Mobile,
		Course:       req.Course,
		Year:         req.Year,
		Role:         req.Role,
		Position:     req.Position,
		Title:        req.Title,
		About:        req.About,
		Pic:          req.Pic,
	}
	if m.Role == "" {
		m.Role = domain.RoleStudent
	}
	if m.Position == "" {
		m.Position = domain.DefaultPosition
	}
	if m.Title == "" {
		m.Title = domain.DefaultTitle
	}
	if m.Pic == "" {
		m.Pic = domain.DefaultPic
	} else {
		pic, err := s.pics.Resolve(ctx, "members/"+m.MemberID, m.Pic)
		if err != nil {
			return nil, fmt.Errorf("store profile picture: %w", err)
		}
		m.Pic = pic
	}

	if err := s.members.Put(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) List(ctx context.Context) ([]domain.Member, error) {
	return s.members.Scan(ctx)
}

func (s *service) Get(ctx context.Context, memberID string) (*domain.Member, error) {
	m, err := s.members.Get(ctx, memberID)
	if err != nil {
		return nil, ErrMemberNotFound
	}
	return m, nil
}

func (s *service) ListByPosition(ctx context.Context, position string) ([]domain.Member, error) {
	members, err := s.members.ListByPosition(ctx, position)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, ErrMemberNotFound
	}
	return members, nil
}

// Update applies a member's own profile changes. Returns false when the
// request carried no fields at all.
func (s *service) Update(ctx context.Context, memberID string, req domain.UpdateMemberRequest) (bool, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return false, err
		}
		updates["password_hash"] = string(hash)
	}
	if req.Mobile != nil {
		updates["mobile"] = *req.Mobile
	}
	if req.Year != nil {
		updates["year"] = *req.Year
	}
	if req.About != nil {
		updates["about"] = *req.About
	}
	if req.Pic != nil {
		pic, err := s.pics.Resolve(ctx, "members/"+memberID, *req.Pic)
		if err != nil {
			return false, fmt.Errorf("store profile picture: %w", err)
		}
		updates["pic"] = pic
	}
	if len(updates) == 0 {
		return false, nil
	}
	if _, err := s.members.Get(ctx, memberID); err != nil {
		return false, ErrMemberNotFound
	}
	if err := s.members.Update(ctx, memberID, updates); err != nil {
		return false, err
	}
	return true, nil
}

// UpdatePlacement is the admin-side update: position and title only.
func (s *service) UpdatePlacement(ctx context.Context, memberID string, position, title *string) (bool, error) {
	updates := map[string]interface{}{}
	if position != nil {
		updates["position"] = *position
	}
	if title != nil {
		updates["title"] = *title
	}
	if len(updates) == 0 {
		return false, nil
	}
	if _, err := s.members.Get(ctx, memberID); err != nil {
		return false, ErrMemberNotFound
	}
	if err := s.members.Update(ctx, memberID, updates); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) Delete(ctx context.Context, memberID string) error {
	if err := s.members.Delete(ctx, memberID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	return nil
}

// JoinEvent records a membership and bumps the member's join counter.
// Joining the same event twice is rejected.
func (s *service) JoinEvent(ctx context.Context, memberID, eventID, joinedDate string) error {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if _, err := s.members.Get(ctx, memberID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	if _, err := s.memberships.Get(ctx, eventID, memberID); err == nil {
		return ErrAlreadyJoined
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err := s.memberships.Put(ctx, &domain.EventMembership{
		EventID:    eventID,
		MemberID:   memberID,
		JoinedDate: joinedDate,
	}); err != nil {
		return err
	}
	return s.members.IncrementJoinedEvents(ctx, memberID)
}
