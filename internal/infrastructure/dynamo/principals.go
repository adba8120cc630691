package dynamo

import (
	"context"

	"github.com/clubhub-api/internal/domain"
)

// MemberPrincipals adapts the members table to the credential-store view
// the auth flow consumes.
type MemberPrincipals struct {
	repo *MemberRepo
}

func NewMemberPrincipals(repo *MemberRepo) *MemberPrincipals {
	return &MemberPrincipals{repo: repo}
}

func (s *MemberPrincipals) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	m, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return m.Principal(), nil
}

func (s *MemberPrincipals) Get(ctx context.Context, id string) (*domain.Principal, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.Principal(), nil
}

func (s *MemberPrincipals) UpdateOTP(ctx context.Context, id string, code *string, expiresAt *int64) error {
	return s.repo.UpdateOTP(ctx, id, code, expiresAt)
}

// AdminPrincipals adapts the admins table to the same credential-store view.
type AdminPrincipals struct {
	repo *AdminRepo
}

func NewAdminPrincipals(repo *AdminRepo) *AdminPrincipals {
	return &AdminPrincipals{repo: repo}
}

func (s *AdminPrincipals) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return a.Principal(), nil
}

func (s *AdminPrincipals) Get(ctx context.Context, id string) (*domain.Principal, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return a.Principal(), nil
}

func (s *AdminPrincipals) UpdateOTP(ctx context.Context, id string, code *string, expiresAt *int64) error {
	return s.repo.UpdateOTP(ctx, id, code, expiresAt)
}
