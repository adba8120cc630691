package member

import (
	"context"
	"errors"
	"testing"

	"github.com/clubhub-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockMemberStore struct{ mock.Mock }

func (m *mockMemberStore) Put(ctx context.Context, mem *domain.Member) error {
	return m.Called(ctx, mem).Error(0)
}
func (m *mockMemberStore) Get(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if mem, _ := args.Get(0).(*domain.Member); mem != nil {
		return mem, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMemberStore) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	args := m.Called(ctx, email)
	if mem, _ := args.Get(0).(*domain.Member); mem != nil {
		return mem, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMemberStore) Scan(ctx context.Context) ([]domain.Member, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *mockMemberStore) ListByPosition(ctx context.Context, position string) ([]domain.Member, error) {
	args := m.Called(ctx, position)
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *mockMemberStore) Update(ctx context.Context, memberID string, updates map[string]interface{}) error {
	return m.Called(ctx, memberID, updates).Error(0)
}
func (m *mockMemberStore) Delete(ctx context.Context, memberID string) error {
	return m.Called(ctx, memberID).Error(0)
}
func (m *mockMemberStore) IncrementJoinedEvents(ctx context.Context, memberID string) error {
	return m.Called(ctx, memberID).Error(0)
}

type mockEventStore struct{ mock.Mock }

func (m *mockEventStore) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	args := m.Called(ctx, eventID)
	if e, _ := args.Get(0).(*domain.Event); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMembershipStore struct{ mock.Mock }

func (m *mockMembershipStore) Get(ctx context.Context, eventID, memberID string) (*domain.EventMembership, error) {
	args := m.Called(ctx, eventID, memberID)
	if em, _ := args.Get(0).(*domain.EventMembership); em != nil {
		return em, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMembershipStore) Put(ctx context.Context, em *domain.EventMembership) error {
	return m.Called(ctx, em).Error(0)
}

// passthroughPics returns the pic unchanged, like the real resolver does
// for plain URLs.
type passthroughPics struct{}

func (passthroughPics) Resolve(_ context.Context, _ string, pic string) (string, error) {
	return pic, nil
}

// --- helpers ---

func baseReq() domain.RegisterMemberRequest {
	return domain.RegisterMemberRequest{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: "password123",
		Mobile:   "91234567",
		Course:   "Computer Science",
		Year:     "2",
		About:    "Hello",
	}
}

// --- Register tests ---

func TestRegister_DuplicateEmail_Conflict(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.Member{}, nil)

	svc := NewService(ms, nil, nil, passthroughPics{})
	_, err := svc.Register(context.Background(), baseReq())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	ms.AssertExpectations(t)
}

func TestRegister_AppliesDefaults(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ms.On("Put", mock.Anything, mock.AnythingOfType("*domain.Member")).Return(nil)

	svc := NewService(ms, nil, nil, passthroughPics{})
	m, err := svc.Register(context.Background(), baseReq())

	require.NoError(t, err)
	assert.NotEmpty(t, m.MemberID)
	assert.Equal(t, domain.RoleStudent, m.Role)
	assert.Equal(t, domain.DefaultPosition, m.Position)
	assert.Equal(t, domain.DefaultTitle, m.Title)
	assert.Equal(t, domain.DefaultPic, m.Pic)
	assert.Equal(t, 0, m.JoinedEventsCount)
	ms.AssertExpectations(t)
}

func TestRegister_HashesPassword(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ms.On("Put", mock.Anything, mock.AnythingOfType("*domain.Member")).Return(nil)

	svc := NewService(ms, nil, nil, passthroughPics{})
	m, err := svc.Register(context.Background(), baseReq())

	require.NoError(t, err)
	assert.NotEqual(t, "password123", m.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte("password123")))
}

func TestRegister_KeepsExplicitRoleAndPosition(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	ms.On("Put", mock.Anything, mock.AnythingOfType("*domain.Member")).Return(nil)

	req := baseReq()
	req.Role = "Committee"
	req.Position = "President"
	svc := NewService(ms, nil, nil, passthroughPics{})
	m, err := svc.Register(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "Committee", m.Role)
	assert.Equal(t, "President", m.Position)
}

// --- Update tests ---

func ptr[T any](v T) *T { return &v }

func TestUpdate_EmptyRequest_NoChanges(t *testing.T) {
	svc := NewService(&mockMemberStore{}, nil, nil, passthroughPics{})
	changed, err := svc.Update(context.Background(), "m1", domain.UpdateMemberRequest{})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUpdate_UnknownMember_NotFound(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := NewService(ms, nil, nil, passthroughPics{})
	_, err := svc.Update(context.Background(), "ghost", domain.UpdateMemberRequest{Name: ptr("Bob")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdate_HashesNewPassword(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("Get", mock.Anything, "m1").Return(&domain.Member{MemberID: "m1"}, nil)
	var captured map[string]interface{}
	ms.On("Update", mock.Anything, "m1", mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(2).(map[string]interface{})
	}).Return(nil)

	svc := NewService(ms, nil, nil, passthroughPics{})
	changed, err := svc.Update(context.Background(), "m1", domain.UpdateMemberRequest{Password: ptr("newpassword")})

	require.NoError(t, err)
	assert.True(t, changed)
	hash, ok := captured["password_hash"].(string)
	require.True(t, ok)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword")))
	ms.AssertExpectations(t)
}

func TestUpdatePlacement_PositionAndTitle(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("Get", mock.Anything, "m1").Return(&domain.Member{MemberID: "m1"}, nil)
	ms.On("Update", mock.Anything, "m1", map[string]interface{}{
		"position": "Exco",
		"title":    "Treasurer",
	}).Return(nil)

	svc := NewService(ms, nil, nil, passthroughPics{})
	changed, err := svc.UpdatePlacement(context.Background(), "m1", ptr("Exco"), ptr("Treasurer"))

	require.NoError(t, err)
	assert.True(t, changed)
	ms.AssertExpectations(t)
}

// --- JoinEvent tests ---

func TestJoinEvent_UnknownEvent(t *testing.T) {
	es := &mockEventStore{}
	es.On("Get", mock.Anything, "ev1").Return(nil, domain.ErrNotFound)

	svc := NewService(&mockMemberStore{}, es, &mockMembershipStore{}, passthroughPics{})
	err := svc.JoinEvent(context.Background(), "m1", "ev1", "2026-01-01")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEventNotFound))
}

func TestJoinEvent_AlreadyJoined(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("Get", mock.Anything, "m1").Return(&domain.Member{MemberID: "m1"}, nil)
	es := &mockEventStore{}
	es.On("Get", mock.Anything, "ev1").Return(&domain.Event{EventID: "ev1"}, nil)
	ems := &mockMembershipStore{}
	ems.On("Get", mock.Anything, "ev1", "m1").Return(&domain.EventMembership{}, nil)

	svc := NewService(ms, es, ems, passthroughPics{})
	err := svc.JoinEvent(context.Background(), "m1", "ev1", "2026-01-01")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyJoined))
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestJoinEvent_HappyPath_BumpsCounter(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("Get", mock.Anything, "m1").Return(&domain.Member{MemberID: "m1"}, nil)
	ms.On("IncrementJoinedEvents", mock.Anything, "m1").Return(nil)
	es := &mockEventStore{}
	es.On("Get", mock.Anything, "ev1").Return(&domain.Event{EventID: "ev1"}, nil)
	ems := &mockMembershipStore{}
	ems.On("Get", mock.Anything, "ev1", "m1").Return(nil, domain.ErrNotFound)
	ems.On("Put", mock.Anything, mock.AnythingOfType("*domain.EventMembership")).Return(nil)

	svc := NewService(ms, es, ems, passthroughPics{})
	err := svc.JoinEvent(context.Background(), "m1", "ev1", "2026-01-01")

	require.NoError(t, err)
	ms.AssertExpectations(t)
	ems.AssertExpectations(t)
}

// --- lookup tests ---

func TestGet_Unknown_NotFound(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := NewService(ms, nil, nil, passthroughPics{})
	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListByPosition_Empty_NotFound(t *testing.T) {
	ms := &mockMemberStore{}
	ms.On("ListByPosition", mock.Anything, "Exco").Return([]domain.Member{}, nil)

	svc := NewService(ms, nil, nil, passthroughPics{})
	_, err := svc.ListByPosition(context.Background(), "Exco")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
