package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clubhub-api/internal/domain"
	"github.com/clubhub-api/internal/infrastructure/smtp"
	"github.com/clubhub-api/internal/infrastructure/sns"
	"github.com/clubhub-api/internal/pkg/id"
)

var ErrNotificationNotFound = fmt.Errorf("notification not found: %w", domain.ErrNotFound)

type NotificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	Scan(ctx context.Context) ([]domain.Notification, error)
}

type MemberLister interface {
	Scan(ctx context.Context) ([]domain.Member, error)
}

type AddNotificationRequest struct {
	Title        string `json:"title" validate:"required"`
	Notification string `json:"notification" validate:"required"`
}

type Service interface {
	Add(ctx context.Context, req AddNotificationRequest) (*domain.Notification, error)
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	List(ctx context.Context) ([]domain.Notification, error)
}

type service struct {
	notifications NotificationStore
	members       MemberLister
	mailer        smtp.Mailer
	smsSender     sns.SMSSender
}

// NewService builds the notification service. smsSender may be nil; SMS
// broadcast is then skipped.
func NewService(notifications NotificationStore, members MemberLister, mailer smtp.Mailer, smsSender sns.SMSSender) Service {
	return &service{notifications: notifications, members: members, mailer: mailer, smsSender: smsSender}
}

// Add stores the notification and broadcasts it to every member, email
// always and SMS where a mobile number is on record. The broadcast is
// fire-and-forget; the response never waits on it.
func (s *service) Add(ctx context.Context, req AddNotificationRequest) (*domain.Notification, error) {
	n := &domain.Notification{
		NotificationID: id.New(),
		Title:          req.Title,
		Notification:   req.Notification,
		Date:           time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.notifications.Put(ctx, n); err != nil {
		return nil, err
	}

	members, err := s.members.Scan(ctx)
	if err != nil {
		slog.Warn("failed to load members for notification broadcast", "notification_id", n.NotificationID, "err", err)
		return n, nil
	}

	go s.broadcast(members, n)

	return n, nil
}

func (s *service) broadcast(members []domain.Member, n *domain.Notification) {
	subject := "New Notification: " + n.Title
	for _, m := range members {
		if err := s.mailer.SendEmail(m.Email, subject, n.Notification); err != nil {
			slog.Warn("failed to send notification email", "email", m.Email, "err", err)
		}
		if s.smsSender != nil && m.Mobile != "" {
			if err := s.smsSender.SendSMS(context.Background(), m.Mobile, subject+": "+n.Notification); err != nil {
				slog.Warn("failed to send notification SMS", "mobile", m.Mobile, "err", err)
			}
		}
	}
}

func (s *service) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	n, err := s.notifications.Get(ctx, notificationID)
	if err != nil {
		return nil, ErrNotificationNotFound
	}
	return n, nil
}

func (s *service) List(ctx context.Context) ([]domain.Notification, error) {
	return s.notifications.Scan(ctx)
}
