package feedback

import (
	"context"
	"log/slog"
	"time"

	"github.com/clubhub-api/internal/domain"
	"github.com/clubhub-api/internal/infrastructure/smtp"
	"github.com/clubhub-api/internal/pkg/id"
)

type FeedbackStore interface {
	Put(ctx context.Context, f *domain.Feedback) error
	Scan(ctx context.Context) ([]domain.Feedback, error)
}

type AddFeedbackRequest struct {
	Topic    string `json:"topic" validate:"required"`
	Feedback string `json:"feedback" validate:"required"`
}

type Service interface {
	Add(ctx context.Context, req AddFeedbackRequest, senderEmail string) (*domain.Feedback, error)
	List(ctx context.Context) ([]domain.Feedback, error)
}

type service struct {
	feedbacks FeedbackStore
	mailer    smtp.Mailer
}

func NewService(feedbacks FeedbackStore, mailer smtp.Mailer) Service {
	return &service{feedbacks: feedbacks, mailer: mailer}
}

// Add stores the feedback and thanks the sender by email, best effort.
func (s *service) Add(ctx context.Context, req AddFeedbackRequest, senderEmail string) (*domain.Feedback, error) {
	f := &domain.Feedback{
		FeedbackID: id.New(),
		Topic:      req.Topic,
		Feedback:   req.Feedback,
		Date:       time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.feedbacks.Put(ctx, f); err != nil {
		return nil, err
	}

	go func(to, topic string) {
		body := "Thank you for your feedback on \"" + topic + "\". We appreciate you taking the time to help us improve."
		if err := s.mailer.SendEmail(to, "Thanks for your feedback", body); err != nil {
			slog.Warn("failed to send feedback acknowledgement", "email", to, "err", err)
		}
	}(senderEmail, f.Topic)

	return f, nil
}

func (s *service) List(ctx context.Context) ([]domain.Feedback, error) {
	return s.feedbacks.Scan(ctx)
}
