package http

import (
	"github.com/clubhub-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/clubhub-api/internal/infrastructure/jwt"
	s3infra "github.com/clubhub-api/internal/infrastructure/s3"
	"github.com/clubhub-api/internal/infrastructure/smtp"
	"github.com/clubhub-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
// SMSSender may be nil; SMS broadcast is then disabled.
type Deps struct {
	MemberRepo       *dynamo.MemberRepo
	AdminRepo        *dynamo.AdminRepo
	EventRepo        *dynamo.EventRepo
	MembershipRepo   *dynamo.EventMembershipRepo
	FeedbackRepo     *dynamo.FeedbackRepo
	NotificationRepo *dynamo.NotificationRepo
	PicStore         *s3infra.PicStore
	Mailer           smtp.Mailer
	SMSSender        sns.SMSSender
	JWTProvider      *jwtinfra.Provider
}
