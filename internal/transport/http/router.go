package http

import (
	"context"
	"net/http"

	"github.com/clubhub-api/internal/application/auth"
	"github.com/clubhub-api/internal/application/event"
	"github.com/clubhub-api/internal/application/feedback"
	"github.com/clubhub-api/internal/application/member"
	"github.com/clubhub-api/internal/application/notification"
	"github.com/clubhub-api/internal/config"
	"github.com/clubhub-api/internal/domain"
	"github.com/clubhub-api/internal/infrastructure/dynamo"
	"github.com/clubhub-api/internal/transport/http/handler"
	appmiddleware "github.com/clubhub-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{appmiddleware.NewTokenHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to the public auth endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(
		dynamo.NewMemberPrincipals(deps.MemberRepo),
		dynamo.NewAdminPrincipals(deps.AdminRepo),
		deps.Mailer,
		deps.JWTProvider,
		cfg.OTPWindow,
	)
	memberSvc := member.NewService(deps.MemberRepo, deps.EventRepo, deps.MembershipRepo, deps.PicStore)
	eventSvc := event.NewService(deps.EventRepo, deps.MembershipRepo, deps.MemberRepo, deps.PicStore)
	feedbackSvc := feedback.NewService(deps.FeedbackRepo, deps.Mailer)
	notifSvc := notification.NewService(deps.NotificationRepo, deps.MemberRepo, deps.Mailer, deps.SMSSender)

	healthH := handler.NewHealthHandler()
	memberAuthH := handler.NewAuthHandler(authSvc, domain.KindMember, "User not found.",
		func(ctx context.Context, id string) (interface{}, error) {
			return deps.MemberRepo.Get(ctx, id)
		})
	adminAuthH := handler.NewAuthHandler(authSvc, domain.KindAdmin, "Admin not found.",
		func(ctx context.Context, id string) (interface{}, error) {
			return deps.AdminRepo.Get(ctx, id)
		})
	memberH := handler.NewMemberHandler(memberSvc)
	adminH := handler.NewAdminHandler(deps.AdminRepo)
	eventH := handler.NewEventHandler(eventSvc)
	feedbackH := handler.NewFeedbackHandler(feedbackSvc)
	notifH := handler.NewNotificationHandler(notifSvc)

	requireStudent := appmiddleware.RequireAuth(authSvc, domain.RoleStudent)
	requireAdmin := appmiddleware.RequireAuth(authSvc, domain.RoleAdmin)

	r.Get("/health-check", healthH.Ping)

	r.Route("/student", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/register", memberH.Register)
		r.With(sensitiveRL.Limit).Post("/login", memberAuthH.Login)
		r.With(sensitiveRL.Limit).Post("/verify", memberAuthH.Verify)
		r.With(sensitiveRL.Limit).Post("/resend", memberAuthH.Resend)

		r.Get("/", memberH.List)
		r.Get("/position/{position}", memberH.ListByPosition)

		r.With(requireStudent).Get("/member-only", memberH.MemberOnly)
		r.With(requireStudent).Patch("/{id}", memberH.Update)
		r.With(requireStudent).Delete("/{id}", memberH.Delete)
		r.With(requireStudent).Post("/join-event/{memberId}/{eventId}", memberH.JoinEvent)

		r.Get("/{id}", memberH.Get)
	})

	r.Route("/admin", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/login", adminAuthH.Login)
		r.With(sensitiveRL.Limit).Post("/verify", adminAuthH.Verify)
		r.With(sensitiveRL.Limit).Post("/resend", adminAuthH.Resend)
		r.Post("/refresh-token", adminAuthH.RefreshToken)

		r.With(requireAdmin).Get("/admin-only", adminH.AdminOnly)
		r.With(requireAdmin).Patch("/{id}", memberH.UpdatePlacement)
		r.With(requireAdmin).Delete("/{id}", memberH.Delete)
		r.With(requireAdmin).Get("/{id}", adminH.Get)
	})

	r.Route("/event", func(r chi.Router) {
		r.With(requireAdmin).Post("/add-event", eventH.Create)
		r.Get("/", eventH.List)
		r.Get("/category/{category}", eventH.ListByCategory)
		r.Get("/search/{letters}", eventH.Search)
		r.Get("/view-member-participation/{memberId}", eventH.MemberParticipation)
		r.With(requireAdmin).Get("/joined-members/{eventId}", eventH.JoinedMembers)
		r.With(requireAdmin).Patch("/{id}", eventH.Update)
		r.With(requireAdmin).Delete("/{id}", eventH.Delete)
		r.Get("/{id}", eventH.Get)
	})

	r.Route("/feedback", func(r chi.Router) {
		r.With(requireStudent).Post("/add", feedbackH.Add)
		r.Get("/", feedbackH.List)
	})

	r.Route("/notification", func(r chi.Router) {
		r.With(requireAdmin).Post("/add", notifH.Add)
		r.Get("/", notifH.List)
		r.Get("/{id}", notifH.Get)
	})

	return r
}
