package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/studyagent/server/internal/application/identity"
	"github.com/studyagent/server/internal/application/progress"
	"github.com/studyagent/server/internal/application/sweep"
	"github.com/studyagent/server/internal/config"
	"github.com/studyagent/server/internal/domain"
	"github.com/studyagent/server/internal/infrastructure/dynamo"
	"github.com/studyagent/server/internal/infrastructure/mailer"
	"github.com/studyagent/server/internal/transport/http/handler"
	appmiddleware "github.com/studyagent/server/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Accounts *dynamo.AccountRepo
	Pending  *dynamo.PendingRepo
	Catalog  *dynamo.CatalogRepo
	Mailer   mailer.Mailer
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	identitySvc := identity.NewService(identity.ServiceDeps{
		Accounts:    deps.Accounts,
		Pending:     deps.Pending,
		Mailer:      deps.Mailer,
		PendingTTL:  cfg.PendingSignupTTL,
		MailTimeout: cfg.MailTimeout,
	})
	grammarSvc := progress.NewService(domain.PracticeGrammar, deps.Accounts, deps.Catalog)
	writingSvc := progress.NewService(domain.PracticeWriting, deps.Accounts, deps.Catalog)
	sweepSvc := sweep.NewService(deps.Accounts)

	healthH := handler.NewHealthHandler()
	identityH := handler.NewIdentityHandler(identitySvc)
	grammarH := handler.NewProgressHandler(grammarSvc)
	writingH := handler.NewProgressHandler(writingSvc)
	sweepH := handler.NewSweepHandler(sweepSvc)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/auth/signup", identityH.Signup)
		r.With(sensitiveRL.Limit).Post("/auth/verify", identityH.Verify)
		r.With(sensitiveRL.Limit).Post("/auth/login", identityH.Login)
		r.With(sensitiveRL.Limit).Post("/auth/resend-otp", identityH.ResendOTP)

		r.Get("/accounts/{email}", identityH.Get)
		r.Patch("/accounts/{email}", identityH.Update)

		r.Route("/grammar", func(r chi.Router) {
			r.Post("/pick-unit", grammarH.PickUnit)
			r.Post("/pick-item", grammarH.PickItem)
			r.Patch("/updates", grammarH.Updates)
			r.Post("/complete", grammarH.Complete)
		})

		r.Route("/writing", func(r chi.Router) {
			r.Get("/demo", writingH.Demo)
			r.Post("/pick-unit", writingH.PickUnit)
			r.Post("/pick-item", writingH.PickItem)
			r.Patch("/updates", writingH.Updates)
			r.Post("/complete", writingH.Complete)
		})

		r.Post("/progress/reset", sweepH.Reset)
	})

	return r
}
