package api

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"church_roster/internal/api/handler"
	"church_roster/internal/api/middleware"
	"church_roster/internal/app/service"
	"church_roster/internal/common/security"
	"church_roster/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterDeps struct {
	AuthService   *service.AuthService
	MemberService *service.MemberService
	Tokens        *security.SessionTokens
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	DB            Pinger
	Site          fs.FS

	// PublicRoster exposes /public/* without a session.
	PublicRoster bool
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Session cookie -> verified token -> live session in context.
	r.Use(deps.Tokens.Verifier())
	r.Use(middleware.LoadSession(deps.AuthService))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.PingContext(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Write([]byte("OK"))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	if deps.Site != nil {
		r.Get("/", handler.LandingPage(deps.Site))
	}

	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Tokens)
	r.Route("/api", authHandler.RegisterRoutes)

	memberHandler := handler.NewMemberHandler(deps.MemberService)
	r.Group(memberHandler.RegisterRoutes)

	if deps.PublicRoster {
		publicHandler := handler.NewPublicHandler(deps.MemberService)
		r.Route("/public", publicHandler.RegisterRoutes)
	}

	return r
}
