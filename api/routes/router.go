package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rakshamitra/relief-backend/api/controllers"
	"github.com/rakshamitra/relief-backend/api/middleware"
	"github.com/rakshamitra/relief-backend/internal/alerts"
	"github.com/rakshamitra/relief-backend/internal/notify"
	"github.com/rakshamitra/relief-backend/internal/requests"
	"github.com/rakshamitra/relief-backend/internal/staff"
	"github.com/rakshamitra/relief-backend/internal/volunteers"
	"github.com/rakshamitra/relief-backend/pkg/config"
	"github.com/rakshamitra/relief-backend/pkg/db"
	"github.com/rakshamitra/relief-backend/pkg/logger"
	"github.com/rakshamitra/relief-backend/pkg/redis"
)

// Dependencies collects everything the router wires into handlers. Optional
// entries may be nil; their endpoints then answer with a typed error or are
// skipped outright.
type Dependencies struct {
	DB       db.Pinger
	Redis    *redis.Client
	Registry *prometheus.Registry

	Requests   requests.Service
	Alerts     alerts.Service
	Volunteers volunteers.Service
	Staff      staff.Service
	Gateway    notify.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginContactLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupContactLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Post("/requests", controllers.PublicCreateRequest(deps.Requests, logg))
		r.Get("/requests", controllers.PublicListRequests(deps.Requests, logg))
		r.Post("/volunteers", controllers.RegisterVolunteer(deps.Volunteers, logg))
		r.Get("/volunteers", controllers.ListVolunteers(deps.Volunteers, logg))
	})

	r.Route("/api/auth/staff", func(r chi.Router) {
		signup := controllers.StaffSignup(deps.Staff, logg)
		login := controllers.StaffLogin(deps.Staff, logg)
		if deps.Redis != nil {
			r.With(middleware.AuthRateLimit(signupPolicy, deps.Redis, logg)).Post("/signup", signup)
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", login)
		} else {
			r.Post("/signup", signup)
			r.Post("/login", login)
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", controllers.ListRequests(deps.Requests, logg))
			r.Post("/{requestId}/accept", controllers.AcceptRequest(deps.Requests, logg))
			r.Post("/{requestId}/resolve", controllers.ResolveRequest(deps.Requests, logg))
			r.Post("/{requestId}/escalate", controllers.EscalateRequest(deps.Requests, logg))
		})

		r.Post("/alerts/broadcast", controllers.BroadcastAlert(deps.Alerts, logg))
		r.Post("/whatsapp", controllers.WhatsAppSend(deps.Gateway, logg))
	})

	return r
}
