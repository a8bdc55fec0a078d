package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"solar-agent/logger"
	"solar-agent/service"
)

type RouterConfig struct {
	Economics   *service.EconomicsService
	Calls       *service.CallController
	Clients     *service.ClientService
	Auth        *service.AuthService
	Assistants  *service.AssistantService
	RateLimiter *RateLimiter
	Logger      logger.Logger
	VoiceAPIKey string
	RequireAuth bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	economics := NewEconomicsHandler(cfg.Economics, cfg.Logger)
	calls := NewCallHandler(cfg.Calls, cfg.Clients, cfg.VoiceAPIKey, cfg.Logger)
	clients := NewClientHandler(cfg.Clients, cfg.Logger)
	auth := NewAuthHandler(cfg.Auth, cfg.Logger)
	assistants := NewAssistantHandler(cfg.Assistants, cfg.VoiceAPIKey, cfg.Logger)
	limit := RateLimitMiddleware(cfg.RateLimiter)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Use(limit)
		r.Post("/otp", auth.RequestCode)
		r.Post("/verify", auth.Verify)
	})

	r.Group(func(r chi.Router) {
		if cfg.RequireAuth {
			r.Use(RequireSession(cfg.Auth))
		}

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", clients.List)
			r.Post("/", clients.Register)
		})

		r.Route("/economics", func(r chi.Router) {
			r.Get("/", economics.Snapshot)
			r.Post("/calculate", economics.Calculate)
			r.Get("/parameters", economics.GetParameters)
			r.Put("/parameters", economics.UpdateParameters)
		})

		r.Route("/calls", func(r chi.Router) {
			r.Get("/session", calls.Session)
			r.Get("/log", calls.Log)
			r.Get("/roster", calls.LastRoster)
			r.Get("/{id}/status", calls.Status)

			r.Group(func(r chi.Router) {
				r.Use(limit)
				r.Post("/start", calls.StartCall)
				r.Post("/end", calls.EndCall)
				r.Post("/follow-up", calls.FollowUp)
				r.Post("/roster", calls.StartRoster)
			})
		})

		r.With(limit).Post("/voice/assistants", assistants.Create)
	})

	return r
}
