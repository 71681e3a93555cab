package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lumiclabs/EventHub/internal/observability"
	"github.com/lumiclabs/EventHub/internal/rateLimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redisadapter "github.com/lumiclabs/EventHub/internal/adapters/redis"
)

func SetupRouter(h *Handlers, logger observability.Logger, rl *rateLimit.RateLimiter, sessions *redisadapter.SessionStore, uploadDir string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(SessionMiddleware(sessions))

	// public pages
	r.Get("/", h.Home)
	r.Get("/events", h.EventList)
	r.Get("/event/{id}", h.EventDetail)

	// auth forms, throttled against brute force
	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(rl, 20, time.Minute))
		r.Get("/register", h.RegisterPage)
		r.Post("/register", h.Register)
		r.Get("/login", h.LoginPage)
		r.Post("/login", h.Login)
	})

	// any signed-in user
	r.Group(func(r chi.Router) {
		r.Use(RequireAuth)
		r.Get("/logout", h.Logout)
		r.Get("/dashboard", h.Dashboard)
		r.Get("/profile", h.ProfilePage)
		r.Post("/profile", h.UpdateProfile)
		r.Post("/event/{id}/book", h.BookEvent)
		r.Post("/event/{id}/review", h.ReviewCreate)
	})

	// organizers and admins
	r.Group(func(r chi.Router) {
		r.Use(h.RequireOrganizer)
		r.Get("/event/create", h.EventCreatePage)
		r.Post("/event/create", h.EventCreate)
		r.Get("/event/{id}/edit", h.EventEditPage)
		r.Post("/event/{id}/edit", h.EventEdit)
		r.Post("/event/{id}/delete", h.EventDelete)
	})

	// admin only
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAdmin)
		r.Get("/admin", h.AdminDashboard)
	})

	// uploaded event images
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
