// Package http maps the server-rendered web surface onto the stores:
// session-aware middleware, form validation, and one handler per page.
package http

import (
	"html/template"
	"net/http"

	mongoadapter "github.com/lumiclabs/EventHub/internal/adapters/mongo"
	"github.com/lumiclabs/EventHub/internal/adapters/postgres"
	redisadapter "github.com/lumiclabs/EventHub/internal/adapters/redis"
	"github.com/lumiclabs/EventHub/internal/config"
	"github.com/lumiclabs/EventHub/internal/domain"
	"github.com/lumiclabs/EventHub/internal/observability"
)

type Handlers struct {
	cfg       *config.Config
	repo      *postgres.Repository
	sessions  *redisadapter.SessionStore
	audit     *mongoadapter.AuditLogger
	logger    observability.Logger
	templates map[string]*template.Template
}

// NewHandlers wires the page handlers. audit may be nil when no Mongo
// deployment is configured.
func NewHandlers(cfg *config.Config, repo *postgres.Repository, sessions *redisadapter.SessionStore, audit *mongoadapter.AuditLogger, logger observability.Logger) (*Handlers, error) {
	templates, err := newTemplateCache()
	if err != nil {
		return nil, err
	}
	return &Handlers{
		cfg:       cfg,
		repo:      repo,
		sessions:  sessions,
		audit:     audit,
		logger:    logger,
		templates: templates,
	}, nil
}

// flash queues a notice on the viewer's session for the next page load.
// Anonymous requests have nowhere to carry a flash; those flows render their
// message inline instead.
func (h *Handlers) flash(r *http.Request, level, message string) {
	state := sessionFrom(r)
	if state == nil {
		return
	}
	state.sess.AddFlash(level, message)
	if err := h.sessions.Save(r.Context(), state.token, state.sess); err != nil {
		h.requestLogger(r).WithError(err).Warn("failed to save flash")
	}
}

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	events, err := h.repo.SearchEvents(r.Context(), postgres.EventFilter{})
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if len(events) > 6 {
		events = events[:6]
	}

	td := h.newTemplateData(r)
	td.Data = events
	h.render(w, http.StatusOK, "index.tmpl", td)
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	state := sessionFrom(r)

	events, err := h.repo.ListEventsByOrganizer(r.Context(), state.sess.UserID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	bookings, err := h.repo.ListBookingsByUser(r.Context(), state.sess.UserID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	td := h.newTemplateData(r)
	td.Data = struct {
		Events   []domain.Event
		Bookings []domain.Booking
	}{events, bookings}
	h.render(w, http.StatusOK, "dashboard.tmpl", td)
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
