package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"embed"

	redisadapter "github.com/lumiclabs/EventHub/internal/adapters/redis"
	"github.com/lumiclabs/EventHub/internal/domain"
	"github.com/lumiclabs/EventHub/internal/observability"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("Mon, 02 Jan 2006 15:04")
	},
	"day": func(t time.Time) string {
		return t.Format("2006-01-02")
	},
	"clock": func(t time.Time) string {
		return t.Format("15:04")
	},
	"money": func(amount float64) string {
		return fmt.Sprintf("%.2f", amount)
	},
}

// newTemplateCache parses every page template against the shared base layout.
func newTemplateCache() (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	pages, err := fs.Glob(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		if page == "templates/base.tmpl" {
			continue
		}
		ts, err := template.New("base.tmpl").Funcs(templateFuncs).ParseFS(templateFS, "templates/base.tmpl", page)
		if err != nil {
			return nil, err
		}
		cache[page[len("templates/"):]] = ts
	}
	return cache, nil
}

// templateData is what every page receives. Viewer is nil for anonymous
// requests.
type templateData struct {
	Viewer     *redisadapter.Session
	Flashes    []redisadapter.Flash
	Form       *Form
	Categories []string
	Data       interface{}
}

func (h *Handlers) newTemplateData(r *http.Request) templateData {
	td := templateData{Categories: domain.Categories}
	if state := sessionFrom(r); state != nil {
		td.Viewer = state.sess
		if flashes := state.sess.PopFlashes(); len(flashes) > 0 {
			td.Flashes = flashes
			// persist the cleared flash list so notices show once
			if err := h.sessions.Save(r.Context(), state.token, state.sess); err != nil {
				h.requestLogger(r).WithError(err).Warn("failed to clear flashes")
			}
		}
	}
	return td
}

// render writes a page, buffering first so a template fault becomes a clean
// 500 instead of a half-written body.
func (h *Handlers) render(w http.ResponseWriter, status int, page string, td templateData) {
	ts, ok := h.templates[page]
	if !ok {
		h.logger.WithField("page", page).Error("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := ts.ExecuteTemplate(&buf, "base.tmpl", td); err != nil {
		h.logger.WithError(err).WithField("page", page).Error("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// requestLogger returns the per-request entry stashed by LoggerMiddleware,
// carrying the request_id, or the bare handler logger outside a request.
func (h *Handlers) requestLogger(r *http.Request) observability.Logger {
	if entry, ok := r.Context().Value(loggerContextKey).(observability.Logger); ok {
		return entry
	}
	return h.logger
}

func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.requestLogger(r).WithError(err).Error("internal error")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
