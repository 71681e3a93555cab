package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumiclabs/EventHub/internal/observability"
	"github.com/stretchr/testify/assert"
)

func TestRequestLogger(t *testing.T) {
	base := observability.NewLogger()
	h := &Handlers{logger: base}

	// outside a request the bare handler logger is used
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Same(t, base, h.requestLogger(r))

	// inside a request the middleware-stashed entry wins
	entry := base.WithField("request_id", "abc123")
	r = r.WithContext(context.WithValue(r.Context(), loggerContextKey, entry))
	assert.Same(t, entry, h.requestLogger(r))
}

func TestRequireAuth_RedirectCarriesNext(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	RequireAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run for anonymous requests")
	})).ServeHTTP(rr, r)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?next=%2Fdashboard", rr.Header().Get("Location"))
}
