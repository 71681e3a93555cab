package integration

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lumiclabs/EventHub/internal/adapters/postgres"
	redisadapter "github.com/lumiclabs/EventHub/internal/adapters/redis"
	"github.com/lumiclabs/EventHub/internal/config"
	eventhubhttp "github.com/lumiclabs/EventHub/internal/http"
	"github.com/lumiclabs/EventHub/internal/observability"
	"github.com/lumiclabs/EventHub/internal/rateLimit"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startApp wires the full stack against throwaway Postgres and Redis
// containers and serves it over httptest.
func startApp(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_DB": "eventhub"},
			ExposedPorts: []string{"5432/tcp"},
			WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { pgContainer.Terminate(ctx) })

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { redisContainer.Terminate(ctx) })

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)
	redisHost, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	cfg := &config.Config{
		PostgresDSN:    fmt.Sprintf("postgres://postgres:postgres@%s:%s/eventhub?sslmode=disable", pgHost, pgPort.Port()),
		RedisAddr:      fmt.Sprintf("%s:%s", redisHost, redisPort.Port()),
		SessionSecret:  "integration-test-secret",
		SessionTTL:     time.Hour,
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 5 << 20,
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := postgres.NewRepository(pool)
	require.NoError(t, repo.Migrate(ctx))

	redisClient := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	t.Cleanup(func() { redisClient.Close() })

	logger := observability.NewLogger()
	sessions := redisadapter.NewSessionStore(redisClient, cfg.SessionSecret, cfg.SessionTTL)
	limiter := rateLimit.NewRateLimiter(redisadapter.NewCache(redisClient))

	handlers, err := eventhubhttp.NewHandlers(cfg, repo, sessions, nil, logger)
	require.NoError(t, err)

	srv := httptest.NewServer(eventhubhttp.SetupRouter(handlers, logger, limiter, sessions, cfg.UploadDir))
	t.Cleanup(srv.Close)
	return srv
}

// newBrowser returns a client with its own cookie jar, i.e. its own session.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postForm(t *testing.T, c *http.Client, raw string, values url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(raw, values)
	require.NoError(t, err)
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func register(t *testing.T, c *http.Client, base, email, role string) {
	t.Helper()
	resp := postForm(t, c, base+"/register", url.Values{
		"name":             {"Integration User"},
		"email":            {email},
		"phone":            {"0123456789"},
		"role":             {role},
		"password":         {"secret123"},
		"confirm_password": {"secret123"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Account created successfully! Please login.")
}

func login(t *testing.T, c *http.Client, base, email string) {
	t.Helper()
	resp := postForm(t, c, base+"/login", url.Values{
		"email":    {email},
		"password": {"secret123"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Request.URL.Path)
	resp.Body.Close()
}

// createEvent drives the multipart organizer form and returns the detail page
// URL of the created event.
func createEvent(t *testing.T, c *http.Client, base, title string, capacity int) string {
	t.Helper()

	var buf strings.Builder
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":       title,
		"description": "An integration test event",
		"date":        time.Now().UTC().Add(72 * time.Hour).Format("2006-01-02"),
		"time":        "19:30",
		"location":    "Test Hall",
		"price":       "12.50",
		"capacity":    fmt.Sprintf("%d", capacity),
		"category":    "concert",
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, base+"/event/create", strings.NewReader(buf.String()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.Do(req)
	require.NoError(t, err)
	assert.Equal(t, "/events", resp.Request.URL.Path)
	resp.Body.Close()

	// the freshly created event is listed on the catalog page
	listResp, err := c.Get(base + "/events")
	require.NoError(t, err)
	page := body(t, listResp)
	require.Contains(t, page, title)

	anchor := `">` + title + `</a>`
	j := strings.Index(page, anchor)
	require.GreaterOrEqual(t, j, 0)
	marker := `href="/event/`
	k := strings.LastIndex(page[:j], marker)
	require.GreaterOrEqual(t, k, 0)
	return base + "/event/" + page[k+len(marker):j]
}

func TestEndToEnd_RegisterLoginBook(t *testing.T) {
	srv := startApp(t)
	base := srv.URL

	organizer := newBrowser(t)
	register(t, organizer, base, "organizer@example.com", "organizer")
	login(t, organizer, base, "organizer@example.com")
	eventURL := createEvent(t, organizer, base, "Integration Jazz Night", 2)

	// organizers cannot buy their own seats
	resp := postForm(t, organizer, eventURL+"/book", nil)
	assert.Contains(t, body(t, resp), "You cannot book your own event!")

	attendee := newBrowser(t)
	register(t, attendee, base, "attendee@example.com", "attendee")
	login(t, attendee, base, "attendee@example.com")

	resp = postForm(t, attendee, eventURL+"/book", nil)
	page := body(t, resp)
	assert.Equal(t, "/dashboard", resp.Request.URL.Path)
	assert.Contains(t, page, "Booking successful")
	assert.Contains(t, page, "BK-")

	// second seat to a second attendee, then the event is sold out
	other := newBrowser(t)
	register(t, other, base, "other@example.com", "attendee")
	login(t, other, base, "other@example.com")
	resp = postForm(t, other, eventURL+"/book", nil)
	assert.Contains(t, body(t, resp), "Booking successful")

	late := newBrowser(t)
	register(t, late, base, "late@example.com", "attendee")
	login(t, late, base, "late@example.com")
	resp = postForm(t, late, eventURL+"/book", nil)
	assert.Contains(t, body(t, resp), "No tickets available!")
}

func TestEndToEnd_AuthGates(t *testing.T) {
	srv := startApp(t)
	base := srv.URL

	anonymous := newBrowser(t)

	// protected pages bounce anonymous visitors to the login form, carrying
	// the original destination
	resp, err := anonymous.Get(base + "/dashboard")
	require.NoError(t, err)
	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Equal(t, "/dashboard", resp.Request.URL.Query().Get("next"))
	resp.Body.Close()

	attendee := newBrowser(t)
	register(t, attendee, base, "gates@example.com", "attendee")
	login(t, attendee, base, "gates@example.com")

	// a bounced visitor lands on the page they asked for after logging in
	comeback := newBrowser(t)
	resp, err = comeback.Get(base + "/profile")
	require.NoError(t, err)
	loginURL := resp.Request.URL.String()
	assert.Equal(t, "/profile", resp.Request.URL.Query().Get("next"))
	resp.Body.Close()

	resp = postForm(t, comeback, loginURL, url.Values{
		"email":    {"gates@example.com"},
		"password": {"secret123"},
	})
	assert.Equal(t, "/profile", resp.Request.URL.Path)
	resp.Body.Close()

	// attendees hold no organizer or admin powers
	resp, err = attendee.Get(base + "/event/create")
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", resp.Request.URL.Path)
	assert.Contains(t, body(t, resp), "Only organizers and admins can manage events.")

	resp, err = attendee.Get(base + "/admin")
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", resp.Request.URL.Path)
	resp.Body.Close()

	// wrong password re-renders the form instead of creating a session
	bad := newBrowser(t)
	resp = postForm(t, bad, base+"/login", url.Values{
		"email":    {"gates@example.com"},
		"password": {"wrong-password"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Login failed. Check email and password.")
}

func TestEndToEnd_LiveAndReady(t *testing.T) {
	srv := startApp(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		resp.Body.Close()
	}
}
