package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	gbhttp "github.com/aussiebroadwan/gradebook/internal/http"
	"github.com/aussiebroadwan/gradebook/internal/metrics"
	"github.com/aussiebroadwan/gradebook/internal/service"
	"github.com/aussiebroadwan/gradebook/internal/store/drivers/sqlite"
	"github.com/aussiebroadwan/gradebook/pkg/cryptox"
	"github.com/aussiebroadwan/gradebook/pkg/httpx"
	"github.com/aussiebroadwan/gradebook/pkg/jwtx"
)

type testApp struct {
	t       *testing.T
	handler http.Handler
	store   *sqlite.Store
	gate    *service.Gate
	metrics *metrics.Recorder
	clock   *fakeClock
}

// fakeClock is the router's time source; tests move it forward by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestApp(t *testing.T) *testApp {
	return newTestAppWithLimit(t, httpx.RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100})
}

func newTestAppWithLimit(t *testing.T, limit httpx.RateLimitConfig) *testApp {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	hasher := cryptox.NewHasherWithParams("", cryptox.Params{
		Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 32, SaltLength: 16,
	})
	m := metrics.New()

	boot := &service.BootstrapService{Store: st, Hasher: hasher}
	_, err = boot.SeedDefaultAdmin(t.Context())
	require.NoError(t, err)

	gate := &service.Gate{
		Auth:         &service.AuthService{Store: st, Hasher: hasher, Metrics: m},
		Registration: &service.RegistrationService{Store: st, Hasher: hasher, Metrics: m},
	}

	signer, err := jwtx.NewEphemeralEdDSASigner()
	require.NoError(t, err)
	clock := &fakeClock{now: time.Now()}

	router, err := gbhttp.NewRouter(gbhttp.RouterConfig{
		Version:    "test",
		Store:      st,
		Gate:       gate,
		Records:    &service.RecordService{Store: st, Metrics: m},
		Metrics:    m,
		Signer:     signer,
		LoginLimit: limit,
		Clock:      clock.Now,
	})
	require.NoError(t, err)

	return &testApp{t: t, handler: router, store: st, gate: gate, metrics: m, clock: clock}
}

// browser keeps its own cookies, so two browsers can share one app.
type browser struct {
	app     *testApp
	remote  string
	cookies map[string]*http.Cookie
}

func (a *testApp) browser() *browser {
	return &browser{app: a, remote: "192.0.2.1:4000", cookies: make(map[string]*http.Cookie)}
}

func (b *browser) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	req.RemoteAddr = b.remote
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	b.app.handler.ServeHTTP(rr, req)

	for _, c := range rr.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
		} else {
			b.cookies[c.Name] = c
		}
	}
	return rr
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.request(http.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	return b.request(http.MethodPost, path, form)
}

func (b *browser) follow(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	b.app.t.Helper()
	require.Equal(b.app.t, http.StatusSeeOther, rr.Code)
	location := rr.Header().Get("Location")
	require.NotEmpty(b.app.t, location)
	return b.get(location)
}

func (b *browser) login(username, password string) *httptest.ResponseRecorder {
	return b.post("/login", url.Values{"username": {username}, "password": {password}})
}

func parseHTML(t *testing.T, r io.Reader) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(r)
	require.NoError(t, err)
	return doc
}

// requireModal asserts the page carries a feedback dialog with the level and message.
func requireModal(t *testing.T, doc *goquery.Document, level, message string) {
	t.Helper()
	dialog := doc.Find("dialog#feedback")
	require.Equal(t, 1, dialog.Length(), "expected a feedback dialog")
	require.True(t, dialog.HasClass("modal-"+level), "dialog class %q", dialog.AttrOr("class", ""))
	require.Equal(t, message, strings.TrimSpace(dialog.Find(".message").Text()))
}

func requireNoModal(t *testing.T, doc *goquery.Document) {
	t.Helper()
	require.Equal(t, 0, doc.Find("dialog#feedback").Length())
}
