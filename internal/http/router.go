package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gradebook/internal/metrics"
	"github.com/aussiebroadwan/gradebook/internal/service"
	"github.com/aussiebroadwan/gradebook/internal/store"
	"github.com/aussiebroadwan/gradebook/pkg/httpx"
	"github.com/aussiebroadwan/gradebook/pkg/jwtx"
	"github.com/aussiebroadwan/gradebook/pkg/slogx"
)

// RouterConfig carries the dependencies of the HTTP surfaces.
type RouterConfig struct {
	Logger  *slog.Logger
	Version string

	Store   store.Store
	Gate    *service.Gate
	Records *service.RecordService
	Metrics *metrics.Recorder

	Signer        *jwtx.EdDSASigner
	SecureCookies bool

	// Clock drives surface token timestamps. Nil means time.Now.
	Clock func() time.Time

	// LoginLimit throttles the credential forms per client and username.
	// Zero means httpx.LoginLimit.
	LoginLimit httpx.RateLimitConfig
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	cfg       RouterConfig
	startTime time.Time
	views     *views
	cookies   *SurfaceCookies
}

func NewRouter(cfg RouterConfig) (*Router, error) {
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slogx.Discard()
	}
	if cfg.LoginLimit.RequestsPerWindow == 0 {
		cfg.LoginLimit = httpx.LoginLimit
	}

	r := &Router{
		Mux:       http.NewServeMux(),
		cfg:       cfg,
		startTime: time.Now(),
		views:     v,
		cookies: &SurfaceCookies{
			Signer: cfg.Signer,
			Secure: cfg.SecureCookies,
			Now:    cfg.Clock,
		},
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(cfg.Logger),
		Flash(),
	}

	r.ApplyRoutes()
	return r, nil
}

func (r *Router) ApplyRoutes() {
	r.registerLogin()
	r.registerMain()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerLogin() {
	h := &AuthHandler{
		Gate:    r.cfg.Gate,
		Cookies: r.cookies,
		Version: r.cfg.Version,
		views:   r.views,
	}

	r.Mux.HandleFunc("GET /{$}", h.LoginPage)
	r.Mux.HandleFunc("GET /register", h.RegisterPage)

	// Credential posts are limited by IP + username to slow guessing.
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.Login),
			httpx.RateLimitByIPAndFormField(r.cfg.LoginLimit, "username", h.loginLimited("login")),
		),
	)
	r.Mux.Handle("POST /register",
		httpx.Chain(http.HandlerFunc(h.Register),
			httpx.RateLimitByIPAndFormField(r.cfg.LoginLimit, "username", h.loginLimited("register")),
		),
	)
}

func (r *Router) registerMain() {
	h := &RecordsHandler{
		Records: r.cfg.Records,
		Version: r.cfg.Version,
		views:   r.views,
	}
	surface := RequireSurface(r.cfg.Gate, r.cookies)

	r.Mux.Handle("GET /app", httpx.Chain(http.HandlerFunc(h.App), surface))
	r.Mux.Handle("GET /app/plot",
		httpx.Chain(http.HandlerFunc(h.Plot),
			surface,
			RequireControl(func(c service.Controls) bool { return c.Plot }),
		),
	)
	r.Mux.Handle("GET /app/plot.png",
		httpx.Chain(http.HandlerFunc(h.PlotPNG),
			surface,
			RequireControl(func(c service.Controls) bool { return c.Plot }),
		),
	)

	// Mutations exist only for surfaces that render their controls.
	r.Mux.Handle("POST /app/records",
		httpx.Chain(http.HandlerFunc(h.Add),
			surface,
			RequireControl(func(c service.Controls) bool { return c.Add }),
		),
	)
	r.Mux.Handle("POST /app/records/delete",
		httpx.Chain(http.HandlerFunc(h.Delete),
			surface,
			RequireControl(func(c service.Controls) bool { return c.Delete }),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.cfg.Version))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.cfg.Version, r.cfg.Store))
	r.Mux.Handle("GET /metrics", r.cfg.Metrics.Handler())
}
