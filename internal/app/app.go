package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	clientdist "github.com/vango-dev/lexmart/client/dist"
	"github.com/vango-dev/lexmart/internal/config"
	"github.com/vango-dev/lexmart/internal/errors"
	"github.com/vango-dev/lexmart/internal/site"
	"github.com/vango-dev/lexmart/pkg/live"
	"github.com/vango-dev/lexmart/pkg/middleware"
	"github.com/vango-dev/lexmart/pkg/overlay"
	"github.com/vango-dev/lexmart/pkg/render"
	"github.com/vango-dev/lexmart/pkg/upload"
)

// Paths served by every App.
const (
	UploadPath   = "/api/upload"
	MetricsPath  = "/metrics"
	HealthPath   = "/healthz"
	LiveJSPath   = "/static/live.js"
	StyleSheet   = "/static/lexmart.css"
	htmlMIMEType = "text/html; charset=utf-8"
)

// App wires configuration, pages, the media store, the live tooltip
// endpoint and observability into one http.Handler.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	router   chi.Router
	site     *site.Site
	renderer *render.Renderer
	live     *live.Server
	metrics  *middleware.Metrics
	registry *prometheus.Registry
	store    upload.MediaStore
	disk     *upload.DiskStore
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithStore replaces the media store selected by configuration.
func WithStore(s upload.MediaStore) Option {
	return func(a *App) { a.store = s }
}

// WithRegistry sets the Prometheus registry metrics are registered on.
// Defaults to a fresh registry with Go and process collectors.
func WithRegistry(r *prometheus.Registry) Option {
	return func(a *App) { a.registry = r }
}

// New builds an App from a validated configuration.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if a.store == nil {
		store, err := a.newStore(ctx)
		if err != nil {
			return nil, err
		}
		a.store = store
	}

	a.metrics = middleware.NewMetrics(middleware.WithRegistry(a.registry))
	a.renderer = render.NewRenderer(render.RendererConfig{})
	a.site = site.New(site.Options{
		Name:       cfg.Name,
		Tooltip:    cfg.TooltipDefaults(),
		UploadPath: UploadPath,
	})

	if cfg.Live.Enabled {
		a.live = live.NewServer(live.Config{
			CheckOrigin:       originChecker(cfg.Live.AllowedOrigins),
			ReadTimeout:       cfg.Live.ReadTimeout.Std(),
			HeartbeatInterval: cfg.Live.HeartbeatInterval.Std(),
			MaxFrameBytes:     cfg.Live.MaxFrameBytes,
			MaxTooltips:       cfg.Live.MaxTooltips,
			Observer:          a.metrics,
			Logger:            a.logger,
		})
	}

	a.router = a.routes()
	return a, nil
}

func (a *App) newStore(ctx context.Context) (upload.MediaStore, error) {
	switch a.cfg.Upload.Store {
	case config.StoreS3:
		s3cfg := a.cfg.Upload.S3
		store, err := upload.NewS3StoreFromConfig(ctx, upload.S3Config{
			Bucket:        s3cfg.Bucket,
			Prefix:        s3cfg.Prefix,
			Region:        s3cfg.Region,
			Endpoint:      s3cfg.Endpoint,
			PublicBaseURL: s3cfg.PublicBaseURL,
		})
		if err != nil {
			return nil, errors.New("E203").Wrap(err).WithDetail(err.Error())
		}
		return store, nil

	default:
		disk, err := upload.NewDiskStore(a.cfg.MediaDir(), a.cfg.Upload.Disk.URLPrefix)
		if err != nil {
			return nil, errors.New("E203").Wrap(err).
				WithDetail(err.Error()).
				WithSuggestion("Check that upload.disk.dir is writable.")
		}
		a.disk = disk
		return disk, nil
	}
}

func (a *App) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(a.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Tracing(middleware.WithRequestFilter(func(r *http.Request) bool {
		return r.URL.Path != MetricsPath && r.URL.Path != HealthPath
	})))
	r.Use(a.metrics.Handler)

	r.Get("/", a.page(func(*http.Request) (site.Page, bool) { return a.site.Home(), true }))
	r.Get("/lawyers", a.page(func(r *http.Request) (site.Page, bool) {
		return a.site.Lawyers(site.ParseLawyersQuery(r.URL.Query())), true
	}))
	r.Get("/lawyers/{slug}", a.page(func(r *http.Request) (site.Page, bool) {
		return a.site.Lawyer(chi.URLParam(r, "slug"))
	}))
	r.Get("/login", a.page(func(*http.Request) (site.Page, bool) { return a.site.Login(), true }))
	r.Get("/signup", a.page(func(*http.Request) (site.Page, bool) { return a.site.Signup(), true }))
	r.Get("/dashboard", a.page(func(*http.Request) (site.Page, bool) { return a.site.Dashboard(), true }))

	r.Post(UploadPath, upload.Handler(a.store, upload.Config{
		MaxBodyBytes: a.cfg.Upload.MaxBodyBytes,
		TempDir:      a.cfg.Upload.TempDir,
		Logger:       a.logger,
	}).ServeHTTP)

	if a.disk != nil {
		prefix := strings.TrimSuffix(a.cfg.Upload.Disk.URLPrefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, a.disk.Handler()))
	}

	r.Get(StyleSheet, serveAsset("text/css; charset=utf-8", clientdist.LexmartCSS))
	if a.live != nil {
		r.Get(LiveJSPath, serveAsset("text/javascript; charset=utf-8", clientdist.LiveJS))
		r.Handle(a.cfg.Live.Path, a.live)
	}

	r.Get(HealthPath, a.health)
	if a.cfg.Server.Metrics {
		r.Handle(MetricsPath, promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.writePage(w, r, http.StatusNotFound, a.site.NotFound())
	})
	return r
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Config returns the configuration the App was built with.
func (a *App) Config() *config.Config { return a.cfg }

// Live returns the tooltip session server, or nil when live is disabled.
func (a *App) Live() *live.Server { return a.live }

func (a *App) page(build func(*http.Request) (site.Page, bool)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := build(r)
		if !ok {
			a.writePage(w, r, http.StatusNotFound, a.site.NotFound())
			return
		}
		a.writePage(w, r, http.StatusOK, p)
	}
}

func (a *App) writePage(w http.ResponseWriter, r *http.Request, status int, p site.Page) {
	data := render.PageData{
		Title:       p.Title,
		Lang:        "en",
		Body:        p.Body,
		Overlay:     overlay.Root(),
		StyleSheets: []string{StyleSheet},
	}
	if a.live != nil {
		data.Scripts = []string{LiveJSPath}
		data.LivePath = a.cfg.Live.Path
	}

	var buf bytes.Buffer
	if err := a.renderer.RenderPage(&buf, data); err != nil {
		a.logger.Error("render page", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", htmlMIMEType)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type healthStatus struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func (a *App) health(w http.ResponseWriter, _ *http.Request) {
	status := healthStatus{Status: "ok"}
	if a.live != nil {
		status.Sessions = a.live.Sessions()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}

func serveAsset(contentType string, body []byte) http.HandlerFunc {
	modtime := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		http.ServeContent(w, r, "", modtime, bytes.NewReader(body))
	}
}

// originChecker accepts same-origin upgrades and any origin in allowed.
// An entry of "*" accepts every origin.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[strings.TrimSuffix(strings.ToLower(o), "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || set["*"] {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		return set[strings.ToLower(u.Scheme+"://"+u.Host)]
	}
}

// Run serves until ctx is cancelled, then drains live sessions and shuts
// the HTTP server down within the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Address())
	if err != nil {
		return errors.New("E401").Wrap(err).WithDetail(err.Error())
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      a,
		ReadTimeout:  a.cfg.Server.ReadTimeout.Std(),
		WriteTimeout: a.cfg.Server.WriteTimeout.Std(),
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", ln.Addr().String(), "live", a.live != nil)
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.New("E401").Wrap(err).WithDetail(err.Error())
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down", "timeout", a.cfg.Server.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout.Std())
	defer cancel()

	if a.live != nil {
		if err := a.live.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("live shutdown", "error", err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http shutdown", "error", err)
		return err
	}
	return nil
}
