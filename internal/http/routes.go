package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"

	recordsui "github.com/target/records-ui"
	httpassets "github.com/target/records-ui/internal/http/assets"
)

const staticDir = "frontend/static"

// RouterServices holds everything the HTTP router serves.
type RouterServices struct {
	// Resources are the record collections shown in the UI, in navigation order.
	// The first one is the home page.
	Resources []ResourceHandler
	// Cache is probed by /healthz (optional).
	Cache        HealthChecker
	CookieDomain string
	IsDev        bool         // Serve templates and static files from disk for hot reloading
	Logger       *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter builds the application handler: the resource pages behind CSRF
// protection, health probes, static assets and a browser-aware 404.
func NewRouter(services RouterServices) (http.Handler, error) {
	if len(services.Resources) == 0 {
		return nil, errors.New("at least one resource is required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ui, err := setupUIHandlers(services, logger)
	if err != nil {
		return nil, err
	}

	uiMux := http.NewServeMux()
	uiMux.HandleFunc("GET /{$}", ui.Index)
	for _, res := range services.Resources {
		res.Register(uiMux, ui)
	}
	csrf := CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain, Logger: logger})

	mux := http.NewServeMux()
	health := healthHandler(services.Cache, logger)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	mux.Handle("GET /static/", staticHandler(services.IsDev, logger))
	mux.Handle("/", csrf(uiMux))

	handler := &notFoundHandler{mux: mux, ui: ui, logger: logger}
	return BrowserDetection()(handler), nil
}

// setupUIHandlers loads templates and the asset manifest from disk in dev mode
// and from the embedded trees otherwise.
func setupUIHandlers(services RouterServices, logger *slog.Logger) (*UIHandlers, error) {
	templateFS, staticFS, err := uiFilesystems(services.IsDev)
	if err != nil {
		return nil, err
	}

	resolver, err := httpassets.NewResolver(staticFS, logger)
	if err != nil {
		logger.Warn("asset manifest unavailable; using logical asset names", "error", err)
		resolver = nil
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS:    templateFS,
		Resolver:      resolver,
		CriticalCSSFS: staticFS,
		DevMode:       services.IsDev,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	return &UIHandlers{
		T:         tr,
		Resources: services.Resources,
		IsDev:     services.IsDev,
		Logger:    logger,
	}, nil
}

func uiFilesystems(isDev bool) (fs.FS, fs.FS, error) {
	if isDev {
		return os.DirFS(TemplatePathFromRoot), os.DirFS(staticDir), nil
	}
	templateFS, err := fs.Sub(recordsui.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("embedded templates: %w", err)
	}
	staticFS, err := fs.Sub(recordsui.StaticFS, staticDir)
	if err != nil {
		return nil, nil, fmt.Errorf("embedded static assets: %w", err)
	}
	return templateFS, staticFS, nil
}

// staticHandler serves /static/* from disk in dev mode and from the embedded tree otherwise.
func staticHandler(isDev bool, logger *slog.Logger) http.Handler {
	var fsys http.FileSystem = http.Dir(staticDir)
	if !isDev {
		sub, err := fs.Sub(recordsui.StaticFS, staticDir)
		if err != nil {
			logger.Error("embedded static assets unavailable; serving from disk", "error", err)
		} else {
			fsys = http.FS(sub)
		}
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(fsys)))
}

// hashedFilePattern matches content-hashed names such as app.abc123ef.js or styles.def45678.css.map.
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders caches hashed assets for a year and nothing else at all.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler replaces the mux's plain 404 with the browser-aware one.
type notFoundHandler struct {
	mux    *http.ServeMux
	ui     *UIHandlers
	logger *slog.Logger
}

func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)

	// Missing static files keep the file server's response.
	if cw.status == http.StatusNotFound && !strings.HasPrefix(r.URL.Path, "/static/") {
		// The CSRF cookie set while routing must survive the replacement.
		for _, c := range cw.header.Values("Set-Cookie") {
			w.Header().Add("Set-Cookie", c)
		}
		h.ui.NotFound(w, r)
		return
	}
	cw.flushTo(w, h.logger)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter, logger *slog.Logger) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		logger.Debug("failed to write captured response", "error", err)
	}
}
