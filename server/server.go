package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/lushtech/eldercare-web/pkg/domain"
	"github.com/lushtech/eldercare-web/pkg/webapp"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/settings.go -pkg mocks -skip-ensure -fmt goimports . SettingsStore

//go:embed templates/*.html
var templatesFS embed.FS

// Server represents HTTP server instance
type Server struct {
	config   ConfigProvider
	settings SettingsStore
	app      *webapp.App
	debug    bool

	templates *template.Template
	themeCSS  string

	frameLock sync.RWMutex
	frame     []byte // latest live frame, jpeg encoded
	notifier  *Notifier

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// SettingsStore keeps application settings
type SettingsStore interface {
	ApplicationSettings(ctx context.Context) (domain.SettingsDTO, error)
	SetApplicationSettings(ctx context.Context, settings domain.SettingsDTO) error
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// New initializes a new server instance. The application context is shared, not copied.
func New(cfg ConfigProvider, settings SettingsStore, app *webapp.App, debug bool) *Server {
	s := &Server{
		config:    cfg,
		settings:  settings,
		app:       app,
		debug:     debug,
		templates: template.Must(template.New("views").ParseFS(templatesFS, "templates/*.html")),
		themeCSS:  app.Theme.CSS(),
		notifier:  NewNotifier(),
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s, base path %s", listen, s.app.Router.Base())

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.notifier.Close() // hijacked websocket connections are not closed by Shutdown

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("eldercare-web", "lushtech", s.app.Version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes, everything lives below the base path
func (s *Server) setupRoutes() {
	base := s.app.Router.Base()

	s.router.Mount(strings.TrimSuffix(base, "/") + "/rest/example").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /test", s.testConnectionHandler)
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /settings", s.getSettingsHandler)
		r.HandleFunc("POST /settings", s.updateSettingsHandler)
		r.HandleFunc("GET /live", s.liveFrameHandler)
		r.HandleFunc("GET /ws", s.wsHandler)
		r.HandleFunc("GET /theme", s.themeHandler)
		r.HandleFunc("GET /routes", s.routesHandler)
		r.HandleFunc("GET /banner", s.bannerHandler)
		r.HandleFunc("GET /schema/settings", s.settingsSchemaHandler)
	})

	s.router.HandleFunc("GET "+base+"theme.css", s.themeCSSHandler)

	// views, resolved through the route table
	s.router.HandleFunc("GET "+base+"{path...}", s.navigateHandler)
	if base != "/" {
		s.router.HandleFunc("GET /", s.outsideBaseHandler)
	}
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
