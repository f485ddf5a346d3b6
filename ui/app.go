// Package ui serves the explorer dashboard: embedded templates with HTMX
// fragment swaps, PNG chart rendering, xlsx exports and the admin surface.
package ui

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cellscope/adapters/tabular"
	"cellscope/app"
	"cellscope/internal/metrics"
)

//go:embed templates/* static/* methods.md
var embeddedFiles embed.FS

// ReloadFunc re-runs the source load and swaps the cached tables. Nil when
// the active backend has no file catalog to reload.
type ReloadFunc func(ctx context.Context) (*tabular.LoadReport, error)

// App represents the dashboard application
type App struct {
	router    *chi.Mux
	service   *app.ExplorerService
	templates *template.Template
	reload    ReloadFunc
}

// NewApp creates the dashboard over an explorer service. reload may be nil.
func NewApp(service *app.ExplorerService, reload ReloadFunc) (*App, error) {
	funcMap := template.FuncMap{
		"f3": func(v float64) string { return fmt.Sprintf("%.3f", v) },
		"e3": func(v float64) string { return fmt.Sprintf("%.3e", v) },
		"inc": func(i int) int {
			return i + 1
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		templates: templates,
		reload:    reload,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
	a.router.Use(requestMetrics)

	// Serve static files
	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", http.StripPrefix("/", staticFS))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	// Main page and HTMX fragment
	a.router.Get("/", a.handleIndex)
	a.router.Get("/fragments/dashboard", a.handleDashboardFragment)

	// Chart PNGs parameterized by the same query string as the fragment
	a.router.Get("/charts/volcano.png", a.handleVolcanoChart)
	a.router.Get("/charts/pathways.png", a.handlePathwaysChart)

	// Table exports
	a.router.Get("/export/dge.xlsx", a.handleExportDGE)
	a.router.Get("/export/gsea.xlsx", a.handleExportGSEA)

	// Methods page
	a.router.Get("/methods", a.handleMethods)

	// Admin and operational endpoints
	a.router.Post("/admin/reload", a.handleReload)
	a.router.Get("/healthz", a.handleHealthz)
	a.router.Handle("/metrics", metrics.Handler())
}

// Router exposes the handler for tests and embedding.
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start(port string) error {
	addr := ":" + port
	log.Printf("[UI] Dashboard listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// requestMetrics records one counter increment per completed request,
// labeled by method, chi route pattern and status.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		}()
		next.ServeHTTP(ww, r)
	})
}

// renderTemplate renders to a buffer first so a template failure can still
// produce a clean 500 instead of a half-written page.
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		log.Printf("[UI] Template error for %s: %v", templateName, err)
		http.Error(w, "Template rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[UI] Error writing template response: %v", err)
	}
}

// isHTMX reports whether the request came from an HTMX swap.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
