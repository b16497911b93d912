package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tempizhere/shorty/internal/middleware"
)

// RouterOptions задаёт необязательные части цепочки middleware
type RouterOptions struct {
	DevSubnet  string
	EnableGzip bool
}

// NewRouter собирает маршрутизатор: служебные маршруты в "/-/", остальное в HandleRoot
func NewRouter(a *App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.LoggingMiddleware(a.logger))
	r.Use(middleware.MetricsMiddleware(a.metrics))
	r.Use(chimw.Recoverer)
	r.Use(middleware.DevModeMiddleware(opts.DevSubnet, a.logger))
	if opts.EnableGzip {
		r.Use(chimw.Compress(5, "text/html"))
	}

	r.Get("/-/ping", a.HandlePing)
	if a.metrics != nil {
		r.Method(http.MethodGet, "/-/metrics", a.metrics.Handler())
	}

	r.HandleFunc("/", a.HandleRoot)
	r.HandleFunc("/*", a.HandleRoot)

	return r
}
