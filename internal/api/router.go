package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shafiq-apps/afs-staging-sub001/internal/api/handlers"
	"github.com/shafiq-apps/afs-staging-sub001/internal/api/middleware"
	"github.com/shafiq-apps/afs-staging-sub001/internal/catalog"
	"github.com/shafiq-apps/afs-staging-sub001/pkg/interfaces"
)

// SetupRouter wires the devserver routes.
func SetupRouter(
	cat *catalog.Catalog,
	logger interfaces.LoggerPort,
	corsAllowedOrigins []string,
	metricsRegistry *prometheus.Registry,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.CORS(corsAllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	searchHandler := handlers.NewSearchHandler(cat, logger)
	r.Get("/products", searchHandler.Products)
	r.Get("/filters", searchHandler.Filters)

	return r
}
