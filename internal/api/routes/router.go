package routes

import (
	"net/http"

	"github.com/zatekoja/doctordirectory/internal/api/handlers"
	"github.com/zatekoja/doctordirectory/internal/api/middleware"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	doctorHandler *handlers.DoctorHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
	allowedOrigins  []string
}

// NewRouter creates a new router. cacheMiddleware and metrics may be nil.
func NewRouter(
	doctorHandler *handlers.DoctorHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
	allowedOrigins []string,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		doctorHandler:   doctorHandler,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
		allowedOrigins:  allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Doctor endpoints
	r.mux.HandleFunc("GET /api/doctors", r.doctorHandler.ListDoctors)
	r.mux.HandleFunc("GET /api/doctors/suggest", r.doctorHandler.SuggestDoctors)
	r.mux.HandleFunc("GET /api/doctors/{id}", r.doctorHandler.GetDoctor)
	r.mux.HandleFunc("GET /api/specialties", r.doctorHandler.ListSpecialties)
	r.mux.HandleFunc("GET /api/status", r.doctorHandler.GetStatus)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux

	// Cache sits inside compression so stored bodies are plain JSON
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	// Apply HTTP performance optimizations (compression, ETag, cache headers)
	handler = middleware.ResponseOptimization(handler)

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
