package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"pursuit-backend/application/commands/bus"
	querybus "pursuit-backend/application/queries/bus"
	"pursuit-backend/interfaces/http/rest/handlers"
	"pursuit-backend/interfaces/http/rest/middleware"
	"pursuit-backend/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	metrics    *observability.Metrics
	enableCORS bool
	rateLimit  int
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	metrics *observability.Metrics,
	enableCORS bool,
	rateLimit int,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		metrics:    metrics,
		enableCORS: enableCORS,
		rateLimit:  rateLimit,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Instrument(rt.metrics))

	if rt.rateLimit > 0 {
		router.Use(middleware.Limit(middleware.NewRateLimiter(rt.rateLimit)))
	}

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health checks and metrics
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		goalHandler := handlers.NewGoalHandler(rt.commandBus, rt.queryBus, rt.logger)
		r.Route("/goals", func(r chi.Router) {
			r.Post("/", goalHandler.CreateGoal)
			r.Get("/", goalHandler.ListGoals)
			r.Get("/{goalID}", goalHandler.GetGoal)
			r.Post("/{goalID}/progress", goalHandler.RecordProgress)
		})

		dependencyHandler := handlers.NewDependencyHandler(rt.commandBus, rt.queryBus, rt.logger)
		r.Route("/dependencies", func(r chi.Router) {
			r.Post("/", dependencyHandler.CreateDependency)
			r.Get("/validate", dependencyHandler.ValidateDependencies)
		})

		analyticsHandler := handlers.NewAnalyticsHandler(rt.queryBus, rt.logger)
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/plan", analyticsHandler.GetExecutionPlan)
			r.Get("/{goalID}/velocity", analyticsHandler.GetVelocity)
			r.Get("/{goalID}/prediction", analyticsHandler.GetPrediction)
			r.Post("/{goalID}/simulate", analyticsHandler.Simulate)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
