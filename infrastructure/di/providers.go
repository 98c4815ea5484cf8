package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pursuit-backend/application/commands"
	"pursuit-backend/application/commands/bus"
	commandhandlers "pursuit-backend/application/commands/handlers"
	"pursuit-backend/application/ports"
	"pursuit-backend/application/queries"
	querybus "pursuit-backend/application/queries/bus"
	queryhandlers "pursuit-backend/application/queries/handlers"
	appservices "pursuit-backend/application/services"
	domainconfig "pursuit-backend/domain/config"
	domainservices "pursuit-backend/domain/services"
	"pursuit-backend/infrastructure/config"
	"pursuit-backend/infrastructure/persistence/dynamodb"
	"pursuit-backend/infrastructure/persistence/memory"
	"pursuit-backend/infrastructure/worker"
	"pursuit-backend/pkg/observability"
)

// Repositories bundles the persistence ports selected by the configured
// driver
type Repositories struct {
	Goals    ports.GoalRepository
	Progress ports.ProgressRepository
	Deps     ports.DependencyRepository
	Metrics  ports.MetricsStore
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideThresholdsWatcher loads the heuristic thresholds and starts
// watching their file for changes
func ProvideThresholdsWatcher(cfg *config.Config, logger *zap.Logger) (*config.ThresholdsWatcher, error) {
	watcher, err := config.NewThresholdsWatcher(cfg.ThresholdsPath, logger)
	if err != nil {
		return nil, err
	}
	watcher.Start()
	return watcher, nil
}

// ProvideThresholdSource exposes the watcher as the domain engines'
// config source. Reloads swap the pointer the watcher serves; the
// engines snapshot it per computation, so running services pick up new
// values without reconstruction.
func ProvideThresholdSource(watcher *config.ThresholdsWatcher) domainconfig.Source {
	return watcher
}

// ProvideRepositories selects the persistence driver
func ProvideRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Repositories, error) {
	switch cfg.PersistenceDriver {
	case "memory":
		return &Repositories{
			Goals:    memory.NewGoalStore(),
			Progress: memory.NewProgressStore(),
			Deps:     memory.NewDependencyStore(),
			Metrics:  memory.NewMetricsStore(),
		}, nil

	case "dynamodb":
		client, err := dynamodb.NewClient(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to create dynamodb client: %w", err)
		}
		breaker := dynamodb.NewBreaker(logger)
		return &Repositories{
			Goals:    dynamodb.NewGoalRepository(client, breaker, cfg.DynamoDBTable, cfg.IndexName, logger),
			Progress: dynamodb.NewProgressRepository(client, breaker, cfg.DynamoDBTable, logger),
			Deps:     dynamodb.NewDependencyRepository(client, breaker, cfg.DynamoDBTable, cfg.IndexName, logger),
			Metrics:  dynamodb.NewMetricsStore(client, breaker, cfg.DynamoDBTable, logger),
		}, nil

	default:
		return nil, fmt.Errorf("unknown persistence driver %q", cfg.PersistenceDriver)
	}
}

// ProvideAnalyticsService builds the domain engines and the application
// facade over them
func ProvideAnalyticsService(
	repos *Repositories,
	thresholds domainconfig.Source,
	logger *zap.Logger,
) *appservices.AnalyticsService {
	validation := domainservices.NewGraphValidationService()
	planning := domainservices.NewGraphPlanningService()
	velocity := domainservices.NewVelocityService(thresholds)
	prediction := domainservices.NewPredictionService(thresholds, velocity)
	simulation := domainservices.NewSimulationService(thresholds, prediction)

	return appservices.NewAnalyticsService(
		repos.Goals,
		repos.Progress,
		repos.Deps,
		repos.Metrics,
		validation,
		planning,
		velocity,
		prediction,
		simulation,
		logger,
	)
}

// ProvideMetrics creates the prometheus collectors
func ProvideMetrics(cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics()
}

// ProvideCache creates the query cache
func ProvideCache() ports.Cache {
	return NewInMemoryCache()
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	repos *Repositories,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()
	pipeline := bus.NewPipeline(
		bus.LoggingMiddleware(&zapLoggerAdapter{logger}),
		bus.ValidationMiddleware(),
	)

	validation := domainservices.NewGraphValidationService()

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{&commands.CreateGoalCommand{}, commandhandlers.NewCreateGoalHandler(repos.Goals, logger)},
		{&commands.RecordProgressCommand{}, commandhandlers.NewRecordProgressHandler(repos.Goals, repos.Progress, logger)},
		{&commands.CreateDependencyCommand{}, commandhandlers.NewCreateDependencyHandler(repos.Goals, repos.Deps, validation, logger)},
	}

	for _, reg := range registrations {
		if err := commandBus.Register(reg.cmd, pipeline.Execute(reg.handler)); err != nil {
			return nil, err
		}
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers. Graph-wide
// queries are wrapped with the caching middleware; everything goes through
// the metrics middleware when collectors are enabled.
func ProvideQueryBus(
	repos *Repositories,
	analytics *appservices.AnalyticsService,
	cache ports.Cache,
	metrics *observability.Metrics,
	cfg *config.Config,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	caching := querybus.NewCachingMiddleware(cache, cfg.QueryCacheTTL)
	var instrumented *querybus.MetricsMiddleware
	if metrics != nil {
		instrumented = querybus.NewMetricsMiddleware(&metricsAdapter{metrics})
	}

	wrap := func(handler querybus.QueryHandler, cached bool) querybus.QueryHandler {
		if cached {
			handler = caching.Wrap(handler)
		}
		if instrumented != nil {
			handler = instrumented.Wrap(handler)
		}
		return handler
	}

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
		cached  bool
	}{
		{&queries.GetGoalQuery{}, queryhandlers.NewGetGoalHandler(repos.Goals, repos.Progress), false},
		{&queries.ListGoalsQuery{}, queryhandlers.NewListGoalsHandler(repos.Goals), false},
		{&queries.ValidateDependenciesQuery{}, queryhandlers.NewValidateDependenciesHandler(analytics), true},
		{&queries.GetExecutionPlanQuery{}, queryhandlers.NewGetExecutionPlanHandler(analytics), true},
		{&queries.GetVelocityQuery{}, queryhandlers.NewGetVelocityHandler(analytics), false},
		{&queries.GetPredictionQuery{}, queryhandlers.NewGetPredictionHandler(analytics), false},
		{&queries.SimulateChangesQuery{}, queryhandlers.NewSimulateChangesHandler(analytics), false},
		{&queries.GetBatchAnalyticsQuery{}, queryhandlers.NewGetBatchAnalyticsHandler(analytics), false},
	}

	for _, reg := range registrations {
		if err := queryBus.Register(reg.query, wrap(reg.handler, reg.cached)); err != nil {
			return nil, err
		}
	}

	return queryBus, nil
}

// ProvideDispatcher creates the analytics worker dispatcher
func ProvideDispatcher(
	analytics *appservices.AnalyticsService,
	metrics *observability.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) *worker.Dispatcher {
	var recorder worker.ComputationRecorder
	if metrics != nil {
		recorder = metrics
	}
	return worker.NewDispatcher(analytics, recorder, cfg.WorkerTimeout, 2, logger)
}

// metricsAdapter bridges the prometheus collectors to the query-bus
// metrics interface
type metricsAdapter struct {
	metrics *observability.Metrics
}

func (a *metricsAdapter) StartTimer(metric, label string) querybus.Timer {
	return a.metrics.StartTimer(metric, label)
}

func (a *metricsAdapter) Increment(metric, label string) {
	a.metrics.Increment(metric, label)
}

// zapLoggerAdapter adapts zap.Logger to the command-bus logger interface
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, fieldsToZap(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, fieldsToZap(keysAndValues...)...)
}

func fieldsToZap(fields ...interface{}) []zap.Field {
	var zapFields []zap.Field
	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		zapFields = append(zapFields, zap.Any(key, fields[i+1]))
	}
	return zapFields
}
