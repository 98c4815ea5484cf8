//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"pursuit-backend/application/commands/bus"
	"pursuit-backend/application/ports"
	querybus "pursuit-backend/application/queries/bus"
	appservices "pursuit-backend/application/services"
	"pursuit-backend/infrastructure/config"
	"pursuit-backend/infrastructure/worker"
	"pursuit-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Thresholds *config.ThresholdsWatcher
	Repos      *Repositories
	Analytics  *appservices.AnalyticsService
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
	Cache      ports.Cache
	Metrics    *observability.Metrics
	Dispatcher *worker.Dispatcher
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideThresholdsWatcher,
	ProvideThresholdSource,
	ProvideRepositories,
	ProvideAnalyticsService,
	ProvideMetrics,
	ProvideCache,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideDispatcher,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
