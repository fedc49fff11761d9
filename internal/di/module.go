package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/cherrytrack/internal/adapter/tracking"
	"github.com/polkiloo/cherrytrack/internal/app"
	"github.com/polkiloo/cherrytrack/internal/config"
	"github.com/polkiloo/cherrytrack/internal/logger"
	"github.com/polkiloo/cherrytrack/internal/pkg/auth"
	"github.com/polkiloo/cherrytrack/internal/server/http/handlers"
	"github.com/polkiloo/cherrytrack/internal/server/http/router"
	"github.com/polkiloo/cherrytrack/internal/storage/postgres"
	"github.com/polkiloo/cherrytrack/internal/usecase"
)

// Module assembles the whole application graph. Extra options are appended
// last so tests can replace infrastructure.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		tracking.Module,
		usecase.Module,
		fx.Provide(func(client tracking.Client) app.TrackingProvider { return client }),
		fx.Provide(func(storage *postgres.Storage) app.HealthChecker { return storage }),
		fx.Provide(func(facade *app.CherryFacade) handlers.CherryFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
