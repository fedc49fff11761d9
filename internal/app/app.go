package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/cherrytrack/internal/config"
	"github.com/polkiloo/cherrytrack/internal/usecase"
	"github.com/polkiloo/cherrytrack/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewCherryFacade,
		newHTTPServer,
		newReconciler,
		newScheduler,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type reconcilerParams struct {
	fx.In

	Orders   *usecase.OrderUseCase
	Tracking TrackingProvider
	Config   *config.Config
	Logger   *slog.Logger
}

func newReconciler(p reconcilerParams) *worker.Reconciler {
	return worker.NewReconciler(p.Orders, p.Tracking, worker.NewRatePacer(p.Config.ReconcileDelay), p.Logger)
}

type schedulerParams struct {
	fx.In

	Reconciler *worker.Reconciler
	Config     *config.Config
	Logger     *slog.Logger
}

func newScheduler(p schedulerParams) *worker.Scheduler {
	return worker.NewScheduler(p.Reconciler, p.Config.ReconcileSchedule, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Scheduler  *worker.Scheduler
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting cherrytrack", slog.String("addr", p.Server.Addr))
			if err := p.Scheduler.Start(ctx); err != nil {
				return err
			}
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Scheduler.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("cherrytrack stopped")
			return nil
		},
	})
}
