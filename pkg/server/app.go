package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FarmYield/pkg/config"
	xhttp "FarmYield/pkg/http"
	applogger "FarmYield/pkg/logger"
)

// Sweeper drops idle per-caller state.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

// Closer releases an infrastructure client on shutdown.
type Closer struct {
	Name  string
	Close func() error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	limiter    Sweeper
	closers    []Closer
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, limiter Sweeper, closers ...Closer) *App {
	return &App{
		cfg:        cfg,
		logger:     l,
		httpServer: srv,
		limiter:    limiter,
		closers:    closers,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("farmyield started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("farm", a.cfg.Farm.Address),
		applogger.Any("pools", a.cfg.Farm.ActivePools),
	)

	if a.limiter != nil {
		go a.sweepLimiter(ctx)
	}

	<-ctx.Done()
	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// sweepLimiter forgets callers that have been quiet long enough for their bucket to refill.
func (a *App) sweepLimiter(ctx context.Context) {
	idle := time.Minute
	if rl := a.cfg.Server.RateLimit; rl.RefillPerSec > 0 {
		idle = time.Duration(rl.Capacity/rl.RefillPerSec*float64(time.Second)) + time.Minute
	}
	t := time.NewTicker(idle)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := a.limiter.Sweep(idle); n > 0 {
				a.logger.Debug("rate limiter swept", applogger.Int("buckets", n))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close error", applogger.String("client", c.Name), applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
