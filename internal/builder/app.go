package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// backgroundWork is drained on shutdown so accepted generations still report back
type backgroundWork interface {
	Wait(ctx context.Context) error
}

// App represents the application with all its components
type App struct {
	server          *http.Server
	db              *pgxpool.Pool
	background      backgroundWork
	// reload drops cached precedent outlines, triggered by SIGHUP
	reload          func()
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// Run starts the HTTP server and blocks until a signal or a server error
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	for {
		select {
		case err := <-errChan:
			a.logger.Error("Server error", zap.Error(err))
			a.closeDB()
			return err
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				a.reloadPrecedents()
				continue
			}
			a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
			return a.shutdown()
		}
	}
}

func (a *App) reloadPrecedents() {
	if a.reload == nil {
		return
	}
	a.reload()
	a.logger.Info("Precedent caches dropped")
}

// shutdown stops accepting requests, waits for background generations and closes the pool
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		a.closeDB()
		return err
	}

	if a.background != nil {
		a.logger.Info("Waiting for background generations")
		if err := a.background.Wait(ctx); err != nil {
			a.logger.Warn("Background generations did not finish in time", zap.Error(err))
		}
	}

	a.closeDB()
	a.logger.Info("Application stopped gracefully")
	_ = a.logger.Sync()
	return nil
}

func (a *App) closeDB() {
	if a.db != nil {
		a.logger.Info("Closing database connections")
		a.db.Close()
	}
}
