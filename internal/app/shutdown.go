package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// gracefulShutdown serves until a signal arrives or the server fails, then
// lets the server drain within its shutdown timeout.
func gracefulShutdown(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Server.Start(ctx)
	}()

	select {
	case sig := <-sigChan:
		app.Logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		err := <-serverErr
		app.Logger.Info("shutdown completed")
		return err
	case err := <-serverErr:
		return err
	}
}
