package srv

import (
	"context"
	"errors"
	"time"

	"github.com/sandevgo/studybuddy/pkg/log"
)

const shutdownTimeout = 10 * time.Second

// Service is a unit with a lifecycle. Start blocks until the service is done
// or ctx is cancelled; Shutdown releases whatever Start acquired.
type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Run starts every service and blocks until ctx is cancelled or any service
// returns from Start. All services are then shut down in reverse order, so
// resources registered first are released last.
func Run(ctx context.Context, services []Service) error {
	logger := log.FromCtx(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, len(services))
	for _, service := range services {
		go func(service Service) {
			err := service.Start(runCtx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msgf("%T stopped with error", service)
			}
			done <- err
		}(service)
	}

	var first error
	select {
	case <-runCtx.Done():
	case first = <-done:
	}
	cancel()

	ShutdownServices(ctx, services)

	if errors.Is(first, context.Canceled) {
		return nil
	}
	return first
}

// ShutdownServices stops services in reverse registration order. It uses a
// detached context so cleanup still runs after the parent was cancelled.
func ShutdownServices(ctx context.Context, services []Service) {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(shutdownCtx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
