package srv

import "context"

// hookService waits for cancellation and runs its hook on shutdown.
type hookService struct {
	hook func(ctx context.Context) error
}

func (h *hookService) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (h *hookService) Shutdown(ctx context.Context) error {
	if h.hook != nil {
		return h.hook(ctx)
	}
	return nil
}

func NewCleanup(fn func() error) Service {
	return &hookService{hook: func(context.Context) error {
		if fn == nil {
			return nil
		}
		return fn()
	}}
}

// NewHook is NewCleanup for hooks that need the shutdown context.
func NewHook(fn func(ctx context.Context) error) Service {
	return &hookService{hook: fn}
}
