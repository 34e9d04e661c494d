package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/HO1806/reeltrack/internal/logger"
	"github.com/HO1806/reeltrack/internal/sse"
)

// SSEManagerHandle wraps sse.Manager with Shutdownable.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Stop ends the broadcast loop and disconnects every client.
func (h *SSEManagerHandle) Stop() {
	h.cancel()
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the live event stream manager and starts its
// broadcast loop.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.WithComponent("sse").Logger)
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	return &SSEManagerHandle{Manager: manager, cancel: cancel}, nil
}
