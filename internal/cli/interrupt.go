package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// InterruptHandler reports a long-running operation that was cut short by
// cancellation of its context.
type InterruptHandler struct {
	writer      io.Writer
	stop        chan struct{}
	operation   string
	detail      string
	stopOnce    sync.Once
	mu          sync.Mutex
	interrupted bool
}

// NewInterruptHandler creates a handler for the named operation.
func NewInterruptHandler(writer io.Writer, operation string) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	return &InterruptHandler{
		writer:    writer,
		operation: operation,
		stop:      make(chan struct{}),
	}
}

// HandleInterrupts watches ctx until Stop is called. If ctx is cancelled
// first, the handler prints a friendly message once.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			defer h.mu.Unlock()
			if !h.interrupted {
				h.interrupted = true
				h.showInterruptMessage()
			}
		case <-h.stop:
		}
	}()
}

// SetDetail records progress to include in the interrupt message.
func (h *InterruptHandler) SetDetail(detail string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detail = detail
}

// Stop ends the watch. An operation that finished is never reported as
// interrupted.
func (h *InterruptHandler) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// showInterruptMessage displays a friendly interrupt message. Callers hold mu.
func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n\n" + FormatWarning(h.operation+" interrupted!")
	if h.detail != "" {
		msg += "\n" + FormatInfo(h.detail)
	}
	msg += "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		slog.Warn("Failed to write interrupt message", "error", err)
	}
}

// WasInterrupted returns true if the operation was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
