package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{name: "with custom writer", writer: &bytes.Buffer{}},
		{name: "with nil writer", writer: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer, "Import")
			assert.NotNil(t, handler)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.WasInterrupted())
		})
	}
}

func TestHandleInterrupts(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output, "Import")

	ctx, cancel := context.WithCancel(context.Background())
	handler.HandleInterrupts(ctx)
	handler.SetDetail("Created 3 of 10 transactions")

	cancel()
	assert.Eventually(t, handler.WasInterrupted, time.Second, 5*time.Millisecond)

	out := output.String()
	assert.Contains(t, out, "Import interrupted!")
	assert.Contains(t, out, "Created 3 of 10 transactions")
	assert.Equal(t, 1, strings.Count(out, "interrupted!"))
}

func TestHandleInterrupts_Stopped(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output, "Import")

	ctx, cancel := context.WithCancel(context.Background())
	handler.HandleInterrupts(ctx)
	handler.Stop()
	handler.Stop()
	cancel()

	time.Sleep(20 * time.Millisecond)
	assert.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}
