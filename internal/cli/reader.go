package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// LineReader reads lines from an input without ignoring context
// cancellation. A read abandoned by cancellation keeps its goroutine until
// the underlying reader returns.
type LineReader struct {
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewLineReader wraps reader.
func NewLineReader(reader io.Reader) *LineReader {
	return &LineReader{reader: bufio.NewReader(reader)}
}

// ReadLine reads one line with surrounding whitespace removed. A final line
// without a newline is returned as is; an exhausted input yields io.EOF.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		value, err := r.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && value != "" {
			err = nil
		}
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}

// Prompter asks for values on a terminal.
type Prompter struct {
	reader *LineReader
	writer io.Writer
}

// NewPrompter creates a prompter reading answers from in.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{reader: NewLineReader(in), writer: out}
}

// Ask prints label and returns the answer, or def for an empty answer.
func (p *Prompter) Ask(ctx context.Context, label, def string) (string, error) {
	prompt := label
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", label, def)
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	answer, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}
