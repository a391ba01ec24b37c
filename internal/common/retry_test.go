package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rholibobo/transaction-dashboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = service.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	MaxDelay:     2 * time.Millisecond,
}

func TestWithRetry(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		err       func(attempt int) error
		wantErr   error
		name      string
		wantCalls int
	}{
		{
			name:      "success on first attempt",
			err:       func(int) error { return nil },
			wantCalls: 1,
		},
		{
			name: "transient failure then success",
			err: func(attempt int) error {
				if attempt < 3 {
					return Transient(errBoom)
				}
				return nil
			},
			wantCalls: 3,
		},
		{
			name:      "permanent failure is not retried",
			err:       func(int) error { return errBoom },
			wantErr:   errBoom,
			wantCalls: 1,
		},
		{
			name:      "transient failure exhausts attempts",
			err:       func(int) error { return Transient(errBoom) },
			wantErr:   ErrMaxRetries,
			wantCalls: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				return tt.err(calls)
			}, fastRetry)

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, func() error {
		return Transient(errors.New("flaky"))
	}, service.RetryOptions{MaxAttempts: 5, InitialDelay: time.Second})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(Transient(errors.New("x"))))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(errors.New("x")))
	assert.False(t, IsRetryable(&RetryableError{Err: errors.New("x"), Retryable: false}))
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not save", ErrDuplicateEntry)
	assert.Equal(t, "could not save: duplicate entry", err.Error())
	assert.ErrorIs(t, err, ErrDuplicateEntry)
	assert.Equal(t, "plain", NewUserError("plain", nil).Error())
}
