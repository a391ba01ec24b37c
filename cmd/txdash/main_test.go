package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rholibobo/transaction-dashboard/internal/cli"
	"github.com/rholibobo/transaction-dashboard/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestPrintError(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want string
	}{
		{
			name: "user error shows its message only",
			err:  fmt.Errorf("list: %w", common.NewUserError("Invalid --sort \"payee\"", errors.New("unknown field"))),
			want: cli.ErrorIcon + " Invalid --sort \"payee\"",
		},
		{
			name: "other errors print in full",
			err:  fmt.Errorf("failed to fetch transactions: %w", common.ErrStoreClosed),
			want: cli.ErrorIcon + " failed to fetch transactions: store closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err)
			assert.Equal(t, tt.want, strings.TrimSpace(stripANSI(buf.String())))
		})
	}
}

func TestRootCommand(t *testing.T) {
	assert.True(t, strings.HasPrefix(rootCmd.Short, cli.CardIcon))

	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"dashboard", "list", "create", "import-ofx", "migrate", "version"})
}
