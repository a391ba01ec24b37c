// Package config loads the txdash configuration through viper.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading ~ to the home directory and then expands
// $VAR references, so storage.path and dashboard.log_file may be written
// either way. A ~ is left alone when the home directory is unknown.
func ExpandPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "~"); ok && (rest == "" || rest[0] == '/') {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, rest)
		}
	}
	return os.ExpandEnv(path)
}
