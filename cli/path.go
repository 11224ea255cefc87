package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/hotmark/pkg"
)

// baseConfig is the base name of the configuration file and the key of its
// flag document.
const baseConfig = "config"

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(pkg.ConfigDir(), filepath.Join(elem...))
}

// mkdirAllRequired creates the configuration and cache directories, which
// init and the REPL history write into.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return pkg.WrapError(err).With(slog.String("dir", dir))
		}
	}

	return nil
}
