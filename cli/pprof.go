//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/hotmark/log"
	"github.com/ardnew/hotmark/pkg"
	"github.com/ardnew/hotmark/profile"
)

// pprofConfig holds the profiling flags. It exists only in pprof builds.
type pprofConfig struct {
	Mode string `default:""             enum:",${pprof_modes}" help:"Profile the command in this mode" placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprof_dir}" help:"Directory receiving profiles"    type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	modes := slices.Collect(profile.Modes())

	return kong.Vars{
		"pprof_modes": strings.Join(modes, ","),
		"pprof_dir":   filepath.Join(pkg.CacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: profile.Tag, Title: "Profiling options"}
}

// start runs the profiler, if a mode is selected, until stop is called.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	p := profile.Start(profile.Options{Mode: f.Mode, Path: f.Dir, Quiet: true})

	if f.Mode != "" {
		log.DebugContext(ctx, "profiling", slog.String("mode", f.Mode), slog.String("dir", f.Dir))
	}

	return p.Stop
}
