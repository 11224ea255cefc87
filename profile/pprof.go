//go:build pprof

package profile

import (
	"iter"
	"slices"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

// mode pairs a mode name with the pkg/profile option selecting it.
type mode struct {
	name   string
	option func(*profile.Profile)
}

// modes is sorted by name.
//
//nolint:gochecknoglobals
var modes = []mode{
	{"allocs", profile.MemProfileAllocs},
	{"block", profile.BlockProfile},
	{"clock", profile.ClockProfile},
	{"cpu", profile.CPUProfile},
	{"goroutine", profile.GoroutineProfile},
	{"heap", profile.MemProfileHeap},
	{"mem", profile.MemProfile},
	{"mutex", profile.MutexProfile},
	{"thread", profile.ThreadcreationProfile},
	{"trace", profile.TraceProfile},
}

// Modes returns the supported profiling modes in sorted order.
func Modes() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, m := range modes {
			if !yield(m.name) {
				return
			}
		}
	}
}

func start(opts Options) interface{ Stop() } {
	i := slices.IndexFunc(modes, func(m mode) bool { return m.name == opts.Mode })
	if i < 0 {
		return ignore{}
	}

	settings := []func(*profile.Profile){modes[i].option, profile.NoShutdownHook}

	if opts.Path != "" {
		settings = append(settings, profile.ProfilePath(opts.Path))
	}

	if opts.Quiet {
		settings = append(settings, profile.Quiet)
	}

	return profile.Start(settings...)
}
