package profile

// Options select what [Start] profiles and where the output is written.
type Options struct {
	// Mode is one of [Modes], or "" to disable profiling.
	Mode string
	// Path is the output directory; "" uses a temporary directory.
	Path string
	// Quiet suppresses the profiler's own log messages.
	Quiet bool
}

// Start starts the profiler selected by opts and returns its stopper.
//
// If build tag pprof is unset, opts.Mode is empty, or opts.Mode is not one of
// [Modes], Start returns a no-op. Stop is always safely callable.
func Start(opts Options) interface{ Stop() } {
	if opts.Mode == "" {
		return ignore{}
	}

	return start(opts)
}

type ignore struct{}

func (ignore) Stop() {}
