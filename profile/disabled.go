//go:build !pprof

package profile

import "iter"

// Modes returns no modes when built without pprof tag.
func Modes() iter.Seq[string] {
	return func(func(string) bool) {}
}

func start(Options) interface{ Stop() } { return ignore{} }
