// Package profile provides optional runtime profiling for hotmark.
//
// Profiling integrates [github.com/pkg/profile] and is compiled in only with
// the pprof build tag:
//
//	go build -tags pprof -o hotmark .
//	hotmark --pprof-mode=cpu --pprof-dir=./profiles render page.hm
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// Without the tag, [Start] always returns a no-op and [Modes] is empty.
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, and trace. Builds with the tag also register the
// [net/http/pprof] handlers on [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
