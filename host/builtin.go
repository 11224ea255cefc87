package host

// This file defines the built-in environment available to every template
// expression. It is initialized once per process and cloned for every root
// scope so templates may shadow or rebind any name.

import (
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/hotmark/markup"
)

//nolint:gochecknoglobals
var builtins = sync.OnceValue(func() map[string]any {
	return map[string]any{
		// Output control.
		"raw":    func(s string) PreEscaped { return PreEscaped(s) },
		"escape": markup.Escape,

		// Host information.
		"platform": getPlatform(),
		"hostname": getHostname(),
		"cwd":      getCwd,
		"env":      os.Getenv,

		// Filesystem predicates.
		"file": map[string]any{
			"exists":    fileExists,
			"isDir":     fileIsDir,
			"isRegular": fileIsRegular,
		},

		// Path manipulation.
		"path": map[string]any{
			"abs":  pathAbs,
			"base": filepath.Base,
			"cat":  pathCat,
			"dir":  filepath.Dir,
			"ext":  filepath.Ext,
			"rel":  pathRel,
		},

		// PATH-like list manipulation.
		"mung": map[string]any{
			"prefix":   mungPrefix,
			"prefixif": mungPrefixIf,
		},
	}
})

// Builtins returns a copy of the built-in environment.
func Builtins() map[string]any {
	return maps.Clone(builtins())
}

// BuiltinLookup returns the names available under a dot-separated path of
// the built-in environment, or the top-level names if path is empty.
// It returns nil if path does not name a namespace.
func BuiltinLookup(path string) []string {
	var current any = builtins()

	if path != "" {
		for seg := range strings.SplitSeq(path, ".") {
			m, ok := current.(map[string]any)
			if !ok {
				return nil
			}

			if current, ok = m[seg]; !ok {
				return nil
			}
		}
	}

	m, ok := current.(map[string]any)
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	return keys
}

// platform identifies the host operating system and architecture.
type platform struct {
	OS   string
	Arch string
}

func getPlatform() platform {
	return platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// getHostname is empty when the name is unavailable.
func getHostname() string {
	name, _ := os.Hostname()

	return name
}

func getCwd() string {
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}

	return pathAbs(".")
}

// statMode reports whether path exists and, if so, its mode.
func statMode(path string) (fs.FileMode, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}

	return info.Mode(), true
}

func fileExists(path string) bool {
	_, ok := statMode(path)

	return ok
}

func fileIsDir(path string) bool {
	mode, ok := statMode(path)

	return ok && mode.IsDir()
}

func fileIsRegular(path string) bool {
	mode, ok := statMode(path)

	return ok && mode.IsRegular()
}

// pathAbs is path itself when it cannot be made absolute.
func pathAbs(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}

	return path
}

func pathCat(elem ...string) string {
	return filepath.Join(elem...)
}

// pathRel is the relative path from one file to another, or the two joined
// when no relative path exists.
func pathRel(from, to string) string {
	if rel, err := filepath.Rel(pathAbs(from), pathAbs(to)); err == nil {
		return rel
	}

	return pathCat(from, to)
}

// mungPrefix prepends items to the path-list-separated list key.
func mungPrefix(key string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

// mungPrefixIf is like mungPrefix but keeps only the items accepted by
// predicate.
func mungPrefixIf(
	key string,
	predicate func(string) bool,
	prefix ...string,
) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(predicate),
	).String()
}
