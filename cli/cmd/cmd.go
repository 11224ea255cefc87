package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/alecthomas/kong"
)

type (
	kongContextKey struct{}
	varFilesKey    struct{}
)

// WithContext returns a copy of ctx carrying the parsed command line.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, kongContextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(kongContextKey{}).(*kong.Context)

	return ktx
}

// stdinSource names standard input where a file is expected.
const stdinSource = "-"

// VarFiles are the distinct readable variable files named on the command
// line, in order. Standard input, when named, is read after every file.
type VarFiles struct {
	paths []string
	stdin bool
}

// WithVarFiles returns a copy of ctx carrying the variable files at paths.
//
// Paths naming the same file, through symlinks or relative paths, are kept
// once at their first position. Every "-" stands for one standard input.
// Unreadable paths are dropped. If nothing remains, ctx carries no files.
func WithVarFiles(ctx context.Context, paths []string) context.Context {
	var (
		files VarFiles
		infos []os.FileInfo
	)

	stdin, _ := os.Stdin.Stat()

	for _, path := range paths {
		if path == stdinSource {
			files.stdin = true

			continue
		}

		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		if stdin != nil && os.SameFile(info, stdin) {
			files.stdin = true

			continue
		}

		if slices.ContainsFunc(infos, func(seen os.FileInfo) bool {
			return os.SameFile(seen, info)
		}) {
			continue
		}

		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}

		infos = append(infos, info)
		files.paths = append(files.paths, path)
	}

	if files.Len() == 0 {
		return ctx
	}

	return context.WithValue(ctx, varFilesKey{}, &files)
}

// varFilesFrom returns the files stored by WithVarFiles, or nil.
func varFilesFrom(ctx context.Context) *VarFiles {
	files, _ := ctx.Value(varFilesKey{}).(*VarFiles)

	return files
}

// Len returns the number of sources, counting standard input once.
func (v *VarFiles) Len() int {
	if v == nil {
		return 0
	}

	n := len(v.paths)
	if v.stdin {
		n++
	}

	return n
}

// Each calls fn with the name and content of every source in order. It
// stops at the first error.
func (v *VarFiles) Each(fn func(name string, r io.Reader) error) error {
	if v == nil {
		return nil
	}

	for _, path := range v.paths {
		if err := eachFile(path, fn); err != nil {
			return err
		}
	}

	if v.stdin {
		return fn(stdinSource, os.Stdin)
	}

	return nil
}

func eachFile(path string, fn func(string, io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return fn(path, f)
}
