package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/hotmark/log"
	"github.com/ardnew/hotmark/template"
)

// Options are the template flags shared by the rendering commands.
type Options struct {
	Vars          []string `                                     help:"Variable file(s) in YAML or JSON, or '-' for stdin"              short:"V" type:"existingfile"`
	Keyword       string   `default:"${keyword}"                 help:"Keyword introducing the template invocation"`
	MaxIterations int      `default:"10000"                      help:"Iteration limit of each @while loop"`
	Strict        bool     `env:"HOTMARK_SOURCE_NO_FALLBACK"     help:"Fail when template source cannot be recovered" negatable:""`
}

// KongVars returns the kong variables referenced by the tags of [Options].
func (Options) KongVars(keyword string) kong.Vars {
	return kong.Vars{KeywordIdentifier: keyword}
}

// templateOptions returns the options compiling a template read from file.
func (o *Options) templateOptions(file string, hot bool) []template.Option {
	opts := []template.Option{
		template.WithKeyword(o.Keyword),
		template.WithMaxIterations(o.MaxIterations),
		template.WithStrict(o.Strict),
		template.WithHotReload(hot),
		template.WithLogger(log.Default()),
	}

	if file != stdinSource {
		if abs, err := filepath.Abs(file); err == nil {
			opts = append(opts, template.WithLocation(abs, 1))
		}
	}

	return opts
}

// LoadVars decodes every variable file stored in ctx by [WithVarFiles] and
// merges them in order. Later files override earlier ones. Blank files are
// skipped.
func LoadVars(ctx context.Context) (map[string]any, error) {
	env := map[string]any{}

	err := varFilesFrom(ctx).Each(func(name string, r io.Reader) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return ErrReadVars.Wrap(err).With(slog.String("file", name))
		}

		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}

		var vars map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &vars); err != nil {
			return ErrReadVars.Wrap(err).With(slog.String("file", name))
		}

		maps.Copy(env, vars)

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "loaded variables", slog.Int("count", len(env)))

	return env, nil
}

// readSource returns the content of the file at path, or of stdin if path
// is "-".
func readSource(path string) (string, error) {
	var (
		data []byte
		err  error
	)

	if path == stdinSource {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return "", ErrReadSource.Wrap(err).With(slog.String("file", path))
	}

	return string(data), nil
}
