package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/ardnew/hotmark/log"
	"github.com/ardnew/hotmark/profile"
)

const defaultConfigIndent = 2

// Init writes the configuration file from the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run writes the configuration file, refusing to replace an existing one
// unless forced.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	path := kongContextFrom(ctx).Model.Vars()[ConfigIdentifier]
	fail := ErrWriteConfig.With(slog.String("file", path))

	if _, err := os.Stat(path); err == nil && !i.Force {
		return fail.With(slog.Bool("exists", true)).Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalContext(ctx, i.buildConfig(ctx), yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fail.Wrap(err)
	}

	log.DebugContext(ctx, "wrote configuration", slog.String("file", path))

	return nil
}

// configExcluded are the flag name prefixes never written to the
// configuration file.
//
//nolint:gochecknoglobals
var configExcluded = []string{"help", "version", "vars", profile.Tag}

// buildConfig returns the configuration document holding the value of
// every visible flag that has one, keyed by flag name.
func (i *Init) buildConfig(ctx context.Context) map[string]any {
	ktx := kongContextFrom(ctx)
	entries := map[string]any{}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(configExcluded, func(prefix string) bool {
			return strings.HasPrefix(flag.Name, prefix)
		}) {
			continue
		}

		if v, ok := configValue(ktx.FlagValue(flag)); ok {
			entries[flag.Name] = v
		}
	}

	return map[string]any{ConfigIdentifier: entries}
}

// configValue converts a flag value to its YAML form. Empty strings and
// slices are unset.
func configValue(v any) (any, bool) {
	switch v := v.(type) {
	case nil:
		return nil, false
	case string:
		return v, v != ""
	case []string:
		return v, len(v) > 0
	case bool, int, int64, uint, uint64, float64, []int, []float64, []bool:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}
