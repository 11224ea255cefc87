package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

//nolint:paralleltest // replaces the package-level logger
func TestPackage_UsesDefaultLogger(t *testing.T) {
	defaultMu.Lock()
	original := defaultLog
	defaultMu.Unlock()

	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLog = original
		defaultMu.Unlock()
	})

	var buf bytes.Buffer

	defaultMu.Lock()
	defaultLog = Make(&buf, WithPretty(false))
	defaultMu.Unlock()

	Config(WithLevel(LevelTrace), WithFormat(FormatJSON), WithTimeLayout("none"))

	ctx := context.Background()

	tests := []struct {
		level string
		log   func(string, ...slog.Attr)
	}{
		{"TRACE", func(m string, a ...slog.Attr) { TraceContext(ctx, m, a...) }},
		{"DEBUG", Debug},
		{"DEBUG", func(m string, a ...slog.Attr) { DebugContext(ctx, m, a...) }},
		{"INFO", Info},
		{"INFO", func(m string, a ...slog.Attr) { InfoContext(ctx, m, a...) }},
		{"WARN", Warn},
		{"WARN", func(m string, a ...slog.Attr) { WarnContext(ctx, m, a...) }},
		{"ERROR", Error},
		{"ERROR", func(m string, a ...slog.Attr) { ErrorContext(ctx, m, a...) }},
		{"INFO", func(m string, a ...slog.Attr) { With(a...).Info(m) }},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.log("message", slog.String("key", "value"))

		out := buf.String()
		for _, want := range []string{`"level":"` + tt.level + `"`, `"key":"value"`} {
			if !strings.Contains(out, want) {
				t.Errorf("output = %q, want to contain %q", out, want)
			}
		}
	}
}
