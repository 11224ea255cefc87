package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// TestWithVarFiles tests ordering and deduplication of variable files.
func TestWithVarFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	link := filepath.Join(dir, "link.yaml")

	for path, content := range map[string]string{a: "a;", b: "b;"} {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	rel, err := filepath.Rel(mustGetwd(t), a)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		paths []string
		want  string
		isNil bool
	}{
		{name: "nil", paths: nil, isNil: true},
		{name: "empty", paths: []string{}, isNil: true},
		{name: "single", paths: []string{a}, want: "a;"},
		{name: "ordered", paths: []string{b, a}, want: "b;a;"},
		{name: "duplicate path", paths: []string{a, a, b, a}, want: "a;b;"},
		{name: "relative duplicate", paths: []string{a, rel}, want: "a;"},
		{name: "symlink duplicate", paths: []string{link, a}, want: "a;"},
		{name: "missing skipped", paths: []string{"/nonexistent/x.yaml", b}, want: "b;"},
		{name: "all missing", paths: []string{"/nonexistent/x.yaml"}, isNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files := varFilesFrom(WithVarFiles(context.Background(), tt.paths))
			if tt.isNil {
				if files != nil {
					t.Errorf("varFilesFrom() = %v, want nil", files)
				}

				return
			}

			if files.Len() == 0 {
				t.Fatal("varFilesFrom() = nil, want files")
			}

			if got := strings.Join(readEach(t, files), ""); got != tt.want {
				t.Errorf("read %q, want %q", got, tt.want)
			}
		})
	}
}

// TestWithVarFilesStdin tests that stdin is read once and last.
//
//nolint:paralleltest // replaces os.Stdin
func TestWithVarFilesStdin(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.yaml")
	if err := os.WriteFile(file, []byte("file;"), 0o600); err != nil {
		t.Fatal(err)
	}

	withStdin(t, "stdin;")

	files := varFilesFrom(WithVarFiles(context.Background(), []string{"-", file, "-"}))
	if files.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", files.Len())
	}

	if got, want := readEach(t, files), []string{"file;", "stdin;"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Each() = %q, want %q", got, want)
	}
}

// TestLoadVars tests decoding and merging of variable files.
func TestLoadVars(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		return path
	}

	base := write("base.yaml", "title: Home\nitems: [a, b]\n")
	over := write("over.json", `{"title": "About", "draft": true}`)
	empty := write("empty.yaml", "")
	bad := write("bad.yaml", "title: [unclosed\n")

	tests := []struct {
		name    string
		paths   []string
		want    map[string]any
		wantErr error
	}{
		{name: "none", want: map[string]any{}},
		{
			name:  "merged in order",
			paths: []string{base, over},
			want: map[string]any{
				"title": "About",
				"items": []any{"a", "b"},
				"draft": true,
			},
		},
		{name: "empty file", paths: []string{empty}, want: map[string]any{}},
		{name: "malformed", paths: []string{base, bad}, wantErr: ErrReadVars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := LoadVars(WithVarFiles(context.Background(), tt.paths))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadVars() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("LoadVars() unexpected error = %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LoadVars() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

// readEach returns the content of every source of files in order.
func readEach(t *testing.T, files *VarFiles) []string {
	t.Helper()

	var got []string

	err := files.Each(func(_ string, r io.Reader) error {
		data, err := io.ReadAll(r)
		got = append(got, string(data))

		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	return got
}

func mustGetwd(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	return wd
}

// withStdin replaces os.Stdin with a pipe yielding content for the duration
// of the test.
func withStdin(t *testing.T, content string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	old := os.Stdin
	os.Stdin = r

	t.Cleanup(func() {
		os.Stdin = old
		r.Close()
	})

	go func() {
		defer w.Close()

		_, _ = io.WriteString(w, content)
	}()
}
