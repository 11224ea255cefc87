package repl

import (
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"in_ternary", "x ? fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"between_operators", "a+b", 2, "b", 2, 3},
		// Element and attribute names may contain hyphens.
		{"hyphenated", "my-widget", 9, "my-widget", 0, 9},
		{"hyphenated_after_dot", "user.first-name", 15, "first-name", 5, 15},
		// Directives complete as one word.
		{"directive", "p { @fo", 7, "@fo", 4, 7},
		{"in_splice", "p { (user.na", 12, "na", 10, 12},
		{"after_brace", "div{sp", 6, "sp", 4, 6},
		{"after_quote", `"a"b`, 4, "b", 3, 4},
		{"empty_after_dot", "user.", 5, "", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"in_splice", "p { (bar.baz.", 13, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"hyphenated_chain", "user.first-name.", 16, "user.first-name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestChildCandidates(t *testing.T) {
	type profile struct {
		Name  string
		Email string
		age   int
	}

	env := map[string]any{
		"user":  map[string]any{"name": "ann", "role": "admin"},
		"owner": profile{},
		"items": []int{1, 2},
	}

	t.Run("top level", func(t *testing.T) {
		t.Parallel()

		got := childCandidates(env, "")
		for _, want := range []string{"user", "items", "path", "raw", "len", "@for", "@match"} {
			if !slices.Contains(got, want) {
				t.Errorf("top-level candidates missing %q", want)
			}
		}

		if !slices.IsSorted(got) {
			t.Error("top-level candidates are not sorted")
		}
	})

	tests := []struct {
		parent string
		want   []string
	}{
		{"user", []string{"name", "role"}},
		{"owner", []string{"Name", "Email"}},
		{"items", nil},
		{"missing", nil},
		{"path", []string{"abs", "base", "cat", "dir", "ext", "rel"}},
	}

	for _, tt := range tests {
		t.Run(tt.parent, func(t *testing.T) {
			t.Parallel()

			got := childCandidates(env, tt.parent)
			slices.Sort(got)

			want := slices.Clone(tt.want)
			slices.Sort(want)

			if !slices.Equal(got, want) {
				t.Errorf("childCandidates(%q) = %v, want %v", tt.parent, got, want)
			}
		})
	}
}

func TestFormatPreview(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, "<nil>"},
		{"hi", "hi"},
		{3, "3"},
		{map[string]any{"a": 1}, "{ 1 key }"},
		{[]int{1, 2}, "[ 2 items ]"},
		{func() {}, "func"},
		{"0123456789012345678901234567890123456789xyz", "0123456789012345678901234567890123456..."},
	}

	for _, tt := range tests {
		if got := formatPreview(tt.value); got != tt.want {
			t.Errorf("formatPreview(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestRenderCandidateBar(t *testing.T) {
	t.Parallel()

	matches := fuzzy.Find("a", []string{"alpha", "beta", "gamma"})

	tests := []struct {
		width int
		want  []string
		not   []string
	}{
		{width: 80, want: []string{"alpha", "beta", "gamma"}, not: []string{"..."}},
		{width: 14, want: []string{"alpha", "..."}, not: []string{"gamma"}},
		{width: 1, want: []string{"alpha", "..."}},
		{width: 0},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.width), func(t *testing.T) {
			t.Parallel()

			got := renderCandidateBar(matches, 0, false, tt.width)

			for _, s := range tt.want {
				if !strings.Contains(got, s) {
					t.Errorf("bar = %q, want to contain %q", got, s)
				}
			}

			for _, s := range tt.not {
				if strings.Contains(got, s) {
					t.Errorf("bar = %q, want no %q", got, s)
				}
			}

			if tt.width == 0 && got != "" {
				t.Errorf("bar = %q, want empty", got)
			}
		})
	}
}
