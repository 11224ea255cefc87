package repl

import (
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/hotmark/host"
)

// directives are the template control keywords offered after '@'.
var directives = []string{"@if", "@else", "@for", "@while", "@match", "@let"}

// wordBreaks delimit completion words: whitespace, member access, template
// brackets and expr-lang punctuation. Hyphens belong to element and
// attribute names, and '@' starts a directive, so neither breaks a word.
const wordBreaks = " \t.()[]{}+*/%<>=!&|,?:;\""

func isWordBreak(r rune) bool { return strings.ContainsRune(wordBreaks, r) }

// wordBounds returns the word under cursor and its byte range in input. The
// word is empty when cursor sits between two breaks.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	// Every break is a single byte.
	start = strings.LastIndexFunc(input[:cursor], isWordBreak) + 1

	end = len(input)
	if i := strings.IndexFunc(input[cursor:], isWordBreak); i >= 0 {
		end = cursor + i
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain that ends just before the word
// starting at wordStart, as in "path" for "(a + path.ba". It is empty for a
// word not preceded by a dot.
func parentPath(input string, wordStart int) string {
	chain, ok := strings.CutSuffix(input[:wordStart], ".")
	if !ok {
		return ""
	}

	chain = strings.TrimRight(chain, ".")

	i := strings.LastIndexFunc(chain, func(r rune) bool {
		return r != '.' && isWordBreak(r)
	})

	return strings.TrimSpace(chain[i+1:])
}

// childCandidates returns the names that are valid completions for the given
// parent path. For an empty parent it returns the variables, the built-in
// names, the expr-lang functions and the directives. For a non-empty parent
// it returns the fields of the variable or built-in namespace it names.
func childCandidates(env map[string]any, parent string) []string {
	if parent == "" {
		names := slices.Collect(maps.Keys(env))
		names = append(names, host.BuiltinLookup("")...)
		names = append(names, slices.Collect(maps.Keys(builtin.Index))...)
		names = append(names, directives...)

		slices.Sort(names)

		return slices.Compact(names)
	}

	if names := fieldNames(env, parent); names != nil {
		return names
	}

	return host.BuiltinLookup(parent)
}

// fieldNames returns the keys of the map or the exported fields of the
// struct reached by following path through env.
func fieldNames(env map[string]any, path string) []string {
	var current any = env

	for seg := range strings.SplitSeq(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}

		if current, ok = m[seg]; !ok {
			return nil
		}
	}

	switch v := reflect.ValueOf(current); v.Kind() {
	case reflect.Map:
		var names []string

		for _, k := range v.MapKeys() {
			if k.Kind() == reflect.String {
				names = append(names, k.String())
			}
		}

		slices.Sort(names)

		return names

	case reflect.Struct:
		var names []string

		for i := range v.NumField() {
			if f := v.Type().Field(i); f.IsExported() {
				names = append(names, f.Name)
			}
		}

		return names

	default:
		return nil
	}
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. When the current word is empty at the top level, it returns nil
// matches. When the word is empty after a dot (member access), it returns all
// children as matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = commandNames()
	} else {
		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.env, parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

//nolint:gochecknoglobals
var (
	matchStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedMatchStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("4")).
				Bold(true)
	barEllipsis = hintStyle.Render("...")
)

const barSep = "  "

// renderCandidateBar lays matches out on one line no wider than width,
// ending with an ellipsis when some do not fit. The candidate at suggIdx is
// drawn selected while tabbing.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if width <= 0 {
		return ""
	}

	room := width - lipgloss.Width(barEllipsis)
	parts := make([]string, 0, len(matches))

	for i, match := range matches {
		part := renderCandidate(match, tabActive && i == suggIdx)

		if i > 0 {
			room -= lipgloss.Width(barSep)
		}

		if room -= lipgloss.Width(part); room < 0 && i > 0 {
			parts = append(parts, barEllipsis)

			break
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, barSep)
}

// renderCandidate draws one candidate with its fuzzy-matched characters
// emphasized. Functions get a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	plain, hit := suggestionStyle, matchStyle
	if selected {
		plain, hit = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		// MatchedIndexes is ascending.
		if _, ok := slices.BinarySearch(match.MatchedIndexes, i); ok {
			b.WriteString(hit.Render(string(r)))
		} else {
			b.WriteString(plain.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(plain.Render("()"))
	}

	return b.String()
}

// formatPreview returns a short description of a variable value.
func formatPreview(v any) string {
	if v == nil {
		return "<nil>"
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Map:
		return "{ " + plural(rv.Len(), "key") + " }"
	case reflect.Slice, reflect.Array:
		return "[ " + plural(rv.Len(), "item") + " ]"
	case reflect.Func:
		return "func"
	}

	s := host.RenderString(v)
	if len(s) > 40 {
		return s[:37] + "..."
	}

	return s
}

func plural(n int, noun string) string {
	s := noun
	if n != 1 {
		s += "s"
	}

	return strconv.Itoa(n) + " " + s
}

// isFunction reports whether a top-level name refers to a callable
// built-in.
func isFunction(name string) bool {
	if _, ok := builtin.Index[name]; ok {
		return true
	}

	_, ok := builtinSignature(name)

	return ok
}
