package repl

import (
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/hotmark/host"
)

// exprParams lists the parameters of the expr-lang builtins worth hinting.
// Their Go signatures are generic, so reflection cannot name them.
//
//nolint:gochecknoglobals
var exprParams = map[string][]string{
	"len":           {"v"},
	"all":           {"array", "predicate"},
	"any":           {"array", "predicate"},
	"one":           {"array", "predicate"},
	"none":          {"array", "predicate"},
	"map":           {"array", "mapper"},
	"filter":        {"array", "predicate"},
	"find":          {"array", "predicate"},
	"findIndex":     {"array", "predicate"},
	"findLast":      {"array", "predicate"},
	"findLastIndex": {"array", "predicate"},
	"groupBy":       {"array", "mapper"},
	"sortBy":        {"array", "mapper"},
	"count":         {"array", "predicate"},
	"sum":           {"array"},
	"mean":          {"array"},
	"median":        {"array"},
	"min":           {"array"},
	"max":           {"array"},
	"join":          {"array", "separator"},
	"split":         {"string", "separator"},
	"replace":       {"string", "old", "new"},
	"trim":          {"string"},
	"trimPrefix":    {"string", "prefix"},
	"trimSuffix":    {"string", "suffix"},
	"upper":         {"string"},
	"lower":         {"string"},
	"hasPrefix":     {"string", "prefix"},
	"hasSuffix":     {"string", "suffix"},
	"int":           {"v"},
	"float":         {"v"},
	"string":        {"v"},
	"type":          {"v"},
	"toJSON":        {"v"},
	"fromJSON":      {"string"},
	"now":           {},
	"date":          {"string"},
	"duration":      {"string"},
}

//nolint:gochecknoglobals
var (
	signatureStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureFunStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	currentParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// signature names a callable and its parameters. A variadic final
// parameter is prefixed with "...".
type signature struct {
	name   string
	params []string
}

func (s signature) String() string {
	return s.name + "(" + strings.Join(s.params, ", ") + ")"
}

// render styles s with the parameter receiving argument arg highlighted.
func (s signature) render(arg int) string {
	var b strings.Builder

	b.WriteString(signatureFunStyle.Render(s.name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range s.params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")
		if arg == i || variadic && arg > i {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}

// callAt reports the innermost call whose argument list contains the byte
// offset cursor of input, with the 0-based index of the argument there.
// Only ASCII delimiters are inspected, so offsets never split a rune.
func callAt(input string, cursor int) (name string, arg int, ok bool) {
	cursor = min(max(cursor, 0), len(input))

	open, depth := -1, 0

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return "", 0, false
	}

	start := open
	for start > 0 && isNameByte(input[start-1]) {
		start--
	}

	if name = input[start:open]; name == "" {
		return "", 0, false
	}

	depth = 0

	for _, c := range []byte(input[open+1 : cursor]) {
		switch c {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				arg++
			}
		}
	}

	return name, arg, true
}

func isNameByte(c byte) bool {
	return c == '.' || c == '_' ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// lookupSignature finds the signature of the callable name among the REPL
// variables, the expr-lang builtins and the host builtins, in that order.
func lookupSignature(env map[string]any, name string) (signature, bool) {
	if sig, ok := funcSignature(env, name); ok {
		return sig, true
	}

	if params, ok := exprParams[name]; ok {
		return signature{name: name, params: params}, true
	}

	return builtinSignature(name)
}

// builtinSignature returns the signature of a host builtin function.
func builtinSignature(name string) (signature, bool) {
	return funcSignature(host.Builtins(), name)
}

// funcSignature reflects on the function reached by following the
// dot-separated name through nested maps of env.
func funcSignature(env map[string]any, name string) (signature, bool) {
	var v any = env

	for seg := range strings.SplitSeq(name, ".") {
		m, ok := v.(map[string]any)
		if !ok {
			return signature{}, false
		}

		if v, ok = m[seg]; !ok {
			return signature{}, false
		}
	}

	t := reflect.TypeOf(v)
	if t == nil || t.Kind() != reflect.Func {
		return signature{}, false
	}

	sig := signature{name: name, params: make([]string, t.NumIn())}

	for i := range t.NumIn() {
		if t.IsVariadic() && i == t.NumIn()-1 {
			sig.params[i] = "..." + typeName(t.In(i).Elem())
		} else {
			sig.params[i] = typeName(t.In(i))
		}
	}

	return sig, true
}

// typeName returns a short readable name of a parameter type.
func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Func:
		return "func"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "int"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "uint"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Bool:
		return "bool"
	case reflect.Slice, reflect.Array:
		return "[]" + typeName(t.Elem())
	case reflect.Map:
		return "map"
	case reflect.Pointer:
		return typeName(t.Elem())
	case reflect.Interface:
		return "any"
	default:
		if t.Name() != "" {
			return t.Name()
		}

		return "arg"
	}
}
