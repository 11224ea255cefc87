package host

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ardnew/hotmark/markup"
)

// PreEscaped is text that is written verbatim, without HTML escaping.
type PreEscaped string

// Renderer is implemented by values that write their own HTML.
// Implementations are responsible for escaping.
type Renderer interface {
	RenderHTML(sb *strings.Builder)
}

// Render appends the HTML form of v to sb.
//
// Strings, byte slices, errors and fmt.Stringer values are escaped. Numbers
// and booleans are formatted in their shortest form. A nil value renders
// nothing.
func Render(sb *strings.Builder, v any) {
	switch v := v.(type) {
	case nil:
	case PreEscaped:
		sb.WriteString(string(v))
	case Renderer:
		v.RenderHTML(sb)
	case string:
		markup.EscapeTo(sb, v)
	case []byte:
		markup.EscapeTo(sb, string(v))
	case bool:
		sb.WriteString(strconv.FormatBool(v))
	case int:
		sb.WriteString(strconv.Itoa(v))
	case int64:
		sb.WriteString(strconv.FormatInt(v, 10))
	case int32:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case uint:
		sb.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint64:
		sb.WriteString(strconv.FormatUint(v, 10))
	case float64:
		sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	case float32:
		sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	case error:
		markup.EscapeTo(sb, v.Error())
	case fmt.Stringer:
		markup.EscapeTo(sb, v.String())
	default:
		markup.EscapeTo(sb, fmt.Sprint(v))
	}
}

// RenderString returns the HTML form of v.
func RenderString(v any) string {
	var sb strings.Builder

	Render(&sb, v)

	return sb.String()
}
