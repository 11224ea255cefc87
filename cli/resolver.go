package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] reading the flag document
// stored under key name of a YAML (or JSON) config file.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve("config"), "/path/to/config.yaml")
//
// Example config file:
//
//	config:
//	  log-level: debug
//	  keyword: "view!"
//	  max-iterations: 500
//
// Flag names with hyphens may also be written with underscores. Command-line
// flags override config file values. A missing or malformed document yields
// an empty configuration.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var doc map[string]map[string]any

		flags := config{}

		if yaml.Unmarshal(data, &doc) == nil {
			for key, val := range doc[name] {
				flags[key] = flagText(val)
			}
		}

		return flags, nil
	}
}

// flagText converts a decoded config value to a form kong can parse. Kong
// requires numbers as strings and accepts sequences as separated strings.
func flagText(v any) any {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case int:
		return strconv.Itoa(v)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		elems := make([]string, len(v))
		for i, e := range v {
			elems[i] = fmt.Sprint(flagText(e))
		}

		return strings.Join(elems, ",")

	default:
		return v
	}
}

// config is the decoded flag document. It implements [kong.Resolver].
type config map[string]any

func (config) Validate(*kong.Application) error { return nil }

// Resolve returns the value of flag, or nil to keep the kong default.
func (r config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	for _, key := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
		if v, ok := r[key]; ok {
			return v, nil
		}
	}

	return nil, nil //nolint:nilnil
}
