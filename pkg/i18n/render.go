package i18n

import (
	"fmt"
	"regexp"
	"strconv"
)

// Params maps placeholder names to their values. Values are usually strings or numbers.
type Params map[string]any

// Renderer renders a localized message for a dotted key.
type Renderer interface {
	T(key string, params Params) string
}

// Regex to find named parameters in the form {name}
var paramRegex = regexp.MustCompile(`\{(\w+)\}`)

// Render resolves key in c and substitutes {name} placeholders from params.
// An unresolved key, or a key pointing to a branch, renders as the key itself.
func Render(c *Catalog, key string, params Params) string {
	tmpl, ok := c.Lookup(key)
	if !ok {
		return key
	}
	return Substitute(tmpl, params)
}

// Substitute replaces {name} placeholders in one left-to-right pass.
// Placeholders without a matching parameter, or whose parameter is nil, are
// left verbatim and substituted values are never expanded again.
func Substitute(tmpl string, params Params) string {
	if len(params) == 0 {
		return tmpl
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[1 : len(match)-1]
		if val, ok := params[name]; ok && val != nil {
			return stringify(val)
		}
		return match
	})
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
