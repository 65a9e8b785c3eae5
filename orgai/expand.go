package orgai

import (
	"fmt"
	"regexp"
	"strings"
)

// Vars binds template names to values. Non-string values render with
// their canonical literal form at substitution time.
type Vars map[string]any

var varPattern = regexp.MustCompile(`\$(?:\{([A-Za-z_][A-Za-z0-9_-]*)\}|([A-Za-z_][A-Za-z0-9_-]*))`)

// Expand substitutes $name and ${name} references in a single pass.
// Unknown names pass through unchanged, and substituted values are
// never re-expanded.
func Expand(text string, vars Vars) string {
	if len(vars) == 0 || !strings.Contains(text, "$") {
		return text
	}
	return varPattern.ReplaceAllStringFunc(text, func(match string) string {
		var name string
		if strings.HasPrefix(match, "${") {
			name = match[2 : len(match)-1]
		} else {
			name = match[1:]
		}
		v, ok := vars[name]
		if !ok {
			return match
		}
		return stringifyVar(v)
	})
}

// ExpandDirective maps Expand over the system text and every turn,
// returning a fresh directive.
func ExpandDirective(d Directive, vars Vars) Directive {
	if len(vars) == 0 {
		return d
	}
	out := Directive{System: Expand(d.System, vars)}
	if d.Turns != nil {
		out.Turns = make([]Turn, len(d.Turns))
		for i, t := range d.Turns {
			out.Turns[i] = Turn{Role: t.Role, Content: Expand(t.Content, vars)}
		}
	}
	return out
}

func stringifyVar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ParseVarBindings reads comma-separated name=value pairs, as collected
// from :var header arguments. Values may be double-quoted; malformed
// pairs are skipped.
func ParseVarBindings(raw string) Vars {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	vars := Vars{}
	for _, piece := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(piece, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		if name == "" {
			continue
		}
		vars[name] = value
	}
	if len(vars) == 0 {
		return nil
	}
	return vars
}

// MergeVars overlays override bindings on base without mutating either.
func MergeVars(base, override Vars) Vars {
	if len(base) == 0 {
		return override
	}
	if len(override) == 0 {
		return base
	}
	out := make(Vars, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
