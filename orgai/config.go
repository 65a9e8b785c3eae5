package orgai

import (
	"strconv"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

// Config is one invocation's configuration. Zero values mean "not set"
// and defer to whatever the merge layer below provides.
type Config struct {
	Model       string   `json:"model,omitempty" yaml:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	System      string   `json:"system,omitempty" yaml:"system,omitempty"`
	Backend     string   `json:"backend,omitempty" yaml:"backend,omitempty"`
	DryRun      bool     `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Preset      string   `json:"preset,omitempty" yaml:"preset,omitempty"`
	Context     string   `json:"context,omitempty" yaml:"context,omitempty"`
	Prompt      string   `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Session     string   `json:"session,omitempty" yaml:"session,omitempty"`
	Format      string   `json:"format,omitempty" yaml:"format,omitempty"`
	Vars        Vars     `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// DefaultConfig holds the ambient defaults applied beneath presets and
// header arguments.
var DefaultConfig = Config{
	Backend: "anthropic",
	Format:  "org",
}

// ParseParams maps header arguments onto a Config. Malformed numeric
// values are ignored, dry_run follows truthy normalization, and the
// accumulated :var bindings become Vars.
func ParseParams(params map[string]string) Config {
	cfg := Config{}
	if params == nil {
		return cfg
	}
	cfg.Model = params["model"]
	cfg.System = params["system"]
	cfg.Backend = params["backend"]
	cfg.Preset = params["preset"]
	cfg.Context = params["context"]
	cfg.Prompt = params["prompt"]
	cfg.Session = params["session"]
	cfg.Format = params["format"]
	if raw, ok := params["temperature"]; ok {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.Temperature = misc.Pointer(f)
		}
	}
	if raw, ok := params["max_tokens"]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	if raw, ok := params["dry_run"]; ok {
		cfg.DryRun = FlagTruthy(raw)
	}
	cfg.Vars = ParseVarBindings(params["var"])
	return cfg
}

var falsyFlagValues = map[string]bool{
	"":      true,
	"0":     true,
	"false": true,
	"no":    true,
	"nil":   true,
	"off":   true,
}

// FlagTruthy normalizes yes/no header arguments. A small falsy set
// reads as false, anything else as true, so bare flags and values like
// "yes" or "t" all enable.
func FlagTruthy(raw string) bool {
	return !falsyFlagValues[strings.ToLower(strings.TrimSpace(raw))]
}

// MergeConfig overlays override on base: non-zero override fields win,
// var bindings merge key-wise.
func MergeConfig(base, override Config) Config {
	out := base
	if override.Model != "" {
		out.Model = override.Model
	}
	if override.Temperature != nil {
		out.Temperature = override.Temperature
	}
	if override.MaxTokens != 0 {
		out.MaxTokens = override.MaxTokens
	}
	if override.System != "" {
		out.System = override.System
	}
	if override.Backend != "" {
		out.Backend = override.Backend
	}
	if override.DryRun {
		out.DryRun = true
	}
	if override.Preset != "" {
		out.Preset = override.Preset
	}
	if override.Context != "" {
		out.Context = override.Context
	}
	if override.Prompt != "" {
		out.Prompt = override.Prompt
	}
	if override.Session != "" {
		out.Session = override.Session
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	out.Vars = MergeVars(base.Vars, override.Vars)
	return out
}
