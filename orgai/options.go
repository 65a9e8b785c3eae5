package orgai

import (
	"fmt"
	"math"
	"strings"
)

// Option identifies one header-argument key that invocations accept.
// Editor integrations use the constants to drive completion.
type Option string

const (
	OptionModel       Option = "model"
	OptionTemperature Option = "temperature"
	OptionMaxTokens   Option = "max_tokens"
	OptionSystem      Option = "system"
	OptionBackend     Option = "backend"
	OptionDryRun      Option = "dry_run"
	OptionPreset      Option = "preset"
	OptionContext     Option = "context"
	OptionPrompt      Option = "prompt"
	OptionSession     Option = "session"
	OptionFormat      Option = "format"
	OptionVar         Option = "var"
)

// Candidate is one completion candidate for an option value.
type Candidate struct {
	Text string
	Note string
}

// Suggest returns the completion candidates for an option key, filtered
// by a case-insensitive prefix. Keys that take free-form values return
// nil. Document-derived keys scan the whole document, not just the text
// before any invocation point.
func (e *Engine) Suggest(doc Document, key Option, prefix string) []Candidate {
	var out []Candidate
	switch key {
	case OptionModel:
		out = e.modelCandidates()
	case OptionBackend:
		out = e.backendCandidates()
	case OptionSession:
		out = sessionCandidates(doc)
	case OptionPrompt:
		out = promptCandidates(doc)
	case OptionPreset:
		out = e.presetCandidates()
	case OptionFormat:
		out = []Candidate{
			{Text: "raw", Note: "insert the response verbatim"},
			{Text: "org", Note: "convert markdown responses to org"},
		}
	case OptionDryRun:
		out = []Candidate{
			{Text: "yes", Note: "assemble and print the payload only"},
			{Text: "no"},
		}
	default:
		return nil
	}
	return filterCandidates(out, prefix)
}

func (e *Engine) modelCandidates() []Candidate {
	var out []Candidate
	for _, name := range e.registry.List() {
		b, ok := e.registry.Lookup(name)
		if !ok {
			continue
		}
		for _, model := range b.Models() {
			out = append(out, Candidate{Text: model, Note: b.Name()})
		}
	}
	return out
}

func (e *Engine) backendCandidates() []Candidate {
	var out []Candidate
	for _, name := range e.registry.List() {
		b, ok := e.registry.Lookup(name)
		if !ok {
			continue
		}
		out = append(out, Candidate{
			Text: name,
			Note: fmt.Sprintf("%d models", len(b.Models())),
		})
	}
	return out
}

func (e *Engine) presetCandidates() []Candidate {
	if e.presets == nil {
		return nil
	}
	var out []Candidate
	for _, name := range e.presets.Names() {
		c := Candidate{Text: name}
		if cfg, ok := e.presets.Lookup(name); ok && cfg.Model != "" {
			c.Note = cfg.Model
		}
		out = append(out, c)
	}
	return out
}

func sessionCandidates(doc Document) []Candidate {
	if doc == nil {
		return nil
	}
	var out []Candidate
	for _, s := range Sessions(doc, math.MaxInt) {
		n := len(SessionBlocks(doc, s, math.MaxInt))
		out = append(out, Candidate{
			Text: s,
			Note: fmt.Sprintf("%d blocks", n),
		})
	}
	return out
}

func promptCandidates(doc Document) []Candidate {
	if doc == nil {
		return nil
	}
	blocks := ScanBlocks(doc, math.MaxInt)
	var out []Candidate
	for _, name := range PromptNames(doc, math.MaxInt) {
		c := Candidate{Text: name}
		for _, b := range blocks {
			if b.Name == name {
				c.Note = firstLine(b.Body)
				break
			}
		}
		out = append(out, c)
	}
	return out
}

func filterCandidates(cands []Candidate, prefix string) []Candidate {
	if prefix == "" {
		return cands
	}
	p := strings.ToLower(prefix)
	var out []Candidate
	for _, c := range cands {
		if strings.HasPrefix(strings.ToLower(c.Text), p) {
			out = append(out, c)
		}
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
