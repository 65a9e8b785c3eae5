package orgai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Renderer renders an assembled payload to a target representation.
type Renderer interface {
	Render(Payload) ([]byte, error)
}

// JSONRenderer emits the payload as indented JSON. It backs the
// dry-run return value.
type JSONRenderer struct{}

func (r JSONRenderer) Render(p Payload) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// OrgRenderer emits the payload as a readable org snippet.
type OrgRenderer struct{}

func (r OrgRenderer) Render(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("* Request\n")
	fmt.Fprintf(&buf, "- backend :: %s\n", p.Backend)
	fmt.Fprintf(&buf, "- model :: %s\n", p.Model)
	if p.Temperature != nil {
		fmt.Fprintf(&buf, "- temperature :: %v\n", *p.Temperature)
	}
	if p.MaxTokens > 0 {
		fmt.Fprintf(&buf, "- max_tokens :: %d\n", p.MaxTokens)
	}
	fmt.Fprintf(&buf, "- stream :: %v\n", p.Stream)
	if p.Directive.System != "" {
		buf.WriteString("* System\n")
		buf.WriteString(p.Directive.System)
		buf.WriteString("\n")
	}
	if len(p.Directive.Turns) > 0 {
		buf.WriteString("* Turns\n")
		for _, t := range p.Directive.Turns {
			fmt.Fprintf(&buf, "** %s\n", t.Role)
			if t.Content != "" {
				buf.WriteString(t.Content)
				buf.WriteString("\n")
			}
		}
	}
	if p.Body != "" {
		buf.WriteString("* Body\n")
		buf.WriteString(p.Body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// RendererFor maps a renderer name to an implementation. The empty
// name selects JSON.
func RendererFor(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSONRenderer{}, nil
	case "org":
		return OrgRenderer{}, nil
	default:
		return nil, &OrgAIError{Type: ErrRender, Message: fmt.Sprintf("no renderer named %q", name)}
	}
}
