package orgai

import "strings"

// Builder assembles org conversation documents in code. Tests, the
// payload bridge and programmatic callers use it instead of starting
// from a file on disk. Methods return the builder for chaining.
type Builder struct {
	lines   []string
	session string
	system  string
	params  [][2]string
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Session sets the session id attached to subsequent User blocks. An
// empty id detaches them.
func (b *Builder) Session(id string) *Builder {
	b.session = id
	return b
}

// System sets the :system header argument attached to subsequent User
// blocks.
func (b *Builder) System(text string) *Builder {
	b.system = text
	return b
}

// Param attaches an extra header argument to subsequent User blocks. An
// empty value emits a bare flag.
func (b *Builder) Param(key, value string) *Builder {
	b.params = append(b.params, [2]string{key, value})
	return b
}

// User appends an llm source block carrying the builder's current
// session, system and extra header arguments.
func (b *Builder) User(body string) *Builder {
	b.blank()
	b.lines = append(b.lines, "#+begin_src "+LangLLM+b.headerArgs())
	b.appendBody(body)
	b.lines = append(b.lines, "#+end_src")
	return b
}

// Prompt appends a named llm block resolvable through FindPrompt.
func (b *Builder) Prompt(name, body string) *Builder {
	b.blank()
	b.lines = append(b.lines, "#+name: "+name, "#+begin_src "+LangLLM)
	b.appendBody(body)
	b.lines = append(b.lines, "#+end_src")
	return b
}

// Result attaches a fixed-width results section to the preceding block,
// the shape a completed response takes after manual cleanup.
func (b *Builder) Result(text string) *Builder {
	b.blank()
	b.lines = append(b.lines, "#+RESULTS:")
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			b.lines = append(b.lines, ":")
		} else {
			b.lines = append(b.lines, ": "+line)
		}
	}
	return b
}

// Raw appends arbitrary document lines verbatim.
func (b *Builder) Raw(lines ...string) *Builder {
	b.lines = append(b.lines, lines...)
	return b
}

// Build renders the document text.
func (b *Builder) Build() string {
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}

// Document wraps the built text in a TextBuffer.
func (b *Builder) Document() *TextBuffer {
	return NewTextBuffer(b.Build())
}

func (b *Builder) blank() {
	if len(b.lines) > 0 {
		b.lines = append(b.lines, "")
	}
}

func (b *Builder) appendBody(body string) {
	if body == "" {
		return
	}
	b.lines = append(b.lines, strings.Split(body, "\n")...)
}

func (b *Builder) headerArgs() string {
	var sb strings.Builder
	if b.session != "" {
		sb.WriteString(" :session ")
		sb.WriteString(b.session)
	}
	if b.system != "" {
		sb.WriteString(" :system ")
		sb.WriteString(b.system)
	}
	for _, kv := range b.params {
		sb.WriteString(" :")
		sb.WriteString(kv[0])
		if kv[1] != "" {
			sb.WriteString(" ")
			sb.WriteString(kv[1])
		}
	}
	return sb.String()
}
