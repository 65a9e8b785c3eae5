package orgai

import (
	"os"
	"strings"
	"sync"
)

// TextBuffer is an in-memory org document implementing Document. Every
// operation takes an internal lock, so completion callbacks may mutate
// the buffer while other holders read it.
type TextBuffer struct {
	mu   sync.Mutex
	text string
}

// NewTextBuffer wraps org text in a buffer.
func NewTextBuffer(text string) *TextBuffer {
	return &TextBuffer{text: text}
}

// ReadDocument loads an org file into a buffer.
func ReadDocument(path string) (*TextBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewTextBuffer(string(data)), nil
}

// String returns the current document text.
func (b *TextBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Len returns the current document length in bytes.
func (b *TextBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.text)
}

// Scan returns the src blocks and keywords beginning strictly before
// upTo, in document order. Unterminated blocks end the scan.
func (b *TextBuffer) Scan(upTo int) []RawElement {
	b.mu.Lock()
	text := b.text
	b.mu.Unlock()
	return scanElements(text, upTo)
}

// ResultAt returns the result text attached to the block at pos. The
// second return is false when the block has no results section; an
// empty section yields ("", true).
func (b *TextBuffer) ResultAt(pos int) (string, bool) {
	b.mu.Lock()
	text := b.text
	b.mu.Unlock()
	sec, ok := resultSectionAt(text, pos)
	if !ok {
		return "", false
	}
	return sec.text, true
}

// Text returns the text within span, clamped to the document bounds.
func (b *TextBuffer) Text(span Span) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	start, end := clampSpan(span, len(b.text))
	return b.text[start:end]
}

// Replace swaps the text within span, clamped to the document bounds.
func (b *TextBuffer) Replace(span Span, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	start, end := clampSpan(span, len(b.text))
	b.text = b.text[:start] + text + b.text[end:]
}

// Find returns the span of the first literal occurrence of token.
func (b *TextBuffer) Find(token string) (Span, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if token == "" {
		return Span{}, false
	}
	i := strings.Index(b.text, token)
	if i < 0 {
		return Span{}, false
	}
	return Span{Start: i, End: i + len(token)}, true
}

// WriteResult attaches a results drawer to the block at pos, replacing
// any existing results section. Unknown or unterminated blocks are a
// no-op.
func (b *TextBuffer) WriteResult(pos int, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := splitBuffer(b.text)
	_, endIdx, name, ok := locateBlockIn(lines, pos)
	if !ok {
		return
	}
	section := formatResultSection(name, text)
	if sec, ok := resultSectionAt(b.text, pos); ok {
		start, end := clampSpan(sec.span, len(b.text))
		b.text = b.text[:start] + section + "\n" + b.text[end:]
		return
	}
	afterEnd := lineSpanEnd(b.text, lines[endIdx])
	head := b.text[:afterEnd]
	tail := b.text[afterEnd:]
	if !strings.HasSuffix(head, "\n") {
		head += "\n"
	}
	b.text = head + "\n" + section + "\n" + tail
}

func clampSpan(span Span, n int) (int, int) {
	start := span.Start
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	end := span.End
	if end < start {
		end = start
	}
	if end > n {
		end = n
	}
	return start, end
}

// bufline is one physical line with its byte offset, newline excluded.
type bufline struct {
	start int
	text  string
}

func splitBuffer(text string) []bufline {
	var lines []bufline
	start := 0
	for start <= len(text) {
		i := strings.IndexByte(text[start:], '\n')
		if i < 0 {
			lines = append(lines, bufline{start: start, text: text[start:]})
			break
		}
		lines = append(lines, bufline{start: start, text: text[start : start+i]})
		start += i + 1
	}
	return lines
}

// lineSpanEnd is the offset just past l's newline, or past its content
// at end of document.
func lineSpanEnd(text string, l bufline) int {
	end := l.start + len(l.text)
	if end < len(text) && text[end] == '\n' {
		end++
	}
	return end
}

func keywordValue(line, keyword string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) < len(keyword) || !strings.EqualFold(trimmed[:len(keyword)], keyword) {
		return "", false
	}
	return strings.TrimSpace(trimmed[len(keyword):]), true
}

func beginSrcLine(line string) (string, bool) {
	const kw = "#+begin_src"
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) < len(kw) || !strings.EqualFold(trimmed[:len(kw)], kw) {
		return "", false
	}
	rest := trimmed[len(kw):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func endSrcLine(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "#+end_src")
}

func isKeywordLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "#+")
}

// parseHeaderArgs splits a begin_src info line into the language tag
// and header arguments. Values run until the next :key; bare flags map
// to "yes"; repeated :var arguments accumulate comma-separated.
func parseHeaderArgs(rest string) (string, map[string]string) {
	params := map[string]string{}
	fields := strings.Fields(rest)
	lang := ""
	i := 0
	if len(fields) > 0 && !strings.HasPrefix(fields[0], ":") {
		lang = fields[0]
		i = 1
	}
	key := ""
	var val []string
	flush := func() {
		if key == "" {
			return
		}
		value := strings.Join(val, " ")
		if value == "" {
			value = "yes"
		}
		if key == "var" && params["var"] != "" {
			value = params["var"] + ", " + value
		}
		params[key] = value
	}
	for ; i < len(fields); i++ {
		f := fields[i]
		if len(f) > 1 && strings.HasPrefix(f, ":") {
			flush()
			key = strings.ToLower(f[1:])
			val = nil
			continue
		}
		if key != "" {
			val = append(val, f)
		}
	}
	flush()
	return lang, params
}

func scanElements(text string, upTo int) []RawElement {
	lines := splitBuffer(text)
	var els []RawElement
	pendingName := ""
	for i := 0; i < len(lines); i++ {
		l := lines[i]
		if l.start >= upTo {
			break
		}
		if rest, ok := beginSrcLine(l.text); ok {
			body, endIdx, closed := collectSrcBody(lines, i+1)
			if !closed {
				break
			}
			lang, params := parseHeaderArgs(rest)
			els = append(els, RawElement{
				Kind:   ElementSrcBlock,
				Pos:    l.start,
				Name:   pendingName,
				Lang:   lang,
				Params: params,
				Text:   body,
			})
			pendingName = ""
			i = endIdx
			continue
		}
		if v, ok := keywordValue(l.text, "#+name:"); ok {
			els = append(els, RawElement{Kind: ElementKeyword, Pos: l.start, Name: "name", Text: v})
			pendingName = v
			continue
		}
		if v, ok := keywordValue(l.text, "#+results:"); ok {
			els = append(els, RawElement{Kind: ElementKeyword, Pos: l.start, Name: "results", Text: v})
			pendingName = ""
			continue
		}
		if isKeywordLine(l.text) {
			// other affiliated keywords keep a pending name alive
			continue
		}
		pendingName = ""
	}
	return els
}

func collectSrcBody(lines []bufline, from int) (string, int, bool) {
	var body []string
	for i := from; i < len(lines); i++ {
		if endSrcLine(lines[i].text) {
			return strings.Join(body, "\n"), i, true
		}
		body = append(body, lines[i].text)
	}
	return "", len(lines), false
}

// locateBlockIn finds the terminated block beginning exactly at pos and
// the #+name affiliated with it.
func locateBlockIn(lines []bufline, pos int) (int, int, string, bool) {
	pendingName := ""
	for i := 0; i < len(lines); i++ {
		l := lines[i]
		if l.start > pos {
			return 0, 0, "", false
		}
		if _, ok := beginSrcLine(l.text); ok {
			end := -1
			for j := i + 1; j < len(lines); j++ {
				if endSrcLine(lines[j].text) {
					end = j
					break
				}
			}
			if l.start == pos {
				if end < 0 {
					return 0, 0, "", false
				}
				return i, end, pendingName, true
			}
			if end < 0 {
				return 0, 0, "", false
			}
			pendingName = ""
			i = end
			continue
		}
		if v, ok := keywordValue(l.text, "#+name:"); ok {
			pendingName = v
			continue
		}
		if isKeywordLine(l.text) {
			continue
		}
		pendingName = ""
	}
	return 0, 0, "", false
}

type resultSection struct {
	span Span
	text string
}

// resultSectionAt harvests the results section following the block at
// pos. Recognized shapes: results drawer, example block, fixed-width
// lines, and a bare paragraph up to the first blank line.
func resultSectionAt(text string, pos int) (resultSection, bool) {
	lines := splitBuffer(text)
	_, endIdx, _, ok := locateBlockIn(lines, pos)
	if !ok {
		return resultSection{}, false
	}
	k := endIdx + 1
	for k < len(lines) && strings.TrimSpace(lines[k].text) == "" {
		k++
	}
	if k >= len(lines) {
		return resultSection{}, false
	}
	if _, ok := keywordValue(lines[k].text, "#+results:"); !ok {
		return resultSection{}, false
	}
	content, last := harvestResult(lines, k+1)
	if last < k {
		last = k
	}
	return resultSection{
		span: Span{Start: lines[k].start, End: lineSpanEnd(text, lines[last])},
		text: content,
	}, true
}

func harvestResult(lines []bufline, from int) (string, int) {
	if from >= len(lines) {
		return "", from - 1
	}
	first := strings.TrimSpace(lines[from].text)
	switch {
	case strings.EqualFold(first, ":results:"):
		var content []string
		for i := from + 1; i < len(lines); i++ {
			if strings.EqualFold(strings.TrimSpace(lines[i].text), ":end:") {
				return strings.Join(content, "\n"), i
			}
			content = append(content, lines[i].text)
		}
		return strings.Join(content, "\n"), len(lines) - 1
	case strings.EqualFold(first, "#+begin_example") || hasFoldedPrefix(first, "#+begin_example "):
		var content []string
		for i := from + 1; i < len(lines); i++ {
			if strings.EqualFold(strings.TrimSpace(lines[i].text), "#+end_example") {
				return strings.Join(content, "\n"), i
			}
			content = append(content, lines[i].text)
		}
		return strings.Join(content, "\n"), len(lines) - 1
	case first == ":" || strings.HasPrefix(strings.TrimLeft(lines[from].text, " \t"), ": "):
		var content []string
		last := from
		for i := from; i < len(lines); i++ {
			t := strings.TrimLeft(lines[i].text, " \t")
			if t == ":" {
				content = append(content, "")
				last = i
				continue
			}
			if strings.HasPrefix(t, ": ") {
				content = append(content, t[2:])
				last = i
				continue
			}
			break
		}
		return strings.Join(content, "\n"), last
	case first == "":
		return "", from - 1
	default:
		var content []string
		last := from - 1
		for i := from; i < len(lines); i++ {
			t := strings.TrimSpace(lines[i].text)
			if t == "" || strings.HasPrefix(t, "#+") || strings.HasPrefix(lines[i].text, "* ") {
				break
			}
			content = append(content, lines[i].text)
			last = i
		}
		return strings.Join(content, "\n"), last
	}
}

func hasFoldedPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func formatResultSection(name, text string) string {
	var sb strings.Builder
	sb.WriteString("#+RESULTS:")
	if name != "" {
		sb.WriteString(" ")
		sb.WriteString(name)
	}
	sb.WriteString("\n:results:\n")
	if text != "" {
		sb.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			sb.WriteString("\n")
		}
	}
	sb.WriteString(":end:")
	return sb.String()
}
