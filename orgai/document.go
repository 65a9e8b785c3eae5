package orgai

// ElementKind discriminates raw records produced by a document scan.
type ElementKind string

const (
	ElementSrcBlock ElementKind = "src-block"
	ElementKeyword  ElementKind = "keyword"
)

// Span marks a half-open byte range [Start, End) in a document.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int { return s.End - s.Start }

// RawElement is one element found by a document scan. For src blocks,
// Name carries the attached #+name value and Text the verbatim body.
// For keywords, Name is the keyword key and Text its value.
type RawElement struct {
	Kind   ElementKind
	Pos    int
	Name   string
	Lang   string
	Params map[string]string
	Text   string
}

// Document is the editing surface the SDK works against. TextBuffer is
// the built-in implementation; editor integrations can provide their
// own. All operations are synchronous.
type Document interface {
	// Scan returns the elements whose position is strictly before upTo,
	// in document order.
	Scan(upTo int) []RawElement
	// ResultAt returns the result text attached to the block at pos.
	ResultAt(pos int) (string, bool)
	// Text returns the text within span.
	Text(span Span) string
	// Replace swaps the text within span.
	Replace(span Span, text string)
	// Find returns the span of the first literal occurrence of token.
	Find(token string) (Span, bool)
}

// ResultWriter is implemented by documents that can attach a results
// section to the block at a given position. The engine uses it to place
// pending tokens at the invocation site.
type ResultWriter interface {
	WriteResult(pos int, text string)
}
