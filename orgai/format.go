package orgai

import (
	"bytes"
	"fmt"
	"strings"

	goorg "github.com/niklasfasching/go-org/org"
	"github.com/yuin/goldmark"
	mdast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	mdtext "github.com/yuin/goldmark/text"
)

// FormatMode selects how responses are written back into documents.
type FormatMode string

const (
	FormatRaw FormatMode = "raw"
	FormatOrg FormatMode = "org"
)

// ResolveFormatMode normalizes a format option value. Unknown values
// resolve to raw.
func ResolveFormatMode(s string) FormatMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "org":
		return FormatOrg
	default:
		return FormatRaw
	}
}

// FormatResponse renders a backend response according to mode.
func FormatResponse(mode FormatMode, text string) string {
	switch mode {
	case FormatOrg:
		return responseToOrg(text)
	default:
		return text
	}
}

// responseToOrg converts assumed-markdown text to org and canonicalizes
// it through a go-org round trip, keeping the direct conversion when
// the round trip fails.
func responseToOrg(text string) string {
	converted := MarkdownToOrg(text)
	canon, err := CanonicalOrg(converted)
	if err != nil || strings.TrimSpace(canon) == "" {
		return converted
	}
	return strings.TrimSpace(canon)
}

// CanonicalOrg round-trips org text through the go-org writer,
// normalizing spacing and keyword casing.
func CanonicalOrg(text string) (string, error) {
	o := goorg.New().Parse(strings.NewReader(text), "")
	return o.Write(goorg.NewOrgWriter())
}

// MarkdownToOrg converts markdown to org markup: headings to stars,
// fenced code to src blocks, emphasis, links, lists, quotes and tables
// to their org forms. Plain text passes through untouched.
func MarkdownToOrg(body string) string {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	src := []byte(body)
	root := md.Parser().Parse(mdtext.NewReader(src))
	var b strings.Builder
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		writeOrgNode(&b, n, src, 0)
	}
	return strings.TrimSpace(b.String())
}

func writeOrgNode(b *strings.Builder, n mdast.Node, src []byte, indent int) {
	switch node := n.(type) {
	case *mdast.Heading:
		b.WriteString(strings.Repeat("*", node.Level))
		b.WriteString(" ")
		b.WriteString(orgInline(node, src))
		b.WriteString("\n\n")
	case *mdast.Paragraph:
		b.WriteString(orgInline(node, src))
		b.WriteString("\n\n")
	case *mdast.TextBlock:
		b.WriteString(orgInline(node, src))
		b.WriteString("\n")
	case *mdast.FencedCodeBlock:
		lang := string(node.Language(src))
		b.WriteString(strings.TrimRight("#+begin_src "+lang, " "))
		b.WriteString("\n")
		writeRawLines(b, node, src)
		b.WriteString("#+end_src\n\n")
	case *mdast.CodeBlock:
		b.WriteString("#+begin_example\n")
		writeRawLines(b, node, src)
		b.WriteString("#+end_example\n\n")
	case *mdast.Blockquote:
		b.WriteString("#+begin_quote\n")
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			b.WriteString(orgInline(c, src))
			b.WriteString("\n")
		}
		b.WriteString("#+end_quote\n\n")
	case *mdast.List:
		writeOrgList(b, node, src, indent)
		if indent == 0 {
			b.WriteString("\n")
		}
	case *east.Table:
		writeOrgTable(b, node, src)
		b.WriteString("\n")
	case *mdast.ThematicBreak:
		b.WriteString("-----\n\n")
	case *mdast.HTMLBlock:
		writeRawLines(b, node, src)
		b.WriteString("\n")
	default:
		if t := extractText(n, src); t != "" {
			b.WriteString(t)
			b.WriteString("\n\n")
		}
	}
}

func writeOrgList(b *strings.Builder, list *mdast.List, src []byte, indent int) {
	i := 0
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "- "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", list.Start+i)
		}
		b.WriteString(strings.Repeat(" ", indent))
		b.WriteString(marker)
		wrote := false
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*mdast.List); ok {
				if !wrote {
					b.WriteString("\n")
					wrote = true
				}
				writeOrgList(b, sub, src, indent+len(marker))
				continue
			}
			if wrote {
				b.WriteString(strings.Repeat(" ", indent+len(marker)))
			}
			b.WriteString(orgInline(c, src))
			b.WriteString("\n")
			wrote = true
		}
		if !wrote {
			b.WriteString("\n")
		}
		i++
	}
}

func writeOrgTable(b *strings.Builder, table *east.Table, src []byte) {
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, orgInline(cell, src))
		}
		b.WriteString("| ")
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString(" |\n")
		if _, ok := row.(*east.TableHeader); ok {
			sep := make([]string, len(cells))
			for i := range sep {
				sep[i] = "---"
			}
			b.WriteString("|")
			b.WriteString(strings.Join(sep, "+"))
			b.WriteString("|\n")
		}
	}
}

func writeRawLines(b *strings.Builder, n mdast.Node, src []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteString("\n")
	}
}

func orgInline(n mdast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		writeOrgInline(&b, c, src)
	}
	return b.String()
}

func writeOrgInline(b *strings.Builder, n mdast.Node, src []byte) {
	switch node := n.(type) {
	case *mdast.Text:
		b.Write(node.Segment.Value(src))
		if node.SoftLineBreak() || node.HardLineBreak() {
			b.WriteString("\n")
		}
	case *mdast.String:
		b.Write(node.Value)
	case *mdast.CodeSpan:
		b.WriteString("~")
		b.WriteString(extractText(node, src))
		b.WriteString("~")
	case *mdast.Emphasis:
		marker := "/"
		if node.Level >= 2 {
			marker = "*"
		}
		b.WriteString(marker)
		b.WriteString(orgInline(node, src))
		b.WriteString(marker)
	case *east.Strikethrough:
		b.WriteString("+")
		b.WriteString(orgInline(node, src))
		b.WriteString("+")
	case *mdast.Link:
		label := orgInline(node, src)
		dest := string(node.Destination)
		if label == "" || label == dest {
			b.WriteString("[[" + dest + "]]")
		} else {
			b.WriteString("[[" + dest + "][" + label + "]]")
		}
	case *mdast.AutoLink:
		b.WriteString("[[" + string(node.URL(src)) + "]]")
	case *mdast.Image:
		b.WriteString("[[" + string(node.Destination) + "]]")
	case *mdast.RawHTML:
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			b.Write(seg.Value(src))
		}
	default:
		b.WriteString(orgInline(n, src))
	}
}

func extractText(n mdast.Node, src []byte) string {
	var b bytes.Buffer
	mdast.Walk(n, func(nn mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if !entering {
			return mdast.WalkContinue, nil
		}
		if tn, ok := nn.(*mdast.Text); ok {
			b.Write(tn.Segment.Value(src))
		}
		return mdast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
