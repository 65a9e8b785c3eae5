package orgai

import (
	"testing"
)

const benchDoc = `#+title: Benchmark conversation

#+name: greeting
#+begin_src llm :session bench :model claude-sonnet-4-5 :var name=World
Hello, $name. Summarize our plan.
#+end_src

#+RESULTS: greeting
:results:
We will benchmark the scanner.
:end:

#+begin_src llm :session bench :temperature 0.2
What is the next step?
#+end_src

#+RESULTS:
: Measure allocations.

#+begin_src llm :session bench
And after that?
#+end_src
`

const benchMarkdown = "## Plan\n\nUse **goldmark** for the conversion:\n\n```go\nmd := goldmark.New()\n```\n\n- parse\n- walk\n- emit\n"

func BenchmarkScanBlocks(b *testing.B) {
	doc := NewTextBuffer(benchDoc)
	upTo := doc.Len()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if blocks := ScanBlocks(doc, upTo); len(blocks) != 3 {
			b.Fatalf("expected 3 blocks, got %d", len(blocks))
		}
	}
}

func BenchmarkFindSession(b *testing.B) {
	doc := NewTextBuffer(benchDoc)
	upTo := doc.Len()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dir := FindSession(doc, "bench", "You are terse.", upTo)
		if len(dir.Turns) != 6 {
			b.Fatalf("expected 6 turns, got %d", len(dir.Turns))
		}
	}
}

func BenchmarkExpand(b *testing.B) {
	vars := Vars{"name": "World", "plan": "benchmarks"}
	for i := 0; i < b.N; i++ {
		Expand("Hello, $name. Today we run ${plan} again, $name.", vars)
	}
}

func BenchmarkBuildPayload(b *testing.B) {
	doc := NewTextBuffer(benchDoc)
	eng := NewEngine(WithDefaults(Config{Backend: "echo"}))
	blocks := ScanBlocks(doc, doc.Len())
	last := blocks[len(blocks)-1]
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := eng.BuildPayload(doc, last.Pos, last.Body, last.Params)
		if len(p.Directive.Turns) != 4 {
			b.Fatalf("expected 4 turns, got %d", len(p.Directive.Turns))
		}
	}
}

func BenchmarkMarkdownToOrg(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if out := MarkdownToOrg(benchMarkdown); out == "" {
			b.Fatal("empty conversion")
		}
	}
}

func BenchmarkWriteResult(b *testing.B) {
	blocks := ScanBlocks(NewTextBuffer(benchDoc), len(benchDoc))
	last := blocks[len(blocks)-1]
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doc := NewTextBuffer(benchDoc)
		doc.WriteResult(last.Pos, "pending")
	}
}
