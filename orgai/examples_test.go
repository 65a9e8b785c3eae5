package orgai

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanExampleDocuments(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "examples", "*.org"))
	if err != nil {
		t.Fatalf("glob examples: %v", err)
	}
	if len(files) == 0 {
		t.Skip("no example fixtures present")
	}
	for _, path := range files {
		body, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		doc := NewTextBuffer(string(body))
		blocks := ScanBlocks(doc, doc.Len())
		if len(blocks) == 0 {
			t.Fatalf("%s: expected at least one block", filepath.Base(path))
		}
		for _, b := range blocks {
			if b.Lang == "" {
				t.Fatalf("%s: block at %d has no language tag", filepath.Base(path), b.Pos)
			}
		}
	}
}

func TestExampleSessionsAlternate(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "examples", "*.org"))
	if err != nil {
		t.Fatalf("glob examples: %v", err)
	}
	if len(files) == 0 {
		t.Skip("no example fixtures present")
	}
	for _, path := range files {
		body, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		doc := NewTextBuffer(string(body))
		for _, session := range Sessions(doc, doc.Len()) {
			dir := FindSession(doc, session, "", doc.Len())
			if len(dir.Turns)%2 != 0 {
				t.Fatalf("%s session %s: expected an even number of turns, got %d",
					filepath.Base(path), session, len(dir.Turns))
			}
			for i, turn := range dir.Turns {
				want := RoleUser
				if i%2 == 1 {
					want = RoleAssistant
				}
				if turn.Role != want {
					t.Fatalf("%s session %s turn %d: expected %s, got %s",
						filepath.Base(path), session, i, want, turn.Role)
				}
			}
		}
	}
}

func TestExamplePayloadsAssemble(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "examples", "*.org"))
	if err != nil {
		t.Fatalf("glob examples: %v", err)
	}
	if len(files) == 0 {
		t.Skip("no example fixtures present")
	}
	eng := NewEngine(WithDefaults(Config{Backend: "echo"}))
	renderers := []Renderer{JSONRenderer{}, OrgRenderer{}}
	for _, path := range files {
		doc, err := ReadDocument(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		for _, b := range ScanBlocks(doc, doc.Len()) {
			if b.Lang != LangLLM {
				continue
			}
			p := eng.BuildPayload(doc, b.Pos, b.Body, b.Params)
			if p.Backend == "" {
				t.Fatalf("%s block at %d: payload has no backend", filepath.Base(path), b.Pos)
			}
			for _, r := range renderers {
				if _, err := r.Render(p); err != nil {
					t.Fatalf("%s block at %d: render failed: %v", filepath.Base(path), b.Pos, err)
				}
			}
		}
	}
}
