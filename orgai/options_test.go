package orgai

import (
	"context"
	"testing"
)

type fakeBackend struct {
	name   string
	models []string
}

func (f *fakeBackend) Name() string     { return f.name }
func (f *fakeBackend) Models() []string { return f.models }
func (f *fakeBackend) Complete(_ context.Context, _ Request) (string, error) {
	return "", nil
}

func suggestEngine(t *testing.T) *Engine {
	t.Helper()
	reg := NewBackendRegistry()
	for _, b := range []Backend{
		&fakeBackend{name: "alpha", models: []string{"alpha-small", "alpha-large"}},
		&fakeBackend{name: "beta", models: []string{"beta-one"}},
	} {
		if err := reg.Register(b); err != nil {
			t.Fatalf("registration failed: %v", err)
		}
	}
	store := NewPresetStore()
	store.Set("terse", Config{Model: "alpha-small"})
	store.Set("local", Config{Backend: "beta"})
	return NewEngine(WithBackendRegistry(reg), WithPresets(store))
}

func suggestDoc() *TextBuffer {
	return NewBuilder().
		Session("s1").User("one").
		Session("s2").User("two").
		Session("s1").User("three").
		Prompt("greeting", "Say hi\nwith feeling").
		Document()
}

func candidateTexts(cands []Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Text)
	}
	return out
}

func TestSuggestModels(t *testing.T) {
	eng := suggestEngine(t)
	got := eng.Suggest(nil, OptionModel, "")
	want := []string{"alpha-small", "alpha-large", "beta-one"}
	texts := candidateTexts(got)
	if len(texts) != len(want) {
		t.Fatalf("expected %d models, got %v", len(want), texts)
	}
	for i, w := range want {
		if texts[i] != w {
			t.Fatalf("model %d: expected %q, got %q", i, w, texts[i])
		}
	}
	if got[0].Note != "alpha" || got[2].Note != "beta" {
		t.Fatalf("model notes must name the backend: %+v", got)
	}
}

func TestSuggestBackends(t *testing.T) {
	eng := suggestEngine(t)
	got := eng.Suggest(nil, OptionBackend, "")
	texts := candidateTexts(got)
	if len(texts) != 2 || texts[0] != "alpha" || texts[1] != "beta" {
		t.Fatalf("unexpected backends: %v", texts)
	}
	if got[0].Note != "2 models" {
		t.Fatalf("unexpected note: %q", got[0].Note)
	}
}

func TestSuggestSessions(t *testing.T) {
	eng := suggestEngine(t)
	got := eng.Suggest(suggestDoc(), OptionSession, "")
	texts := candidateTexts(got)
	if len(texts) != 2 || texts[0] != "s1" || texts[1] != "s2" {
		t.Fatalf("unexpected sessions: %v", texts)
	}
	if got[0].Note != "2 blocks" || got[1].Note != "1 blocks" {
		t.Fatalf("session notes must carry block counts: %+v", got)
	}
}

func TestSuggestPrompts(t *testing.T) {
	eng := suggestEngine(t)
	got := eng.Suggest(suggestDoc(), OptionPrompt, "")
	if len(got) != 1 || got[0].Text != "greeting" {
		t.Fatalf("unexpected prompts: %+v", got)
	}
	if got[0].Note != "Say hi" {
		t.Fatalf("prompt note must be the first body line, got %q", got[0].Note)
	}
}

func TestSuggestPresets(t *testing.T) {
	eng := suggestEngine(t)
	got := eng.Suggest(nil, OptionPreset, "")
	texts := candidateTexts(got)
	if len(texts) != 2 || texts[0] != "local" || texts[1] != "terse" {
		t.Fatalf("unexpected presets: %v", texts)
	}
	if got[1].Note != "alpha-small" {
		t.Fatalf("preset note should surface the model, got %q", got[1].Note)
	}
}

func TestSuggestEnumeratedKeys(t *testing.T) {
	eng := suggestEngine(t)
	if texts := candidateTexts(eng.Suggest(nil, OptionFormat, "")); len(texts) != 2 || texts[0] != "raw" || texts[1] != "org" {
		t.Fatalf("unexpected formats: %v", texts)
	}
	if texts := candidateTexts(eng.Suggest(nil, OptionDryRun, "")); len(texts) != 2 || texts[0] != "yes" || texts[1] != "no" {
		t.Fatalf("unexpected dry_run values: %v", texts)
	}
}

func TestSuggestPrefixFilterIsCaseInsensitive(t *testing.T) {
	eng := suggestEngine(t)
	got := eng.Suggest(nil, OptionModel, "ALPHA")
	texts := candidateTexts(got)
	if len(texts) != 2 || texts[0] != "alpha-small" || texts[1] != "alpha-large" {
		t.Fatalf("unexpected filtered models: %v", texts)
	}
	if got := eng.Suggest(nil, OptionModel, "zzz"); got != nil {
		t.Fatalf("expected no candidates, got %+v", got)
	}
}

func TestSuggestFreeFormKeysHaveNoCandidates(t *testing.T) {
	eng := suggestEngine(t)
	for _, key := range []Option{OptionTemperature, OptionMaxTokens, OptionSystem, OptionContext, OptionVar, Option("unknown")} {
		if got := eng.Suggest(nil, key, ""); got != nil {
			t.Fatalf("key %q: expected nil, got %+v", key, got)
		}
	}
}

func TestSuggestWithoutPresetStore(t *testing.T) {
	eng := NewEngine(WithBackendRegistry(NewBackendRegistry()))
	if got := eng.Suggest(nil, OptionPreset, ""); got != nil {
		t.Fatalf("expected nil without a preset store, got %+v", got)
	}
}
