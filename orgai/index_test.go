package orgai

import (
	"reflect"
	"testing"
)

func TestFindSessionRebuildsAlternatingTurns(t *testing.T) {
	doc := NewBuilder().
		Session("s1").
		User("Hi").
		Result("Hello").
		User("2+2?").
		Document()

	got := FindSession(doc, "s1", "You are terse.", doc.Len())
	want := Directive{
		System: "You are terse.",
		Turns: []Turn{
			{Role: RoleUser, Content: "Hi"},
			{Role: RoleAssistant, Content: "Hello"},
			{Role: RoleUser, Content: "2+2?"},
			{Role: RoleAssistant, Content: ""},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestFindSessionAlternationHolds(t *testing.T) {
	doc := NewTextBuffer(sampleResultShapes)
	dir := FindSession(doc, "shapes", "", doc.Len())
	if len(dir.Turns) != 10 {
		t.Fatalf("expected 10 turns for 5 blocks, got %d", len(dir.Turns))
	}
	for i, turn := range dir.Turns {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		if turn.Role != want {
			t.Fatalf("turn %d: expected role %q, got %q", i, want, turn.Role)
		}
	}
}

func TestFindSessionCutsOffAtInvocationPoint(t *testing.T) {
	doc := NewBuilder().
		Session("s1").
		User("first").
		Result("one").
		User("second").
		Document()
	blocks := ScanBlocks(doc, doc.Len())
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	dir := FindSession(doc, "s1", "", blocks[1].Pos)
	if len(dir.Turns) != 2 {
		t.Fatalf("the invoking block must not see itself, got %d turns", len(dir.Turns))
	}
	if dir.Turns[0].Content != "first" || dir.Turns[1].Content != "one" {
		t.Fatalf("unexpected history: %+v", dir.Turns)
	}
}

func TestFindSessionUnknownOrEmptyIsSystemOnly(t *testing.T) {
	doc := NewBuilder().Session("s1").User("Hi").Document()
	for _, session := range []string{"nope", ""} {
		dir := FindSession(doc, session, "sys", doc.Len())
		if dir.System != "sys" || len(dir.Turns) != 0 {
			t.Fatalf("session %q: expected system-only directive, got %+v", session, dir)
		}
	}
}

func TestFindSessionIgnoresOtherSessions(t *testing.T) {
	doc := NewBuilder().
		Session("a").User("in a").
		Session("b").User("in b").
		Session("").User("detached").
		Document()
	dir := FindSession(doc, "a", "", doc.Len())
	if len(dir.Turns) != 2 || dir.Turns[0].Content != "in a" {
		t.Fatalf("expected only session a turns, got %+v", dir.Turns)
	}
}

func TestFindPrompt(t *testing.T) {
	doc := NewBuilder().
		Prompt("greeting", "Say hi to $name").
		Result("Hi there!").
		Prompt("farewell", "Say bye").
		Document()

	dir := FindPrompt(doc, "greeting", "sys", doc.Len())
	want := []Turn{
		{Role: RoleUser, Content: "Say hi to $name"},
		{Role: RoleAssistant, Content: "Hi there!"},
	}
	if dir.System != "sys" || !reflect.DeepEqual(dir.Turns, want) {
		t.Fatalf("unexpected directive: %+v", dir)
	}

	bye := FindPrompt(doc, "farewell", "", doc.Len())
	if len(bye.Turns) != 1 || bye.Turns[0].Content != "Say bye" {
		t.Fatalf("a prompt without result contributes only the user turn: %+v", bye.Turns)
	}

	missing := FindPrompt(doc, "absent", "sys", doc.Len())
	if missing.System != "sys" || missing.Turns != nil {
		t.Fatalf("expected system-only directive, got %+v", missing)
	}
}

func TestFindPromptPicksFirstOfDuplicateNames(t *testing.T) {
	doc := NewBuilder().
		Prompt("p", "first body").
		Prompt("p", "second body").
		Document()
	dir := FindPrompt(doc, "p", "", doc.Len())
	if len(dir.Turns) != 1 || dir.Turns[0].Content != "first body" {
		t.Fatalf("expected the first named block, got %+v", dir.Turns)
	}
}

func TestSessionsAndPromptNamesKeepFirstAppearanceOrder(t *testing.T) {
	doc := NewBuilder().
		Session("beta").User("1").
		Prompt("zeta", "z").
		Session("alpha").User("2").
		Session("beta").User("3").
		Prompt("alpha-prompt", "a").
		Document()

	if got := Sessions(doc, doc.Len()); !reflect.DeepEqual(got, []string{"beta", "alpha"}) {
		t.Fatalf("unexpected sessions: %v", got)
	}
	if got := PromptNames(doc, doc.Len()); !reflect.DeepEqual(got, []string{"zeta", "alpha-prompt"}) {
		t.Fatalf("unexpected prompt names: %v", got)
	}
}
