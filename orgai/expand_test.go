package orgai

import (
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

func TestExpand(t *testing.T) {
	vars := Vars{
		"name":   "World",
		"n":      42,
		"xs":     []int{1, 2},
		"msg-id": "m1",
		"a":      "$b",
		"b":      "C",
		"empty":  nil,
	}
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare reference", "Hello, $name!", "Hello, World!"},
		{"braced reference", "Hello, ${name}!", "Hello, World!"},
		{"braces bound adjacency", "${name}wide", "Worldwide"},
		{"bare reference swallows adjacent chars", "$namewide", "$namewide"},
		{"unknown name passes through", "keep $unknown here", "keep $unknown here"},
		{"number renders literally", "n=$n", "n=42"},
		{"slice renders literally", "xs=$xs", "xs=[1 2]"},
		{"hyphenated name resolves", "id ${msg-id}", "id m1"},
		{"no recursive expansion", "$a", "$b"},
		{"nil value renders empty", "<$empty>", "<>"},
		{"digit cannot start a name", "$1 stays", "$1 stays"},
		{"empty braces stay", "${} stays", "${} stays"},
		{"lone dollar stays", "cost: $", "cost: $"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Expand(tc.in, vars)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExpandWithoutVarsReturnsInputUntouched(t *testing.T) {
	in := "nothing to do with $name"
	testboil.FailTestIfDiff(t, Expand(in, nil), in)
	testboil.FailTestIfDiff(t, Expand(in, Vars{}), in)
}

func TestExpandDirective(t *testing.T) {
	d := Directive{
		System: "You help $name",
		Turns: []Turn{
			{Role: RoleUser, Content: "Hi, I am $name"},
			{Role: RoleAssistant, Content: "Hello ${name}"},
		},
	}
	got := ExpandDirective(d, Vars{"name": "Ada"})
	if got.System != "You help Ada" {
		t.Fatalf("system not expanded: %q", got.System)
	}
	if got.Turns[0].Content != "Hi, I am Ada" || got.Turns[1].Content != "Hello Ada" {
		t.Fatalf("turns not expanded: %+v", got.Turns)
	}
	if d.Turns[0].Content != "Hi, I am $name" {
		t.Fatalf("input directive mutated: %q", d.Turns[0].Content)
	}
}

func TestExpandDirectiveWithoutVarsIsIdentity(t *testing.T) {
	d := Directive{System: "s", Turns: []Turn{{Role: RoleUser, Content: "$x"}}}
	got := ExpandDirective(d, nil)
	if got.Turns[0].Content != "$x" {
		t.Fatalf("expected untouched directive, got %+v", got)
	}
}

func TestParseVarBindings(t *testing.T) {
	got := ParseVarBindings(`name=World, count=3, quoted="two words"`)
	want := Vars{"name": "World", "count": "3", "quoted": "two words"}
	if len(got) != len(want) {
		t.Fatalf("expected %d bindings, got %d: %v", len(want), len(got), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("binding %q: expected %q, got %q", k, v, got[k])
		}
	}
}

func TestParseVarBindingsSkipsMalformedPairs(t *testing.T) {
	if got := ParseVarBindings("novalue, =anon, ok=1"); len(got) != 1 || got["ok"] != "1" {
		t.Fatalf("expected only the well-formed pair, got %v", got)
	}
	if got := ParseVarBindings("  "); got != nil {
		t.Fatalf("expected nil for blank input, got %v", got)
	}
}

func TestMergeVars(t *testing.T) {
	base := Vars{"a": "1", "b": "2"}
	override := Vars{"b": "3", "c": "4"}
	got := MergeVars(base, override)
	if got["a"] != "1" || got["b"] != "3" || got["c"] != "4" {
		t.Fatalf("unexpected merge result: %v", got)
	}
	if base["b"] != "2" {
		t.Fatalf("base mutated: %v", base)
	}
}
