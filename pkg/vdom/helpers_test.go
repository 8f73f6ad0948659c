package vdom

import "testing"

func TestFragment(t *testing.T) {
	f := Fragment("a", nil, Span("b"), []*VNode{Text("c"), nil})
	if f.Kind != KindFragment {
		t.Fatalf("Kind = %s", f.Kind)
	}
	if len(f.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(f.Children))
	}
	if f.Props != nil {
		t.Error("fragment should have no props")
	}
}

func TestConditionals(t *testing.T) {
	a, b := Text("a"), Text("b")
	if If(false, a) != nil || If(true, a) != a {
		t.Error("If")
	}
	if IfElse(true, a, b) != a || IfElse(false, a, b) != b {
		t.Error("IfElse")
	}
	called := false
	When(false, func() *VNode {
		called = true
		return a
	})
	if called {
		t.Error("When(false) should not call fn")
	}
}

func TestRange(t *testing.T) {
	names := []string{"Ada", "", "Grace"}
	nodes := Range(names, func(n string, i int) *VNode {
		if n == "" {
			return nil
		}
		return Li(Key(i), n)
	})
	if len(nodes) != 2 {
		t.Fatalf("len = %d, want 2", len(nodes))
	}
	if nodes[1].Key != "2" {
		t.Errorf("Key = %q, want 2", nodes[1].Key)
	}
}

func TestTextf(t *testing.T) {
	if got := Textf("%d results", 12).Text; got != "12 results" {
		t.Errorf("Textf = %q", got)
	}
}
