package vdom

import "testing"

func TestCreateElement(t *testing.T) {
	t.Run("attributes and children", func(t *testing.T) {
		node := Div(ID("card"), Class("lawyer"), nil, H3("Jane Doe"), Text("Tax law"))

		if node.Kind != KindElement || node.Tag != "div" {
			t.Fatalf("got %s <%s>, want element <div>", node.Kind, node.Tag)
		}
		if node.Props["id"] != "card" {
			t.Errorf("id = %v, want card", node.Props["id"])
		}
		if len(node.Children) != 2 {
			t.Fatalf("children = %d, want 2", len(node.Children))
		}
		if node.Children[0].Children[0].Text != "Jane Doe" {
			t.Errorf("string child not converted to text")
		}
	})

	t.Run("class accumulates", func(t *testing.T) {
		node := Span(Class("a"), Class(""), Class("b", "c"), ClassIf(false, "d"), ClassIf(true, "e"))
		if got := node.Props["class"]; got != "a b c e" {
			t.Errorf("class = %q, want %q", got, "a b c e")
		}
	})

	t.Run("other attributes are last wins", func(t *testing.T) {
		node := Span(ID("one"), ID("two"))
		if node.Props["id"] != "two" {
			t.Errorf("id = %v, want two", node.Props["id"])
		}
	})

	t.Run("key", func(t *testing.T) {
		node := Li(Key(42))
		if node.Key != "42" {
			t.Errorf("Key = %q, want 42", node.Key)
		}
		if _, ok := node.Props["key"]; ok {
			t.Error("key should not be rendered as a prop")
		}
	})

	t.Run("nested any slices flatten", func(t *testing.T) {
		rest := []any{Class("b"), Li("x"), []any{Li("y"), nil}}
		node := Ul(Class("a"), rest)

		if got := node.Props["class"]; got != "a b" {
			t.Errorf("class = %q, want %q", got, "a b")
		}
		if len(node.Children) != 2 {
			t.Fatalf("children = %d, want 2", len(node.Children))
		}
	})

	t.Run("slices and components", func(t *testing.T) {
		items := []*VNode{Li("a"), nil, Li("b")}
		node := Ul([]Attr{Class("list"), Role("list")}, items, Func(func() *VNode { return Li("c") }))

		if len(node.Children) != 3 {
			t.Fatalf("children = %d, want 3", len(node.Children))
		}
		if node.Children[2].Kind != KindComponent {
			t.Errorf("third child kind = %s, want Component", node.Children[2].Kind)
		}
		if node.Props["role"] != "list" {
			t.Errorf("role = %v", node.Props["role"])
		}
	})
}

func TestIsVoidElement(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"img", true},
		{"input", true},
		{"br", true},
		{"div", false},
		{"span", false},
	}
	for _, tc := range tests {
		if got := IsVoidElement(tc.tag); got != tc.want {
			t.Errorf("IsVoidElement(%q) = %v, want %v", tc.tag, got, tc.want)
		}
	}
}
