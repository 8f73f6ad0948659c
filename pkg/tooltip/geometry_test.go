package tooltip

import "testing"

func TestCompute_Sides(t *testing.T) {
	trigger := Rect{Top: 100, Left: 100, Width: 50, Height: 20}
	surface := Rect{Width: 80, Height: 24}
	viewport := Size{Width: 1024, Height: 768}

	tests := []struct {
		side Side
		want Position
	}{
		{SideTop, Position{Top: 68, Left: 85}},
		{SideBottom, Position{Top: 128, Left: 85}},
		{SideLeft, Position{Top: 98, Left: 12}},
		{SideRight, Position{Top: 98, Left: 158}},
	}

	for _, tc := range tests {
		t.Run(string(tc.side), func(t *testing.T) {
			got := Compute(tc.side, trigger, surface, Scroll{}, viewport)
			if got != tc.want {
				t.Fatalf("Compute(%s) = %+v, want %+v", tc.side, got, tc.want)
			}
		})
	}
}

func TestCompute_UnknownSideUsesTopFormula(t *testing.T) {
	trigger := Rect{Top: 240, Left: 310, Width: 64, Height: 32}
	surface := Rect{Width: 120, Height: 40}
	scroll := Scroll{Top: 15, Left: 5}
	viewport := Size{Width: 1280, Height: 720}

	for _, side := range []Side{"", "diagonal", "TOP", "center"} {
		got := Compute(side, trigger, surface, scroll, viewport)
		want := Compute(SideTop, trigger, surface, scroll, viewport)
		if got != want {
			t.Errorf("Compute(%q) = %+v, want top formula %+v", side, got, want)
		}
	}
}

func TestCompute_ScrollOffsets(t *testing.T) {
	trigger := Rect{Top: 100, Left: 100, Width: 50, Height: 20}
	surface := Rect{Width: 80, Height: 24}
	viewport := Size{Width: 1024, Height: 768}
	scroll := Scroll{Top: 300, Left: 40}

	got := Compute(SideBottom, trigger, surface, scroll, viewport)
	want := Position{Top: 120 + 300 + Gap, Left: 100 + 40 + 25 - 40}
	if got != want {
		t.Fatalf("Compute = %+v, want %+v", got, want)
	}
}

func TestCompute_Clamping(t *testing.T) {
	surface := Rect{Width: 80, Height: 24}

	tests := []struct {
		name     string
		side     Side
		trigger  Rect
		scroll   Scroll
		viewport Size
		want     Position
	}{
		{
			name:     "left edge pinned to zero",
			side:     SideTop,
			trigger:  Rect{Top: 100, Left: 0, Width: 20, Height: 20},
			viewport: Size{Width: 400, Height: 400},
			want:     Position{Top: 68, Left: 0},
		},
		{
			name:     "right edge pinned to viewport",
			side:     SideTop,
			trigger:  Rect{Top: 100, Left: 180, Width: 20, Height: 20},
			viewport: Size{Width: 200, Height: 400},
			want:     Position{Top: 68, Left: 120},
		},
		{
			name:     "top pinned to zero",
			side:     SideTop,
			trigger:  Rect{Top: 10, Left: 100, Width: 50, Height: 20},
			viewport: Size{Width: 400, Height: 400},
			want:     Position{Top: 0, Left: 85},
		},
		{
			name:     "bottom pinned to viewport",
			side:     SideBottom,
			trigger:  Rect{Top: 130, Left: 100, Width: 50, Height: 20},
			viewport: Size{Width: 400, Height: 150},
			want:     Position{Top: 126, Left: 85},
		},
		{
			name:     "bottom bound includes scroll top",
			side:     SideBottom,
			trigger:  Rect{Top: 130, Left: 100, Width: 50, Height: 20},
			scroll:   Scroll{Top: 10},
			viewport: Size{Width: 400, Height: 150},
			want:     Position{Top: 136, Left: 85},
		},
		{
			name:     "surface wider than viewport",
			side:     SideRight,
			trigger:  Rect{Top: 100, Left: 10, Width: 20, Height: 20},
			viewport: Size{Width: 50, Height: 400},
			want:     Position{Top: 98, Left: 0},
		},
		{
			name:     "left side overflow pinned to zero",
			side:     SideLeft,
			trigger:  Rect{Top: 100, Left: 30, Width: 20, Height: 20},
			viewport: Size{Width: 400, Height: 400},
			want:     Position{Top: 98, Left: 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(tc.side, tc.trigger, surface, tc.scroll, tc.viewport)
			if got != tc.want {
				t.Fatalf("Compute = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestSide_Valid(t *testing.T) {
	for _, s := range []Side{SideTop, SideBottom, SideLeft, SideRight} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []Side{"", "middle", "Top"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestRelease_RunsInReverseOnce(t *testing.T) {
	var order []int
	var r Release
	r.Add(func() { order = append(order, 1) })
	r.Add(nil)
	r.Add(func() { order = append(order, 2) })

	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	r.Run()
	r.Run()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("order = %v, want [2 1]", order)
	}
	if r.Len() != 0 {
		t.Fatalf("Len after Run = %d, want 0", r.Len())
	}
}

func TestState_String(t *testing.T) {
	if StateHidden.String() != "hidden" || StatePending.String() != "pending" || StateVisible.String() != "visible" {
		t.Fatal("unexpected state names")
	}
	if State(9).String() != "unknown" {
		t.Fatal("expected unknown for out-of-range state")
	}
}
