package ui

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/lexmart/pkg/render"
	"github.com/vango-dev/lexmart/pkg/tooltip"
	"github.com/vango-dev/lexmart/pkg/vdom"
)

func renderString(t *testing.T, node *vdom.VNode) string {
	t.Helper()
	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(node)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return html
}

func TestTooltip_HookPayload(t *testing.T) {
	node := Tooltip(
		TooltipID("rating-7"),
		TooltipContent("Average of 112 reviews"),
		TooltipSide(tooltip.SideRight),
		TooltipDelay(250*time.Millisecond),
		TooltipClass("dark"),
		TooltipChildren(vdom.Text("4.9")),
	)

	name, raw := vdom.ParseHook(node.Props[vdom.HookAttr].(string))
	if name != TooltipHook {
		t.Fatalf("hook = %q, want %q", name, TooltipHook)
	}
	var got TooltipSpec
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("payload: %v", err)
	}
	want := TooltipSpec{
		ID:        "rating-7",
		Content:   "Average of 112 reviews",
		Side:      tooltip.SideRight,
		Delay:     250,
		ClassName: "dark",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	cfg := got.Config()
	if cfg.Delay != 250*time.Millisecond || cfg.Side != tooltip.SideRight || cfg.Content != "Average of 112 reviews" {
		t.Fatalf("Config() = %+v", cfg)
	}
}

func TestTooltipSpec_ConfigDelay(t *testing.T) {
	tests := []struct {
		name  string
		delay int64
		want  time.Duration
	}{
		{"zero", 0, 0},
		{"millis", 1500, 1500 * time.Millisecond},
		{"negative passes through", -5, -5 * time.Millisecond},
		{"huge is capped", math.MaxInt64, time.Duration(maxDelayMillis) * time.Millisecond},
		{"just over the cap", maxDelayMillis + 1, time.Duration(maxDelayMillis) * time.Millisecond},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TooltipSpec{Delay: tc.delay}.Config().Delay
			if got != tc.want {
				t.Fatalf("Delay = %v, want %v", got, tc.want)
			}
			if tc.delay > 0 && got <= 0 {
				t.Fatalf("positive delay %d wrapped to %v", tc.delay, got)
			}
		})
	}
}

func TestTooltip_Markup(t *testing.T) {
	html := renderString(t, Tooltip(
		TooltipID("t1"),
		TooltipContent("Bar certified"),
		TooltipChildren(vdom.Strong("✓")),
	))

	for _, want := range []string{
		`aria-describedby="t1"`,
		`aria-label="Bar certified"`,
		`data-tooltip-id="t1"`,
		`data-tooltip-side="top"`,
		`<strong>✓</strong>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in %s", want, html)
		}
	}
	if strings.Contains(html, `role="tooltip"`) {
		t.Error("trigger markup must not include the surface")
	}
}

func TestTooltip_Defaults(t *testing.T) {
	node := Tooltip()
	if node.Props["data-tooltip-side"] != "top" {
		t.Errorf("side = %v, want top", node.Props["data-tooltip-side"])
	}
	if _, ok := node.Props["aria-describedby"]; ok {
		t.Error("no id means no aria-describedby")
	}
}

func TestCN(t *testing.T) {
	if got := CN("a", " ", "", " b "); got != "a b" {
		t.Errorf("CN = %q", got)
	}
}
