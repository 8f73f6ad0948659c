package tooltip

// Gap is the distance in pixels between the trigger and the surface.
const Gap = 8

// Side is the requested side of the trigger the surface appears on.
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// DefaultSide is used when no side is configured.
const DefaultSide = SideTop

// Valid reports whether s is one of the four known sides.
func (s Side) Valid() bool {
	switch s {
	case SideTop, SideBottom, SideLeft, SideRight:
		return true
	default:
		return false
	}
}

// String returns the side name.
func (s Side) String() string {
	return string(s)
}

// Rect is a bounding rectangle in viewport coordinates, as returned by
// getBoundingClientRect.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Right returns the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Scroll holds the document scroll offsets.
type Scroll struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Size is a viewport size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Position is a surface position in document coordinates.
type Position struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Compute returns the surface position for the given side.
//
// The raw position is pinned into the viewport: left to
// [0, viewport.Width-surface.Width] and top to
// [0, viewport.Height+scroll.Top-surface.Height]. The top bound mixes
// document and viewport coordinates; it is kept as is so existing layouts
// do not shift.
func Compute(side Side, trigger, surface Rect, scroll Scroll, viewport Size) Position {
	centerLeft := trigger.Left + scroll.Left + trigger.Width/2 - surface.Width/2
	centerTop := trigger.Top + scroll.Top + trigger.Height/2 - surface.Height/2

	var pos Position
	switch side {
	case SideBottom:
		pos = Position{
			Top:  trigger.Bottom() + scroll.Top + Gap,
			Left: centerLeft,
		}
	case SideLeft:
		pos = Position{
			Top:  centerTop,
			Left: trigger.Left + scroll.Left - surface.Width - Gap,
		}
	case SideRight:
		pos = Position{
			Top:  centerTop,
			Left: trigger.Right() + scroll.Left + Gap,
		}
	default:
		pos = Position{
			Top:  trigger.Top + scroll.Top - surface.Height - Gap,
			Left: centerLeft,
		}
	}

	pos.Left = clamp(pos.Left, viewport.Width-surface.Width)
	pos.Top = clamp(pos.Top, viewport.Height+scroll.Top-surface.Height)
	return pos
}

// clamp pins v to [0, upper]. A negative upper bound yields 0.
func clamp(v, upper float64) float64 {
	return max(0, min(v, upper))
}
