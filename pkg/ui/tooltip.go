package ui

import (
	"math"
	"time"

	"github.com/vango-dev/lexmart/pkg/tooltip"
	"github.com/vango-dev/lexmart/pkg/vdom"
)

// TooltipHook is the client hook name the live runtime attaches to.
const TooltipHook = "Tooltip"

// TooltipOption configures a Tooltip component.
type TooltipOption func(*tooltipProps)

type tooltipProps struct {
	id       string
	content  string
	cfg      tooltip.Config
	children []any
}

// TooltipID sets the id the live session uses to address this tooltip.
func TooltipID(id string) TooltipOption {
	return func(p *tooltipProps) {
		p.id = id
	}
}

// TooltipContent sets the tooltip text.
func TooltipContent(content string) TooltipOption {
	return func(p *tooltipProps) {
		p.content = content
	}
}

// TooltipSide sets the preferred side.
func TooltipSide(side tooltip.Side) TooltipOption {
	return func(p *tooltipProps) {
		p.cfg.Side = side
	}
}

// TooltipDelay sets the hover delay before showing.
func TooltipDelay(d time.Duration) TooltipOption {
	return func(p *tooltipProps) {
		p.cfg.Delay = d
	}
}

// TooltipClass adds classes to the surface.
func TooltipClass(className string) TooltipOption {
	return func(p *tooltipProps) {
		p.cfg.ClassName = className
	}
}

// TooltipChildren sets the trigger children.
func TooltipChildren(children ...any) TooltipOption {
	return func(p *tooltipProps) {
		p.children = children
	}
}

// TooltipSpec is the hook payload the client sends back in a register
// frame.
type TooltipSpec struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	Side      tooltip.Side `json:"side"`
	Delay     int64        `json:"delay"`
	ClassName string       `json:"className,omitempty"`
}

// maxDelayMillis is the largest delay that fits in a time.Duration.
const maxDelayMillis = int64(math.MaxInt64 / int64(time.Millisecond))

// Config converts the payload into a positioner config. Delays too large
// for a time.Duration are capped rather than wrapped.
func (s TooltipSpec) Config() tooltip.Config {
	delay := s.Delay
	if delay > maxDelayMillis {
		delay = maxDelayMillis
	}
	return tooltip.Config{
		Content:   s.Content,
		Side:      s.Side,
		Delay:     time.Duration(delay) * time.Millisecond,
		ClassName: s.ClassName,
	}
}

// Tooltip renders a trigger wrapper. The surface is not part of the
// markup; it is mounted into the overlay layer while the trigger is hovered.
func Tooltip(opts ...TooltipOption) *vdom.VNode {
	p := tooltipProps{cfg: tooltip.Config{Side: tooltip.DefaultSide}}
	for _, opt := range opts {
		opt(&p)
	}
	side := p.cfg.Side
	if side == "" {
		side = tooltip.DefaultSide
	}

	spec := TooltipSpec{
		ID:        p.id,
		Content:   p.content,
		Side:      side,
		Delay:     p.cfg.Delay.Milliseconds(),
		ClassName: p.cfg.ClassName,
	}

	attrs := []any{
		vdom.Class("tooltip-trigger inline-block"),
		vdom.Data("tooltip-side", string(side)),
		vdom.Hook(TooltipHook, spec),
	}
	if p.id != "" {
		attrs = append(attrs, vdom.Data("tooltip-id", p.id), vdom.AriaDescribedBy(p.id))
	}
	if p.content != "" {
		attrs = append(attrs, vdom.AriaLabel(p.content))
	}
	attrs = append(attrs, p.children...)

	return vdom.Span(attrs...)
}
