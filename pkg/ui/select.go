package ui

import (
	"sort"

	"github.com/vango-dev/lexmart/pkg/vdom"
)

// SelectItem represents an option in a Select.
type SelectItem struct {
	Value    string
	Label    string
	Disabled bool
	Group    string
}

// SelectOption configures a Select component.
type SelectOption func(*selectConfig)

type selectConfig struct {
	placeholder string
	required    bool
	className   string
}

// SelectPlaceholder adds a disabled leading option.
func SelectPlaceholder(text string) SelectOption {
	return func(c *selectConfig) {
		c.placeholder = text
	}
}

// SelectRequired marks the select as required.
func SelectRequired() SelectOption {
	return func(c *selectConfig) {
		c.required = true
	}
}

// SelectClass adds additional CSS classes.
func SelectClass(className string) SelectOption {
	return func(c *selectConfig) {
		c.className = className
	}
}

// Select renders a native select. Ungrouped items come first in the given
// order, followed by one optgroup per group in name order.
func Select(name string, items []SelectItem, selected string, opts ...SelectOption) *vdom.VNode {
	var cfg selectConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	attrs := []any{
		vdom.Class(CN("select", cfg.className)),
		vdom.Name(name),
		vdom.ID(name),
	}
	if cfg.required {
		attrs = append(attrs, vdom.Required())
	}

	if cfg.placeholder != "" {
		attrs = append(attrs, vdom.Option(vdom.Value(""), vdom.Disabled(), vdom.AttrIf(selected == "", vdom.Selected()), cfg.placeholder))
	}

	groups := make(map[string][]SelectItem)
	for _, item := range items {
		if item.Group == "" {
			attrs = append(attrs, selectOption(item, selected))
			continue
		}
		groups[item.Group] = append(groups[item.Group], item)
	}

	names := make([]string, 0, len(groups))
	for g := range groups {
		names = append(names, g)
	}
	sort.Strings(names)
	for _, g := range names {
		group := []any{vdom.Attr{Key: "label", Value: g}}
		for _, item := range groups[g] {
			group = append(group, selectOption(item, selected))
		}
		attrs = append(attrs, vdom.Optgroup(group...))
	}

	return vdom.Select(attrs...)
}

func selectOption(item SelectItem, selected string) *vdom.VNode {
	return vdom.Option(
		vdom.Value(item.Value),
		vdom.AttrIf(item.Disabled, vdom.Disabled()),
		vdom.AttrIf(item.Value == selected, vdom.Selected()),
		item.Label,
	)
}
