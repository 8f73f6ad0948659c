package vdom

import (
	"encoding/json"
	"sort"
	"strings"
)

// HookAttr is the attribute the client runtime scans for behaviour hooks.
const HookAttr = "v-hook"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// StyleAttr sets the style attribute (named to avoid conflict with Style element).
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("side", "top") → data-side="top"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Accessibility attributes

func Role(role string) Attr           { return attr("role", role) }
func AriaLabel(label string) Attr     { return attr("aria-label", label) }
func AriaHidden(hidden bool) Attr     { return attr("aria-hidden", hidden) }
func AriaExpanded(expanded bool) Attr { return attr("aria-expanded", expanded) }
func AriaDescribedBy(id string) Attr  { return attr("aria-describedby", id) }
func AriaCurrent(value string) Attr   { return attr("aria-current", value) }
func AriaDisabled(disabled bool) Attr { return attr("aria-disabled", disabled) }
func AriaSelected(selected bool) Attr { return attr("aria-selected", selected) }
func AriaHasPopup(value string) Attr  { return attr("aria-haspopup", value) }
func AriaControls(id string) Attr     { return attr("aria-controls", id) }
func TabIndex(index int) Attr         { return attr("tabindex", index) }
func TitleAttr(title string) Attr     { return attr("title", title) }
func Hidden() Attr                    { return attr("hidden", true) }
func Lang(lang string) Attr           { return attr("lang", lang) }

// Links, forms and media

func Href(url string) Attr         { return attr("href", url) }
func Rel(rel string) Attr          { return attr("rel", rel) }
func Name(name string) Attr        { return attr("name", name) }
func Value(value string) Attr      { return attr("value", value) }
func Type(t string) Attr           { return attr("type", t) }
func Placeholder(text string) Attr { return attr("placeholder", text) }
func Disabled() Attr               { return attr("disabled", true) }
func Required() Attr               { return attr("required", true) }
func Selected() Attr               { return attr("selected", true) }
func Accept(types string) Attr     { return attr("accept", types) }
func Action(url string) Attr       { return attr("action", url) }
func Method(method string) Attr    { return attr("method", method) }
func Enctype(enctype string) Attr  { return attr("enctype", enctype) }
func For(id string) Attr           { return attr("for", id) }
func Src(url string) Attr          { return attr("src", url) }
func Alt(text string) Attr         { return attr("alt", text) }
func Charset(charset string) Attr  { return attr("charset", charset) }
func Content(content string) Attr  { return attr("content", content) }
func Defer() Attr                  { return attr("defer", true) }

// Conditional attributes

// ClassIf adds a class conditionally.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return attr("class", class)
	}
	return Attr{}
}

// AttrIf adds any attribute conditionally.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}

// Classes merges multiple class values.
// Accepts string, []string, and map[string]bool. Map entries are emitted in
// sorted order so output is stable.
func Classes(classes ...any) Attr {
	var result []string
	for _, c := range classes {
		switch v := c.(type) {
		case string:
			if v != "" {
				result = append(result, v)
			}
		case []string:
			for _, s := range v {
				if s != "" {
					result = append(result, s)
				}
			}
		case map[string]bool:
			keys := make([]string, 0, len(v))
			for class, include := range v {
				if include && class != "" {
					keys = append(keys, class)
				}
			}
			sort.Strings(keys)
			result = append(result, keys...)
		}
	}
	return attr("class", strings.Join(result, " "))
}

// Hook attaches a client behaviour hook. The value is encoded as
// "Name" or "Name:{json}" when config is non-nil.
//
//	Span(Hook("Tooltip", map[string]any{"side": "top", "delay": 200}))
func Hook(name string, config any) Attr {
	if config == nil {
		return attr(HookAttr, name)
	}
	data, err := json.Marshal(config)
	if err != nil {
		return attr(HookAttr, name)
	}
	return attr(HookAttr, name+":"+string(data))
}

// ParseHook splits a hook attribute value into name and raw JSON config.
func ParseHook(value string) (name string, config json.RawMessage) {
	name, raw, ok := strings.Cut(value, ":")
	if !ok || raw == "" {
		return name, nil
	}
	return name, json.RawMessage(raw)
}
