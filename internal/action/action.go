// Package action resolves gesture names to input actions and executes
// them.
package action

import (
	"fmt"
	"strings"
)

// Built-in action names.
const (
	LeftClick   = "left_click"
	RightClick  = "right_click"
	DoubleClick = "double_click"
	ScrollUp    = "scroll_up"
	ScrollDown  = "scroll_down"
	Reset       = "reset"
)

// Prefixes for parameterized actions.
const (
	keyPrefix  = "key:"
	typePrefix = "type:"
	execPrefix = "exec:"
)

// Action is a parsed action spec.
type Action struct {
	// Kind is one of the built-in names, or "key", "type", "exec".
	Kind string
	// Arg carries the key name, text, or command line for parameterized
	// kinds.
	Arg string
}

// Parse validates an action spec string such as "right_click",
// "key:space" or "exec:playerctl play-pause".
func Parse(spec string) (Action, error) {
	switch spec {
	case LeftClick, RightClick, DoubleClick, ScrollUp, ScrollDown, Reset:
		return Action{Kind: spec}, nil
	}

	for _, prefix := range []string{keyPrefix, typePrefix, execPrefix} {
		if strings.HasPrefix(spec, prefix) {
			arg := strings.TrimPrefix(spec, prefix)
			if arg == "" {
				return Action{}, fmt.Errorf("action %q has an empty argument", spec)
			}
			return Action{Kind: strings.TrimSuffix(prefix, ":"), Arg: arg}, nil
		}
	}

	return Action{}, fmt.Errorf("unknown action %q", spec)
}

// String renders the action back to its spec form.
func (a Action) String() string {
	if a.Arg == "" {
		return a.Kind
	}
	return a.Kind + ":" + a.Arg
}
