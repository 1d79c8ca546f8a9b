// Package directive parses "# rubocop:disable" style comments and answers
// whether a cop is disabled on a given line.
package directive

import (
	"regexp"
	"strings"
)

// Action is the verb of a directive comment.
type Action uint8

const (
	ActionDisable Action = iota
	ActionEnable
	// ActionTodo behaves like ActionDisable.
	ActionTodo
)

func (a Action) String() string {
	switch a {
	case ActionEnable:
		return "enable"
	case ActionTodo:
		return "todo"
	}
	return "disable"
}

// KeyAll disables every cop.
const KeyAll = "all"

var directiveRE = regexp.MustCompile(`#\s*(?:rubocop|rblint)\s*:\s*(disable|enable|todo)\s+(.+)`)

// Comment is one parsed directive comment.
type Comment struct {
	Action Action
	// Keys are cop names, department names or KeyAll, in written order.
	Keys   []string
	Reason string
}

// ParseComment extracts a directive from the text of a single comment.
func ParseComment(text string) (Comment, bool) {
	m := directiveRE.FindStringSubmatch(text)
	if m == nil {
		return Comment{}, false
	}
	var c Comment
	switch m[1] {
	case "enable":
		c.Action = ActionEnable
	case "todo":
		c.Action = ActionTodo
	default:
		c.Action = ActionDisable
	}

	list := m[2]
	if idx := strings.Index(list, "--"); idx >= 0 {
		c.Reason = strings.TrimSpace(list[idx+2:])
		list = list[:idx]
	}
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if sp := strings.IndexByte(item, ' '); sp >= 0 {
			item = item[:sp]
		}
		if item != "" {
			c.Keys = append(c.Keys, item)
		}
	}
	return c, len(c.Keys) > 0
}

// Department returns the department part of a cop name and whether the
// name had one.
func Department(copName string) (string, bool) {
	dept, _, ok := strings.Cut(copName, "/")
	return dept, ok
}
