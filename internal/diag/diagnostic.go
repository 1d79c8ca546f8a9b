package diag

import (
	"strconv"
	"strings"
)

// Location is a resolved position: Line is 1-based, Column is a 0-based byte offset.
type Location struct {
	Line   int `json:"line" msgpack:"l"`
	Column int `json:"column" msgpack:"c"`
}

type Diagnostic struct {
	Path      string   `json:"path" msgpack:"p"`
	Location  Location `json:"location" msgpack:"loc"`
	Severity  Severity `json:"severity" msgpack:"s"`
	CopName   string   `json:"cop_name" msgpack:"cop"`
	Message   string   `json:"message" msgpack:"m"`
	Corrected bool     `json:"corrected" msgpack:"fix"`
}

// Less orders diagnostics by (path, line, column, cop name).
func (d Diagnostic) Less(other Diagnostic) bool {
	if d.Path != other.Path {
		return d.Path < other.Path
	}
	if d.Location.Line != other.Location.Line {
		return d.Location.Line < other.Location.Line
	}
	if d.Location.Column != other.Location.Column {
		return d.Location.Column < other.Location.Column
	}
	return d.CopName < other.CopName
}

// String renders the canonical line:
//
//	<path>:<line>:<column>: [<L>] <Cop>: <message>[ [Corrected]]
func (d Diagnostic) String() string {
	var sb strings.Builder
	sb.Grow(len(d.Path) + len(d.CopName) + len(d.Message) + 32)
	sb.WriteString(d.Path)
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(d.Location.Line))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(d.Location.Column))
	sb.WriteString(": [")
	sb.WriteByte(d.Severity.Letter())
	sb.WriteString("] ")
	sb.WriteString(d.CopName)
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	if d.Corrected {
		sb.WriteString(" [Corrected]")
	}
	return sb.String()
}

// Department returns the part of CopName before the slash.
func (d Diagnostic) Department() string {
	dept, _, _ := strings.Cut(d.CopName, "/")
	return dept
}
