// Package renderer formats positions and sales as Markdown.
//
// The output is meant for the terminal (through glamour) or to be pasted in a
// document, every table is a GitHub flavored Markdown table.
package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/costbasis"
)

// table writes a Markdown table, one row at a time.
type table struct {
	w       io.Writer
	columns int
}

// newTable prints the header row. Each column name may end with ':' to right
// align the column.
func newTable(w io.Writer, columns ...string) *table {
	names := make([]string, len(columns))
	aligns := make([]string, len(columns))
	for i, c := range columns {
		if name, ok := strings.CutSuffix(c, ":"); ok {
			names[i], aligns[i] = name, "---:"
			continue
		}
		names[i], aligns[i] = c, ":---"
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(names, " | "))
	fmt.Fprintf(w, "|%s|\n", strings.Join(aligns, "|"))
	return &table{w: w, columns: len(columns)}
}

func (t *table) row(cells ...string) {
	for len(cells) < t.columns {
		cells = append(cells, "")
	}
	for i, c := range cells {
		cells[i] = escape(c)
	}
	fmt.Fprintf(t.w, "| %s |\n", strings.Join(cells[:t.columns], " | "))
}

// escape protects the table layout from pipes in free text.
func escape(s string) string { return strings.ReplaceAll(s, "|", `\|`) }

func bold(s string) string {
	if s == "" {
		return s
	}
	return "**" + s + "**"
}

// money returns "" for a missing amount.
func money(m costbasis.Money) string {
	if !m.IsSet() && m.IsZero() {
		return ""
	}
	return m.String()
}
