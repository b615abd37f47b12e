package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnGap = 3

// TableFormatter renders the Table description of a value. Column widths
// are measured with lipgloss so styled cells stay aligned.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
}

func (f *TableFormatter) Format(_ any, t Table) (string, error) {
	if len(t.Rows) == 0 {
		if t.Empty == "" {
			return "", nil
		}
		return t.Empty + "\n", nil
	}

	if t.Vertical {
		return formatVertical(t.Rows), nil
	}

	rows := t.Rows
	if !f.NoHeaders && len(t.Headers) > 0 {
		rows = append([][]string{t.Headers}, rows...)
	}
	return formatColumns(rows), nil
}

func formatColumns(rows [][]string) string {
	widths := make([]int, 0)
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+columnGap))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatVertical(rows [][]string) string {
	labelWidth := 0
	for _, row := range rows {
		if len(row) > 0 {
			labelWidth = max(labelWidth, lipgloss.Width(row[0])+1)
		}
	}

	var b strings.Builder
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		label := row[0] + ":"
		value := ""
		if len(row) > 1 {
			value = strings.Join(row[1:], " ")
		}
		b.WriteString("  ")
		b.WriteString(label)
		b.WriteString(strings.Repeat(" ", labelWidth-lipgloss.Width(label)+2))
		b.WriteString(value)
		b.WriteByte('\n')
	}
	return b.String()
}
