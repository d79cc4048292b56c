package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table writes rows under header. Text mode draws a box table, markdown mode
// a pipe table. An empty table prints a "(0 rows)" marker instead.
func (r *Renderer) Table(header []string, rows [][]any) {
	if len(rows) == 0 {
		r.Muted("(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		r.Println()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// Percent formats a 0-100 score.
func Percent(score int) string {
	return fmt.Sprintf("%d%%", score)
}
