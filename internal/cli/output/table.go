package output

import (
	"encoding/csv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders rows as a terminal table, a markdown table or CSV
// depending on the effective mode. JSON callers should use JSON instead.
func (r *Renderer) Table(header []string, rows [][]string) {
	if r.EffectiveMode() == ModeCSV {
		r.writeCSV(header, rows)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	head := make(table.Row, len(header))
	for i, h := range header {
		head[i] = h
	}
	t.AppendHeader(head)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, c := range row {
			tr[i] = c
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// writeCSV writes RFC 4180 records. go-pretty escapes separators with
// backslashes, which CSV readers reject.
func (r *Renderer) writeCSV(header []string, rows [][]string) {
	w := csv.NewWriter(r.out)
	_ = w.Write(header)
	_ = w.WriteAll(rows)
}
