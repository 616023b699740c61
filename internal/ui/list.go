package ui

import (
	"fmt"

	"github.com/idilsaglam/todolist/internal/model"
)

const maxTitleWidth = 80

// Stats counts done and pending elements.
func Stats(items []model.Element) (done, pending int) {
	for _, it := range items {
		if it.IsDone() {
			done++
		} else {
			pending++
		}
	}
	return
}

// Header is the "Todos ✔ n • m Total k" line plus the progress bar.
func (p *Printer) Header(items []model.Element) []string {
	t := p.Theme
	d, n := Stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		p.C(t.Title, "Todos"),
		p.C(t.Success, t.SymDone), d,
		p.C(t.Pending, t.SymPending), n,
		p.C(t.Accent, "Total"), len(items),
	)
	return []string{header, p.C(t.Muted, ProgressBar(d, d+n, 28))}
}

// ListLines renders items flat or grouped by status. Indexes shown are
// 1-based positions in the full list, also when grouped.
func (p *Printer) ListLines(items []model.Element, group bool) []string {
	if !group {
		return p.lines(items, func(model.Element) bool { return true })
	}
	t := p.Theme
	var lines []string
	lines = append(lines, p.C(t.Accent, "Pending"))
	lines = append(lines, p.lines(items, func(e model.Element) bool { return !e.IsDone() })...)
	lines = append(lines, "")
	lines = append(lines, p.C(t.Accent, "Done"))
	lines = append(lines, p.lines(items, model.Element.IsDone)...)
	return lines
}

func (p *Printer) lines(items []model.Element, keep func(model.Element) bool) []string {
	t := p.Theme
	var out []string
	for i, it := range items {
		if !keep(it) {
			continue
		}
		box, color := t.Box(it.Status)
		title := []rune(it.Title)
		if len(title) > maxTitleWidth {
			title = append(title[:maxTitleWidth-3], []rune("...")...)
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			p.C(dim, fmt.Sprintf("%2d.", i+1)), p.C(color, box), string(title)))
	}
	if len(out) == 0 {
		return []string{p.C(t.Muted, "(none)")}
	}
	return out
}
