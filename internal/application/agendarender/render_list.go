package agendarender

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"academia/internal/domain/agenda"
)

// RenderList renders the chronological list view of the loaded window.
// Items are ordered by start time; an empty window gets the empty-state
// panel.
func RenderList(current time.Time, items []agenda.Item, filters Filters) template.HTML {
	visible := filters.Apply(items)
	if len(visible) == 0 {
		return RenderEmptyState()
	}

	sorted := make([]agenda.Item, len(visible))
	copy(sorted, visible)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	var b strings.Builder
	b.WriteString(`<div class="list-view">`)
	var lastDay string
	for _, it := range sorted {
		day := it.StartTime.Format("2006-01-02")
		if day != lastDay {
			if lastDay != "" {
				b.WriteString(`</div>`)
			}
			fmt.Fprintf(&b, `<div class="list-day" data-date="%s"><h3 class="list-day-title">%s</h3>`,
				day, dateBR(it.StartTime))
			lastDay = day
		}
		b.WriteString(renderListItem(it))
	}
	if lastDay != "" {
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return template.HTML(b.String())
}

func renderListItem(it agenda.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="list-item %s agenda-item" data-id="%s" data-type="%s">`,
		typeClass(it.Type), esc(it.ID), esc(it.Type))
	fmt.Fprintf(&b, `<span class="type-icon">%s</span>`, agenda.TypeIcon(it.Type))
	fmt.Fprintf(&b, `<div class="item-title">%s</div>`, esc(it.Title))
	fmt.Fprintf(&b, `<div class="item-time">🕐 %s - %s</div>`, hm(it.StartTime), hm(it.EndTime))
	fmt.Fprintf(&b, `<div class="item-status status-%s">%s</div>`,
		esc(strings.ToLower(it.Status)), esc(agenda.StatusLabel(it.Status)))
	if it.Instructor.Name != "" {
		fmt.Fprintf(&b, `<div class="item-instructor">👨‍🏫 %s</div>`, esc(it.Instructor.Name))
	}
	if it.Unit.Name != "" {
		fmt.Fprintf(&b, `<div class="item-unit">📍 %s</div>`, esc(it.Unit.Name))
	}
	if it.Type == agenda.TypeTurma && it.MaxStudents > 0 {
		fmt.Fprintf(&b, `<div class="item-capacity">👥 %d/%d</div>`, it.ActualStudents, it.MaxStudents)
	}
	b.WriteString(`</div>`)
	return b.String()
}
