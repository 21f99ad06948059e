package agendarender

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"academia/internal/domain/agenda"
	"academia/internal/domain/calendar"
)

// maxMonthCellEvents is how many events a month cell lists before
// collapsing the rest into a "+N mais" marker.
const maxMonthCellEvents = 3

// RenderMonth renders the month grid: full weeks from the Monday on or
// before the 1st through the Sunday on or after the last day, with cells
// outside the target month dimmed.
func RenderMonth(current time.Time, items []agenda.Item, filters Filters, now time.Time) template.HTML {
	current = calendar.SafeDate(current)
	visible := filters.Apply(items)
	gridStart, gridEnd := calendar.MonthGridRange(current)

	var b strings.Builder
	b.WriteString(`<div class="month-view">`)

	b.WriteString(`<div class="month-headers">`)
	for _, name := range calendar.DayNames() {
		fmt.Fprintf(&b, `<div class="month-header-day">%s</div>`, name)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div class="month-grid">`)
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		b.WriteString(renderMonthCell(day, current, now, ItemsOn(visible, day)))
	}
	b.WriteString(`</div></div>`)
	return template.HTML(b.String())
}

func renderMonthCell(day, current, now time.Time, dayItems []agenda.Item) string {
	cls := "month-cell"
	if day.Month() != current.Month() {
		cls += " other-month"
	}
	if calendar.SameDay(day, now) {
		cls += " today"
	}
	if calendar.SameDay(day, current) {
		cls += " selected"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="%s" data-date="%s">`, cls, day.Format("2006-01-02"))
	fmt.Fprintf(&b, `<div class="cell-header"><span class="cell-number">%d</span>`, day.Day())
	if len(dayItems) > 0 {
		fmt.Fprintf(&b, `<span class="event-count">%d</span>`, len(dayItems))
	}
	b.WriteString(`</div><div class="cell-events">`)

	shown := dayItems
	if len(shown) > maxMonthCellEvents {
		shown = shown[:maxMonthCellEvents]
	}
	for _, it := range shown {
		fmt.Fprintf(&b, `<div class="month-event %s agenda-item" data-id="%s" data-type="%s">`+
			`<span class="event-time">%s</span><span class="event-title">%s</span></div>`,
			typeClass(it.Type), esc(it.ID), esc(it.Type), hm(it.StartTime), esc(truncateTitle(it.Title)))
	}
	if extra := len(dayItems) - maxMonthCellEvents; extra > 0 {
		fmt.Fprintf(&b, `<div class="more-events">+%d mais</div>`, extra)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func truncateTitle(title string) string {
	const max = 15
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max]) + "..."
}
