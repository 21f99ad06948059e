package agendarender

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"academia/internal/domain/agenda"
	"academia/internal/domain/calendar"
)

// RenderWeek renders the seven-column week grid, Monday first. The hour
// window is fitted to every event inside the week so all columns share
// one vertical scale.
func RenderWeek(current time.Time, items []agenda.Item, filters Filters, now time.Time) template.HTML {
	current = calendar.SafeDate(current)
	visible := filters.Apply(items)
	days := calendar.WeekDays(current)

	weekStart, weekEnd := days[0], calendar.WeekEnd(current)
	var weekItems []agenda.Item
	for _, it := range visible {
		local := it.StartTime.In(current.Location())
		if !local.Before(weekStart) && !local.After(weekEnd) {
			weekItems = append(weekItems, it)
		}
	}
	window := calendar.FitHourWindow(spansOf(weekItems))

	var b strings.Builder
	b.WriteString(`<div class="week-view">`)

	b.WriteString(`<div class="week-headers"><div class="week-header-gutter"></div>`)
	for _, day := range days {
		cls := "week-header-day"
		if calendar.SameDay(day, now) {
			cls += " today"
		}
		fmt.Fprintf(&b, `<div class="%s"><div class="day-name">%s</div><div class="day-number">%d</div></div>`,
			cls, calendar.DayNameShort(day), day.Day())
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div class="week-grid">`)
	b.WriteString(`<div class="timeline-hours">`)
	for h := window.MinHour; h <= window.MaxHour; h++ {
		fmt.Fprintf(&b, `<div class="timeline-hour">%02d:00</div>`, h)
	}
	b.WriteString(`</div>`)

	for _, day := range days {
		fmt.Fprintf(&b, `<div class="week-column" data-date="%s" style="min-height:%dpx">`,
			day.Format("2006-01-02"), window.HoursVisible()*60)
		for _, it := range ItemsOn(weekItems, day) {
			b.WriteString(renderWeekEvent(it, window))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div></div>`)
	return template.HTML(b.String())
}

func renderWeekEvent(it agenda.Item, window calendar.HourWindow) string {
	block := window.Layout(calendar.Span{Start: it.StartTime, End: it.EndTime})
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="week-event %s agenda-item" data-id="%s" data-type="%s" style="top: %dpx; height: %dpx;">`,
		typeClass(it.Type), esc(it.ID), esc(it.Type), block.Top, block.Height)
	b.WriteString(`<div class="event-content">`)
	fmt.Fprintf(&b, `<div class="event-time">%s</div>`, hm(it.StartTime))
	fmt.Fprintf(&b, `<div class="event-title">%s</div>`, esc(it.Title))
	b.WriteString(`</div></div>`)
	return b.String()
}
