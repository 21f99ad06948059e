package agendarender

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"academia/internal/domain/agenda"
	"academia/internal/domain/calendar"
)

// RenderDay renders the single-day timeline: hour labels on the left and
// positioned event blocks at one pixel per minute.
func RenderDay(current time.Time, items []agenda.Item, filters Filters) template.HTML {
	current = calendar.SafeDate(current)
	dayItems := ItemsOn(filters.Apply(items), current)
	window := calendar.FitHourWindow(spansOf(dayItems))

	var b strings.Builder
	b.WriteString(`<div class="day-view">`)

	b.WriteString(`<div class="timeline-hours">`)
	for h := window.MinHour; h <= window.MaxHour; h++ {
		fmt.Fprintf(&b, `<div class="timeline-hour">%02d:00</div>`, h)
	}
	b.WriteString(`</div>`)

	fmt.Fprintf(&b, `<div class="day-events" data-date="%s" style="min-height:%dpx">`,
		current.Format("2006-01-02"), window.HoursVisible()*60)
	for _, it := range dayItems {
		b.WriteString(renderDayEvent(it, window))
	}
	b.WriteString(`</div></div>`)
	return template.HTML(b.String())
}

func renderDayEvent(it agenda.Item, window calendar.HourWindow) string {
	block := window.Layout(calendar.Span{Start: it.StartTime, End: it.EndTime})
	instructor := it.Instructor.Name
	if instructor == "" {
		instructor = "N/A"
	}
	area := it.TrainingArea.Name
	if area == "" {
		area = "N/A"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="day-event %s agenda-item" data-id="%s" data-type="%s" style="top: %dpx; height: %dpx;">`,
		typeClass(it.Type), esc(it.ID), esc(it.Type), block.Top, block.Height)
	b.WriteString(`<div class="event-content">`)
	fmt.Fprintf(&b, `<div class="event-time">%s - %s</div>`, hm(it.StartTime), hm(it.EndTime))
	fmt.Fprintf(&b, `<div class="event-title">%s %s</div>`, agenda.TypeIcon(it.Type), esc(it.Title))
	fmt.Fprintf(&b, `<div class="event-status status-%s">%s</div>`, esc(strings.ToLower(it.Status)), esc(agenda.StatusLabel(it.Status)))
	fmt.Fprintf(&b, `<div class="event-instructor">%s</div>`, esc(instructor))
	fmt.Fprintf(&b, `<div class="event-area">%s</div>`, esc(area))
	b.WriteString(`</div></div>`)
	return b.String()
}
