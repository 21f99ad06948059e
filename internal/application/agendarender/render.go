// Package agendarender renders the hybrid agenda views. Each renderer is
// a pure function from (current date, items, filters, stats) to an HTML
// fragment; all state mutation happens in the HTTP layer before render.
package agendarender

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"academia/internal/domain/agenda"
	"academia/internal/domain/calendar"
)

// View names
const (
	ViewDay   = "day"
	ViewWeek  = "week"
	ViewMonth = "month"
	ViewList  = "list"
)

// Views lists the valid view modes in switcher order.
var Views = []string{ViewDay, ViewWeek, ViewMonth, ViewList}

// ValidView reports whether v names a view mode.
func ValidView(v string) bool {
	for _, view := range Views {
		if v == view {
			return true
		}
	}
	return false
}

// Filters narrows which agenda items a view shows.
type Filters struct {
	Type         string // TURMA, PERSONAL_SESSION, or empty
	Status       string
	InstructorID string
}

// Apply returns the subset of items matching the filters.
func (f Filters) Apply(items []agenda.Item) []agenda.Item {
	if f.Type == "" && f.Status == "" && f.InstructorID == "" {
		return items
	}
	var out []agenda.Item
	for _, it := range items {
		if f.Type != "" && it.Type != f.Type {
			continue
		}
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		if f.InstructorID != "" && it.Instructor.ID != f.InstructorID {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Stats are the header counters computed from the loaded window.
type Stats struct {
	Turmas            int
	PersonalSessions  int
	ActiveInstructors int
}

// ComputeStats derives the header counters from the loaded items:
// turma count, personal session count, and distinct instructor names.
func ComputeStats(items []agenda.Item) Stats {
	var s Stats
	seen := map[string]bool{}
	for _, it := range items {
		switch it.Type {
		case agenda.TypeTurma:
			s.Turmas++
		case agenda.TypePersonalSession:
			s.PersonalSessions++
		}
		if name := it.Instructor.Name; name != "" && !seen[name] {
			seen[name] = true
			s.ActiveInstructors++
		}
	}
	return s
}

// ItemsOn returns the items whose start instant falls on the local day d.
// Every item inside a week lands in exactly one of its seven day buckets.
func ItemsOn(items []agenda.Item, d time.Time) []agenda.Item {
	var out []agenda.Item
	for _, it := range items {
		if calendar.SameDay(it.StartTime, d) {
			out = append(out, it)
		}
	}
	return out
}

func spansOf(items []agenda.Item) []calendar.Span {
	spans := make([]calendar.Span, len(items))
	for i, it := range items {
		spans[i] = calendar.Span{Start: it.StartTime, End: it.EndTime}
	}
	return spans
}

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

func hm(t time.Time) string {
	return t.Format("15:04")
}

func dateBR(t time.Time) string {
	return t.Format("02/01/2006")
}

func typeClass(itemType string) string {
	if itemType == agenda.TypeTurma {
		return "turma-event"
	}
	return "personal-event"
}

// monthNames holds pt-BR month names for titles.
var monthNames = []string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// MonthTitle formats the month-view heading, e.g. "março de 2025".
func MonthTitle(d time.Time) string {
	return fmt.Sprintf("%s de %d", monthNames[int(d.Month())-1], d.Year())
}

// WeekRangeTitle formats the week-view heading, e.g.
// "03/03/2025 - 09/03/2025".
func WeekRangeTitle(d time.Time) string {
	return dateBR(calendar.WeekStart(d)) + " - " + dateBR(calendar.WeekEnd(d))
}

// RenderHeader renders the agenda header: title for the current view and
// the stats counters.
func RenderHeader(current time.Time, view string, stats Stats) template.HTML {
	var title string
	switch view {
	case ViewDay:
		title = dateBR(current)
	case ViewWeek:
		title = WeekRangeTitle(current)
	case ViewMonth:
		title = MonthTitle(current)
	default:
		title = "Agendamentos"
	}

	var b strings.Builder
	b.WriteString(`<div class="agenda-header">`)
	fmt.Fprintf(&b, `<h2 class="agenda-title">%s</h2>`, esc(title))
	b.WriteString(`<div class="agenda-stats">`)
	fmt.Fprintf(&b, `<div class="stat-card"><div class="stat-icon">🥋</div><div class="stat-value" id="stat-turmas">%d</div><div class="stat-label">Turmas</div></div>`, stats.Turmas)
	fmt.Fprintf(&b, `<div class="stat-card"><div class="stat-icon">🧍</div><div class="stat-value" id="stat-personal">%d</div><div class="stat-label">Personal</div></div>`, stats.PersonalSessions)
	fmt.Fprintf(&b, `<div class="stat-card"><div class="stat-icon">👨‍🏫</div><div class="stat-value" id="stat-instructors">%d</div><div class="stat-label">Instrutores</div></div>`, stats.ActiveInstructors)
	b.WriteString(`</div></div>`)
	return template.HTML(b.String())
}

// RenderEmptyState renders the no-appointments panel with its create
// call to action.
func RenderEmptyState() template.HTML {
	return template.HTML(`<div class="empty-state">` +
		`<div class="empty-state-icon">📅</div>` +
		`<h3>Nenhum agendamento encontrado</h3>` +
		`<p>Não há turmas ou sessões de personal training agendadas para este período.</p>` +
		`<button class="btn-primary" data-action="create-agenda">Criar Primeiro Agendamento</button>` +
		`</div>`)
}

// RenderErrorState renders the load-failure panel with a retry action.
func RenderErrorState() template.HTML {
	return template.HTML(`<div class="error-state">` +
		`<div class="error-state-icon">⚠️</div>` +
		`<h3>Erro ao carregar agenda</h3>` +
		`<p>Ocorreu um erro ao carregar os dados da agenda.</p>` +
		`<button class="btn-primary" data-action="reload-agenda">Tentar Novamente</button>` +
		`</div>`)
}
