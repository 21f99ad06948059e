package web

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"academia/internal/application/agendanav"
	"academia/internal/application/agendarender"
	"academia/internal/application/orchestrators"
	"academia/internal/application/projections"
	"academia/internal/domain/agenda"
)

// navStateFromQuery rebuilds the agenda navigation state from query
// parameters. The state is stateless per request: the page carries
// view and date on every link.
func navStateFromQuery(r *http.Request, now time.Time) agendanav.State {
	state := agendanav.NewState(now)
	if v := r.URL.Query().Get("view"); v != "" {
		state = state.WithView(v)
	}
	if d := r.URL.Query().Get("date"); d != "" {
		if parsed, err := time.ParseInLocation("2006-01-02", d, time.Local); err == nil {
			state.Current = parsed
		}
	}
	if action := r.URL.Query().Get("action"); action != "" {
		var selected time.Time
		if sel := r.URL.Query().Get("selected"); sel != "" {
			selected, _ = time.ParseInLocation("2006-01-02", sel, time.Local)
		}
		state = state.Transition(action, selected, now)
	}
	return state
}

func filtersFromQuery(r *http.Request) agendarender.Filters {
	q := r.URL.Query()
	return agendarender.Filters{
		Type:         q.Get("type"),
		Status:       q.Get("status"),
		InstructorID: q.Get("instructor_id"),
	}
}

// handleAgendaPage handles GET /agenda: the hybrid agenda with
// day/week/month/list views rendered server-side.
func handleAgendaPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	now := timeNow()
	state := navStateFromQuery(r, now)
	filters := filtersFromQuery(r)
	if debugEnabled(r) {
		filters = agendarender.Filters{}
	}

	start, end := state.Window()
	result, err := projections.QueryGetAgendaWindow(ctx, projections.AgendaWindowQuery{
		Start:   start,
		End:     end,
		Filters: filters,
	}, projections.GetAgendaWindowDeps{AgendaStore: stores.AgendaStore})

	var header, body template.HTML
	if err != nil {
		internalError(w, err)
		return
	}

	header = agendarender.RenderHeader(state.Current, state.View, result.Stats)
	if len(result.Items) == 0 {
		body = agendarender.RenderEmptyState()
	} else {
		switch state.View {
		case agendarender.ViewDay:
			body = agendarender.RenderDay(state.Current, result.Items, filters)
		case agendarender.ViewMonth:
			body = agendarender.RenderMonth(state.Current, result.Items, filters, now)
		case agendarender.ViewList:
			body = agendarender.RenderList(state.Current, result.Items, filters)
		default:
			body = agendarender.RenderWeek(state.Current, result.Items, filters, now)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, agendaPageLayout, header, body)
}

// agendaPageLayout is the page chrome around the rendered fragments.
// The client script re-fetches this page on navigation clicks.
const agendaPageLayout = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Agenda</title>
<link rel="stylesheet" href="/css/agenda.css">
</head>
<body>
<main class="agenda">
%s
%s
</main>
<script src="/js/agenda.js"></script>
</body>
</html>
`

// handleAgendaExportICS handles GET /agenda/export.ics: an iCalendar
// feed of the visible window.
func handleAgendaExportICS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	state := navStateFromQuery(r, timeNow())
	start, end := state.Window()
	result, err := projections.QueryGetAgendaWindow(ctx, projections.AgendaWindowQuery{
		Start: start,
		End:   end,
	}, projections.GetAgendaWindowDeps{AgendaStore: stores.AgendaStore})
	if err != nil {
		internalError(w, err)
		return
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//Academia//Agenda//PT-BR")
	for _, item := range result.Items {
		ev := cal.AddEvent(item.ID + "@academia")
		ev.SetDtStampTime(timeNow())
		ev.SetStartAt(item.StartTime)
		ev.SetEndAt(item.EndTime)
		ev.SetSummary(item.Title)
		if item.Description != "" {
			ev.SetDescription(item.Description)
		}
		if item.TrainingArea.Name != "" {
			ev.SetLocation(item.TrainingArea.Name)
		}
		ev.SetProperty(ical.ComponentProperty("STATUS"), agenda.StatusLabel(item.Status))
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="agenda.ics"`)
	fmt.Fprint(w, cal.Serialize())
}

// isAgendaValidationErr reports whether err is a per-field agenda item
// validation failure, answered with 400 and the message verbatim.
func isAgendaValidationErr(err error) bool {
	return errors.Is(err, agenda.ErrEmptyTitle) ||
		errors.Is(err, agenda.ErrInvalidType) ||
		errors.Is(err, agenda.ErrInvalidStatus) ||
		errors.Is(err, agenda.ErrMissingStart) ||
		errors.Is(err, agenda.ErrMissingEnd) ||
		errors.Is(err, agenda.ErrMissingStudent)
}

// agendaItemRequest is the create/update payload for an agenda item.
type agendaItemRequest struct {
	Type           string `json:"type" validate:"omitempty,oneof=TURMA PERSONAL_SESSION"`
	Title          string `json:"title" validate:"required,max=200"`
	Description    string `json:"description"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string `json:"startTime" validate:"required,datetime=15:04"`
	DurationMin    int    `json:"durationMin" validate:"omitempty,min=1,max=1440"`
	Status         string `json:"status"`
	InstructorID   string `json:"instructorId"`
	InstructorName string `json:"instructorName"`
	UnitID         string `json:"unitId"`
	UnitName       string `json:"unitName"`
	TrainingAreaID string `json:"trainingAreaId"`
	AreaName       string `json:"areaName"`
	StudentID      string `json:"studentId"`
	MaxStudents    int    `json:"maxStudents" validate:"omitempty,min=0"`
	Recurring      bool   `json:"recurring"`
	RecurrenceType string `json:"recurrenceType" validate:"omitempty,oneof=WEEKLY MONTHLY"`
	DaysOfWeek     []int  `json:"daysOfWeek" validate:"omitempty,dive,min=0,max=6"`
	EndRecurrence  string `json:"endRecurrence" validate:"omitempty,datetime=2006-01-02"`
}

// handleHybridAgenda handles GET (window) and POST (create) for /api/hybrid-agenda.
func handleHybridAgenda(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		state := navStateFromQuery(r, timeNow())
		start, end := state.Window()
		result, err := projections.QueryGetAgendaWindow(ctx, projections.AgendaWindowQuery{
			Start:   start,
			End:     end,
			Filters: filtersFromQuery(r),
		}, projections.GetAgendaWindowDeps{AgendaStore: stores.AgendaStore})
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	case "POST":
		var req agendaItemRequest
		if !decodeValid(w, r, &req) {
			return
		}
		input := orchestrators.CreateAgendaItemInput{
			Type:           req.Type,
			Title:          req.Title,
			Description:    req.Description,
			Date:           req.Date,
			StartTime:      req.StartTime,
			DurationMin:    req.DurationMin,
			Status:         req.Status,
			InstructorID:   req.InstructorID,
			InstructorName: req.InstructorName,
			UnitID:         req.UnitID,
			UnitName:       req.UnitName,
			TrainingAreaID: req.TrainingAreaID,
			AreaName:       req.AreaName,
			StudentID:      req.StudentID,
			MaxStudents:    req.MaxStudents,
			Recurring:      req.Recurring,
			RecurrenceType: req.RecurrenceType,
			DaysOfWeek:     req.DaysOfWeek,
			EndRecurrence:  req.EndRecurrence,
		}
		result, err := orchestrators.ExecuteCreateAgendaItem(ctx, input, orchestrators.CreateAgendaItemDeps{
			AgendaStore: stores.AgendaStore,
		})
		if err != nil {
			if isAgendaValidationErr(err) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleHybridAgendaItem handles GET/PUT/DELETE for /api/hybrid-agenda/{id}.
func handleHybridAgendaItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := strings.TrimPrefix(r.URL.Path, "/api/hybrid-agenda/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	deps := orchestrators.CreateAgendaItemDeps{AgendaStore: stores.AgendaStore}

	switch r.Method {
	case "GET":
		item, err := stores.AgendaStore.GetByID(ctx, id)
		if err != nil {
			http.Error(w, "agenda item not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, item)

	case "PUT":
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
			StartTime   string `json:"startTime" validate:"omitempty,datetime=15:04"`
			DurationMin int    `json:"durationMin" validate:"omitempty,min=1,max=1440"`
			Status      string `json:"status"`
		}
		if !decodeValid(w, r, &req) {
			return
		}
		item, err := orchestrators.ExecuteUpdateAgendaItem(ctx, orchestrators.UpdateAgendaItemInput{
			ID:          id,
			Title:       req.Title,
			Description: req.Description,
			Date:        req.Date,
			StartTime:   req.StartTime,
			DurationMin: req.DurationMin,
			Status:      req.Status,
		}, deps)
		if err != nil {
			if isAgendaValidationErr(err) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)

	case "DELETE":
		if err := orchestrators.ExecuteDeleteAgendaItem(ctx, id, deps); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
