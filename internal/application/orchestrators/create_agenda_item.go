package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"academia/internal/domain/agenda"
)

// AgendaStore defines the agenda persistence interface for item
// orchestrators.
type AgendaStore interface {
	GetByID(ctx context.Context, id string) (agenda.Item, error)
	Save(ctx context.Context, item agenda.Item) error
	Delete(ctx context.Context, id string) error
}

// CreateAgendaItemInput carries the scheduling form payload: a local
// date and time of day, a duration in minutes, and an optional
// recurrence description.
type CreateAgendaItemInput struct {
	Type           string
	Title          string
	Description    string
	Date           string // YYYY-MM-DD, local
	StartTime      string // HH:MM
	DurationMin    int
	Status         string
	InstructorID   string
	InstructorName string
	UnitID         string
	UnitName       string
	TrainingAreaID string
	AreaName       string
	StudentID      string // personal sessions
	MaxStudents    int    // turmas
	Recurring      bool
	RecurrenceType string // WEEKLY or MONTHLY
	DaysOfWeek     []int  // 0=Sunday..6=Saturday
	EndRecurrence  string // YYYY-MM-DD, empty = 30-day default
}

// CreateAgendaItemResult reports what was created. For recurring
// personal sessions Created counts the occurrences that were persisted
// and Failed the ones that were not; a single aggregate message
// summarizes the batch.
type CreateAgendaItemResult struct {
	Items   []agenda.Item
	Created int
	Failed  int
	Message string
}

// CreateAgendaItemDeps holds dependencies for CreateAgendaItem.
type CreateAgendaItemDeps struct {
	AgendaStore AgendaStore
}

// ExecuteCreateAgendaItem converts the form payload into agenda items
// and persists them. A recurring personal session expands into discrete
// occurrences saved one by one: individual failures are logged and
// counted but never abort the rest of the batch.
// PRE: input has passed transport-level validation
// POST: Created+Failed equals the number of expanded occurrences
func ExecuteCreateAgendaItem(ctx context.Context, input CreateAgendaItemInput, deps CreateAgendaItemDeps) (CreateAgendaItemResult, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", input.Date+" "+input.StartTime, time.Local)
	if err != nil {
		return CreateAgendaItemResult{}, fmt.Errorf("invalid date/time: %w", err)
	}
	if input.DurationMin <= 0 {
		input.DurationMin = 60
	}
	duration := time.Duration(input.DurationMin) * time.Minute

	base := itemFromInput(input, start, duration)
	if err := base.Validate(); err != nil {
		return CreateAgendaItemResult{}, err
	}

	// Recurring personal sessions become individual non-recurring rows.
	if input.Recurring && base.Type == agenda.TypePersonalSession {
		return createRecurringSessions(ctx, base, start, duration, input, deps)
	}

	if input.Recurring {
		rule := agenda.Rule{
			Type:       recurrenceType(input.RecurrenceType),
			DaysOfWeek: input.DaysOfWeek,
			EndDate:    input.EndRecurrence,
		}
		encoded, err := rule.Encode()
		if err != nil {
			return CreateAgendaItemResult{}, err
		}
		base.IsRecurring = true
		base.RecurrenceRule = encoded
	}

	if err := deps.AgendaStore.Save(ctx, base); err != nil {
		return CreateAgendaItemResult{}, err
	}
	slog.Info("agenda_event", "event", "item_created", "item_id", base.ID, "type", base.Type, "start", base.StartTime)
	return CreateAgendaItemResult{
		Items:   []agenda.Item{base},
		Created: 1,
		Message: "Agendamento criado com sucesso!",
	}, nil
}

func createRecurringSessions(ctx context.Context, base agenda.Item, start time.Time, duration time.Duration, input CreateAgendaItemInput, deps CreateAgendaItemDeps) (CreateAgendaItemResult, error) {
	rule := agenda.Rule{
		Type:       recurrenceType(input.RecurrenceType),
		DaysOfWeek: input.DaysOfWeek,
		EndDate:    input.EndRecurrence,
	}
	occs, err := agenda.ExpandRule(start, duration, rule)
	if err != nil {
		return CreateAgendaItemResult{}, err
	}

	var result CreateAgendaItemResult
	for _, occ := range occs {
		item := base
		item.ID = uuid.New().String()
		item.StartTime = occ.Start
		item.EndTime = occ.End
		item.IsRecurring = false
		item.RecurrenceRule = ""

		if err := deps.AgendaStore.Save(ctx, item); err != nil {
			result.Failed++
			slog.Error("agenda_event", "event", "recurring_session_failed", "start", occ.Start, "error", err.Error())
			continue
		}
		result.Created++
		result.Items = append(result.Items, item)
	}

	result.Message = fmt.Sprintf("%d sessões de Personal Training criadas!", result.Created)
	slog.Info("agenda_event", "event", "recurring_batch_done", "created", result.Created, "failed", result.Failed)
	return result, nil
}

func itemFromInput(input CreateAgendaItemInput, start time.Time, duration time.Duration) agenda.Item {
	status := input.Status
	if status == "" {
		status = agenda.StatusScheduled
	}
	return agenda.Item{
		ID:           uuid.New().String(),
		Type:         input.Type,
		Title:        input.Title,
		Description:  input.Description,
		StartTime:    start,
		EndTime:      start.Add(duration),
		Status:       status,
		Instructor:   agenda.Ref{ID: input.InstructorID, Name: input.InstructorName},
		Unit:         agenda.Ref{ID: input.UnitID, Name: input.UnitName},
		TrainingArea: agenda.Ref{ID: input.TrainingAreaID, Name: input.AreaName},
		StudentID:    input.StudentID,
		MaxStudents:  input.MaxStudents,
	}
}

func recurrenceType(t string) string {
	if t == agenda.RecurrenceMonthly {
		return agenda.RecurrenceMonthly
	}
	return agenda.RecurrenceWeekly
}

// UpdateAgendaItemInput carries fields for an item update.
type UpdateAgendaItemInput struct {
	ID          string
	Title       string
	Description string
	Date        string
	StartTime   string
	DurationMin int
	Status      string
}

// ExecuteUpdateAgendaItem applies editable fields to an existing item.
// PRE: input.ID references an existing item
// POST: item persisted with the new values
func ExecuteUpdateAgendaItem(ctx context.Context, input UpdateAgendaItemInput, deps CreateAgendaItemDeps) (agenda.Item, error) {
	item, err := deps.AgendaStore.GetByID(ctx, input.ID)
	if err != nil {
		return agenda.Item{}, fmt.Errorf("agenda item not found: %w", err)
	}

	if input.Title != "" {
		item.Title = input.Title
	}
	if input.Description != "" {
		item.Description = input.Description
	}
	if input.Status != "" {
		item.Status = input.Status
	}
	if input.Date != "" && input.StartTime != "" {
		start, err := time.ParseInLocation("2006-01-02 15:04", input.Date+" "+input.StartTime, time.Local)
		if err != nil {
			return agenda.Item{}, fmt.Errorf("invalid date/time: %w", err)
		}
		duration := item.Duration()
		if input.DurationMin > 0 {
			duration = time.Duration(input.DurationMin) * time.Minute
		}
		item.StartTime = start
		item.EndTime = start.Add(duration)
	}

	if err := item.Validate(); err != nil {
		return agenda.Item{}, err
	}
	if err := deps.AgendaStore.Save(ctx, item); err != nil {
		return agenda.Item{}, err
	}
	slog.Info("agenda_event", "event", "item_updated", "item_id", item.ID)
	return item, nil
}

// ExecuteDeleteAgendaItem removes an item.
// PRE: id is non-empty
// POST: item no longer present in the store
func ExecuteDeleteAgendaItem(ctx context.Context, id string, deps CreateAgendaItemDeps) error {
	if err := deps.AgendaStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("agenda_event", "event", "item_deleted", "item_id", id)
	return nil
}
