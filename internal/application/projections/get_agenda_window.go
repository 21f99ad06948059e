package projections

import (
	"context"
	"sort"
	"time"

	"academia/internal/application/agendarender"
	"academia/internal/domain/agenda"
)

// AgendaWindowStore defines the store interface needed by this projection.
type AgendaWindowStore interface {
	ListByRange(ctx context.Context, start, end time.Time) ([]agenda.Item, error)
}

// GetAgendaWindowDeps holds dependencies for the projection.
type GetAgendaWindowDeps struct {
	AgendaStore AgendaWindowStore
}

// AgendaWindowQuery selects the visible window and the active filters.
type AgendaWindowQuery struct {
	Start   time.Time
	End     time.Time
	Filters agendarender.Filters
}

// AgendaWindowResult carries the filtered items plus the header stats,
// which are always computed from the unfiltered window so the cards
// don't shrink when a filter is active.
type AgendaWindowResult struct {
	Items []agenda.Item
	Stats agendarender.Stats
}

// QueryGetAgendaWindow loads every agenda item inside the window,
// sorted chronologically, applying the type/status/instructor filters.
func QueryGetAgendaWindow(ctx context.Context, q AgendaWindowQuery, deps GetAgendaWindowDeps) (AgendaWindowResult, error) {
	items, err := deps.AgendaStore.ListByRange(ctx, q.Start, q.End)
	if err != nil {
		return AgendaWindowResult{}, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].StartTime.Before(items[j].StartTime)
	})

	return AgendaWindowResult{
		Items: q.Filters.Apply(items),
		Stats: agendarender.ComputeStats(items),
	}, nil
}
