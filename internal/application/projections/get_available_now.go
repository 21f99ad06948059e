package projections

import (
	"context"
	"sort"
	"time"

	"academia/internal/domain/agenda"
	"academia/internal/domain/calendar"
	"academia/internal/domain/kiosk"
	"academia/internal/domain/turma"
)

// AvailableNowTurmaStore defines the store interface needed by this projection.
type AvailableNowTurmaStore interface {
	GetByID(ctx context.Context, id string) (turma.Turma, error)
	ListLessonsByDate(ctx context.Context, day time.Time) ([]turma.Lesson, error)
	ListEnrollments(ctx context.Context, turmaID string) ([]turma.Enrollment, error)
}

// GetAvailableNowDeps holds dependencies for the projection.
type GetAvailableNowDeps struct {
	TurmaStore AvailableNowTurmaStore
}

// AvailableClassResult is one of today's classes as the kiosk shows it:
// the lesson, its turma, and whether check-in is open right now.
type AvailableClassResult struct {
	LessonID     string
	TurmaID      string
	TurmaName    string
	StartTime    time.Time
	Availability string // kiosk availability classification
	Enrolled     int
	MaxStudents  int
	EnrolledIDs  []string
}

// QueryGetAvailableNow lists today's lessons for the kiosk screen,
// classifying each against the check-in window and skipping cancelled
// ones. EnrolledIDs lets the caller restrict check-in to the roster.
func QueryGetAvailableNow(ctx context.Context, now time.Time, deps GetAvailableNowDeps) ([]AvailableClassResult, error) {
	now = calendar.SafeDate(now)
	lessons, err := deps.TurmaStore.ListLessonsByDate(ctx, now)
	if err != nil {
		return nil, err
	}

	var results []AvailableClassResult
	for _, l := range lessons {
		if l.Status == agenda.StatusCancelled {
			continue
		}
		t, err := deps.TurmaStore.GetByID(ctx, l.TurmaID)
		if err != nil {
			continue // Skip if turma not found
		}
		enrollments, err := deps.TurmaStore.ListEnrollments(ctx, l.TurmaID)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(enrollments))
		for _, e := range enrollments {
			ids = append(ids, e.StudentID)
		}

		results = append(results, AvailableClassResult{
			LessonID:     l.ID,
			TurmaID:      t.ID,
			TurmaName:    t.Name,
			StartTime:    l.ScheduledDate,
			Availability: kiosk.ClassifyStart(l.ScheduledDate, now),
			Enrolled:     len(enrollments),
			MaxStudents:  t.MaxStudents,
			EnrolledIDs:  ids,
		})
	}

	// Open classes first, then upcoming by start time, closed last.
	rank := map[string]int{kiosk.AvailableNow: 0, kiosk.Upcoming: 1, kiosk.Closed: 2}
	sort.SliceStable(results, func(i, j int) bool {
		if rank[results[i].Availability] != rank[results[j].Availability] {
			return rank[results[i].Availability] < rank[results[j].Availability]
		}
		return results[i].StartTime.Before(results[j].StartTime)
	})
	return results, nil
}
