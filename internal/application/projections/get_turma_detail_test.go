package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"academia/internal/domain/agenda"
	"academia/internal/domain/instructor"
	"academia/internal/domain/student"
	"academia/internal/domain/turma"
)

type mockTurmaDetailStore struct {
	turmas      map[string]turma.Turma
	lessons     map[string][]turma.Lesson
	enrollments map[string][]turma.Enrollment
}

func (m *mockTurmaDetailStore) GetByID(_ context.Context, id string) (turma.Turma, error) {
	t, ok := m.turmas[id]
	if !ok {
		return turma.Turma{}, errors.New("not found")
	}
	return t, nil
}

func (m *mockTurmaDetailStore) ListLessons(_ context.Context, turmaID string) ([]turma.Lesson, error) {
	return m.lessons[turmaID], nil
}

func (m *mockTurmaDetailStore) ListEnrollments(_ context.Context, turmaID string) ([]turma.Enrollment, error) {
	return m.enrollments[turmaID], nil
}

type mockDetailStudentStore struct {
	students map[string]student.Student
}

func (m *mockDetailStudentStore) GetByID(_ context.Context, id string) (student.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return student.Student{}, errors.New("not found")
	}
	return s, nil
}

type mockDetailInstructorStore struct {
	instructors map[string]instructor.Instructor
}

func (m *mockDetailInstructorStore) GetByID(_ context.Context, id string) (instructor.Instructor, error) {
	i, ok := m.instructors[id]
	if !ok {
		return instructor.Instructor{}, errors.New("not found")
	}
	return i, nil
}

func TestQueryGetTurmaDetail(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	store := &mockTurmaDetailStore{
		turmas: map[string]turma.Turma{
			"t1": {ID: "t1", Name: "Iniciante Noite", InstructorID: "i1"},
		},
		lessons: map[string][]turma.Lesson{
			"t1": {
				{ID: "l2", TurmaID: "t1", LessonNumber: 2, Status: agenda.StatusScheduled, ScheduledDate: now.AddDate(0, 0, 2)},
				{ID: "l1", TurmaID: "t1", LessonNumber: 1, Status: agenda.StatusCompleted, ScheduledDate: now.AddDate(0, 0, -5)},
			},
		},
		enrollments: map[string][]turma.Enrollment{
			"t1": {
				{TurmaID: "t1", StudentID: "s2"},
				{TurmaID: "t1", StudentID: "s1"},
				{TurmaID: "t1", StudentID: "ghost"}, // deleted student, skipped
			},
		},
	}
	students := &mockDetailStudentStore{students: map[string]student.Student{
		"s1": {ID: "s1", Name: "Ana"},
		"s2": {ID: "s2", Name: "Bruno"},
	}}
	instructors := &mockDetailInstructorStore{instructors: map[string]instructor.Instructor{
		"i1": {ID: "i1", Name: "Prof. Carlos"},
	}}

	result, err := QueryGetTurmaDetail(context.Background(), "t1", now, GetTurmaDetailDeps{
		TurmaStore:      store,
		StudentStore:    students,
		InstructorStore: instructors,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.InstructorName != "Prof. Carlos" {
		t.Errorf("unexpected instructor %q", result.InstructorName)
	}
	if len(result.Lessons) != 2 || result.Lessons[0].LessonNumber != 1 {
		t.Errorf("lessons not ordered by number: %+v", result.Lessons)
	}
	if len(result.Students) != 2 || result.Students[0].Name != "Ana" {
		t.Errorf("roster not sorted by name: %+v", result.Students)
	}
	if result.Progress.TotalLessons != 2 || result.Progress.CompletedLessons != 1 {
		t.Errorf("unexpected progress: %+v", result.Progress)
	}
	if !result.NextLessonAt.Equal(now.AddDate(0, 0, 2)) {
		t.Errorf("unexpected next lesson %v", result.NextLessonAt)
	}

	if _, err := QueryGetTurmaDetail(context.Background(), "missing", now, GetTurmaDetailDeps{
		TurmaStore:   store,
		StudentStore: students,
	}); err == nil {
		t.Error("expected error for unknown turma")
	}
}
