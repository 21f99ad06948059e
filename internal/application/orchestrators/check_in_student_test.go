package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"academia/internal/domain/attendance"
	"academia/internal/domain/student"
	"academia/internal/domain/turma"
)

type mockStudentStore struct {
	students map[string]student.Student
}

func (m *mockStudentStore) GetByID(_ context.Context, id string) (student.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return student.Student{}, errors.New("not found")
	}
	return s, nil
}

func (m *mockStudentStore) SearchByName(_ context.Context, query string, limit int) ([]student.Student, error) {
	var out []student.Student
	for _, s := range m.students {
		if strings.Contains(strings.ToLower(s.Name), strings.ToLower(query)) {
			out = append(out, s)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type mockAttendanceStore struct {
	saved []attendance.Attendance
}

func (m *mockAttendanceStore) Save(_ context.Context, a attendance.Attendance) error {
	m.saved = append(m.saved, a)
	return nil
}

type mockLessonLookup struct {
	lessons map[string]turma.Lesson
}

func (m *mockLessonLookup) GetLessonByID(_ context.Context, id string) (turma.Lesson, error) {
	l, ok := m.lessons[id]
	if !ok {
		return turma.Lesson{}, errors.New("lesson not found")
	}
	return l, nil
}

func TestExecuteSearchStudents(t *testing.T) {
	store := &mockStudentStore{students: map[string]student.Student{
		"s1": {ID: "s1", Name: "João Silva", Status: student.StatusActive},
		"s2": {ID: "s2", Name: "Maria Souza", Status: student.StatusActive},
	}}

	result, err := ExecuteSearchStudents(context.Background(), SearchStudentsInput{Query: "joão"}, SearchStudentsDeps{StudentStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Students) != 1 || result.Students[0].ID != "s1" {
		t.Errorf("unexpected result: %+v", result.Students)
	}

	empty, err := ExecuteSearchStudents(context.Background(), SearchStudentsInput{}, SearchStudentsDeps{StudentStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.Students == nil || len(empty.Students) != 0 {
		t.Error("empty query must return an empty non-nil slice")
	}
}

func TestExecuteCheckInStudent_Window(t *testing.T) {
	classStart := time.Date(2025, 3, 10, 19, 0, 0, 0, time.Local)
	students := &mockStudentStore{students: map[string]student.Student{
		"s1": {ID: "s1", Name: "João", Status: student.StatusActive},
	}}
	lessons := &mockLessonLookup{lessons: map[string]turma.Lesson{
		"l1": {ID: "l1", TurmaID: "t1", ScheduledDate: classStart},
	}}

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"opens 30 min before", classStart.Add(-30 * time.Minute), nil},
		{"too early", classStart.Add(-31 * time.Minute), ErrWindowNotOpen},
		{"closes 15 min after", classStart.Add(15 * time.Minute), nil},
		{"too late", classStart.Add(16 * time.Minute), ErrWindowClosed},
		{"at start", classStart, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att := &mockAttendanceStore{}
			err := ExecuteCheckInStudent(context.Background(), CheckInStudentInput{
				StudentID: "s1",
				LessonID:  "l1",
			}, CheckInStudentDeps{
				StudentStore:    students,
				AttendanceStore: att,
				TurmaStore:      lessons,
				Now:             func() time.Time { return tt.now },
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil {
				if len(att.saved) != 1 {
					t.Fatal("expected one attendance record")
				}
				rec := att.saved[0]
				if rec.TurmaID != "t1" {
					t.Error("turma ID must be filled in from the lesson")
				}
				if rec.Method != attendance.MethodKiosk || !rec.Present {
					t.Errorf("unexpected record: %+v", rec)
				}
			}
		})
	}
}

func TestExecuteCheckInStudent_ManualSkipsWindow(t *testing.T) {
	classStart := time.Date(2025, 3, 10, 19, 0, 0, 0, time.Local)
	students := &mockStudentStore{students: map[string]student.Student{
		"s1": {ID: "s1", Name: "João", Status: student.StatusActive},
	}}
	lessons := &mockLessonLookup{lessons: map[string]turma.Lesson{
		"l1": {ID: "l1", TurmaID: "t1", ScheduledDate: classStart},
	}}
	att := &mockAttendanceStore{}

	// Hours after class start: kiosk would refuse, manual marking must not.
	err := ExecuteCheckInStudent(context.Background(), CheckInStudentInput{
		StudentID: "s1",
		TurmaID:   "t1",
		LessonID:  "l1",
		Method:    attendance.MethodManual,
	}, CheckInStudentDeps{
		StudentStore:    students,
		AttendanceStore: att,
		TurmaStore:      lessons,
		Now:             func() time.Time { return classStart.Add(3 * time.Hour) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(att.saved) != 1 || att.saved[0].Method != attendance.MethodManual {
		t.Errorf("unexpected records: %+v", att.saved)
	}
}

func TestExecuteCheckInStudent_Guards(t *testing.T) {
	students := &mockStudentStore{students: map[string]student.Student{
		"s1": {ID: "s1", Name: "João", Status: student.StatusActive},
		"s2": {ID: "s2", Name: "Antigo", Status: student.StatusArchived},
	}}
	att := &mockAttendanceStore{}
	deps := CheckInStudentDeps{StudentStore: students, AttendanceStore: att}

	if err := ExecuteCheckInStudent(context.Background(), CheckInStudentInput{TurmaID: "t1"}, deps); !errors.Is(err, ErrStudentNotSelected) {
		t.Errorf("expected ErrStudentNotSelected, got %v", err)
	}
	if err := ExecuteCheckInStudent(context.Background(), CheckInStudentInput{StudentID: "missing", TurmaID: "t1"}, deps); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
	if err := ExecuteCheckInStudent(context.Background(), CheckInStudentInput{StudentID: "s2", TurmaID: "t1"}, deps); !errors.Is(err, ErrStudentArchived) {
		t.Errorf("expected ErrStudentArchived, got %v", err)
	}
	if len(att.saved) != 0 {
		t.Error("no attendance should be recorded for rejected check-ins")
	}
}
