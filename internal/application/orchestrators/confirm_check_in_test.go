package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"academia/internal/domain/student"
)

func confirmerFixtures() (*mockStudentStore, *mockAttendanceStore) {
	students := &mockStudentStore{students: map[string]student.Student{
		"s1": {ID: "s1", Name: "João", Status: student.StatusActive},
	}}
	return students, &mockAttendanceStore{}
}

func TestCheckInConfirmer_ConfirmCommits(t *testing.T) {
	students, att := confirmerFixtures()
	confirmer := NewCheckInConfirmer()

	id, err := confirmer.Begin(CheckInStudentInput{StudentID: "s1", TurmaID: "t1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if confirmer.Pending() != 1 {
		t.Fatalf("expected 1 pending confirmation, got %d", confirmer.Pending())
	}

	err = confirmer.Confirm(context.Background(), id, CheckInStudentDeps{
		StudentStore:    students,
		AttendanceStore: att,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(att.saved) != 1 {
		t.Fatalf("expected 1 attendance record, got %d", len(att.saved))
	}
	if confirmer.Pending() != 0 {
		t.Errorf("confirmation must be consumed after commit, %d pending", confirmer.Pending())
	}

	// The id is single-use.
	err = confirmer.Confirm(context.Background(), id, CheckInStudentDeps{
		StudentStore:    students,
		AttendanceStore: att,
	})
	if !errors.Is(err, ErrConfirmationExpired) {
		t.Errorf("second confirm: got %v, want ErrConfirmationExpired", err)
	}
}

func TestCheckInConfirmer_ScreenGivesUp(t *testing.T) {
	students, att := confirmerFixtures()
	confirmer := &CheckInConfirmer{Timeout: 10 * time.Millisecond}

	id, err := confirmer.Begin(CheckInStudentInput{StudentID: "s1", TurmaID: "t1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if confirmer.Pending() != 0 {
		t.Errorf("expired confirmation must be discarded, %d pending", confirmer.Pending())
	}
	err = confirmer.Confirm(context.Background(), id, CheckInStudentDeps{
		StudentStore:    students,
		AttendanceStore: att,
	})
	if !errors.Is(err, ErrConfirmationExpired) {
		t.Errorf("got %v, want ErrConfirmationExpired", err)
	}
	if len(att.saved) != 0 {
		t.Errorf("expired confirmation must never commit, got %d records", len(att.saved))
	}
}

func TestCheckInConfirmer_ConfirmClearsTimeout(t *testing.T) {
	students, att := confirmerFixtures()
	confirmer := &CheckInConfirmer{Timeout: 30 * time.Millisecond}

	id, err := confirmer.Begin(CheckInStudentInput{StudentID: "s1", TurmaID: "t1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = confirmer.Confirm(context.Background(), id, CheckInStudentDeps{
		StudentStore:    students,
		AttendanceStore: att,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Waiting past the deadline must not undo or duplicate anything:
	// the manual confirm cleared the timer rather than outrunning it.
	time.Sleep(60 * time.Millisecond)

	if len(att.saved) != 1 {
		t.Errorf("expected exactly 1 attendance record, got %d", len(att.saved))
	}
	if confirmer.Pending() != 0 {
		t.Errorf("expected 0 pending confirmations, got %d", confirmer.Pending())
	}
}

func TestCheckInConfirmer_Cancel(t *testing.T) {
	students, att := confirmerFixtures()
	confirmer := &CheckInConfirmer{Timeout: 30 * time.Millisecond}

	id, err := confirmer.Begin(CheckInStudentInput{StudentID: "s1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	confirmer.Cancel(id)

	if confirmer.Pending() != 0 {
		t.Errorf("cancelled confirmation must be discarded, %d pending", confirmer.Pending())
	}
	err = confirmer.Confirm(context.Background(), id, CheckInStudentDeps{
		StudentStore:    students,
		AttendanceStore: att,
	})
	if !errors.Is(err, ErrConfirmationExpired) {
		t.Errorf("got %v, want ErrConfirmationExpired", err)
	}
}

func TestCheckInConfirmer_RequiresStudent(t *testing.T) {
	confirmer := NewCheckInConfirmer()
	if _, err := confirmer.Begin(CheckInStudentInput{}); !errors.Is(err, ErrStudentNotSelected) {
		t.Errorf("got %v, want ErrStudentNotSelected", err)
	}
}
