package web

import (
	"errors"
	"net/http"
	"strconv"

	"academia/internal/application/orchestrators"
	"academia/internal/application/projections"
	"academia/internal/domain/attendance"
	"academia/internal/domain/kiosk"
)

// handleStudentSearch handles GET /api/students/search?q=: the kiosk
// name-search shortlist. Selection from the shortlist is the only way
// to obtain a StudentID for check-in.
func handleStudentSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, _ = strconv.Atoi(l)
	}
	result, err := orchestrators.ExecuteSearchStudents(ctx, orchestrators.SearchStudentsInput{
		Query: r.URL.Query().Get("q"),
		Limit: limit,
	}, orchestrators.SearchStudentsDeps{StudentStore: stores.StudentStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// checkInConfirmer parks kiosk check-ins on the confirmation screen.
// Shared across requests; its give-up countdown discards a pending
// check-in the screen abandoned.
var checkInConfirmer = orchestrators.NewCheckInConfirmer()

// handleCheckIn handles POST /api/checkin: a kiosk or manual student check-in.
func handleCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		StudentID string `json:"studentId" validate:"required"`
		TurmaID   string `json:"turmaId"`
		LessonID  string `json:"lessonId"`
		Method    string `json:"method" validate:"omitempty,oneof=kiosk manual"`
	}
	if !decodeValid(w, r, &req) {
		return
	}

	err := orchestrators.ExecuteCheckInStudent(ctx, orchestrators.CheckInStudentInput{
		StudentID: req.StudentID,
		TurmaID:   req.TurmaID,
		LessonID:  req.LessonID,
		Method:    req.Method,
	}, orchestrators.CheckInStudentDeps{
		StudentStore:    stores.StudentStore,
		AttendanceStore: stores.AttendanceStore,
		TurmaStore:      stores.TurmaStore,
	})
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, orchestrators.ErrStudentNotSelected),
		errors.Is(err, orchestrators.ErrStudentNotFound):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, orchestrators.ErrStudentArchived):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, orchestrators.ErrWindowNotOpen),
		errors.Is(err, orchestrators.ErrWindowClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		internalError(w, err)
	}
}

// handleCheckInBegin handles POST /api/checkin/begin: parks a kiosk
// check-in on the confirmation screen. The check-in commits via
// /api/checkin/confirm, or is discarded when the screen gives up.
func handleCheckInBegin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		StudentID string `json:"studentId" validate:"required"`
		TurmaID   string `json:"turmaId"`
		LessonID  string `json:"lessonId"`
	}
	if !decodeValid(w, r, &req) {
		return
	}

	id, err := checkInConfirmer.Begin(orchestrators.CheckInStudentInput{
		StudentID: req.StudentID,
		TurmaID:   req.TurmaID,
		LessonID:  req.LessonID,
		Method:    attendance.MethodKiosk,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"confirmationId":        id,
		"confirmTimeoutSeconds": int(kiosk.ConfirmTimeout.Seconds()),
	})
}

// handleCheckInConfirm handles POST /api/checkin/confirm: commits a
// parked check-in before its confirmation screen gives up.
func handleCheckInConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ConfirmationID string `json:"confirmationId" validate:"required"`
	}
	if !decodeValid(w, r, &req) {
		return
	}

	err := checkInConfirmer.Confirm(ctx, req.ConfirmationID, orchestrators.CheckInStudentDeps{
		StudentStore:    stores.StudentStore,
		AttendanceStore: stores.AttendanceStore,
		TurmaStore:      stores.TurmaStore,
	})
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, orchestrators.ErrConfirmationExpired):
		http.Error(w, err.Error(), http.StatusGone)
	case errors.Is(err, orchestrators.ErrStudentNotFound):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, orchestrators.ErrStudentArchived):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, orchestrators.ErrWindowNotOpen),
		errors.Is(err, orchestrators.ErrWindowClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		internalError(w, err)
	}
}

// handleCheckInCancel handles POST /api/checkin/cancel: discards a
// parked check-in when the student backs out.
func handleCheckInCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ConfirmationID string `json:"confirmationId" validate:"required"`
	}
	if !decodeValid(w, r, &req) {
		return
	}
	checkInConfirmer.Cancel(req.ConfirmationID)
	w.WriteHeader(http.StatusNoContent)
}

// handleAvailableNow handles GET /api/turmas/available-now: today's
// classes grouped by check-in availability for the kiosk screen.
func handleAvailableNow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	classes, err := projections.QueryGetAvailableNow(ctx, timeNow(), projections.GetAvailableNowDeps{
		TurmaStore: stores.TurmaStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	if classes == nil {
		classes = []projections.AvailableClassResult{}
	}
	writeJSON(w, http.StatusOK, classes)
}

// handleKioskLaunch handles POST /api/kiosk/launch: locks the device
// into check-in mode behind an exit PIN.
func handleKioskLaunch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		DeviceName string `json:"deviceName" validate:"required,max=100"`
		ExitPIN    string `json:"exitPin" validate:"required,min=4,max=12"`
	}
	if !decodeValid(w, r, &req) {
		return
	}

	session, err := orchestrators.ExecuteLaunchKiosk(ctx, orchestrators.LaunchKioskInput{
		DeviceName: req.DeviceName,
		ExitPIN:    req.ExitPIN,
	}, orchestrators.LaunchKioskDeps{KioskStore: stores.KioskStore})
	if err != nil {
		internalError(w, err)
		return
	}
	// Countdown timings ride along so every kiosk screen runs the
	// same clock the server enforces.
	writeJSON(w, http.StatusCreated, map[string]any{
		"sessionId":             session.ID,
		"autoCheckInSeconds":    int(kiosk.AutoCheckInDelay.Seconds()),
		"confirmTimeoutSeconds": int(kiosk.ConfirmTimeout.Seconds()),
		"successResetSeconds":   int(kiosk.SuccessResetDelay.Seconds()),
	})
}

// handleKioskExit handles POST /api/kiosk/exit: PIN-gated unlock.
func handleKioskExit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SessionID string `json:"sessionId" validate:"required"`
		PIN       string `json:"pin" validate:"required"`
	}
	if !decodeValid(w, r, &req) {
		return
	}

	err := orchestrators.ExecuteExitKiosk(ctx, orchestrators.ExitKioskInput{
		SessionID: req.SessionID,
		PIN:       req.PIN,
	}, orchestrators.LaunchKioskDeps{KioskStore: stores.KioskStore})
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, kiosk.ErrWrongPIN):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, kiosk.ErrNotActive):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		internalError(w, err)
	}
}

// handleLessonAttendance handles GET/POST /api/turmas/{id}/attendance:
// manual per-lesson attendance from the turma screen.
func handleLessonAttendance(w http.ResponseWriter, r *http.Request, turmaID string) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		lessonID := r.URL.Query().Get("lessonId")
		if lessonID == "" {
			http.Error(w, "lessonId is required", http.StatusBadRequest)
			return
		}
		records, err := stores.AttendanceStore.ListByLessonID(ctx, lessonID)
		if err != nil {
			internalError(w, err)
			return
		}
		if records == nil {
			records = []attendance.Attendance{}
		}
		writeJSON(w, http.StatusOK, records)

	case "POST":
		var req struct {
			StudentID string `json:"studentId" validate:"required"`
			LessonID  string `json:"lessonId" validate:"required"`
		}
		if !decodeValid(w, r, &req) {
			return
		}
		err := orchestrators.ExecuteCheckInStudent(ctx, orchestrators.CheckInStudentInput{
			StudentID: req.StudentID,
			TurmaID:   turmaID,
			LessonID:  req.LessonID,
			Method:    attendance.MethodManual,
		}, orchestrators.CheckInStudentDeps{
			StudentStore:    stores.StudentStore,
			AttendanceStore: stores.AttendanceStore,
			TurmaStore:      stores.TurmaStore,
		})
		if err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
