package web

import (
	"errors"
	"html/template"
	"net/http"
	"sort"
	"strings"

	"academia/internal/application/listutil"
	"academia/internal/application/orchestrators"
	"academia/internal/application/projections"
	"academia/internal/domain/agenda"
	"academia/internal/domain/turma"
)

// turmaRequest is the turma creation payload.
type turmaRequest struct {
	Name           string `json:"name" validate:"required,max=150"`
	CourseID       string `json:"courseId" validate:"required"`
	InstructorID   string `json:"instructorId" validate:"required"`
	OrganizationID string `json:"organizationId"`
	UnitID         string `json:"unitId"`
	ClassType      string `json:"classType" validate:"omitempty,oneof=REGULAR WORKSHOP INTENSIVE"`
	MaxStudents    int    `json:"maxStudents" validate:"omitempty,min=0"`
	DaysOfWeek     []int  `json:"daysOfWeek" validate:"required,min=1,dive,min=0,max=6"`
	Time           string `json:"time" validate:"required,datetime=15:04"`
	DurationMin    int    `json:"durationMin" validate:"required,min=1,max=1440"`
	StartDate      string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate        string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// handleTurmas handles GET (list) and POST (create) for /api/turmas.
func handleTurmas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		var (
			turmas []turma.Turma
			err    error
		)
		if status := r.URL.Query().Get("status"); status != "" {
			turmas, err = stores.TurmaStore.ListByStatus(ctx, strings.Split(status, ","))
		} else {
			turmas, err = stores.TurmaStore.List(ctx)
		}
		if err != nil {
			internalError(w, err)
			return
		}
		params := listutil.ParseListParams(r.URL.Query(), listutil.TurmaSortColumns, listutil.TurmaFilterKeys)
		turmas = filterTurmas(turmas, params.FilterParams)
		sortTurmas(turmas, params.SortParams)
		if turmas == nil {
			turmas = []turma.Turma{}
		}
		writeJSON(w, http.StatusOK, turmas)

	case "POST":
		var req turmaRequest
		if !decodeValid(w, r, &req) {
			return
		}
		result, err := orchestrators.ExecuteCreateTurma(ctx, orchestrators.CreateTurmaInput{
			Name:           req.Name,
			CourseID:       req.CourseID,
			InstructorID:   req.InstructorID,
			OrganizationID: req.OrganizationID,
			UnitID:         req.UnitID,
			ClassType:      req.ClassType,
			MaxStudents:    req.MaxStudents,
			DaysOfWeek:     req.DaysOfWeek,
			Time:           req.Time,
			DurationMin:    req.DurationMin,
			StartDate:      req.StartDate,
			EndDate:        req.EndDate,
		}, orchestrators.CreateTurmaDeps{TurmaStore: stores.TurmaStore})
		if err != nil {
			if errors.Is(err, turma.ErrEmptyName) || errors.Is(err, turma.ErrNoScheduleDays) ||
				errors.Is(err, turma.ErrBadScheduleTime) || errors.Is(err, turma.ErrDatesOutOfOrder) {
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

// filterTurmas keeps the turmas matching the name search and the
// exact-match filters.
func filterTurmas(turmas []turma.Turma, fp listutil.FilterParams) []turma.Turma {
	out := turmas[:0:0]
	for _, t := range turmas {
		if fp.Search != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(fp.Search)) {
			continue
		}
		if v := fp.Filters["instructorId"]; v != "" && t.InstructorID != v {
			continue
		}
		if v := fp.Filters["courseId"]; v != "" && t.CourseID != v {
			continue
		}
		out = append(out, t)
	}
	return out
}

func sortTurmas(turmas []turma.Turma, sp listutil.SortParams) {
	if sp.Sort == "" {
		return
	}
	sort.SliceStable(turmas, func(i, j int) bool {
		a, b := turmas[i], turmas[j]
		if sp.Dir == "desc" {
			a, b = b, a
		}
		switch sp.Sort {
		case "status":
			return a.Status < b.Status
		case "startDate":
			return a.StartDate.Before(b.StartDate)
		default:
			return a.Name < b.Name
		}
	})
}

// turmaDetailResponse adds rendered lesson plans to the projection.
type turmaDetailResponse struct {
	projections.TurmaDetailResult
	LessonPlansHTML map[string]template.HTML `json:"lessonPlansHtml"`
}

// handleTurmaByID routes /api/turmas/{id} and its subresources:
// lessons, students, attendance, cancel.
func handleTurmaByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/turmas/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch sub {
	case "":
		handleTurmaDetail(w, r, id)
	case "lessons":
		handleTurmaLessons(w, r, id)
	case "students":
		handleTurmaStudents(w, r, id)
	case "attendance":
		handleLessonAttendance(w, r, id)
	case "cancel":
		handleTurmaCancel(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func handleTurmaDetail(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetTurmaDetail(ctx, id, timeNow(), projections.GetTurmaDetailDeps{
		TurmaStore:      stores.TurmaStore,
		StudentStore:    stores.StudentStore,
		InstructorStore: stores.InstructorStore,
	})
	if err != nil {
		http.Error(w, "turma not found", http.StatusNotFound)
		return
	}

	resp := turmaDetailResponse{TurmaDetailResult: result, LessonPlansHTML: map[string]template.HTML{}}
	for _, l := range result.Lessons {
		if l.LessonPlan != "" {
			resp.LessonPlansHTML[l.ID] = renderMarkdown(l.LessonPlan)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleTurmaLessons(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	deps := orchestrators.CreateTurmaDeps{TurmaStore: stores.TurmaStore}

	switch r.Method {
	case "GET":
		lessons, err := stores.TurmaStore.ListLessons(ctx, id)
		if err != nil {
			internalError(w, err)
			return
		}
		if lessons == nil {
			lessons = []turma.Lesson{}
		}
		writeJSON(w, http.StatusOK, lessons)

	case "POST":
		var req struct {
			LessonID   string `json:"lessonId" validate:"required"`
			Status     string `json:"status"`
			LessonPlan string `json:"lessonPlan"`
			ClearPlan  bool   `json:"clearPlan"`
		}
		if !decodeValid(w, r, &req) {
			return
		}
		lesson, err := orchestrators.ExecuteUpdateLesson(ctx, orchestrators.UpdateLessonInput{
			LessonID:   req.LessonID,
			Status:     req.Status,
			LessonPlan: req.LessonPlan,
			ClearPlan:  req.ClearPlan,
		}, deps)
		if err != nil {
			if errors.Is(err, agenda.ErrInvalidStatus) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lesson)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleTurmaStudents(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	deps := orchestrators.CreateTurmaDeps{TurmaStore: stores.TurmaStore}

	switch r.Method {
	case "GET":
		enrollments, err := stores.TurmaStore.ListEnrollments(ctx, id)
		if err != nil {
			internalError(w, err)
			return
		}
		if enrollments == nil {
			enrollments = []turma.Enrollment{}
		}
		writeJSON(w, http.StatusOK, enrollments)

	case "POST":
		var req struct {
			StudentID string `json:"studentId" validate:"required"`
		}
		if !decodeValid(w, r, &req) {
			return
		}
		e, err := orchestrators.ExecuteEnrollStudent(ctx, orchestrators.EnrollStudentInput{
			TurmaID:   id,
			StudentID: req.StudentID,
		}, deps)
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, e)
		case errors.Is(err, turma.ErrAlreadyEnrolled):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, turma.ErrCapacityExceeded):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			internalError(w, err)
		}

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func handleTurmaCancel(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := orchestrators.ExecuteCancelTurma(ctx, id, orchestrators.CreateTurmaDeps{TurmaStore: stores.TurmaStore}); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCourseProgress handles GET /api/students/{id}/course-progress.
func handleCourseProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/students/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" || sub != "course-progress" {
		http.NotFound(w, r)
		return
	}

	results, err := projections.QueryGetCourseProgress(ctx, id, timeNow(), projections.GetCourseProgressDeps{
		TurmaStore:      stores.TurmaStore,
		CourseStore:     stores.RefDataStore,
		AttendanceStore: stores.AttendanceStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	if results == nil {
		results = []projections.CourseProgressResult{}
	}
	writeJSON(w, http.StatusOK, results)
}
