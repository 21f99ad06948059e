package web

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"academia/internal/application/listutil"
	"academia/internal/application/orchestrators"
	"academia/internal/domain/instructor"
	"academia/internal/domain/refdata"
	"academia/internal/domain/student"
)

// handleInstructors handles GET (list) and POST (create) for /api/instructors.
func handleInstructors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		var (
			list []instructor.Instructor
			err  error
		)
		if r.URL.Query().Get("active") == "1" {
			list, err = stores.InstructorStore.ListActive(ctx)
		} else {
			list, err = stores.InstructorStore.List(ctx)
		}
		if err != nil {
			internalError(w, err)
			return
		}
		if list == nil {
			list = []instructor.Instructor{}
		}
		writeJSON(w, http.StatusOK, list)

	case "POST":
		var req struct {
			Name      string `json:"name" validate:"required,max=100"`
			Email     string `json:"email" validate:"omitempty,email"`
			Specialty string `json:"specialty"`
		}
		if !decodeValid(w, r, &req) {
			return
		}
		entity := instructor.Instructor{
			ID:        generateID(),
			Name:      req.Name,
			Email:     req.Email,
			Specialty: req.Specialty,
			Active:    true,
		}
		if err := entity.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.InstructorStore.Save(ctx, entity); err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, entity)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleUnits handles GET /api/units.
func handleUnits(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	units, err := stores.RefDataStore.ListUnits(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	if units == nil {
		units = []refdata.Unit{}
	}
	writeJSON(w, http.StatusOK, units)
}

// handleTrainingAreas handles GET /api/training-areas.
func handleTrainingAreas(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	areas, err := stores.RefDataStore.ListTrainingAreas(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	if areas == nil {
		areas = []refdata.TrainingArea{}
	}
	writeJSON(w, http.StatusOK, areas)
}

// handleCourses handles GET /api/courses.
func handleCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	courses, err := stores.RefDataStore.ListCourses(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	if courses == nil {
		courses = []refdata.Course{}
	}
	writeJSON(w, http.StatusOK, courses)
}

// handleBillingPlans handles GET /api/billing-plans.
func handleBillingPlans(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	plans, err := stores.RefDataStore.ListBillingPlans(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	if plans == nil {
		plans = []refdata.BillingPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// studentListResponse is the paginated student list.
type studentListResponse struct {
	Students []student.Student `json:"students"`
	Page     listutil.PageInfo `json:"page"`
}

// filterStudents keeps the students matching the name search and the
// exact-match filters.
func filterStudents(all []student.Student, fp listutil.FilterParams) []student.Student {
	out := all[:0:0]
	for _, s := range all {
		if fp.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(fp.Search)) {
			continue
		}
		if v := fp.Filters["status"]; v != "" && s.Status != v {
			continue
		}
		if v := fp.Filters["billingPlanId"]; v != "" && s.BillingPlanID != v {
			continue
		}
		out = append(out, s)
	}
	return out
}

func sortStudents(students []student.Student, sp listutil.SortParams) {
	if sp.Sort == "" {
		return
	}
	sort.SliceStable(students, func(i, j int) bool {
		a, b := students[i], students[j]
		if sp.Dir == "desc" {
			a, b = b, a
		}
		switch sp.Sort {
		case "email":
			return a.Email < b.Email
		case "status":
			return a.Status < b.Status
		default:
			return a.Name < b.Name
		}
	})
}

// handleStudents handles GET (paginated list) and POST (register) for /api/students.
func handleStudents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		params := listutil.ParseListParams(r.URL.Query(), listutil.StudentSortColumns, listutil.StudentFilterKeys)
		all, err := stores.StudentStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		all = filterStudents(all, params.FilterParams)
		sortStudents(all, params.SortParams)
		page := listutil.NewPageInfo(params.Page, params.PerPage, len(all))
		start, end := page.Bounds(len(all))
		writeJSON(w, http.StatusOK, studentListResponse{Students: all[start:end], Page: page})

	case "POST":
		var req struct {
			Name          string `json:"name" validate:"required,max=100"`
			Email         string `json:"email" validate:"required,email"`
			Phone         string `json:"phone"`
			BillingPlanID string `json:"billingPlanId"`
		}
		if !decodeValid(w, r, &req) {
			return
		}
		entity := student.Student{
			ID:            generateID(),
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			BillingPlanID: req.BillingPlanID,
			Status:        student.StatusActive,
		}
		if err := entity.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := stores.StudentStore.Save(ctx, entity); err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, entity)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleStudentByID routes /api/students/{id} and its subresources.
func handleStudentByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rest := strings.TrimPrefix(r.URL.Path, "/api/students/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		http.NotFound(w, r)
		return
	}

	switch sub {
	case "":
		if r.Method != "GET" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		entity, err := stores.StudentStore.GetByID(ctx, id)
		if err != nil {
			http.Error(w, "student not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, entity)

	case "course-progress":
		handleCourseProgress(w, r)

	case "archive":
		if r.Method != "POST" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		err := orchestrators.ExecuteArchiveStudent(ctx, id, orchestrators.ArchiveStudentDeps{
			StudentStore: stores.StudentStore,
		})
		if errors.Is(err, student.ErrAlreadyArchived) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		if err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case "restore":
		if r.Method != "POST" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		err := orchestrators.ExecuteReactivateStudent(ctx, id, orchestrators.ArchiveStudentDeps{
			StudentStore: stores.StudentStore,
		})
		if errors.Is(err, student.ErrAlreadyActive) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		if err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.NotFound(w, r)
	}
}
