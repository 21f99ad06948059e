package web

import "net/http"

// registerRoutes wires every page and API endpoint onto the mux.
// Exact paths are registered before their prefix counterparts so the
// ServeMux longest-match rule resolves them first.
func registerRoutes(mux *http.ServeMux) {
	// Agenda page and exports
	mux.HandleFunc("/agenda", handleAgendaPage)
	mux.HandleFunc("/agenda/export.ics", handleAgendaExportICS)

	// Hybrid agenda items
	mux.HandleFunc("/api/hybrid-agenda", handleHybridAgenda)
	mux.HandleFunc("/api/hybrid-agenda/", handleHybridAgendaItem)

	// Turmas and lessons
	mux.HandleFunc("/api/turmas", handleTurmas)
	mux.HandleFunc("/api/turmas/available-now", handleAvailableNow)
	mux.HandleFunc("/api/turmas/", handleTurmaByID)

	// Kiosk and check-in
	mux.HandleFunc("/api/checkin", handleCheckIn)
	mux.HandleFunc("/api/checkin/begin", handleCheckInBegin)
	mux.HandleFunc("/api/checkin/confirm", handleCheckInConfirm)
	mux.HandleFunc("/api/checkin/cancel", handleCheckInCancel)
	mux.HandleFunc("/api/kiosk/launch", handleKioskLaunch)
	mux.HandleFunc("/api/kiosk/exit", handleKioskExit)

	// Students
	mux.HandleFunc("/api/students", handleStudents)
	mux.HandleFunc("/api/students/search", handleStudentSearch)
	mux.HandleFunc("/api/students/", handleStudentByID)

	// Subscriptions and payments
	mux.HandleFunc("/api/subscriptions/reactivate", handleReactivateSubscription)
	mux.HandleFunc("/api/subscriptions/", handleSubscriptionByID)
	mux.HandleFunc("/api/payments/", handlePaymentConfirm)

	// Reference data
	mux.HandleFunc("/api/instructors", handleInstructors)
	mux.HandleFunc("/api/units", handleUnits)
	mux.HandleFunc("/api/training-areas", handleTrainingAreas)
	mux.HandleFunc("/api/courses", handleCourses)
	mux.HandleFunc("/api/billing-plans", handleBillingPlans)

	// Operational
	mux.HandleFunc("/api/perf", handlePerfSnapshot)
}
