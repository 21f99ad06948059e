package refdata

import (
	"context"

	"academia/internal/domain/refdata"
)

// Store defines the interface for reference data persistence: units,
// training areas, courses and billing plans.
type Store interface {
	ListUnits(ctx context.Context) ([]refdata.Unit, error)
	SaveUnit(ctx context.Context, u refdata.Unit) error

	ListTrainingAreas(ctx context.Context) ([]refdata.TrainingArea, error)
	SaveTrainingArea(ctx context.Context, a refdata.TrainingArea) error

	ListCourses(ctx context.Context) ([]refdata.Course, error)
	GetCourseByID(ctx context.Context, id string) (refdata.Course, error)
	SaveCourse(ctx context.Context, c refdata.Course) error

	ListBillingPlans(ctx context.Context) ([]refdata.BillingPlan, error)
	GetBillingPlanByID(ctx context.Context, id string) (refdata.BillingPlan, error)
	SaveBillingPlan(ctx context.Context, p refdata.BillingPlan) error
}
