package orchestrators

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"academia/internal/domain/refdata"
)

// RefDataStoreForSeed defines the store interface needed by SeedReferenceData.
type RefDataStoreForSeed interface {
	ListUnits(ctx context.Context) ([]refdata.Unit, error)
	SaveUnit(ctx context.Context, u refdata.Unit) error
	SaveTrainingArea(ctx context.Context, a refdata.TrainingArea) error
	SaveCourse(ctx context.Context, c refdata.Course) error
	SaveBillingPlan(ctx context.Context, p refdata.BillingPlan) error
}

// SeedReferenceDataDeps holds dependencies for SeedReferenceData.
type SeedReferenceDataDeps struct {
	RefDataStore RefDataStoreForSeed
}

// ExecuteSeedReferenceData creates the default unit, training areas,
// courses, and billing plans if the database is empty.
func ExecuteSeedReferenceData(ctx context.Context, deps SeedReferenceDataDeps) error {
	existing, err := deps.RefDataStore.ListUnits(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil // Already seeded
	}

	unitID := uuid.New().String()
	if err := deps.RefDataStore.SaveUnit(ctx, refdata.Unit{
		ID:   unitID,
		Name: "Unidade Centro",
	}); err != nil {
		return err
	}

	areas := []refdata.TrainingArea{
		{ID: uuid.New().String(), UnitID: unitID, Name: "Tatame 1"},
		{ID: uuid.New().String(), UnitID: unitID, Name: "Tatame 2"},
		{ID: uuid.New().String(), UnitID: unitID, Name: "Sala de Musculação"},
	}
	for _, a := range areas {
		if err := deps.RefDataStore.SaveTrainingArea(ctx, a); err != nil {
			return err
		}
	}

	courses := []refdata.Course{
		{ID: uuid.New().String(), Name: "Jiu-Jitsu Iniciante", TotalLessons: 24},
		{ID: uuid.New().String(), Name: "Jiu-Jitsu Avançado", TotalLessons: 36},
		{ID: uuid.New().String(), Name: "Defesa Pessoal", TotalLessons: 12},
	}
	for _, c := range courses {
		if err := deps.RefDataStore.SaveCourse(ctx, c); err != nil {
			return err
		}
	}

	plans := []refdata.BillingPlan{
		{ID: uuid.New().String(), Name: "Mensal", PriceCents: 15000, IntervalDays: 30, Active: true},
		{ID: uuid.New().String(), Name: "Trimestral", PriceCents: 40500, IntervalDays: 90, Active: true},
		{ID: uuid.New().String(), Name: "Bolsista", PriceCents: 0, IntervalDays: 30, Active: true},
	}
	for _, p := range plans {
		if err := deps.RefDataStore.SaveBillingPlan(ctx, p); err != nil {
			return err
		}
	}

	slog.Info("seed_event", "event", "reference_data_seeded", "areas", len(areas), "courses", len(courses), "plans", len(plans))
	return nil
}
