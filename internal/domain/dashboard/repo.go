package dashboard

import (
	"context"
	"time"
)

type Repository interface {
	CountPatients(ctx context.Context) (int64, error)
	CountSessionsSince(ctx context.Context, since time.Time) (int64, error)

	// WeightEndpoints reduces each patient's body-composition-bearing
	// sessions inside the window to their first and last weight. Patients
	// with no such session are absent from the result.
	WeightEndpoints(ctx context.Context, w Window) ([]weightEndpoints, error)

	ActivatorUsage(ctx context.Context) ([]UsageItem, error)
	MedicationPreference(ctx context.Context) ([]UsageItem, error)
	GenderCounts(ctx context.Context) (map[string]int, error)
	LocationCounts(ctx context.Context) (map[string]int, error)
	BirthDates(ctx context.Context) ([]time.Time, error)
	DosageGroups(ctx context.Context, w Window) ([]DosageGroup, error)
}
