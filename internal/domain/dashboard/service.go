package dashboard

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/pilares/clinic-api/internal/domain/patient"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// DefaultWindow is the last 30 days ending today, at inclusive day
// boundaries.
func DefaultWindow(now time.Time) Window {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return Window{
		From: end.AddDate(0, 0, -30),
		To:   end.Add(24*time.Hour - time.Microsecond),
	}
}

// allTime is the unbounded window used by the overview's weight total.
var allTime = Window{To: time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)}

func (s *Service) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	totalPatients, err := s.repo.CountPatients(ctx)
	if err != nil {
		return nil, err
	}
	recentSessions, err := s.repo.CountSessionsSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	endpoints, err := s.repo.WeightEndpoints(ctx, allTime)
	if err != nil {
		return nil, err
	}
	var totalLost float64
	for _, ep := range endpoints {
		if ep.FirstSessionID == ep.LastSessionID {
			continue
		}
		totalLost += ep.FirstWeightKg - ep.LastWeightKg
	}

	usage, err := s.repo.ActivatorUsage(ctx)
	if err != nil {
		return nil, err
	}
	preference, err := s.repo.MedicationPreference(ctx)
	if err != nil {
		return nil, err
	}

	genders, err := s.repo.GenderCounts(ctx)
	if err != nil {
		return nil, err
	}
	locations, err := s.repo.LocationCounts(ctx)
	if err != nil {
		return nil, err
	}

	birthDates, err := s.repo.BirthDates(ctx)
	if err != nil {
		return nil, err
	}

	if usage == nil {
		usage = []UsageItem{}
	}
	if preference == nil {
		preference = []UsageItem{}
	}
	return &Stats{
		TotalPatients:                 totalPatients,
		SessionsLast30Days:            recentSessions,
		TotalWeightLostKg:             round2(totalLost),
		ActivatorsUsage:               usage,
		MedicationsPreference:         preference,
		GenderDistribution:            zeroFill(genders, patient.GenderMale, patient.GenderFemale),
		TreatmentLocationDistribution: zeroFill(locations, patient.LocationClinic, patient.LocationHome),
		AverageAge:                    averageAge(birthDates, now),
	}, nil
}

// WeightLossRanking ranks patients by initial minus final weight inside the
// window, descending. Patients who gained weight stay in with negative
// values.
func (s *Service) WeightLossRanking(ctx context.Context, w Window) ([]WeightLossEntry, error) {
	endpoints, err := s.repo.WeightEndpoints(ctx, w)
	if err != nil {
		return nil, err
	}

	entries := make([]WeightLossEntry, 0, len(endpoints))
	for _, ep := range endpoints {
		loss := 0.0
		if ep.FirstSessionID != ep.LastSessionID {
			loss = ep.FirstWeightKg - ep.LastWeightKg
		}
		entries = append(entries, WeightLossEntry{
			PatientID:       ep.PatientID,
			PatientName:     ep.PatientName,
			InitialWeightKg: round2(ep.FirstWeightKg),
			FinalWeightKg:   round2(ep.LastWeightKg),
			WeightLossKg:    round2(loss),
			SessionsCount:   ep.SessionCount,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].WeightLossKg > entries[j].WeightLossKg
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// WeightGainRanking ranks patients by final minus initial weight inside the
// window, descending. Entries at or below zero are dropped before ranking.
func (s *Service) WeightGainRanking(ctx context.Context, w Window) ([]WeightGainEntry, error) {
	endpoints, err := s.repo.WeightEndpoints(ctx, w)
	if err != nil {
		return nil, err
	}

	var entries []WeightGainEntry
	for _, ep := range endpoints {
		if ep.FirstSessionID == ep.LastSessionID {
			continue
		}
		gain := ep.LastWeightKg - ep.FirstWeightKg
		if gain <= 0 {
			continue
		}
		entries = append(entries, WeightGainEntry{
			PatientID:       ep.PatientID,
			PatientName:     ep.PatientName,
			InitialWeightKg: round2(ep.FirstWeightKg),
			FinalWeightKg:   round2(ep.LastWeightKg),
			WeightGainKg:    round2(gain),
			SessionsCount:   ep.SessionCount,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].WeightGainKg > entries[j].WeightGainKg
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	if entries == nil {
		entries = []WeightGainEntry{}
	}
	return entries, nil
}

func (s *Service) DosageReport(ctx context.Context, w Window) ([]DosageGroup, error) {
	groups, err := s.repo.DosageGroups(ctx, w)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []DosageGroup{}
	}
	return groups, nil
}

func zeroFill(counts map[string]int, keys ...string) map[string]int {
	out := make(map[string]int, len(keys))
	for _, k := range keys {
		out[k] = counts[k]
	}
	return out
}

// averageAge is the population mean of whole-year ages rounded to 1 decimal.
// Ages are truncated to integers before averaging.
func averageAge(birthDates []time.Time, now time.Time) float64 {
	if len(birthDates) == 0 {
		return 0
	}
	sum := 0
	for _, bd := range birthDates {
		sum += patient.AgeAt(bd, now)
	}
	mean := float64(sum) / float64(len(birthDates))
	return math.Round(mean*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
