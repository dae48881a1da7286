package score

import (
	"sort"

	"github.com/google/uuid"

	"github.com/ppiankov/esgtrace/internal/model"
)

// NewRunID returns a fresh identifier for one pipeline run
func NewRunID() string {
	return uuid.NewString()
}

// Snapshots turns a run's company scores into TCI history entries
func Snapshots(runID string, scores []model.CompanyScore) []model.TCISnapshot {
	out := make([]model.TCISnapshot, 0, len(scores))
	for _, s := range scores {
		out = append(out, model.TCISnapshot{
			ID:        uuid.NewString(),
			RunID:     runID,
			CompanyID: s.CompanyID,
			TCI:       s.TCI,
			Date:      s.UpdatedAt,
		})
	}
	return out
}

// Timeline groups snapshots into one chronological TCI series per company
func Timeline(snapshots []model.TCISnapshot) map[string][]model.TimelinePoint {
	sorted := make([]model.TCISnapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	series := make(map[string][]model.TimelinePoint)
	for _, s := range sorted {
		series[s.CompanyID] = append(series[s.CompanyID], model.TimelinePoint{Date: s.Date, TCI: s.TCI})
	}
	return series
}
