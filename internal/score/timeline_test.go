package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/esgtrace/internal/model"
)

func TestSnapshots(t *testing.T) {
	runID := NewRunID()
	scores := []model.CompanyScore{
		{CompanyID: "acme", TCI: 0.5, UpdatedAt: fixedNow},
		{CompanyID: "beta", TCI: 0.2, UpdatedAt: fixedNow},
	}

	snaps := Snapshots(runID, scores)
	require.Len(t, snaps, 2)
	assert.NotEqual(t, snaps[0].ID, snaps[1].ID)
	assert.Equal(t, runID, snaps[0].RunID)
	assert.Equal(t, "beta", snaps[1].CompanyID)
	assert.Equal(t, fixedNow, snaps[1].Date)
}

func TestTimeline(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	snaps := []model.TCISnapshot{
		{CompanyID: "acme", TCI: 0.3, Date: day(3)},
		{CompanyID: "beta", TCI: 0.9, Date: day(1)},
		{CompanyID: "acme", TCI: 0.1, Date: day(1)},
		{CompanyID: "acme", TCI: 0.2, Date: day(2)},
	}

	series := Timeline(snaps)
	require.Len(t, series["acme"], 3)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, []float64{
		series["acme"][0].TCI, series["acme"][1].TCI, series["acme"][2].TCI,
	})
	assert.Len(t, series["beta"], 1)

	// Input untouched
	assert.Equal(t, 0.3, snaps[0].TCI)
}
