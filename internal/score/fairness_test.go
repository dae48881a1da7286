package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/esgtrace/internal/model"
)

func TestFairness(t *testing.T) {
	claims := []model.Claim{
		{CompanyID: "acme", Metric: "emissions_reduction"},
		{CompanyID: "acme", Metric: "emissions_reduction"},
		{CompanyID: "acme", Metric: "board_diversity"},
		{CompanyID: "acme", Metric: "audit_quality"},
		{CompanyID: "beta", Metric: "unknown"},
	}

	entries := Fairness(claims, pillarTable())
	require.Len(t, entries, 2)

	acme := entries[0]
	assert.Equal(t, "acme", acme.CompanyID)
	assert.Equal(t, 2, acme.E)
	assert.Equal(t, 1, acme.S)
	assert.Equal(t, 1, acme.G)
	assert.Equal(t, 0.5, acme.FairnessRatio)
	assert.Equal(t, FlagBalanced, acme.Flag)

	beta := entries[1]
	assert.Equal(t, 1, beta.E)
	assert.Equal(t, 0.0, beta.FairnessRatio)
	assert.Equal(t, FlagBiased, beta.Flag)
}
