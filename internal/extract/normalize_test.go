package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/esgtrace/internal/lexicon"
	"github.com/ppiankov/esgtrace/internal/model"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(lexicon.Default())

	claim := model.Claim{
		ClaimID:      "claim_acme_00000000",
		ClaimText:    "Water use fell 30 percent",
		NumericValue: model.Float(30),
		Metric:       model.MetricUnknown,
	}

	got, changed := n.Normalize(claim)
	assert.True(t, changed)
	assert.Equal(t, "percent", got.Unit)
	assert.Equal(t, "water_use", got.Metric)
	assert.Equal(t, claim.ClaimID, got.ClaimID)

	again, changed := n.Normalize(got)
	assert.False(t, changed)
	assert.Equal(t, got, again)
}

func TestNormalizer_RenormalizesUnit(t *testing.T) {
	n := NewNormalizer(lexicon.Default())

	got, changed := n.Normalize(model.Claim{ClaimText: "x", Unit: "Tons", Metric: "waste_diverted"})
	assert.True(t, changed)
	assert.Equal(t, "tonnes", got.Unit)

	got, changed = n.Normalize(model.Claim{ClaimText: "net zero 2040", Unit: model.UnitYear, Metric: model.MetricNetZero})
	assert.False(t, changed)
	assert.Equal(t, model.UnitYear, got.Unit)
}

func TestInferUnit(t *testing.T) {
	assert.Equal(t, "percent", InferUnit("down 5%"))
	assert.Equal(t, "tco2e", InferUnit("400 tCO2e"))
	assert.Equal(t, "tonnes", InferUnit("3 tonnes"))
	assert.Equal(t, "kg", InferUnit("20 kg per unit"))
	assert.Equal(t, "", InferUnit("background checks"))
}
