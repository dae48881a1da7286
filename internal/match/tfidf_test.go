package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"company", "reduced", "emissions", "30", "2023"},
		Tokenize("Company X reduced the emissions by 30% in 2023"))
	assert.Equal(t, []string{"emissions", "co2"}, Tokenize("ＥＭＩＳＳＩＯＮＳ CO2"))
	assert.Empty(t, Tokenize("a of the"))
}

func TestBuildIndex_Similarity(t *testing.T) {
	idx := BuildIndex([]string{
		"emissions fell sharply",
		"board diversity improved",
		"emissions fell",
	}, 0)

	require.Equal(t, 3, idx.Len())
	assert.Equal(t, 6, idx.VocabularySize())

	sims := idx.Similarities(idx.Vectorize("emissions fell"))
	assert.InDelta(t, 1.0, sims[2], 1e-9)
	assert.Greater(t, sims[0], 0.5)
	assert.Zero(t, sims[1])

	for _, s := range sims {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestBuildIndex_MaxFeatures(t *testing.T) {
	idx := BuildIndex([]string{"water water water", "waste waste", "energy"}, 2)
	assert.Equal(t, 2, idx.VocabularySize())

	// "energy" was cut from the vocabulary
	assert.Empty(t, idx.Vectorize("energy"))
}

func TestBuildIndex_UnknownQuery(t *testing.T) {
	idx := BuildIndex([]string{"renewable energy share"}, 0)
	sims := idx.Similarities(idx.Vectorize("governance audit"))
	assert.Equal(t, []float64{0}, sims)
}

func TestTopK_StableTies(t *testing.T) {
	ranked := TopK([]float64{0.2, 0.5, 0.2, 0.5, 0.1}, 3)

	require.Len(t, ranked, 3)
	assert.Equal(t, 1, ranked[0].Doc)
	assert.Equal(t, 3, ranked[1].Doc)
	assert.Equal(t, 0, ranked[2].Doc)

	assert.Len(t, TopK([]float64{0.3}, 10), 1)
}
