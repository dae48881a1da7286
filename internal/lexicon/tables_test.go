package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/esgtrace/internal/model"
)

func TestUnitTable_Normalize(t *testing.T) {
	units := UnitTable{"%": "percent", "tco2e": "tonnes_co2e"}

	tests := []struct {
		raw  string
		want string
	}{
		{"%", "percent"},
		{" TCO2E ", "tonnes_co2e"},
		{"MWh", "mwh"}, // pass-through, lower-cased
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, units.Normalize(tt.raw), "raw=%q", tt.raw)
	}
}

func TestParse_PreservesAliasOrder(t *testing.T) {
	data := []byte(`
units:
  "%": percent
metric_aliases:
  zeta_metric: ["Emissions"]
  alpha_metric: ["emissions", "ghg"]
pillars:
  zeta_metric: s
`)
	tables, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta_metric", "alpha_metric"}, tables.MetricAliases.Metrics())

	metric, ok := tables.MetricAliases.Lookup("Scope 1 emissions fell")
	require.True(t, ok)
	assert.Equal(t, "zeta_metric", metric, "first metric in file order wins")
	assert.Equal(t, model.PillarS, tables.Pillars.PillarOf("zeta_metric"))
}

func TestParse_JSONMapping(t *testing.T) {
	data := []byte(`{
  "units": {"percent": "percent"},
  "metric_aliases": {"water_use": ["water"], "waste_diverted": ["waste"]},
  "pillars": {"water_use": "E"}
}`)
	tables, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"water_use", "waste_diverted"}, tables.MetricAliases.Metrics())
}

func TestParse_SequenceAliases(t *testing.T) {
	data := []byte(`
metric_aliases:
  - metric: board_diversity
    aliases: ["Women on Board"]
`)
	tables, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, tables.MetricAliases, 1)
	assert.Equal(t, []string{"women on board"}, tables.MetricAliases[0].Aliases)
	assert.NotNil(t, tables.Units)
	assert.NotNil(t, tables.Pillars)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`pillars: {audit_quality: X}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`metric_aliases: 3`))
	assert.Error(t, err)
}

func TestPillarOf_DefaultsToEnvironmental(t *testing.T) {
	pillars := PillarTable{"audit_quality": model.PillarG}
	assert.Equal(t, model.PillarG, pillars.PillarOf("Audit_Quality"))
	assert.Equal(t, model.PillarE, pillars.PillarOf("not_in_table"))
	assert.Equal(t, model.PillarE, pillars.PillarOf(model.MetricUnknown))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	tables, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.NotEmpty(t, tables.MetricAliases)

	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("units: {kg: kg}\n"), 0o644))
	tables, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, "kg", tables.Units.Normalize("KG"))
}

func TestMetricAliases_MarshalRoundTrip(t *testing.T) {
	in := Default()
	data, err := yaml.Marshal(in)
	require.NoError(t, err)

	out, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, in.MetricAliases, out.MetricAliases)
	assert.Equal(t, in.Pillars, out.Pillars)
}
