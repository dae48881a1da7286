package lexicon

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/esgtrace/internal/model"
)

// Load reads tables from a YAML or JSON file. A missing or unreadable file
// is an error: without tables no meaningful output can be produced.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "lexicon: read %s", path)
	}
	return Parse(data)
}

// Parse decodes tables from YAML or JSON bytes
func Parse(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrap(err, "lexicon: parse")
	}
	if t.Units == nil {
		t.Units = UnitTable{}
	}
	if t.Pillars == nil {
		t.Pillars = PillarTable{}
	}
	if len(t.MetricAliases) == 0 && len(t.Units) == 0 && len(t.Pillars) == 0 {
		return nil, eris.New("lexicon: no units, metric_aliases or pillars defined")
	}
	return &t, nil
}

// LoadOrDefault loads path, or returns the built-in tables when path is empty
func LoadOrDefault(path string) (*Tables, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Default returns the built-in tables
func Default() *Tables {
	return &Tables{
		Units: UnitTable{
			"%":          "percent",
			"percent":    "percent",
			"percentage": "percent",
			"pp":         "percentage_points",
			"t":          "tonnes",
			"tonne":      "tonnes",
			"tonnes":     "tonnes",
			"ton":        "tonnes",
			"tons":       "tonnes",
			"tco2e":      "tonnes_co2e",
			"kg":         "kg",
			"g":          "g",
			"mwh":        "mwh",
			"gwh":        "gwh",
		},
		MetricAliases: MetricAliases{
			{Metric: "net_zero_commitment", Aliases: []string{"net zero", "net-zero", "carbon neutral"}},
			{Metric: "renewable_energy_share", Aliases: []string{"renewable", "solar", "wind power"}},
			{Metric: "emissions_reduction", Aliases: []string{"emission", "ghg", "co2", "co₂", "carbon", "scope 1", "scope 2"}},
			{Metric: "water_use", Aliases: []string{"water"}},
			{Metric: "waste_diverted", Aliases: []string{"waste", "recycl", "landfill"}},
			{Metric: "board_diversity", Aliases: []string{"women on the board", "women on board", "board diversity", "female directors"}},
			{Metric: "board_independence", Aliases: []string{"independent director", "board independence"}},
			{Metric: "workforce_diversity", Aliases: []string{"diversity", "women", "female", "gender"}},
			{Metric: "employee_safety", Aliases: []string{"ltifr", "injury", "injuries", "fatalit", "safety"}},
			{Metric: "community_investment", Aliases: []string{"csr", "community"}},
			{Metric: "audit_quality", Aliases: []string{"audit"}},
			{Metric: "anti_corruption", Aliases: []string{"bribery", "corruption"}},
			{Metric: "executive_pay", Aliases: []string{"remuneration", "executive pay"}},
		},
		Pillars: PillarTable{
			"net_zero_commitment":    model.PillarE,
			"renewable_energy_share": model.PillarE,
			"emissions_reduction":    model.PillarE,
			"water_use":              model.PillarE,
			"waste_diverted":         model.PillarE,
			"workforce_diversity":    model.PillarS,
			"employee_safety":        model.PillarS,
			"community_investment":   model.PillarS,
			"board_diversity":        model.PillarG,
			"board_independence":     model.PillarG,
			"audit_quality":          model.PillarG,
			"anti_corruption":        model.PillarG,
			"executive_pay":          model.PillarG,
		},
	}
}
