// Package lexicon holds the static lookup tables the pipeline consults:
// unit normalization, metric aliases and metric-to-pillar routing.
//
// Tables are loaded once per run and passed explicitly to the components
// that need them. Nothing in this package keeps global state.
package lexicon

import (
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/esgtrace/internal/model"
)

// Tables bundles the three lookup tables
type Tables struct {
	Units         UnitTable     `yaml:"units"`
	MetricAliases MetricAliases `yaml:"metric_aliases"`
	Pillars       PillarTable   `yaml:"pillars"`
}

// UnitTable maps lower-cased raw units to canonical units
type UnitTable map[string]string

// Normalize returns the canonical unit for raw. Unknown units pass through
// lower-cased and trimmed; an empty raw unit stays empty.
func (u UnitTable) Normalize(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ""
	}
	if canonical, ok := u[key]; ok {
		return canonical
	}
	return key
}

// MetricAlias lists the keyword substrings that identify one canonical metric
type MetricAlias struct {
	Metric  string   `yaml:"metric"`
	Aliases []string `yaml:"aliases"`
}

// MetricAliases is ordered. Lookup returns the first metric, in table order,
// with an alias contained in the text; within a metric aliases are tried in
// order. When loaded from a mapping the file's key order is the table order.
type MetricAliases []MetricAlias

// Lookup finds the metric for text
func (m MetricAliases) Lookup(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, entry := range m {
		for _, alias := range entry.Aliases {
			if alias != "" && strings.Contains(lower, alias) {
				return entry.Metric, true
			}
		}
	}
	return "", false
}

// HasKeyword reports whether any alias of any metric occurs in text
func (m MetricAliases) HasKeyword(text string) bool {
	_, ok := m.Lookup(text)
	return ok
}

// Metrics returns the canonical metric names in table order
func (m MetricAliases) Metrics() []string {
	out := make([]string, 0, len(m))
	for _, entry := range m {
		out = append(out, entry.Metric)
	}
	return out
}

// UnmarshalYAML accepts either a mapping (metric: [aliases...]) whose key
// order is preserved, or a sequence of {metric, aliases} entries.
func (m *MetricAliases) UnmarshalYAML(value *yaml.Node) error {
	var out MetricAliases

	switch value.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			var aliases []string
			if err := value.Content[i+1].Decode(&aliases); err != nil {
				return eris.Wrapf(err, "lexicon: aliases of %q", value.Content[i].Value)
			}
			out = append(out, MetricAlias{Metric: value.Content[i].Value, Aliases: aliases})
		}
	case yaml.SequenceNode:
		var entries []MetricAlias
		if err := value.Decode(&entries); err != nil {
			return eris.Wrap(err, "lexicon: metric alias list")
		}
		out = entries
	default:
		return eris.Errorf("lexicon: metric_aliases must be a mapping or a list (line %d)", value.Line)
	}

	for i := range out {
		out[i].Metric = strings.TrimSpace(out[i].Metric)
		for j, alias := range out[i].Aliases {
			out[i].Aliases[j] = strings.ToLower(strings.TrimSpace(alias))
		}
	}

	*m = out
	return nil
}

// MarshalYAML renders the table as an ordered mapping
func (m MetricAliases) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, entry := range m {
		aliases := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, alias := range entry.Aliases {
			aliases.Content = append(aliases.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: alias})
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Metric},
			aliases,
		)
	}
	return node, nil
}

// PillarTable maps canonical metrics to pillars
type PillarTable map[string]model.Pillar

// PillarOf routes metric to its pillar. Unmapped metrics, including
// "unknown", go to the Environmental pillar.
func (p PillarTable) PillarOf(metric string) model.Pillar {
	if pillar, ok := p[strings.ToLower(metric)]; ok {
		return pillar
	}
	return model.PillarE
}

// UnmarshalYAML validates pillar letters and lower-cases metric keys
func (p *PillarTable) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]string
	if err := value.Decode(&raw); err != nil {
		return eris.Wrap(err, "lexicon: pillars")
	}

	out := make(PillarTable, len(raw))
	for metric, letter := range raw {
		pillar := model.Pillar(strings.ToUpper(strings.TrimSpace(letter)))
		switch pillar {
		case model.PillarE, model.PillarS, model.PillarG:
		default:
			return eris.Errorf("lexicon: metric %q has invalid pillar %q", metric, letter)
		}
		out[strings.ToLower(strings.TrimSpace(metric))] = pillar
	}

	*p = out
	return nil
}
