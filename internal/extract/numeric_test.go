package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNumeric_Priority(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		value float64
		unit  string
		rule  string
	}{
		{"percent beats earlier year", "In 2023 emissions fell 12%", 12, "%", "percent"},
		{"percent word", "cut waste by 18 percent", 18, "percent", "percent"},
		{"percentage", "5 Percentage points higher", 5, "percentage", "percent"},
		{"mass beats year", "emitted 4.5 tonnes in 2022", 4.5, "tonnes", "mass"},
		{"thousands separator", "1,250 kg of refrigerant", 1250, "kg", "mass"},
		{"bare number", "since 2019", 2019, "", "bare"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			num, ok := ExtractNumeric(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.value, num.Value)
			assert.Equal(t, tt.unit, num.RawUnit)
			assert.Equal(t, tt.rule, num.Rule)
		})
	}
}

func TestExtractNumeric_None(t *testing.T) {
	_, ok := ExtractNumeric("no figures disclosed")
	assert.False(t, ok)
}

func TestParseNumber(t *testing.T) {
	v, ok := ParseNumber("12,500.5")
	assert.True(t, ok)
	assert.Equal(t, 12500.5, v)

	_, ok = ParseNumber("12a")
	assert.False(t, ok)

	_, ok = ParseNumber("")
	assert.False(t, ok)
}

func TestFirstDecimal(t *testing.T) {
	v, ok := firstDecimal([]string{"", "%", "42.5"})
	assert.True(t, ok)
	assert.Equal(t, 42.5, v)

	_, ok = firstDecimal([]string{"", "pp"})
	assert.False(t, ok)
}

func TestExtractEvidenceNumber(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		ok    bool
		value float64
		unit  string
	}{
		{"percent sign at end", "Audited share was 52.1%", true, 52.1, "%"},
		{"skips year", "In 2023 renewables reached 48 percent", true, 48, "percent"},
		{"mass", "Scope 1 totalled 12,000 tCO2e last year", true, 12000, "tco2e"},
		{"bare numbers ignored", "The plant opened in 2019 with 300 staff", false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			num, ok := ExtractEvidenceNumber(tt.text)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.value, num.Value)
			assert.Equal(t, tt.unit, num.RawUnit)
		})
	}
}
