package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/esgtrace/internal/model"
)

func TestDecodeSnippets(t *testing.T) {
	input := strings.Join([]string{
		`{"snippet_id":"acme_r_1","company_id":"acme","source_id":"r","type":"filing","text":"Emissions fell 30%."}`,
		``,
		`{not json`,
		`{"snippet_id":"acme_r_2","text":"missing company"}`,
		`{"snippet_id":"acme_r_3","company_id":"acme","source_type":"news","text":"Renewables at 48%."}`,
	}, "\n")

	snippets, skipped, err := DecodeSnippets(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, snippets, 2)
	assert.Equal(t, "filing", snippets[0].SourceType)
	assert.Equal(t, "news", snippets[1].SourceType)
}

func TestReadSnippets_MissingFile(t *testing.T) {
	_, _, err := ReadSnippets(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.Error(t, err)
}

func TestWriteSnippets_RoundTrip(t *testing.T) {
	in := []model.Snippet{
		{SnippetID: "acme_r_1", CompanyID: "acme", SourceID: "r", SourceType: "filing", Text: "Scope <1> emissions & more", Date: "2023-12-31"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSnippets(&buf, in))
	assert.Contains(t, buf.String(), "Scope <1> emissions & more")

	path := filepath.Join(t.TempDir(), "s.jsonl")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	out, skipped, err := ReadSnippets(path)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, in, out)
}
