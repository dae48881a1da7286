package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/esgtrace/internal/model"
)

func TestIngester_Files(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "Annual Report 2023.txt")
	require.NoError(t, os.WriteFile(txt, []byte(
		"Acme reduced scope 1 emissions by 30% in 2023. Renewable power reached 48% of supply. Ok."), 0644))

	page := filepath.Join(dir, "press.html")
	require.NoError(t, os.WriteFile(page, []byte(
		`<html><body><script>ignored()</script><p>Acme pledged net zero by 2040 across all sites.</p></body></html>`), 0644))

	in := NewIngester(nil, NewSourceClassifier(model.DefaultConfig().Sources))
	snippets, err := in.Ingest(context.Background(), "Acme Corp", "2024-01-31", []string{txt, page})
	require.NoError(t, err)
	require.Len(t, snippets, 3)

	assert.Equal(t, "acme_corp_annual_report_2023_1", snippets[0].SnippetID)
	assert.Equal(t, "acme_corp", snippets[0].CompanyID)
	assert.Equal(t, "annual_report_2023", snippets[0].SourceID)
	assert.Equal(t, "2024-01-31", snippets[0].Date)
	assert.Equal(t, "acme_corp_annual_report_2023_2", snippets[1].SnippetID)

	assert.Equal(t, "acme_corp_press_1", snippets[2].SnippetID)
	assert.Equal(t, SourceDoc, snippets[2].SourceType)
	assert.Equal(t, "Acme pledged net zero by 2040 across all sites.", snippets[2].Text)
}

func TestIngester_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><p>Water withdrawals dropped 12% versus the 2020 baseline.</p></body></html>")
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 0
	in := NewIngester(NewFetcher(cfg, model.RateLimitingConfig{}), NewSourceClassifier(model.SourceConfig{}))

	snippets, err := in.Ingest(context.Background(), "acme", "", []string{server.URL + "/news/water"})
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Equal(t, SourceWeb, snippets[0].SourceType)
	assert.Contains(t, snippets[0].SnippetID, "acme_127_0_0_1_water_")
}

func TestIngester_AllFail(t *testing.T) {
	in := NewIngester(nil, NewSourceClassifier(model.SourceConfig{}))

	_, err := in.Ingest(context.Background(), "acme", "", []string{"/does/not/exist.txt"})
	assert.Error(t, err)

	_, err = in.Ingest(context.Background(), "", "", nil)
	assert.Error(t, err)
}

func TestSourceID(t *testing.T) {
	assert.Equal(t, "brsr_fy23", SourceID("/tmp/BRSR FY23.txt"))
	assert.Equal(t, "acme_com", SourceID("https://www.acme.com/"))
	assert.Equal(t, "acme_com_esg", SourceID("https://acme.com/reports/esg.html"))
}
