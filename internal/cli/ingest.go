package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ppiankov/esgtrace/internal/ingest"
	"github.com/ppiankov/esgtrace/internal/model"
)

var (
	ingestCompany string
	ingestDate    string
	ingestOut     string
	ingestAppend  bool
	ingestList    string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [file|url]...",
	Short: "Convert documents and web pages into snippet records",
	Long: `Ingest reads local text/HTML files and http(s) URLs, extracts the
visible text, splits it into sentences and writes one snippet per
sentence as JSONL. Each input is classified as filing, news, ngo, web
or document. Remote fetches honor robots.txt and per-host rate limits.

Example:
  esgtrace ingest --company acme reports/acme_brsr_2023.txt
  esgtrace ingest --company acme --append https://www.reuters.com/acme-emissions
  esgtrace ingest --company acme --list urls.txt --out data/cleaned/snippets.jsonl`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestCompany, "company", "", "company id the snippets belong to (required)")
	ingestCmd.Flags().StringVar(&ingestDate, "date", "", "reporting date attached to every snippet")
	ingestCmd.Flags().StringVar(&ingestOut, "out", "", "snippet JSONL output (default: input.snippets)")
	ingestCmd.Flags().BoolVar(&ingestAppend, "append", false, "append to the output instead of replacing it")
	ingestCmd.Flags().StringVar(&ingestList, "list", "", "file with one input per line")
	_ = ingestCmd.MarkFlagRequired("company")
}

func runIngest(cmd *cobra.Command, args []string) error {
	inputs := append([]string(nil), args...)
	if ingestList != "" {
		listed, err := readLines(ingestList)
		if err != nil {
			return err
		}
		inputs = append(inputs, listed...)
	}
	if len(inputs) == 0 {
		return eris.New("no inputs: pass files/URLs or --list")
	}

	ingester := ingest.NewIngester(
		ingest.NewFetcher(cfg.HTTP, cfg.RateLimiting),
		ingest.NewSourceClassifier(cfg.Sources),
	)
	snippets, err := ingester.Ingest(cmd.Context(), ingestCompany, ingestDate, inputs)
	if err != nil {
		return err
	}

	out := ingestOut
	if out == "" {
		out = cfg.Input.Snippets
	}
	if err := writeSnippetFile(out, snippets, ingestAppend); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ Wrote %d snippets to %s\n", len(snippets), out)
	return nil
}

func writeSnippetFile(path string, snippets []model.Snippet, appendTo bool) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return eris.Wrapf(err, "create %s", dir)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendTo {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return eris.Wrapf(err, "open %s", path)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = eris.Wrapf(closeErr, "close %s", path)
		}
	}()

	return ingest.WriteSnippets(f, snippets)
}

// readLines returns the non-empty, non-comment lines of path
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	return lines, nil
}
