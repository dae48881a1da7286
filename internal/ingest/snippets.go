package ingest

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/esgtrace/internal/model"
)

// maxLine bounds one JSONL record
const maxLine = 4 << 20

// ReadSnippets loads a JSONL snippet file. Malformed lines and snippets
// without company or snippet ids are skipped and counted. A missing or
// unreadable file is an error.
func ReadSnippets(path string) ([]model.Snippet, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "open snippets %s", path)
	}
	defer f.Close()

	snippets, skipped, err := DecodeSnippets(f)
	if err != nil {
		return nil, skipped, eris.Wrapf(err, "read snippets %s", path)
	}
	return snippets, skipped, nil
}

// DecodeSnippets reads JSONL snippet records from r
func DecodeSnippets(r io.Reader) ([]model.Snippet, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	var snippets []model.Snippet
	skipped := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var s model.Snippet
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			skipped++
			zap.L().Warn("skipping malformed snippet line", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		if !s.Valid() {
			skipped++
			zap.L().Warn("skipping snippet without ids", zap.Int("line", lineNo))
			continue
		}
		snippets = append(snippets, s)
	}

	if err := scanner.Err(); err != nil {
		return nil, skipped, eris.Wrapf(err, "scan line %d", lineNo+1)
	}
	return snippets, skipped, nil
}

// WriteSnippets encodes snippets as JSONL
func WriteSnippets(w io.Writer, snippets []model.Snippet) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, s := range snippets {
		if err := enc.Encode(s); err != nil {
			return eris.Wrapf(err, "encode snippet %s", s.SnippetID)
		}
	}
	return nil
}
