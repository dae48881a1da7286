package cli

import (
	"context"

	"github.com/ppiankov/esgtrace/internal/lexicon"
	"github.com/ppiankov/esgtrace/internal/pipeline"
	"github.com/ppiankov/esgtrace/internal/store"
)

// openPipeline builds a pipeline over the configured tables and store.
// The returned close func releases the store.
func openPipeline(ctx context.Context) (*pipeline.Pipeline, func(), error) {
	tables, err := lexicon.LoadOrDefault(cfg.Lexicon.Path)
	if err != nil {
		return nil, nil, err
	}

	backend, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	p := pipeline.New(cfg, tables, backend)
	return p, func() { _ = backend.Close() }, nil
}

// snippetsPath picks the positional argument over the configured corpus
func snippetsPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Input.Snippets
}
