package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/ppiankov/esgtrace/internal/explain"
	"github.com/ppiankov/esgtrace/internal/ingest"
	"github.com/ppiankov/esgtrace/internal/pipeline"
	"github.com/ppiankov/esgtrace/internal/score"
)

var (
	outputDir   string
	withExplain bool
	noMarkdown  bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [snippets.jsonl]",
	Short: "Extract, verify and score claims, then write reports",
	Long: `Run executes the full pipeline over a snippet corpus:
- Extract structured claims from every snippet
- Match each claim against the corpus (TF-IDF top-k evidence)
- Label evidence and decide a verdict per claim
- Aggregate E/S/G pillar scores and the TCI per company
- Append a TCI snapshot per company and write reports

Example:
  esgtrace run data/cleaned/snippets.jsonl
  esgtrace run --out ./reports --explain
  esgtrace run --store sqlite --workers 8`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

var extractCmd = &cobra.Command{
	Use:   "extract [snippets.jsonl]",
	Short: "Extract claims from snippets and store them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, closeStore, err := openPipeline(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		snippets, skipped, err := ingest.ReadSnippets(snippetsPath(args))
		if err != nil {
			return err
		}

		claims, err := p.Extract(ctx, snippets)
		if err != nil {
			return err
		}
		if err := p.SaveClaims(ctx, claims); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "✓ Extracted %d claims from %d snippets (%d skipped)\n", len(claims), len(snippets), skipped)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify [snippets.jsonl]",
	Short: "Match stored claims against the snippet corpus",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, closeStore, err := openPipeline(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		snippets, _, err := ingest.ReadSnippets(snippetsPath(args))
		if err != nil {
			return err
		}
		claims, err := p.Claims(ctx)
		if err != nil {
			return err
		}

		verifs, err := p.Verify(ctx, claims, snippets)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "✓ Verified %d claims against %d snippets\n", len(verifs), len(snippets))
		return nil
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Aggregate stored verifications into company scores",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, closeStore, err := openPipeline(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		claims, err := p.Claims(ctx)
		if err != nil {
			return err
		}
		verifs, err := p.Verifications(ctx)
		if err != nil {
			return err
		}

		scores, err := p.Score(ctx, score.NewRunID(), claims, verifs)
		if err != nil {
			return err
		}

		for _, s := range scores {
			fmt.Printf("%-24s E=%.3f S=%.3f G=%.3f TCI=%.3f\n", s.CompanyID, s.E, s.S, s.G, s.TCI)
		}
		return nil
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Re-apply the unit and metric tables to stored claims",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, closeStore, err := openPipeline(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		changed, err := p.Normalize(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Normalized %d claims\n", changed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd, extractCmd, verifyCmd, scoreCmd, normalizeCmd)

	runCmd.Flags().StringVar(&outputDir, "out", "", "report output directory (default: output.dir)")
	runCmd.Flags().BoolVar(&withExplain, "explain", false, "generate claim explanations after scoring")
	runCmd.Flags().BoolVar(&noMarkdown, "no-markdown", false, "skip the Markdown summary")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, closeStore, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	path := snippetsPath(args)
	if verbose {
		fmt.Fprintf(os.Stderr, "Snippets: %s\n", path)
		fmt.Fprintf(os.Stderr, "Store:    %s\n", cfg.Store.Driver)
		fmt.Fprintf(os.Stderr, "Workers:  %d\n\n", cfg.Concurrency.Workers)
	}

	result, err := p.Run(ctx, path)
	if err != nil {
		return eris.Wrap(err, "run failed")
	}

	fmt.Fprintf(os.Stderr, "✓ Loaded %d snippets (%d skipped)\n", result.Snippets, result.Skipped)
	fmt.Fprintf(os.Stderr, "✓ Extracted %d claims\n", len(result.Claims))
	fmt.Fprintf(os.Stderr, "✓ Scored %d companies\n", len(result.Scores))

	if withExplain {
		n, err := runExplain(ctx, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Explained %d claims\n", n)
	}

	return writeReports(ctx, p)
}

// runExplain explains every stored claim with the configured provider
func runExplain(ctx context.Context, p *pipeline.Pipeline) (int, error) {
	provider, err := explain.NewProvider(cfg.Explain, cfg.HTTP)
	if err != nil {
		return 0, err
	}
	exps, err := p.Explain(ctx, explain.NewExplainer(provider, cfg.Explain, cfg.RateLimiting))
	if err != nil {
		return 0, err
	}
	return len(exps), nil
}

// writeReports renders the stored results into the output directory
func writeReports(ctx context.Context, p *pipeline.Pipeline) error {
	report, err := p.BuildReport(ctx)
	if err != nil {
		return err
	}

	dir := outputDir
	if dir == "" {
		dir = cfg.Output.Dir
	}
	paths, err := pipeline.NewRenderer(dir, cfg.Output.Markdown && !noMarkdown).Render(report)
	if err != nil {
		return eris.Wrap(err, "render failed")
	}

	for _, path := range paths {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}
	return nil
}
