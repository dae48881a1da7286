package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Generate explanations for stored claims",
	Long: `Explain attaches a short narrative, confidence and risk flag to every
stored claim using the configured provider (openai or heuristic).
Explanations are stored separately and never affect scores.

Example:
  OPENAI_API_KEY=sk-... esgtrace explain
  esgtrace explain --config ./config.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, closeStore, err := openPipeline(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		n, err := runExplain(ctx, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Explained %d claims\n", n)
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write TCI, claims index, fairness and timeline reports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, closeStore, err := openPipeline(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		return writeReports(ctx, p)
	},
}

func init() {
	rootCmd.AddCommand(explainCmd, reportCmd)

	reportCmd.Flags().StringVar(&outputDir, "out", "", "report output directory (default: output.dir)")
	reportCmd.Flags().BoolVar(&noMarkdown, "no-markdown", false, "skip the Markdown summary")
}
