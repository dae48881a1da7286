package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/esgtrace/internal/model"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	cfgFile string
	verbose bool

	// cfg is the effective configuration, loaded before every command
	cfg *model.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "esgtrace",
	Short: "esgtrace - ESG claim verification and trust/confidence scoring",
	Long: `esgtrace extracts quantitative ESG claims from company disclosures,
matches each claim against an evidence corpus and aggregates the
verdicts into per-pillar (E, S, G) scores and a Trust/Confidence
Index (TCI) per company.

Scores reflect how consistently claims are corroborated by the
available evidence. They are not a rating of ESG performance.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		if verbose {
			cfg.Log.Level = "debug"
		}
		return initLogger(cfg.Log)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("esgtrace %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.esgtrace/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("store", "", "record store driver (memory, disk, layered, sqlite)")
	rootCmd.PersistentFlags().String("lexicon", "", "unit/alias/pillar tables file (default: built-in)")
	rootCmd.PersistentFlags().Int("workers", 0, "parallel workers (default: number of CPUs)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("store.driver", rootCmd.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("lexicon.path", rootCmd.PersistentFlags().Lookup("lexicon"))
	_ = viper.BindPFlag("concurrency.workers", rootCmd.PersistentFlags().Lookup("workers"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".esgtrace"))
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match ESGTRACE_*
	viper.SetEnvPrefix("ESGTRACE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("explain.api_key", "ESGTRACE_EXPLAIN_API_KEY", "OPENAI_API_KEY")

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig overlays the config file, environment and flags on the
// built-in defaults
func loadConfig() (*model.Config, error) {
	c := model.DefaultConfig()

	// Every key must be known to viper for ESGTRACE_* overrides to apply
	if err := seedDefaults(c); err != nil {
		return nil, err
	}

	if err := viper.Unmarshal(c); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if c.Concurrency.Workers <= 0 {
		c.Concurrency.Workers = model.DefaultConfig().Concurrency.Workers
	}
	return c, nil
}

// seedDefaults registers every field of c as a viper default
func seedDefaults(c *model.Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return eris.Wrap(err, "config: marshal defaults")
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return eris.Wrap(err, "config: decode defaults")
	}
	setDefaults("", tree)
	return nil
}

func setDefaults(prefix string, tree map[string]any) {
	for key, val := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		if sub, ok := val.(map[string]any); ok {
			setDefaults(key, sub)
			continue
		}
		viper.SetDefault(key, val)
	}
}

// initLogger installs the global zap logger
func initLogger(lc model.LogConfig) error {
	var zapCfg zap.Config
	if lc.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
