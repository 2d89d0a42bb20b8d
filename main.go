package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"greengain/config"
	"greengain/domain"
)

var (
	configPath string
	rulesPath  string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "greengain",
	Short: "Residential energy tax credit estimator (IRS Form 5695)",
	Long: `greengain estimates the Residential Clean Energy Credit and the Energy
Efficient Home Improvement Credit from itemized upgrade costs.

Run "greengain serve" for the HTTP API, or use calc/export/autofill/roadmap
for one-off estimates.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config.yaml (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Path to a YAML credit rule table (overrides rules.path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd, calcCmd, exportCmd, autofillCmd, roadmapCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the --config file and applies the --rules override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if rulesPath != "" {
		cfg.Rules.Path = rulesPath
	}
	return cfg, nil
}

// activeRules loads the rule table named by the config, or the built-in one.
func activeRules(cfg *config.Config) (domain.RuleSet, error) {
	return config.LoadRules(cfg.Rules.Path)
}
