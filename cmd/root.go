package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/laundrymap/enrich-cli/internal/config"
	"github.com/laundrymap/enrich-cli/internal/enrich"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "enrich-cli",
	Short: "Laundromat listing enrichment pipeline",
	Long:  "Cleans, deduplicates, and SEO-annotates raw listing exports (CSV/XLSX), synchronously or as trackable background jobs.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newEnricher builds the enricher from config, loading the tag rule
// override file when one is configured.
func newEnricher() (*enrich.Enricher, error) {
	opts := enrich.Options{
		OpenLateHour:      cfg.Enrich.OpenLateHour,
		SummaryMaxLen:     cfg.Enrich.SummaryMaxLen,
		DescriptionMaxLen: cfg.Enrich.DescriptionMaxLen,
		MinDescriptionLen: cfg.Enrich.MinDescriptionLen,
	}
	if cfg.Enrich.TagRulesPath != "" {
		rules, err := enrich.LoadRules(cfg.Enrich.TagRulesPath)
		if err != nil {
			return nil, err
		}
		opts.Rules = rules
	}
	return enrich.New(opts), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
