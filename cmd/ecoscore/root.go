package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ecosnap/backend/config"
	"github.com/ecosnap/backend/internal/domain"
	"github.com/ecosnap/backend/internal/infrastructure/ai"
	"github.com/ecosnap/backend/internal/obs"
	"github.com/ecosnap/backend/internal/report"
	"github.com/ecosnap/backend/internal/usecase"
)

// app carries state shared by every subcommand
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "ecoscore",
		Short: "Score the environmental impact of retail products",
		Long: `ecoscore computes a 0-100 eco-score for a product from its attributes
or from its barcode. When an AI endpoint is configured the model is asked
first; otherwise, or with --offline, the rule-based heuristic is used.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringP("format", "f", report.FormatConsole, "Output format (console|json|yaml)")
	root.PersistentFlags().String("config", "", "Path to an EcoSnap config file")
	root.PersistentFlags().Bool("verbose", false, "Log debug output to stderr")

	_ = a.v.BindPFlag("format", root.PersistentFlags().Lookup("format"))
	_ = a.v.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = a.v.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	a.v.SetEnvPrefix("ECOSCORE")
	a.v.AutomaticEnv()

	root.AddCommand(newScoreCmd(a), newLookupCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	switch strings.ToLower(a.v.GetString("format")) {
	case report.FormatConsole, report.FormatJSON, report.FormatYAML:
	default:
		return fmt.Errorf("unknown output format %q (console|json|yaml)", a.v.GetString("format"))
	}

	cfg, err := config.LoadFile(a.v.GetString("config"))
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	a.cfg = cfg

	level := "warn"
	if a.v.GetBool("verbose") {
		level = "debug"
	}
	a.logger = obs.NewLogger("development", level, os.Stderr)
	return nil
}

// pipeline builds the resolution pipeline; offline skips the model entirely
func (a *app) pipeline(offline bool) *usecase.ResolutionPipeline {
	var resolver domain.AIResolver
	if !offline {
		client := ai.NewClient(ai.Config{
			APIKey:  a.cfg.AI.APIKey,
			BaseURL: a.cfg.AI.BaseURL,
			Model:   a.cfg.AI.Model,
			Timeout: a.cfg.AI.Timeout,
		}, a.logger)
		if client.Configured() {
			resolver = client
		}
	}

	return usecase.NewResolutionPipeline(resolver, usecase.PipelineConfig{
		EnforceWeightedOverall: a.cfg.AI.EnforceWeightedOverall,
	}, a.logger)
}

func (a *app) render(cmd *cobra.Command, attrs *domain.ProductAttributes, b domain.EcoScoreBreakdown) error {
	return report.Render(cmd.OutOrStdout(), a.v.GetString("format"), report.NewView(attrs, b))
}
