package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecosnap/backend/internal/domain"
	"github.com/ecosnap/backend/internal/infrastructure/openfoodfacts"
	"github.com/ecosnap/backend/internal/usecase"
)

func newLookupCmd(a *app) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:     "lookup <barcode>",
		Short:   "Fetch a product from Open Food Facts and score it",
		Example: "  ecoscore lookup 3017620422003 --offline",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			barcode := usecase.NormalizeBarcode(args[0])
			if barcode == "" {
				return fmt.Errorf("invalid barcode %q", args[0])
			}

			client := openfoodfacts.NewClient(openfoodfacts.Config{
				BaseURL:           a.cfg.OpenFoodFacts.BaseURL,
				UserAgent:         a.cfg.OpenFoodFacts.UserAgent,
				RequestsPerMinute: a.cfg.OpenFoodFacts.RequestsPerMinute,
			}, a.logger)

			attrs, err := client.LookupBarcode(cmd.Context(), barcode)
			if errors.Is(err, domain.ErrProductNotFound) {
				return fmt.Errorf("no product with barcode %s", barcode)
			}
			if err != nil {
				return err
			}

			attrs = usecase.NormalizeAttributes(attrs)
			breakdown := a.pipeline(offline).Resolve(cmd.Context(), attrs)
			return a.render(cmd, attrs, breakdown)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the AI model and use the heuristic only")
	return cmd
}
