package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ecosnap/backend/internal/domain"
	"github.com/ecosnap/backend/internal/usecase"
)

type scoreOptions struct {
	name        string
	brand       string
	category    string
	packaging   []string
	ingredients []string
	organic     bool
	local       bool
	fairTrade   bool
	recyclable  string
	carbon      float64
	offline     bool
}

func newScoreCmd(a *app) *cobra.Command {
	var opts scoreOptions

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a product described by flags",
		Example: `  ecoscore score --name "Oat Drink" --packaging carton --organic
  ecoscore score --name "Water" --packaging "plastic bottle" --recyclable false --offline -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := attributesFromFlags(cmd, opts)
			if err != nil {
				return err
			}

			attrs = usecase.NormalizeAttributes(attrs)
			breakdown := a.pipeline(opts.offline).Resolve(cmd.Context(), attrs)
			return a.render(cmd, attrs, breakdown)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.name, "name", "", "Product name")
	f.StringVar(&opts.brand, "brand", "", "Brand")
	f.StringVar(&opts.category, "category", "", "Category")
	f.StringSliceVar(&opts.packaging, "packaging", nil, "Packaging materials (repeatable or comma separated)")
	f.StringSliceVar(&opts.ingredients, "ingredients", nil, "Ingredients (repeatable or comma separated)")
	f.BoolVar(&opts.organic, "organic", false, "Product is certified organic")
	f.BoolVar(&opts.local, "local", false, "Product is locally produced")
	f.BoolVar(&opts.fairTrade, "fair-trade", false, "Product is fair-trade certified")
	f.StringVar(&opts.recyclable, "recyclable", "", "Whether the product is recyclable (true|false)")
	f.Float64Var(&opts.carbon, "carbon", 0, "Declared carbon footprint in kg CO2e")
	f.BoolVar(&opts.offline, "offline", false, "Skip the AI model and use the heuristic only")

	return cmd
}

// attributesFromFlags sets optional attributes only for flags the user passed,
// so an omitted flag stays unknown rather than false.
func attributesFromFlags(cmd *cobra.Command, opts scoreOptions) (*domain.ProductAttributes, error) {
	attrs := &domain.ProductAttributes{
		Name:        opts.name,
		Brand:       opts.brand,
		Category:    opts.category,
		Packaging:   opts.packaging,
		Ingredients: opts.ingredients,
	}

	flags := cmd.Flags()
	if flags.Changed("organic") {
		attrs.Organic = domain.Bool(opts.organic)
	}
	if flags.Changed("local") {
		attrs.Local = domain.Bool(opts.local)
	}
	if flags.Changed("fair-trade") {
		attrs.FairTrade = domain.Bool(opts.fairTrade)
	}
	if flags.Changed("recyclable") {
		v, err := strconv.ParseBool(opts.recyclable)
		if err != nil {
			return nil, fmt.Errorf("--recyclable must be true or false, got %q", opts.recyclable)
		}
		attrs.Recyclable = domain.Bool(v)
	}
	if flags.Changed("carbon") {
		attrs.CarbonFootprint = domain.Float(opts.carbon)
	}

	return attrs, nil
}
