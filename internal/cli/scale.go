package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nutrio/internal/nutrition"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

func newScaleCmd(a *app) *cobra.Command {
	var (
		baseAmount float64
		baseUnit   string
		amount     float64
		unit       string
		macros     types.Macros
	)
	cmd := &cobra.Command{
		Use:   "scale",
		Short: "Scale nutrition facts to another amount",
		Long: `Scale converts macros given for a base amount to the requested amount.
Weight and volume convert through grams and millilitres (1 cup = 240 ml,
1 g = 1 ml). A per-serving base only scales to servings.

Example:
  nutrio scale --base-amount 100 --base-unit g --calories 165 --protein 31 --fat 3.6 --amount 250 --unit g
  nutrio scale --base-unit serving --calories 200 --amount 1.5 --unit serving`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := nutrition.NewBase(macros, baseAmount, parseUnit(baseUnit))
			if err != nil {
				return err
			}
			u := parseUnit(unit)
			res, ok := nutrition.Scale(base, amount, u)
			if !ok {
				return fmt.Errorf("cannot scale %s to %s %s: %w",
					base.Label(), nutrition.FormatAmount(amount), u, types.ErrInvalidUnit)
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), res)
			}
			d := nutrition.Display(res.Macros)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s x%s): %s kcal, %sg protein, %sg carbs, %sg fat\n",
				nutrition.FormatAmount(res.Amount), res.Unit, base.Label(), nutrition.FormatAmount(res.Factor),
				d.Calories, d.Protein, d.Carbs, d.Fat)
			return nil
		},
	}
	cmd.Flags().Float64Var(&baseAmount, "base-amount", 100, "amount the macros describe")
	cmd.Flags().StringVar(&baseUnit, "base-unit", string(types.UnitGram), "unit of the base amount")
	cmd.Flags().Float64Var(&amount, "amount", 1, "requested amount")
	cmd.Flags().StringVar(&unit, "unit", string(types.UnitServing), "requested unit")
	registerMacroFlags(cmd, &macros)
	return cmd
}
