package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nutrio/internal/nutrition"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

func newFoodCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "food",
		Short: "Manage the active profile's custom foods",
	}
	cmd.AddCommand(newFoodAddCmd(a), newFoodSearchCmd(a))
	return cmd
}

func newFoodAddCmd(a *app) *cobra.Command {
	var (
		name    string
		serving float64
		macros  types.Macros
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a custom food",
		Long: `Add saves a food with macros per serving size in grams.

Example:
  nutrio food add --name "Protein Bar" --serving 60 --calories 210 --protein 20 --carbs 22 --fat 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.profile()
			if err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			food, err := store.AddCustomFood(cmd.Context(), id, name, serving, macros)
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), food)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved custom food: %s\n", food.FoodID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "food name (required)")
	cmd.Flags().Float64Var(&serving, "serving", 100, "serving size in g")
	registerMacroFlags(cmd, &macros)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newFoodSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search custom foods by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.profile()
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			results, err := store.CustomFoodSearcher(id).SearchFoods(cmd.Context(), query)
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), results)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No foods found.")
				return nil
			}
			t := newTable(cmd.OutOrStdout(), "NAME", "BASE", "KCAL", "PROTEIN", "CARBS", "FAT")
			for _, r := range results {
				base := nutrition.BaseFromSearch(r)
				t.row(append([]string{r.Name, base.Label()}, macroCols(base.Nutrients())...)...)
			}
			t.flush()
			return nil
		},
	}
}
