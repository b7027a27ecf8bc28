package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nutrio/internal/nutrition"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

func newPlanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage meal plans",
	}
	cmd.AddCommand(
		newPlanAddCmd(a),
		newPlanListCmd(a),
		newPlanEditCmd(a),
		newPlanDeleteCmd(a),
		newPlanAddRecipeCmd(a),
	)
	return cmd
}

type mealFlags struct {
	date string
	meal string
}

func (f *mealFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&f.meal, "meal", string(types.MealLunch), "breakfast, lunch, dinner or snack")
}

func (f *mealFlags) mealType() (types.MealType, error) {
	m := types.MealType(strings.ToLower(f.meal))
	if !m.Valid() {
		return "", fmt.Errorf("meal %q: %w", f.meal, types.ErrInvalidMealType)
	}
	return m, nil
}

func newPlanAddCmd(a *app) *cobra.Command {
	var (
		mf       mealFlags
		name     string
		itemType string
		amount   float64
		unit     string
		macros   types.Macros
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a food to a meal",
		Long: `Add records a food on the active profile's plan. The macros describe the
given amount, which also becomes the item's base for later rescaling.

Example:
  nutrio plan add --meal breakfast --name oats --amount 80 --unit g --calories 300 --protein 10 --carbs 54 --fat 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.profile()
			if err != nil {
				return err
			}
			date, err := parseDate(mf.date, a.now)
			if err != nil {
				return err
			}
			meal, err := mf.mealType()
			if err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			plan, err := store.GetOrCreateMealPlan(ctx, id, date)
			if err != nil {
				return err
			}
			u := parseUnit(unit)
			item, err := store.AddMealItem(ctx, types.MealItem{
				PlanID:      plan.PlanID,
				Type:        types.ItemType(itemType),
				MealType:    meal,
				Name:        name,
				Macros:      macros,
				Servings:    amount,
				ServingUnit: u,
				BaseAmount:  amount,
				BaseUnit:    u,
			})
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), item)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s on %s: %s\n", item.Name, item.MealType, plan.Date, item.ItemID)
			return nil
		},
	}
	mf.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "food name (required)")
	cmd.Flags().StringVar(&itemType, "type", string(types.ItemManual), "manual, usda or custom")
	cmd.Flags().Float64Var(&amount, "amount", 1, "amount eaten")
	cmd.Flags().StringVar(&unit, "unit", string(types.UnitServing), "g, ml, cup, pcs or serving")
	registerMacroFlags(cmd, &macros)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func registerMacroFlags(cmd *cobra.Command, m *types.Macros) {
	cmd.Flags().Float64Var(&m.Calories, "calories", 0, "kcal")
	cmd.Flags().Float64Var(&m.Protein, "protein", 0, "protein in g")
	cmd.Flags().Float64Var(&m.Carbs, "carbs", 0, "carbohydrate in g")
	cmd.Flags().Float64Var(&m.Fat, "fat", 0, "fat in g")
}

func newPlanListCmd(a *app) *cobra.Command {
	var (
		date string
		days int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List planned meals",
		Long: `List shows the active profile's meal items for a date, or for --days
consecutive days starting at it, with macro totals.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.profile()
			if err != nil {
				return err
			}
			start, err := parseDate(date, a.now)
			if err != nil {
				return err
			}
			if days < 1 {
				return fmt.Errorf("days must be at least 1: %w", errUsage)
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			items, err := store.MealItemsInRange(cmd.Context(), id, start, start.AddDate(0, 0, days-1))
			if err != nil {
				return err
			}
			if a.jsonMode {
				if items == nil {
					items = []types.ScheduledItem{}
				}
				return printJSON(cmd.OutOrStdout(), items)
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No meals planned.")
				return nil
			}
			var total types.Macros
			t := newTable(out, "DATE", "MEAL", "NAME", "AMOUNT", "KCAL", "PROTEIN", "CARBS", "FAT", "ID")
			for _, it := range items {
				total = total.Add(it.Macros)
				amount := nutrition.FormatAmount(it.Servings) + " " + string(it.ServingUnit)
				cols := append([]string{it.Date, string(it.MealType), it.Name, strings.TrimSpace(amount)}, macroCols(it.Macros)...)
				t.row(append(cols, it.ItemID)...)
			}
			t.row(append([]string{"", "", "Total", ""}, macroCols(total)...)...)
			t.flush()
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "first date as YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&days, "days", 1, "number of days to list")
	return cmd
}

func newPlanEditCmd(a *app) *cobra.Command {
	var (
		amount float64
		unit   string
	)
	cmd := &cobra.Command{
		Use:   "edit <item-id>",
		Short: "Change the amount of a planned food",
		Long: `Edit rescales an item's macros from its stored base to a new amount.
Manual items and conversions between serving and weight cannot be rescaled.

Example:
  nutrio plan edit 0192f0c4-... --amount 250 --unit g`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			item, err := store.MealItem(ctx, args[0])
			if err != nil {
				return err
			}
			u := item.ServingUnit
			if unit != "" {
				u = parseUnit(unit)
			}
			scaled, ok := nutrition.Rescale(item, amount, u)
			if !ok {
				return fmt.Errorf("cannot rescale %s to %s %s: %w", item.Name, nutrition.FormatAmount(amount), u, types.ErrInvalidUnit)
			}
			if err := store.UpdateMealItem(ctx, scaled); err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), scaled)
			}
			d := nutrition.Display(scaled.Macros)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s %s, %s kcal\n",
				scaled.Name, nutrition.FormatAmount(scaled.Servings), scaled.ServingUnit, d.Calories)
			return nil
		},
	}
	cmd.Flags().Float64Var(&amount, "amount", 1, "new amount")
	cmd.Flags().StringVar(&unit, "unit", "", "new unit (default: keep the current unit)")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newPlanDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Remove a planned food",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			if err := store.DeleteMealItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted meal item: %s\n", args[0])
			return nil
		},
	}
}

func newPlanAddRecipeCmd(a *app) *cobra.Command {
	var (
		mf       mealFlags
		servings float64
	)
	cmd := &cobra.Command{
		Use:   "add-recipe <recipe-id>",
		Short: "Add recipe portions to a meal",
		Long: `Add-recipe records servings portions of a recipe. The item's macros are
the recipe totals divided by the recipe's servings.

Example:
  nutrio plan add-recipe recipe_001 --meal dinner --servings 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.profile()
			if err != nil {
				return err
			}
			date, err := parseDate(mf.date, a.now)
			if err != nil {
				return err
			}
			meal, err := mf.mealType()
			if err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			item, err := store.AddRecipeToMealPlan(cmd.Context(), id, args[0], date, meal, servings)
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), item)
			}
			d := nutrition.Display(item.Macros)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s x%s to %s: %s kcal (%s)\n",
				item.Name, nutrition.FormatAmount(item.Servings), item.MealType, d.Calories, item.ItemID)
			return nil
		},
	}
	mf.register(cmd)
	cmd.Flags().Float64Var(&servings, "servings", 1, "portions eaten")
	return cmd
}
