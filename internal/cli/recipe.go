package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nutrio/internal/nutrition"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

func newRecipeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Browse the recipe catalog",
	}
	cmd.AddCommand(newRecipeListCmd(a), newRecipeShowCmd(a), newRecipeEnrichCmd(a))
	return cmd
}

func newRecipeListCmd(a *app) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes with per-serving calories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			recipes, err := store.ListRecipes(cmd.Context())
			if err != nil {
				return err
			}
			if tag != "" {
				filtered := recipes[:0]
				for _, r := range recipes {
					for _, t := range r.DietTags {
						if strings.EqualFold(t, tag) {
							filtered = append(filtered, r)
							break
						}
					}
				}
				recipes = filtered
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), recipes)
			}
			if len(recipes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recipes found.")
				return nil
			}
			t := newTable(cmd.OutOrStdout(), "ID", "TITLE", "SERVINGS", "KCAL/SERVING", "TAGS")
			for _, r := range recipes {
				per := nutrition.Display(nutrition.PerServingMacros(r.Totals, r.Servings))
				t.row(r.RecipeID, r.Title, strconv.Itoa(r.Servings), per.Calories, strings.Join(r.DietTags, ","))
			}
			t.flush()
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %d recipe(s)\n", len(recipes))
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "only recipes with this diet tag")
	return cmd
}

type recipeDetail struct {
	types.Recipe
	PerServing  types.Macros             `json:"per_serving"`
	Ingredients []types.RecipeIngredient `json:"ingredients"`
	Steps       []types.RecipeStep       `json:"steps"`
}

func newRecipeShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show a recipe with ingredients and steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			r, err := store.Recipe(ctx, args[0])
			if err != nil {
				return err
			}
			ings, err := store.RecipeIngredients(ctx, r.RecipeID)
			if err != nil {
				return err
			}
			steps, err := store.RecipeSteps(ctx, r.RecipeID)
			if err != nil {
				return err
			}
			detail := recipeDetail{
				Recipe:      r,
				PerServing:  nutrition.PerServingMacros(r.Totals, r.Servings),
				Ingredients: ings,
				Steps:       steps,
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), detail)
			}

			out := cmd.OutOrStdout()
			d := nutrition.Display(detail.PerServing)
			fmt.Fprintf(out, "%s (%s)\n", r.Title, r.RecipeID)
			if r.Description != "" {
				fmt.Fprintln(out, r.Description)
			}
			fmt.Fprintf(out, "Serves %d, %s. Per serving: %s kcal, %sg protein, %sg carbs, %sg fat\n\n",
				r.Servings, r.Difficulty, d.Calories, d.Protein, d.Carbs, d.Fat)
			t := newTable(out, "INGREDIENT", "AMOUNT")
			for _, ing := range ings {
				t.row(ing.Name, nutrition.FormatAmount(ing.Quantity)+" "+string(ing.Unit))
			}
			t.flush()
			fmt.Fprintln(out)
			for _, s := range steps {
				fmt.Fprintf(out, "%d. %s\n", s.Number, s.Instruction)
			}
			return nil
		},
	}
}

func newRecipeEnrichCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Fill ingredient macros from the active profile's custom foods",
		Long: `Enrich looks up every ingredient without macros among the active
profile's custom foods and copies the macros of the best match. A completed
pass is recorded and not repeated.`,
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
			n, err := store.EnrichIngredients(cmd.Context(), store.CustomFoodSearcher(id))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enriched %d ingredient(s)\n", n)
			return nil
		},
	}
}
