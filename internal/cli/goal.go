package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nutrio/internal/nutrition"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

func newGoalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "goal",
		Short: "Estimate the active profile's daily calorie target",
		Long: `Goal estimates basal metabolic rate with the Mifflin-St Jeor equation,
multiplies it by the activity factor and adjusts for the profile's goal
(lose -400 kcal, gain +300 kcal). Weight, height and age must be set.`,
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
			p, err := store.Profile(cmd.Context(), id)
			if err != nil {
				return err
			}
			goal, ok := nutrition.DailyCalories(p)
			if !ok {
				return fmt.Errorf("set weight, height and age with 'nutrio profile update': %w", types.ErrInvalidData)
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), goal)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "BMR %d kcal, TDEE %d kcal, target %d kcal/day\n", goal.BMR, goal.TDEE, goal.Target)
			return nil
		},
	}
}
