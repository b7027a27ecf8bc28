package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nutrio/internal/sqlite"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

func newWaterCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "water",
		Short: "Log and total water intake",
	}
	cmd.AddCommand(newWaterAddCmd(a), newWaterTotalCmd(a))
	return cmd
}

func newWaterAddCmd(a *app) *cobra.Command {
	var date, source string
	cmd := &cobra.Command{
		Use:   "add <ml>",
		Short: "Log a drink in millilitres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.profile()
			if err != nil {
				return err
			}
			ml, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("amount %q: %w", args[0], types.ErrInvalidData)
			}
			day, err := parseDate(date, a.now)
			if err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := store.AddWaterLog(ctx, id, day, ml, source); err != nil {
				return err
			}
			total, err := store.WaterTotal(ctx, id, day)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s ml, %d ml on %s\n", args[0], total, types.DateKey(day))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&source, "source", sqlite.DefaultWaterSource, "where the drink was logged from")
	return cmd
}

func newWaterTotalCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "total",
		Short: "Show the millilitres logged on a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.profile()
			if err != nil {
				return err
			}
			day, err := parseDate(date, a.now)
			if err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			total, err := store.WaterTotal(cmd.Context(), id, day)
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{"date": types.DateKey(day), "total_ml": total})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d ml on %s\n", total, types.DateKey(day))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today)")
	return cmd
}
