package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/nutrio/internal/events"
	"github.com/mesh-intelligence/nutrio/internal/grocery"
	"github.com/mesh-intelligence/nutrio/internal/sqlite"
)

type groceryFlags struct {
	rangeOpt string
	offset   int
}

func (f *groceryFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.rangeOpt, "range", "", "today, next3 or week (default: grocery.range in config.yaml)")
	cmd.PersistentFlags().IntVar(&f.offset, "offset", 0, "weeks ahead of the current week")
}

// grocerySession opens the active profile's grocery session for the selected window.
func (a *app) grocerySession(f *groceryFlags) (*grocery.Session, *sqlite.Backend, error) {
	id, err := a.profile()
	if err != nil {
		return nil, nil, err
	}
	opt := f.rangeOpt
	if opt == "" {
		opt = a.config.GetString(cfgKeyGroceryRange)
	}
	option, err := grocery.ParseRangeOption(opt)
	if err != nil {
		return nil, nil, err
	}
	store, err := a.store()
	if err != nil {
		return nil, nil, err
	}
	tracker := grocery.NewTracker(store, grocery.NewBuilder(store, a.logger), a.logger, grocery.WithClock(a.now))
	s := tracker.Session(id, option)
	s.SetWindow(grocery.Window{Option: option, OffsetWeeks: f.offset})
	return s, store, nil
}

func newGroceryCmd(a *app) *cobra.Command {
	var (
		f     groceryFlags
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "grocery",
		Short: "Show the grocery list for planned meals",
		Long: `Grocery aggregates every food planned in the selected range, expands
recipes into their ingredients and groups the result by store section.
When the range was already completed and nothing changed, the next period
is shown instead.

Example:
  nutrio grocery
  nutrio grocery --range next3
  nutrio grocery --offset 1 --json
  nutrio grocery --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, store, err := a.grocerySession(&f)
			if err != nil {
				return err
			}
			if watch {
				return a.watchGrocery(cmd.Context(), cmd.OutOrStdout(), s, store.Bus())
			}
			res, err := s.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			return a.printGrocery(cmd.OutOrStdout(), res)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and reprint when the list changes or the day rolls over")
	cmd.AddCommand(newGroceryCheckCmd(a, &f), newGroceryCompleteCmd(a, &f))
	return cmd
}

func (a *app) watchGrocery(ctx context.Context, out io.Writer, s *grocery.Session, bus *events.Bus[events.MealPlanChanged]) error {
	r := grocery.NewRefresher(s, bus, a.logger, grocery.WithResultHandler(func(res grocery.Result) {
		if err := a.printGrocery(out, res); err != nil {
			a.logger.Warn("print grocery list", zap.Error(err))
		}
		fmt.Fprintln(out)
	}))
	if err := r.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (a *app) printGrocery(out io.Writer, res grocery.Result) error {
	if a.jsonMode {
		groups := res.Groups
		if groups == nil {
			groups = []grocery.CategoryGroup{}
		}
		return printJSON(out, map[string]any{
			"range":       res.RangeKey,
			"state":       res.State,
			"invalidated": res.Invalidated,
			"groups":      groups,
		})
	}
	fmt.Fprintf(out, "Grocery list %s (%s)\n", res.RangeKey, res.State)
	if res.Invalidated {
		fmt.Fprintln(out, "Meals changed since this list was completed; it has been reopened.")
	}
	if len(res.Groups) == 0 {
		fmt.Fprintln(out, "Nothing to buy.")
		return nil
	}
	for _, g := range res.Groups {
		fmt.Fprintf(out, "\n%s\n", g.Label)
		t := newTable(out, "", "ITEM", "AMOUNT", "ID")
		for _, r := range g.Rows {
			mark := "[ ]"
			if r.Checked {
				mark = "[x]"
			}
			t.row(mark, r.Name, r.AmountLabel, r.ID)
		}
		t.flush()
	}
	return nil
}

func newGroceryCheckCmd(a *app, f *groceryFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check <line-id>...",
		Short: "Toggle items as bought",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := a.grocerySession(f)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			res, err := s.Refresh(ctx)
			if err != nil {
				return err
			}
			if res.State != grocery.StateActive {
				return fmt.Errorf("grocery list %s is not open: %w", res.RangeKey, errUsage)
			}
			for _, id := range args {
				if err := s.ToggleChecked(ctx, id); err != nil {
					return err
				}
			}
			res.Groups = s.Groups()
			return a.printGrocery(cmd.OutOrStdout(), res)
		},
	}
}

func newGroceryCompleteCmd(a *app, f *groceryFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "complete",
		Short: "Mark the current list as shopped",
		Long: `Complete records the current range as shopped. The next 'nutrio grocery'
moves on to the following period unless the meals in this range change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := a.grocerySession(f)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			res, err := s.Refresh(ctx)
			if err != nil {
				return err
			}
			if res.State != grocery.StateActive {
				fmt.Fprintf(cmd.OutOrStdout(), "Grocery list %s is already completed\n", res.RangeKey)
				return nil
			}
			if err := s.Complete(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed grocery list %s\n", res.RangeKey)
			return nil
		},
	}
}
