package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage profiles",
	}
	cmd.AddCommand(newProfileCreateCmd(a), newProfileShowCmd(a), newProfileUpdateCmd(a), newProfileResetCmd(a))
	return cmd
}

func newProfileCreateCmd(a *app) *cobra.Command {
	var (
		email, name string
		use         bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a profile",
		Long: `Create stores a new profile. With --use the profile becomes the active
profile in config.yaml.

Example:
  nutrio profile create --email ana@example.com --name Ana --use`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			exists, err := store.EmailExists(ctx, email)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("email %q is already registered: %w", email, types.ErrInvalidData)
			}
			p, err := store.CreateProfile(ctx, email, name)
			if err != nil {
				return err
			}
			if use {
				if err := a.saveConfigValue(cfgKeyProfile, p.ProfileID); err != nil {
					return err
				}
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), p)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created profile: %s\n", p.ProfileID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().BoolVar(&use, "use", false, "make this the active profile")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newProfileShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show [profile-id]",
		Short: "Show a profile (default: the active profile)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := a.profileID
			if len(args) == 1 {
				id = args[0]
			}
			if id == "" {
				return errNoProfile
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			p, err := store.Profile(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), p)
			}
			printProfile(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func printProfile(w io.Writer, p types.Profile) {
	str := func(s *string) string {
		if s == nil {
			return "-"
		}
		return *s
	}
	num := func(f *float64) string {
		if f == nil {
			return "-"
		}
		return strconv.FormatFloat(*f, 'f', -1, 64)
	}
	age := "-"
	if p.Age != nil {
		age = strconv.Itoa(*p.Age)
	}
	sex := "-"
	if p.Sex != nil {
		sex = string(*p.Sex)
	}
	activity := "-"
	if p.ActivityLevel != nil {
		activity = string(*p.ActivityLevel)
	}

	t := newTable(w, "FIELD", "VALUE")
	t.row("id", p.ProfileID)
	t.row("email", p.Email)
	t.row("name", str(p.DisplayName))
	t.row("diet", str(p.DietTags))
	t.row("height_cm", num(p.HeightCm))
	t.row("weight_kg", num(p.WeightKg))
	t.row("age", age)
	t.row("sex", sex)
	t.row("activity", activity)
	t.row("goal", str(p.Goal))
	t.row("timezone", str(p.Timezone))
	t.flush()
}

func newProfileUpdateCmd(a *app) *cobra.Command {
	var (
		dietTags, sex, activity, goal, timezone string
		height, weight                          float64
		age                                     int
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the active profile",
		Long: `Update changes the given fields of the active profile and keeps the rest.

Example:
  nutrio profile update --weight 70 --height 175 --age 30 --sex male --activity moderate --goal "lose weight"`,
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
			ctx := cmd.Context()
			p, err := store.Profile(ctx, id)
			if err != nil {
				return err
			}

			u := types.ProfileUpdate{
				DietTags:      p.DietTags,
				HeightCm:      p.HeightCm,
				WeightKg:      p.WeightKg,
				Age:           p.Age,
				Sex:           p.Sex,
				ActivityLevel: p.ActivityLevel,
				Goal:          p.Goal,
				Timezone:      p.Timezone,
			}
			flags := cmd.Flags()
			if flags.Changed("diet") {
				u.DietTags = &dietTags
			}
			if flags.Changed("height") {
				u.HeightCm = &height
			}
			if flags.Changed("weight") {
				u.WeightKg = &weight
			}
			if flags.Changed("age") {
				u.Age = &age
			}
			if flags.Changed("sex") {
				s := types.Sex(strings.ToLower(sex))
				if s != types.SexMale && s != types.SexFemale && s != types.SexNA {
					return fmt.Errorf("sex %q: %w", sex, errUsage)
				}
				u.Sex = &s
			}
			if flags.Changed("activity") {
				l := types.ActivityLevel(strings.ToLower(activity))
				switch l {
				case types.ActivitySedentary, types.ActivityLight, types.ActivityModerate, types.ActivityActive:
				default:
					return fmt.Errorf("activity %q: %w", activity, errUsage)
				}
				u.ActivityLevel = &l
			}
			if flags.Changed("goal") {
				u.Goal = &goal
			}
			if flags.Changed("timezone") {
				u.Timezone = &timezone
			}
			if err := store.UpdateProfile(ctx, id, u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated profile: %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&dietTags, "diet", "", "comma-separated diet tags")
	cmd.Flags().Float64Var(&height, "height", 0, "height in cm")
	cmd.Flags().Float64Var(&weight, "weight", 0, "weight in kg")
	cmd.Flags().IntVar(&age, "age", 0, "age in years")
	cmd.Flags().StringVar(&sex, "sex", "", "male, female or na")
	cmd.Flags().StringVar(&activity, "activity", "", "sedentary, light, moderate or active")
	cmd.Flags().StringVar(&goal, "goal", "", "goal text, e.g. \"lose weight\"")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA time zone")
	return cmd
}

func newProfileResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every meal plan and water log of the active profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.profile()
			if err != nil {
				return err
			}
			store, err := a.store()
			if err != nil {
				return err
			}
			if err := store.ResetProfile(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset profile: %s\n", id)
			return nil
		},
	}
}
