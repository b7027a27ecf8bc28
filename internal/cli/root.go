// Package cli implements the nutrio command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/nutrio/internal/logging"
	"github.com/mesh-intelligence/nutrio/internal/paths"
	"github.com/mesh-intelligence/nutrio/internal/sqlite"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

var errNoProfile = errors.New("no active profile: pass --profile or run 'nutrio profile create --use'")

// app holds global flag values and the lazily attached store shared by all
// subcommands of one invocation.
type app struct {
	configDir string
	dataDir   string
	profileID string
	logLevel  string
	jsonMode  bool

	config  *viper.Viper
	logger  *zap.Logger
	backend *sqlite.Backend
	now     func() time.Time
}

// NewRootCmd creates the top-level "nutrio" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "nutrio",
		Short: "Local meal planning, nutrition and grocery lists",
		Long: "nutrio keeps meal plans, recipes and water logs in a local SQLite database,\n" +
			"scales nutrition to any portion and builds grocery lists from planned meals.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	root.PersistentFlags().StringVar(&a.profileID, "profile", "", "profile ID (default: profile in config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newMigrateCmd(a),
		newProfileCmd(a),
		newPlanCmd(a),
		newRecipeCmd(a),
		newFoodCmd(a),
		newGroceryCmd(a),
		newScaleCmd(a),
		newWaterCmd(a),
		newGoalCmd(a),
	)
	return root
}

// Execute runs the root command until it finishes or the process is
// interrupted, and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errNoProfile),
		errors.Is(err, errUsage),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrInvalidDate),
		errors.Is(err, types.ErrInvalidUnit),
		errors.Is(err, types.ErrInvalidMealType),
		errors.Is(err, types.ErrInvalidItemType),
		errors.Is(err, types.ErrInvalidRange):
		return exitUserError
	default:
		return exitSysError
	}
}

// setup loads config.yaml and builds the logger. The store is attached on
// first use.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	a.configDir = configDir
	if a.config, err = loadConfig(configDir); err != nil {
		return err
	}

	level := a.logLevel
	if level == "" {
		level = a.config.GetString(cfgKeyLogLevel)
	}
	if a.logger, err = logging.New(level, a.config.GetBool(cfgKeyDevelopment)); err != nil {
		return err
	}
	if a.profileID == "" {
		a.profileID = a.config.GetString(cfgKeyProfile)
	}
	return nil
}

// store attaches the SQLite backend, running migrations and seeding.
func (a *app) store() (*sqlite.Backend, error) {
	if a.backend != nil {
		return a.backend, nil
	}
	dataDir, err := paths.ResolveDataDir(a.dataDir, a.config.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg := types.Config{
		DataDir:     dataDir,
		LogLevel:    a.config.GetString(cfgKeyLogLevel),
		Development: a.config.GetBool(cfgKeyDevelopment),
	}
	backend := sqlite.NewBackend(sqlite.WithLogger(a.logger), sqlite.WithClock(a.now))
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	a.backend = backend
	return backend, nil
}

// profile returns the active profile ID or errNoProfile.
func (a *app) profile() (string, error) {
	if a.profileID == "" {
		return "", errNoProfile
	}
	return a.profileID, nil
}

func (a *app) close() error {
	var err error
	if a.backend != nil {
		err = a.backend.Detach()
		a.backend = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}
