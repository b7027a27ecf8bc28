package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/nutrio/internal/sqlite"
)

const modulePath = "github.com/mesh-intelligence/nutrio"

// Version is set at build time with -ldflags "-X <module>/internal/cli.Version=...".
var Version = "0.1.0-dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the nutrio version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "nutrio v%s\nmodule: %s\nschema: %d\n",
				Version, modulePath, sqlite.LatestSchemaVersion())
			return nil
		},
	}
}
