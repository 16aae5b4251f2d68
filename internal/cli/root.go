// Package cli implements trackerctl, the command-line surface over the
// satellite frame, the planetary bodies table and the property listings.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ADITYAK333/satellite-tracker/internal/cache"
	"github.com/ADITYAK333/satellite-tracker/internal/config"
)

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// cli carries state shared by every subcommand. app is wired in the root's
// PersistentPreRunE, after flags have been parsed.
type cli struct {
	v       *viper.Viper
	clock   cache.Clock
	verbose bool
	app     *app
}

// NewRootCmd builds the trackerctl command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

// newRootCmd builds the tree with an injected clock; nil means time.Now.
func newRootCmd(clock cache.Clock) *cobra.Command {
	c := &cli{v: config.New(), clock: clock}

	rootCmd := &cobra.Command{
		Use:           "trackerctl",
		Short:         "Satellite positions, planetary bodies, property listings and sheet cleaning",
		Long:          "trackerctl fetches CelesTrak TLE catalogs, places every satellite at its current sub-point, lists planetary bodies, manages a small property table and cleans product listing workbooks.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := wireApp(c.v, c.clock, cmd.ErrOrStderr(), c.verbose)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (yaml or toml); env SATTRACK_CONFIG")
	flags.String("property-driver", "", "property store: sqlite, postgres or memory")
	flags.String("property-dsn", "", "property store path or connection string")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")
	_ = c.v.BindPFlag("config", flags.Lookup("config"))
	_ = c.v.BindPFlag("property.driver", flags.Lookup("property-driver"))
	_ = c.v.BindPFlag("property.dsn", flags.Lookup("property-dsn"))

	rootCmd.AddCommand(
		c.newSatellitesCmd(),
		c.newBodiesCmd(),
		c.newPropertyCmd(),
		c.newSheetCmd(),
	)

	return rootCmd
}
