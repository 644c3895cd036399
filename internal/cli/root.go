package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sidereal/pkg/buildinfo"
	"github.com/matzehuels/sidereal/pkg/config"
)

// RootCommand creates the root cobra command with all subcommands registered.
// Its PersistentPreRunE loads the configuration before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Sidereal computes Vedic birth charts",
		Long:         `Sidereal computes sidereal (Vedic) birth charts: planetary positions, houses, aspects and the Vimshottari dasha timeline, from a birth date, time and place.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// --verbose sets debug level before this runs; keep it.
			if err := c.loadConfig(c.Logger.GetLevel() == log.DebugLevel); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			c.Logger.Debug("configuration loaded", "path", c.configPathOrDefault(), "mode", c.Config.Ephemeris.Mode)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.chartCommand())
	root.AddCommand(c.positionsCommand())
	root.AddCommand(c.housesCommand())
	root.AddCommand(c.aspectsCommand())
	root.AddCommand(c.dashaCommand())
	root.AddCommand(c.nakshatraCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.ephemerisCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) configPathOrDefault() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.DefaultPath()
}
