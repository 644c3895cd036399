package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/ephemeris/analytic"
	"github.com/matzehuels/sidereal/pkg/ephemeris/table"
	"github.com/matzehuels/sidereal/pkg/errors"
)

// ephemerisCommand groups the ephemeris table maintenance commands.
func (c *CLI) ephemerisCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ephemeris",
		Short: "Manage the precomputed ephemeris table",
	}
	cmd.AddCommand(c.ephemerisSeedCommand())
	return cmd
}

// ephemerisSeedCommand creates the "ephemeris seed" subcommand, which fills
// the MongoDB table from the analytic ephemeris.
func (c *CLI) ephemerisSeedCommand() *cobra.Command {
	var (
		from, to string
		workers  int
	)

	cmd := &cobra.Command{
		Use:     "seed",
		Short:   "Fill the ephemeris table with daily positions",
		Example: "  sidereal ephemeris seed --from 1900-01-01 --to 2050-12-31",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fromJD, err := dateJD(from)
			if err != nil {
				return err
			}
			toJD, err := dateJD(to)
			if err != nil {
				return err
			}
			// The table also carries Pluto so either body set can be served.
			bodies := append(append([]ephemeris.Body(nil), ephemeris.DefaultBodies...), ephemeris.Pluto)

			store, err := table.Connect(ctx, table.MongoOptions{
				URI:        c.Config.Mongo.URI,
				Database:   c.Config.Mongo.Database,
				Collection: c.Config.Mongo.Collection,
			})
			if err != nil {
				return err
			}
			defer func() { _ = store.Close(ctx) }()

			logger := loggerFromContext(ctx)
			prog := newProgress(logger)
			spinner := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Seeding %d bodies from %s to %s...", len(bodies), from, to))
			spinner.Start()

			var mu sync.Mutex
			done := 0
			rows, err := table.Seed(ctx, store, analytic.New(), table.SeedOptions{
				Bodies:  bodies,
				FromJD:  fromJD,
				ToJD:    toJD,
				Workers: workers,
				Progress: func(b ephemeris.Body, n int) {
					mu.Lock()
					done++
					mu.Unlock()
					logger.Debug("seeded body", "body", b, "rows", n)
				},
			})
			if err != nil {
				spinner.StopWithError("Seeding failed")
				return err
			}
			spinner.Stop()
			prog.done(fmt.Sprintf("Seeded %d bodies", done))
			printSuccess(c.out, "Wrote %d rows", rows)
			printDetail(c.out, "%s.%s", c.Config.Mongo.Database, c.Config.Mongo.Collection)
			printNextStep(c.out, "Use it", "SIDEREAL_EPHEMERIS_MODE=table sidereal chart ...")
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "1900-01-01", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "2050-12-31", "last day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&workers, "workers", 4, "bodies computed concurrently")
	return cmd
}

// dateJD returns the Julian day of 0h UT on a calendar date.
func dateJD(s string) (float64, error) {
	d, err := errors.ParseDate(s)
	if err != nil {
		return 0, err
	}
	return ephemeris.JulianDay(time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)), nil
}
