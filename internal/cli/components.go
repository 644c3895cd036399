package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sidereal/pkg/chart"
	"github.com/matzehuels/sidereal/pkg/errors"
	"github.com/matzehuels/sidereal/pkg/zodiac"
)

// The commands in this file compute one part of a chart directly on the
// engine, without the pipeline's cache.

// componentCommand builds a command over the shared birth flags. run is
// called with a ready engine.
func (c *CLI) componentCommand(use, short string, f *birthFlags, asJSON *bool, run func(ctx context.Context, cmd *cobra.Command, e *chart.Engine) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(c)
			e, closeProvider, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeProvider()
			return run(cmd.Context(), cmd, e)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(asJSON, "json", false, "write the result as JSON")
	return cmd
}

// positionsCommand creates the positions command.
func (c *CLI) positionsCommand() *cobra.Command {
	var (
		f      birthFlags
		asJSON bool
	)
	return c.componentCommand("positions", "Compute sidereal planetary positions", &f, &asJSON,
		func(ctx context.Context, cmd *cobra.Command, e *chart.Engine) error {
			p, err := e.Positions(ctx, f.birth(), f.ayanamsaOverride(cmd, c))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(c.out, p)
			}
			printMoment(c.out, p.Moment, p.Ayanamsa)
			printNewline(c.out)
			fmt.Fprintln(c.out, positionsTable(p.Bodies, nil))
			return nil
		})
}

// housesCommand creates the houses command.
func (c *CLI) housesCommand() *cobra.Command {
	var (
		f      birthFlags
		asJSON bool
		system string
	)
	cmd := c.componentCommand("houses", "Compute sidereal house cusps", &f, &asJSON,
		func(ctx context.Context, cmd *cobra.Command, e *chart.Engine) error {
			h, err := e.Houses(ctx, f.birth(), pick(cmd, "house-system", system, c.Config.Chart.HouseSystem), f.ayanamsaOverride(cmd, c))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(c.out, h)
			}
			printKeyValue(c.out, "System", h.System)
			printKeyValue(c.out, "Ascendant", fmt.Sprintf("%s %s", h.AscendantSign, formatDMS(h.Ascendant-h.AscendantSign.Start())))
			printKeyValue(c.out, "MC", fmt.Sprintf("%.4f", h.MC))
			printNewline(c.out)
			fmt.Fprintln(c.out, housesTable(h))
			return nil
		})
	cmd.Flags().StringVar(&system, "house-system", chart.DefaultHouseSystem, "house system code")
	return cmd
}

// aspectsCommand creates the aspects command.
func (c *CLI) aspectsCommand() *cobra.Command {
	var (
		f      birthFlags
		asJSON bool
		orb    float64
	)
	cmd := c.componentCommand("aspects", "Detect aspects between bodies", &f, &asJSON,
		func(ctx context.Context, cmd *cobra.Command, e *chart.Engine) error {
			p, err := e.Positions(ctx, f.birth(), f.ayanamsaOverride(cmd, c))
			if err != nil {
				return err
			}
			aspects := chart.DetectAspects(p.Bodies, pick(cmd, "orb", orb, c.Config.Chart.Orb))
			if asJSON {
				return writeJSON(c.out, aspects)
			}
			if len(aspects) == 0 {
				printInfo(c.out, "No aspects within orb")
				return nil
			}
			fmt.Fprintln(c.out, aspectsTable(aspects))
			return nil
		})
	cmd.Flags().Float64Var(&orb, "orb", chart.DefaultOrb, "aspect orb in degrees")
	return cmd
}

// dashaCommand creates the dasha command.
func (c *CLI) dashaCommand() *cobra.Command {
	var (
		f      birthFlags
		asJSON bool
		years  int
	)
	cmd := c.componentCommand("dasha", "Compute the Vimshottari dasha timeline", &f, &asJSON,
		func(ctx context.Context, cmd *cobra.Command, e *chart.Engine) error {
			d, err := e.Dashas(ctx, f.birth(), pick(cmd, "years", years, c.Config.Chart.DashaYears), f.ayanamsaOverride(cmd, c))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(c.out, d)
			}
			printDashas(c.out, d, time.Now())
			return nil
		})
	cmd.Flags().IntVar(&years, "years", chart.DefaultDashaYears, "timeline horizon in years")
	return cmd
}

// nakshatraCommand creates the nakshatra command, which classifies a
// sidereal longitude without any ephemeris.
func (c *CLI) nakshatraCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "nakshatra <longitude>",
		Short:   "Classify a sidereal longitude",
		Example: "  sidereal nakshatra 342.1",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lon, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "longitude %q is not a number", args[0])
			}
			lon = zodiac.Normalize(lon)
			sign := zodiac.SignOf(lon)
			nak := zodiac.NakshatraOf(lon)

			printKeyValue(c.out, "Longitude", fmt.Sprintf("%.4f°", lon))
			printKeyValue(c.out, "Sign", fmt.Sprintf("%s %s", sign, formatDMS(lon-sign.Start())))
			printDetail(c.out, "%s", sign.Keywords())
			printKeyValue(c.out, "Nakshatra", fmt.Sprintf("%d %s pada %d", nak.Ordinal, nak.Name, nak.Pada))
			printDetail(c.out, "%s", nak.Keywords())
			printKeyValue(c.out, "Navamsa", zodiac.NavamsaOf(lon).String())
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
