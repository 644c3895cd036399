package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sidereal/pkg/chart"
	sidio "github.com/matzehuels/sidereal/pkg/io"
	"github.com/matzehuels/sidereal/pkg/pipeline"
)

// chartFlags holds the flags of the chart command.
type chartFlags struct {
	birthFlags
	houseSystem string
	orb         float64
	dashaYears  int
	bodies      []string
	refresh     bool
	noCache     bool
	json        bool
	output      string
}

// chartCommand creates the chart command, which runs the full pipeline.
func (c *CLI) chartCommand() *cobra.Command {
	var f chartFlags

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Compute a complete birth chart",
		Long: `Compute positions, houses, aspects and the dasha timeline for a birth.

Results are cached; use --refresh to recompute.`,
		Example: `  sidereal chart --date 1990-06-15 --time 12:00 --lat 19.076 --lon 72.8777
  sidereal chart --date 1990-06-15 --time 12:00 --lat 19.076 --lon 72.8777 -o chart.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(c)
			opts := pipeline.Options{
				BirthDate:   f.date,
				BirthTime:   f.time,
				Latitude:    f.lat,
				Longitude:   f.lon,
				Ayanamsa:    f.ayanamsaOverride(cmd, c),
				HouseSystem: pick(cmd, "house-system", f.houseSystem, c.Config.Chart.HouseSystem),
				Orb:         pick(cmd, "orb", f.orb, c.Config.Chart.Orb),
				DashaYears:  pick(cmd, "dasha-years", f.dashaYears, c.Config.Chart.DashaYears),
				Bodies:      f.bodies,
				Refresh:     f.refresh,
			}
			return c.runChart(cmd.Context(), opts, f)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&f.houseSystem, "house-system", chart.DefaultHouseSystem, "house system code (P, K, O, R, C, E, W, ...)")
	cmd.Flags().Float64Var(&f.orb, "orb", chart.DefaultOrb, "aspect orb in degrees")
	cmd.Flags().IntVar(&f.dashaYears, "dasha-years", chart.DefaultDashaYears, "dasha timeline horizon in years")
	cmd.Flags().StringSliceVar(&f.bodies, "bodies", nil, "bodies to resolve (default from config)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the chart cache")
	cmd.Flags().BoolVar(&f.json, "json", false, "write the chart document as JSON to stdout")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the chart document to a JSON file")

	return cmd
}

func (c *CLI) runChart(ctx context.Context, opts pipeline.Options, f chartFlags) error {
	runner, closeRunner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return err
	}
	defer closeRunner()

	prog := newProgress(loggerFromContext(ctx))
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	doc := sidio.NewDocument(result.Chart, runner.Engine.Provider.Name())

	if f.json {
		return sidio.WriteJSON(doc, c.out)
	}
	if f.output != "" {
		if err := sidio.ExportJSON(doc, f.output); err != nil {
			return err
		}
		prog.done("Exported chart")
		printSuccess(c.out, "Chart written")
		printFile(c.out, f.output)
		printStats(c.out, result.Stats.BodyCount, result.Stats.AspectCount, result.Stats.PeriodCount, result.CacheInfo.ChartHit)
		printNextStep(c.out, "Browse it", fmt.Sprintf("%s browse --input %s", appName, f.output))
		return nil
	}

	printChart(c.out, result.Chart, time.Now())
	printStats(c.out, result.Stats.BodyCount, result.Stats.AspectCount, result.Stats.PeriodCount, result.CacheInfo.ChartHit)
	return nil
}

// printMoment prints how the birth was resolved to an instant.
func printMoment(w io.Writer, m chart.Moment, ayanamsa float64) {
	printKeyValue(w, "Local", m.Local.Format("2006-01-02 15:04:05 MST"))
	printKeyValue(w, "Zone", m.Zone)
	printKeyValue(w, "UTC", m.UTC.Format(time.RFC3339))
	printKeyValue(w, "Julian day", fmt.Sprintf("%.6f", m.JD))
	printKeyValue(w, "Ayanamsa", fmt.Sprintf("%.6f° (%s)", ayanamsa, formatDMS(ayanamsa)))
}

// printChart prints every part of a chart as tables.
func printChart(w io.Writer, c *chart.Chart, now time.Time) {
	fmt.Fprintln(w, StyleTitle.Render("Birth Chart"))
	printMoment(w, c.Moment, c.Ayanamsa)
	if c.Houses != nil {
		printKeyValue(w, "Ascendant", fmt.Sprintf("%s %s", c.Houses.AscendantSign, formatDMS(c.Houses.Ascendant-c.Houses.AscendantSign.Start())))
	}
	printNewline(w)

	fmt.Fprintln(w, StyleTitle.Render("Positions"))
	fmt.Fprintln(w, positionsTable(c.Positions, c.Houses))
	printNewline(w)

	if c.Houses != nil {
		fmt.Fprintln(w, StyleTitle.Render("Houses")+" "+StyleDim.Render(c.Houses.System))
		fmt.Fprintln(w, housesTable(c.Houses))
		printNewline(w)
	}

	fmt.Fprintln(w, StyleTitle.Render("Aspects"))
	if len(c.Aspects) == 0 {
		printDetail(w, "none within orb")
	} else {
		fmt.Fprintln(w, aspectsTable(c.Aspects))
	}
	printNewline(w)

	if c.Dashas != nil {
		printDashas(w, c.Dashas, now)
	}
}

func printDashas(w io.Writer, d *chart.Dashas, now time.Time) {
	fmt.Fprintln(w, StyleTitle.Render("Vimshottari Dasha"))
	printKeyValue(w, "Moon", fmt.Sprintf("%s pada %d", d.MoonNakshatra.Name, d.MoonNakshatra.Pada))
	printKeyValue(w, "Balance", fmt.Sprintf("%.2f years", d.Balance))
	if p, ok := d.Current(now); ok {
		printKeyValue(w, "Current", fmt.Sprintf("%s until %s", p.Body, p.End.Format(time.DateOnly)))
	}
	fmt.Fprintln(w, dashasTable(d, now))
}
