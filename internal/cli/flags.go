package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/sidereal/pkg/chart"
	"github.com/matzehuels/sidereal/pkg/timezone"
)

// birthFlags are the flags shared by every command that computes a chart.
type birthFlags struct {
	date     string
	time     string
	lat      float64
	lon      float64
	ayanamsa float64
	zone     string
}

func (f *birthFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.date, "date", "", "birth date (YYYY-MM-DD)")
	fs.StringVar(&f.time, "time", "", "local birth time (HH:MM or HH:MM:SS)")
	fs.Float64Var(&f.lat, "lat", 0, "birth latitude in degrees north")
	fs.Float64Var(&f.lon, "lon", 0, "birth longitude in degrees east")
	fs.Float64Var(&f.ayanamsa, "ayanamsa", 0, "ayanamsa override in degrees")
	fs.StringVar(&f.zone, "zone", "", "IANA time zone of the birth place (default: looked up from coordinates)")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
}

func (f *birthFlags) birth() chart.Birth {
	return chart.Birth{Date: f.date, Time: f.time, Latitude: f.lat, Longitude: f.lon}
}

// ayanamsaOverride returns the --ayanamsa flag if given, else the configured
// override, which may be nil.
func (f *birthFlags) ayanamsaOverride(cmd *cobra.Command, c *CLI) *float64 {
	if cmd.Flags().Changed("ayanamsa") {
		v := f.ayanamsa
		return &v
	}
	return c.Config.Chart.Ayanamsa
}

// apply routes an explicit --zone to the CLI's resolver.
func (f *birthFlags) apply(c *CLI) {
	if f.zone != "" {
		c.Resolver = timezone.Fixed(f.zone)
	}
}

// pick returns the flag value if the user set the flag, else the configured one.
func pick[T any](cmd *cobra.Command, name string, flagValue, configured T) T {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	return configured
}
