package table

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/sidereal/pkg/ephemeris"
)

// SeedOptions selects what Seed computes.
type SeedOptions struct {
	Bodies []ephemeris.Body
	// FromJD and ToJD are rounded down to 0h UT; both ends are included.
	FromJD, ToJD float64
	// Workers bounds concurrent bodies. Zero means one per body.
	Workers int
	// Progress, if set, is called after each body with the rows written.
	Progress func(body ephemeris.Body, rows int)
}

// Seed fills store with daily tropical rows computed by src and returns the
// number of rows written. Each body is computed and written as one batch.
func Seed(ctx context.Context, store Store, src ephemeris.Provider, opts SeedOptions) (int, error) {
	from, to := DayOf(opts.FromJD), DayOf(opts.ToJD)
	if to < from {
		return 0, fmt.Errorf("table: seed range ends (%.1f) before it starts (%.1f)", to, from)
	}

	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}

	var written atomic.Int64
	for _, body := range opts.Bodies {
		g.Go(func() error {
			rows := make([]Row, 0, int(to-from)+1)
			for jd := from; jd <= to; jd++ {
				c, err := src.Position(ctx, jd, body, false)
				if err != nil {
					return fmt.Errorf("table: seed %s at %.1f: %w", body, jd, err)
				}
				rows = append(rows, Row{
					Body:      body.String(),
					JD:        jd,
					Longitude: c.Longitude,
					Latitude:  c.Latitude,
					Speed:     c.Speed,
				})
			}
			if err := store.Upsert(ctx, rows); err != nil {
				return err
			}
			written.Add(int64(len(rows)))
			if opts.Progress != nil {
				opts.Progress(body, len(rows))
			}
			return nil
		})
	}
	err := g.Wait()
	return int(written.Load()), err
}
