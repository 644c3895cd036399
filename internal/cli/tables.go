package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/sidereal/pkg/chart"
)

// grid is the header and cells of one table, shared by the printed output
// and the browser.
type grid struct {
	headers []string
	rows    [][]string
}

// render draws g in the CLI's style. highlight, if not negative, marks one
// data row.
func (g grid) render(highlight int) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(g.headers...).
		Rows(g.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader.Padding(0, 1)
			case row == highlight:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true).Padding(0, 1)
			case col == 0:
				return StyleHighlight.Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		}).
		Render()
}

// window returns the rows [from, to) of g.
func (g grid) window(from, to int) grid {
	if to > len(g.rows) {
		to = len(g.rows)
	}
	if from > to {
		from = to
	}
	return grid{headers: g.headers, rows: g.rows[from:to]}
}

// positionsGrid has one row per body, with its house when houses is set.
func positionsGrid(positions []chart.BodyPosition, houses *chart.Houses) grid {
	g := grid{headers: []string{"Body", "Sign", "Degree", "Nakshatra", "Pada", "Navamsa", "Speed"}}
	if houses != nil {
		g.headers = append(g.headers, "House")
	}
	for _, p := range positions {
		speed := fmt.Sprintf("%+.3f", p.Speed)
		if p.Retrograde {
			speed += " " + iconRetro
		}
		row := []string{
			p.Body.String(),
			p.Sign.String(),
			formatDMS(p.SignDegree),
			p.Nakshatra.Name,
			strconv.Itoa(p.Nakshatra.Pada),
			p.Navamsa.String(),
			speed,
		}
		if houses != nil {
			row = append(row, strconv.Itoa(houses.HouseOf(p.Longitude)))
		}
		g.rows = append(g.rows, row)
	}
	return g
}

// housesGrid has the twelve cusps in house order.
func housesGrid(h *chart.Houses) grid {
	g := grid{headers: []string{"House", "Sign", "Degree", "Longitude"}}
	for _, c := range h.Cusps {
		g.rows = append(g.rows, []string{
			strconv.Itoa(c.House),
			c.Sign.String(),
			formatDMS(c.Longitude - c.Sign.Start()),
			fmt.Sprintf("%.4f", c.Longitude),
		})
	}
	return g
}

// aspectsGrid has the aspects in detection order.
func aspectsGrid(aspects []chart.Aspect) grid {
	g := grid{headers: []string{"Source", "Target", "Type", "Aspect", "Orb", "Mutual"}}
	for _, a := range aspects {
		mutual := ""
		if a.Mutual {
			mutual = iconSuccess
		}
		g.rows = append(g.rows, []string{
			a.Source.String(),
			a.Target.String(),
			string(a.Kind),
			a.Name,
			fmt.Sprintf("%.2f°", a.Orb),
			mutual,
		})
	}
	return g
}

// dashasGrid has one row per period.
func dashasGrid(d *chart.Dashas) grid {
	g := grid{headers: []string{"Lord", "Start", "End", "Years"}}
	for _, p := range d.Periods {
		g.rows = append(g.rows, []string{
			p.Body.String(),
			p.Start.Format(time.DateOnly),
			p.End.Format(time.DateOnly),
			fmt.Sprintf("%.2f", p.Years),
		})
	}
	return g
}

// currentPeriod returns the index of the period running at now, or -1.
func currentPeriod(d *chart.Dashas, now time.Time) int {
	for i, p := range d.Periods {
		if !now.Before(p.Start) && now.Before(p.End) {
			return i
		}
	}
	return -1
}

func positionsTable(positions []chart.BodyPosition, houses *chart.Houses) string {
	return positionsGrid(positions, houses).render(-1)
}

func housesTable(h *chart.Houses) string { return housesGrid(h).render(-1) }

func aspectsTable(aspects []chart.Aspect) string { return aspectsGrid(aspects).render(-1) }

// dashasTable highlights the period running at now.
func dashasTable(d *chart.Dashas, now time.Time) string {
	return dashasGrid(d).render(currentPeriod(d, now))
}
