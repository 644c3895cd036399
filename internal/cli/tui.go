package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sidereal/pkg/chart"
	sidio "github.com/matzehuels/sidereal/pkg/io"
)

// Browser styles
var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorGray)
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// Browser tabs, in display order.
const (
	tabPositions = iota
	tabHouses
	tabAspects
	tabDashas
	tabCount
)

var tabNames = [tabCount]string{"Positions", "Houses", "Aspects", "Dashas"}

// =============================================================================
// ChartModel - Interactive chart browser
// =============================================================================

// ChartModel is the bubbletea model for browsing a chart. Left and right
// switch tabs; up and down move through the rows of the current tab.
type ChartModel struct {
	Chart  *chart.Chart
	Tab    int
	Cursor int
	Offset int
	Height int
	Now    time.Time

	grids [tabCount]grid
}

// NewChartModel creates a browser over c.
func NewChartModel(c *chart.Chart, now time.Time) ChartModel {
	m := ChartModel{Chart: c, Height: 12, Now: now}
	m.grids[tabPositions] = positionsGrid(c.Positions, c.Houses)
	if c.Houses != nil {
		m.grids[tabHouses] = housesGrid(c.Houses)
	}
	m.grids[tabAspects] = aspectsGrid(c.Aspects)
	if c.Dashas != nil {
		m.grids[tabDashas] = dashasGrid(c.Dashas)
		if i := currentPeriod(c.Dashas, now); i >= 0 {
			// Mark the running period.
			m.grids[tabDashas].rows[i][0] += " " + iconInfo
		}
	}
	return m
}

func (m ChartModel) Init() tea.Cmd {
	return nil
}

func (m ChartModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "tab":
			m = m.switchTab((m.Tab + 1) % tabCount)
		case "left", "h", "shift+tab":
			m = m.switchTab((m.Tab + tabCount - 1) % tabCount)
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.grids[m.Tab].rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ChartModel) switchTab(tab int) ChartModel {
	m.Tab = tab
	m.Cursor = 0
	m.Offset = 0
	return m
}

func (m ChartModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Chart %s %s", m.Chart.Birth.Date, m.Chart.Birth.Time)))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s · ayanamsa %s", m.Chart.Moment.Zone, formatDMS(m.Chart.Ayanamsa))))
	b.WriteString("\n")

	tabs := make([]string, tabCount)
	for i, name := range tabNames {
		if i == m.Tab {
			tabs[i] = tabActiveStyle.Render(name)
		} else {
			tabs[i] = tabInactiveStyle.Render(name)
		}
	}
	b.WriteString(strings.Join(tabs, "  "))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ tabs  ↑/↓ rows  q quit"))
	b.WriteString("\n\n")

	g := m.grids[m.Tab]
	if len(g.rows) == 0 {
		b.WriteString(listDimStyle.Render("  nothing to show"))
		return b.String()
	}
	b.WriteString(g.window(m.Offset, m.Offset+m.Height).render(m.Cursor - m.Offset))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(g.rows))))
	if detail := m.detail(); detail != "" {
		b.WriteString("\n\n")
		b.WriteString(detail)
	}
	return b.String()
}

// detail describes the selected row.
func (m ChartModel) detail() string {
	switch m.Tab {
	case tabPositions:
		if m.Cursor >= len(m.Chart.Positions) {
			return ""
		}
		p := m.Chart.Positions[m.Cursor]
		lines := []string{
			StyleHighlight.Render(fmt.Sprintf("%s in %s", p.Body, p.Sign)) + " " + listDimStyle.Render(p.Sign.Keywords()),
			StyleHighlight.Render(fmt.Sprintf("%s pada %d", p.Nakshatra.Name, p.Nakshatra.Pada)) + " " + listDimStyle.Render(p.Nakshatra.Keywords()),
		}
		for _, a := range m.Chart.AspectsOf(p.Body) {
			lines = append(lines, listDimStyle.Render(fmt.Sprintf("  %s %s %s (%.2f°)", a.Source, a.Name, a.Target, a.Orb)))
		}
		return strings.Join(lines, "\n")
	case tabHouses:
		if m.Chart.Houses == nil || m.Cursor >= len(m.Chart.Houses.Cusps) {
			return ""
		}
		cusp := m.Chart.Houses.Cusps[m.Cursor]
		var occupants []string
		for _, pl := range m.Chart.Placements {
			if pl.House == cusp.House {
				occupants = append(occupants, pl.Body.String())
			}
		}
		line := StyleHighlight.Render(fmt.Sprintf("House %d", cusp.House)) + " " + listDimStyle.Render(cusp.Sign.Keywords())
		if len(occupants) > 0 {
			line += "\n" + listDimStyle.Render("  "+strings.Join(occupants, ", "))
		}
		return line
	case tabDashas:
		if m.Chart.Dashas == nil {
			return ""
		}
		d := m.Chart.Dashas
		return listDimStyle.Render(fmt.Sprintf("Moon in %s, balance %.2f years", d.MoonNakshatra.Name, d.Balance))
	}
	return ""
}

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:     "browse",
		Short:   "Explore a saved chart interactively",
		Example: "  sidereal chart ... -o chart.json && sidereal browse --input chart.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := sidio.ImportJSON(input)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("loaded chart", "path", input, "provider", doc.Provider, "generated", doc.GeneratedAt)

			p := tea.NewProgram(NewChartModel(doc.Chart, time.Now()), tea.WithContext(cmd.Context()), tea.WithOutput(c.out))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "chart document written by 'sidereal chart -o'")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
