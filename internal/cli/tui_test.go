package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sidereal/pkg/chart"
	"github.com/matzehuels/sidereal/pkg/ephemeris"
	"github.com/matzehuels/sidereal/pkg/zodiac"
)

func sampleChart() *chart.Chart {
	houses := &chart.Houses{System: "E", Ascendant: 155, AscendantSign: zodiac.Virgo}
	for i := range 12 {
		lon := zodiac.Normalize(150 + float64(i)*30)
		houses.Cusps = append(houses.Cusps, chart.HouseCusp{House: i + 1, Longitude: lon, Sign: zodiac.SignOf(lon)})
	}
	positions := []chart.BodyPosition{
		chart.Place(ephemeris.Sun, 60.2, 0, 0.95),
		chart.Place(ephemeris.Moon, 318.4, -4.1, 13.2),
		chart.Place(ephemeris.Saturn, 246.9, 0.1, -0.05),
	}
	start := time.Date(1990, 6, 15, 6, 30, 0, 0, time.UTC)
	return &chart.Chart{
		Birth:      chart.Birth{Date: "1990-06-15", Time: "12:00", Latitude: 19.076, Longitude: 72.8777},
		Moment:     chart.Moment{Zone: "Asia/Kolkata"},
		Ayanamsa:   23.72,
		Positions:  positions,
		Houses:     houses,
		Aspects:    chart.DetectAspects(positions, 8),
		Dashas:     chart.Vimshottari(318.4, start, 100),
		Placements: chart.Placements(&chart.Positions{Bodies: positions}, houses),
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m ChartModel, keys ...string) ChartModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(ChartModel)
	}
	return m
}

func TestChartModelNavigation(t *testing.T) {
	m := NewChartModel(sampleChart(), time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))

	m = press(m, "down", "down", "down")
	if m.Cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped to last body)", m.Cursor)
	}
	if v := m.View(); !strings.Contains(v, "Saturn in Sagittarius") {
		t.Errorf("detail of selected body missing:\n%s", v)
	}

	m = press(m, "right")
	if m.Tab != tabHouses || m.Cursor != 0 {
		t.Errorf("tab %d cursor %d after right", m.Tab, m.Cursor)
	}
	if v := m.View(); !strings.Contains(v, "House 1") {
		t.Errorf("house detail missing:\n%s", v)
	}

	m = press(m, "left", "left")
	if m.Tab != tabDashas {
		t.Errorf("left from positions should wrap to dashas, got tab %d", m.Tab)
	}
	if v := m.View(); !strings.Contains(v, "balance") {
		t.Errorf("dasha detail missing:\n%s", v)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestChartModelScrolls(t *testing.T) {
	m := NewChartModel(sampleChart(), time.Now())
	m = press(m, "left")
	m.Height = 3
	for range 5 {
		m = press(m, "j")
	}
	if m.Cursor != 5 || m.Offset != 3 {
		t.Errorf("cursor %d offset %d, want 5 and 3", m.Cursor, m.Offset)
	}
	m = press(m, "k", "k", "k")
	if m.Offset != 2 {
		t.Errorf("offset %d after scrolling up, want 2", m.Offset)
	}
}

func TestChartModelWindowSize(t *testing.T) {
	m := NewChartModel(sampleChart(), time.Now())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if h := next.(ChartModel).Height; h != 5 {
		t.Errorf("height = %d, want minimum 5", h)
	}
}

func TestFormatDMS(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "0°00'"},
		{15.5, "15°30'"},
		{29.99, "29°59'"},
	}
	for _, tt := range tests {
		if got := formatDMS(tt.deg); got != tt.want {
			t.Errorf("formatDMS(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}
