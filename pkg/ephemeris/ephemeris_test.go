package ephemeris

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

func TestJulianDay(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want float64
	}{
		{"J2000", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 2451545.0},
		{"unix epoch", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 2440587.5},
		{"Meeus 7.a", time.Date(1957, 10, 4, 19, 26, 24, 0, time.UTC), 2436116.31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JulianDay(tt.t); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("JulianDay() = %.6f, want %.6f", got, tt.want)
			}
		})
	}
}

func TestJulianDayIgnoresZone(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	local := time.Date(1990, 6, 15, 12, 0, 0, 0, ist)
	if JulianDay(local) != JulianDay(local.UTC()) {
		t.Error("JulianDay should depend on the instant only")
	}
}

func TestTimeOf(t *testing.T) {
	want := time.Date(1990, 6, 15, 6, 30, 0, 0, time.UTC)
	if got := TimeOf(JulianDay(want)); !got.Equal(want) {
		t.Errorf("TimeOf(JulianDay(%v)) = %v", want, got)
	}
}

func TestParseBody(t *testing.T) {
	tests := []struct {
		in      string
		want    Body
		wantErr bool
	}{
		{"sun", Sun, false},
		{"Mars", Mars, false},
		{" RAHU ", Rahu, false},
		{"north_node", Rahu, false},
		{"south_node", Ketu, false},
		{"pluto", Pluto, false},
		{"chiron", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseBody(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBody(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnsupportedBody) {
			t.Errorf("ParseBody(%q) error = %v, want ErrUnsupportedBody", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseBody(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseBodies(t *testing.T) {
	got, err := ParseBodies([]string{"moon", "rahu", "sun", "moon"})
	if err != nil {
		t.Fatalf("ParseBodies: %v", err)
	}
	want := []Body{Sun, Moon, Rahu, Ketu}
	if len(got) != len(want) {
		t.Fatalf("ParseBodies = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ParseBodies = %v, want %v", got, want)
		}
	}

	if _, err := ParseBodies([]string{"ketu"}); err == nil {
		t.Error("ParseBodies should reject ketu without rahu")
	}
}

func TestBodyJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Body{"b": Ketu})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"b":"ketu"}` {
		t.Errorf("Marshal = %s", data)
	}

	var b Body
	if err := json.Unmarshal([]byte(`"Neptune"`), &b); err != nil || b != Neptune {
		t.Errorf("Unmarshal = %v, %v", b, err)
	}
}

func TestBodySets(t *testing.T) {
	if len(AllBodies) != BodyCount {
		t.Errorf("len(AllBodies) = %d, want %d", len(AllBodies), BodyCount)
	}
	if len(DefaultBodies) != 11 {
		t.Errorf("len(DefaultBodies) = %d, want 11", len(DefaultBodies))
	}
	for i, b := range AllBodies {
		if int(b) != i {
			t.Errorf("AllBodies[%d] = %v, not in resolution order", i, b)
		}
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeAnalytic, "table": ModeTable, "REMOTE": ModeRemote} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("swiss"); err == nil {
		t.Error("ParseMode should reject unknown modes")
	}
}

func TestFixed(t *testing.T) {
	boom := errors.New("boom")
	f := &Fixed{
		Bodies:        map[Body]Coordinates{Sun: {Longitude: 84.5, Speed: 0.95}},
		AyanamsaValue: 23.7,
		Houses:        EqualHouses(100),
		Systems:       "PW",
		Errs:          map[Body]error{Mars: boom},
	}
	ctx := context.Background()

	c, err := f.Position(ctx, J2000, Sun, false)
	if err != nil || c.Longitude != 84.5 {
		t.Errorf("Position(Sun) = %+v, %v", c, err)
	}
	if _, err := f.Position(ctx, J2000, Moon, false); !errors.Is(err, ErrUnsupportedBody) {
		t.Errorf("Position(Moon) error = %v, want ErrUnsupportedBody", err)
	}
	if _, err := f.Position(ctx, J2000, Mars, false); !errors.Is(err, boom) {
		t.Errorf("Position(Mars) error = %v, want boom", err)
	}
	if a, _ := f.Ayanamsa(ctx, J2000); a != 23.7 {
		t.Errorf("Ayanamsa = %v", a)
	}
	if _, err := f.HouseCusps(ctx, J2000, 0, 0, "K"); !errors.Is(err, ErrUnsupportedHouseSystem) {
		t.Errorf("HouseCusps(K) error = %v, want ErrUnsupportedHouseSystem", err)
	}
	h, err := f.HouseCusps(ctx, J2000, 0, 0, "P")
	if err != nil || h.Cusps[0] != 100 || h.Cusps[11] != 70 {
		t.Errorf("HouseCusps(P) = %+v, %v", h.Cusps, err)
	}
	if f.Calls() != 6 {
		t.Errorf("Calls() = %d, want 6", f.Calls())
	}
}
