package ephemeris

import (
	"fmt"
	"strings"
)

// Body identifies a celestial body the engine can place in a chart.
type Body int

// Bodies in chart resolution order.
const (
	Sun Body = iota
	Moon
	Mars
	Mercury
	Jupiter
	Venus
	Saturn
	Rahu // mean north lunar node
	Ketu // south lunar node, derived from Rahu
	Uranus
	Neptune
	Pluto
)

// BodyCount is the number of defined bodies.
const BodyCount = 12

// AllBodies lists every body in resolution order.
var AllBodies = []Body{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu, Ketu, Uranus, Neptune, Pluto}

// DefaultBodies is the body set of a standard chart: the seven visible
// planets, the two nodes, Uranus and Neptune.
var DefaultBodies = []Body{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn, Rahu, Ketu, Uranus, Neptune}

// Valid reports whether b is a defined body.
func (b Body) Valid() bool { return b >= Sun && b <= Pluto }

// IsNode reports whether b is one of the lunar nodes.
func (b Body) IsNode() bool { return b == Rahu || b == Ketu }

// String returns the capitalized body name.
func (b Body) String() string {
	switch b {
	case Sun:
		return "Sun"
	case Moon:
		return "Moon"
	case Mars:
		return "Mars"
	case Mercury:
		return "Mercury"
	case Jupiter:
		return "Jupiter"
	case Venus:
		return "Venus"
	case Saturn:
		return "Saturn"
	case Rahu:
		return "Rahu"
	case Ketu:
		return "Ketu"
	case Uranus:
		return "Uranus"
	case Neptune:
		return "Neptune"
	case Pluto:
		return "Pluto"
	default:
		return fmt.Sprintf("Body(%d)", int(b))
	}
}

// MarshalText encodes the body as its lowercase name.
func (b Body) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBody, int(b))
	}
	return []byte(strings.ToLower(b.String())), nil
}

// UnmarshalText decodes a body name, case-insensitively.
func (b *Body) UnmarshalText(text []byte) error {
	v, err := ParseBody(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ParseBody parses a body name. The node aliases "north_node" and
// "south_node" are accepted for Rahu and Ketu.
func ParseBody(name string) (Body, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	switch s {
	case "north_node", "northnode", "true_node", "mean_node":
		return Rahu, nil
	case "south_node", "southnode":
		return Ketu, nil
	}
	for _, b := range AllBodies {
		if strings.ToLower(b.String()) == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedBody, name)
}

// ParseBodies parses a list of body names and appends Ketu whenever Rahu is
// present without it, since the south node is always derived alongside.
func ParseBodies(names []string) ([]Body, error) {
	out := make([]Body, 0, len(names)+1)
	seen := make(map[Body]bool, len(names))
	for _, n := range names {
		b, err := ParseBody(n)
		if err != nil {
			return nil, err
		}
		if seen[b] {
			continue
		}
		seen[b] = true
		out = append(out, b)
	}
	if seen[Ketu] && !seen[Rahu] {
		return nil, fmt.Errorf("%w: ketu requires rahu", ErrUnsupportedBody)
	}
	if seen[Rahu] && !seen[Ketu] {
		out = append(out, Ketu)
	}
	return SortBodies(out), nil
}

// SortBodies orders bodies by resolution order, in place, and returns them.
func SortBodies(bodies []Body) []Body {
	for i := 1; i < len(bodies); i++ {
		for j := i; j > 0 && bodies[j] < bodies[j-1]; j-- {
			bodies[j], bodies[j-1] = bodies[j-1], bodies[j]
		}
	}
	return bodies
}
