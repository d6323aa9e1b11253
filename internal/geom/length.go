package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the unit of a Length.
type Unit int

const (
	UnitPixels Unit = iota
	UnitPercent
	UnitAuto
)

// Length is a window dimension: absolute pixels, a percentage of the
// viewport, or auto (fit to content).
type Length struct {
	Value float64
	Unit  Unit
}

// Px returns an absolute length.
func Px(v float64) Length { return Length{Value: v, Unit: UnitPixels} }

// Percent returns a viewport-relative length.
func Percent(v float64) Length { return Length{Value: v, Unit: UnitPercent} }

// Auto returns a content-sized length.
func Auto() Length { return Length{Unit: UnitAuto} }

// IsAuto reports whether l sizes to content.
func (l Length) IsAuto() bool { return l.Unit == UnitAuto }

// Resolve converts l to pixels against total. Auto lengths resolve to
// total; callers that care check IsAuto first.
func (l Length) Resolve(total float64) float64 {
	switch l.Unit {
	case UnitPercent:
		return total * l.Value / 100
	case UnitAuto:
		return total
	default:
		return l.Value
	}
}

func (l Length) String() string {
	switch l.Unit {
	case UnitPercent:
		return strconv.FormatFloat(l.Value, 'f', -1, 64) + "%"
	case UnitAuto:
		return "auto"
	default:
		return strconv.FormatFloat(l.Value, 'f', -1, 64) + "px"
	}
}

// ParseLength parses "520px", "520", "40%" or "auto".
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Length{}, fmt.Errorf("empty length")
	}
	if s == "auto" {
		return Auto(), nil
	}

	unit := UnitPixels
	num := s
	switch {
	case strings.HasSuffix(s, "%"):
		unit = UnitPercent
		num = strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "px"):
		num = strings.TrimSuffix(s, "px")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q", s)
	}
	if v < 0 {
		return Length{}, fmt.Errorf("negative length %q", s)
	}
	return Length{Value: v, Unit: unit}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (l Length) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Length) UnmarshalText(text []byte) error {
	parsed, err := ParseLength(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
