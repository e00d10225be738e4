package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ratio is an edit/frame rate expressed as the "num den" pair DCP XML
// uses (e.g. "24 1", "30000 1001"), kept as both components and the
// reduced float so checks can do exact and tolerant comparisons.
type Ratio struct {
	Num int64
	Den int64
}

// ParseRatio parses a DCP rational string: either "num den" (the CPL/PKL
// XML convention, whitespace separated) or "num/den".
func ParseRatio(s string) (Ratio, error) {
	s = strings.TrimSpace(s)
	var sep string
	switch {
	case strings.Contains(s, " "):
		sep = " "
	case strings.Contains(s, "/"):
		sep = "/"
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Ratio{}, fmt.Errorf("invalid ratio %q", s)
		}
		return Ratio{Num: int64(f * 1000), Den: 1000}, nil
	}
	parts := strings.SplitN(s, sep, 2)
	if len(parts) != 2 {
		return Ratio{}, fmt.Errorf("invalid ratio %q", s)
	}
	num, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return Ratio{}, fmt.Errorf("invalid ratio numerator %q", s)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil || den == 0 {
		return Ratio{}, fmt.Errorf("invalid ratio denominator %q", s)
	}
	return Ratio{Num: num, Den: den}, nil
}

// Float returns the rational value as a float64.
func (r Ratio) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// String renders the "num den" DCP XML convention.
func (r Ratio) String() string {
	return fmt.Sprintf("%d %d", r.Num, r.Den)
}

// Equal compares two ratios by reduced float value within tolerance,
// matching the ±0.05 tolerance the CPL checks (§4.6) use for
// MXF/CPL coherence comparisons.
func (r Ratio) Equal(other Ratio, tolerance float64) bool {
	return math.Abs(r.Float()-other.Float()) <= tolerance
}

// FramesToTimecode converts a frame count at the given edit rate into an
// "HH:MM:SS:FF" timecode string, used for the CPL TotalDuration field in
// the human-readable report.
func FramesToTimecode(frames int64, rate Ratio) string {
	fps := rate.Float()
	if fps <= 0 {
		return "00:00:00:00"
	}
	totalSeconds := float64(frames) / fps
	hh := int64(totalSeconds) / 3600
	mm := (int64(totalSeconds) % 3600) / 60
	ss := int64(totalSeconds) % 60
	ff := frames - int64(totalSeconds)*int64(math.Round(fps))
	if ff < 0 {
		ff = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hh, mm, ss, ff)
}
