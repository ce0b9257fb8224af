package rating

import (
	"math"
	"strconv"
	"strings"
)

const (
	MinDisplay = 1
	MaxDisplay = 10

	// eloBase is the lowest ELO that still maps to display 1; each eloStep above it adds one point.
	eloBase = 700.0
	eloStep = 150.0
)

// EloToDisplay maps an ELO value onto the 1..10 display scale.
// The mapping is monotonic non-decreasing and clamps out-of-range input.
func EloToDisplay(elo float64) int {
	if math.IsNaN(elo) || elo < eloBase+eloStep {
		return MinDisplay
	}
	if elo >= eloBase+eloStep*(MaxDisplay-1) {
		return MaxDisplay
	}
	return clamp(int(math.Floor((elo-eloBase)/eloStep)) + 1)
}

var namedBands = map[string]int{
	"beginner":     2,
	"novice":       3,
	"intermediate": 5,
	"advanced":     7,
	"expert":       9,
	"pro":          10,
	"professional": 10,
}

// BandToDisplay converts a self-reported onboarding level into a display rating.
// It accepts a named band ("intermediate"), a number ("3.5") or a range ("3.0-3.5",
// lower bound wins). Unrecognised input maps to MinDisplay.
func BandToDisplay(band string) int {
	b := strings.ToLower(strings.TrimSpace(band))
	if b == "" {
		return MinDisplay
	}
	if v, ok := namedBands[b]; ok {
		return v
	}
	if i := strings.IndexAny(b, "-~"); i > 0 {
		b = strings.TrimSpace(b[:i])
	}
	b = strings.TrimSuffix(b, "+")
	f, err := strconv.ParseFloat(b, 64)
	if err != nil || math.IsNaN(f) {
		return MinDisplay
	}
	if f >= MaxDisplay {
		return MaxDisplay
	}
	if f <= MinDisplay {
		return MinDisplay
	}
	return clamp(int(math.Round(f)))
}

func clamp(v int) int {
	if v < MinDisplay {
		return MinDisplay
	}
	if v > MaxDisplay {
		return MaxDisplay
	}
	return v
}
