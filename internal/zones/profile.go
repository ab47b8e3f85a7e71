package zones

import (
	"errors"
	"fmt"
)

// DefaultScheme is the scheme applied when no override selects another one.
const DefaultScheme = "garmin"

// Band is one labeled slice of a percent-of-max-HR partition.
type Band struct {
	Label  string  `json:"label"`
	MinPct float64 `json:"min_pct"`
	MaxPct float64 `json:"max_pct"`
}

// Profile is a named HR zone scheme. A well-formed profile's bands are
// strictly increasing, contiguous and jointly cover 0-100% of max HR.
type Profile struct {
	Name  string `json:"name"`
	Bands []Band `json:"bands"`
}

// Validate checks the exhaustiveness invariant: bands start at 0%, end at
// 100%, and each band begins exactly where the previous one ended.
func (p Profile) Validate() error {
	if len(p.Bands) == 0 {
		return errors.New("profile has no bands")
	}
	if p.Bands[0].MinPct != 0 {
		return fmt.Errorf("first band %q starts at %.1f%%, want 0%%", p.Bands[0].Label, p.Bands[0].MinPct)
	}

	prev := 0.0
	for i, b := range p.Bands {
		if b.MaxPct <= b.MinPct {
			return fmt.Errorf("band %d (%q) is empty or inverted: %.1f%%-%.1f%%", i+1, b.Label, b.MinPct, b.MaxPct)
		}
		if b.MinPct != prev {
			return fmt.Errorf("band %d (%q) starts at %.1f%%, previous band ended at %.1f%%", i+1, b.Label, b.MinPct, prev)
		}
		prev = b.MaxPct
	}

	if prev != 100 {
		return fmt.Errorf("last band %q ends at %.1f%%, want 100%%", p.Bands[len(p.Bands)-1].Label, prev)
	}
	return nil
}

// builtinSchemes returns the compiled-in schemes. These are validated on
// resolver construction.
func builtinSchemes() map[string]Profile {
	return map[string]Profile{
		"garmin": {
			Name: "garmin",
			Bands: []Band{
				{Label: "Warm Up", MinPct: 0, MaxPct: 60},
				{Label: "Easy", MinPct: 60, MaxPct: 70},
				{Label: "Aerobic", MinPct: 70, MaxPct: 80},
				{Label: "Threshold", MinPct: 80, MaxPct: 90},
				{Label: "Maximum", MinPct: 90, MaxPct: 100},
			},
		},
		"threezone": {
			Name: "threezone",
			Bands: []Band{
				{Label: "Low", MinPct: 0, MaxPct: 75},
				{Label: "Moderate", MinPct: 75, MaxPct: 85},
				{Label: "High", MinPct: 85, MaxPct: 100},
			},
		},
	}
}
