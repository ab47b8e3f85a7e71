package zones

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
)

// Override pins a device's max heart rate and/or zone scheme from an
// effective date onward. An override with an empty device applies to every
// device.
type Override struct {
	EffectiveDate string `json:"effective_date" validate:"required,datetime=2006-01-02"`
	Device        string `json:"device,omitempty"`
	MaxHR         int    `json:"max_hr,omitempty" validate:"omitempty,gte=100,lte=250"`
	Scheme        string `json:"scheme,omitempty"`
}

// Resolver answers which zone scheme and max heart rate apply to a given
// date and device. Overrides are loaded once and immutable afterward; a
// reload is a process restart.
type Resolver struct {
	logger    *slog.Logger
	schemes   map[string]Profile
	overrides []Override // sorted ascending by effective date
}

// NewResolver creates a resolver with the built-in schemes and no overrides.
func NewResolver(logger *slog.Logger) *Resolver {
	r := &Resolver{
		logger:  logger,
		schemes: make(map[string]Profile),
	}
	for name, p := range builtinSchemes() {
		if err := p.Validate(); err != nil {
			// Built-in schemes are compiled in; a violation is a programming error.
			panic(fmt.Sprintf("built-in scheme %s: %v", name, err))
		}
		r.schemes[name] = p
	}
	return r
}

// Register adds a custom scheme. A profile violating the exhaustiveness
// invariant is rejected.
func (r *Resolver) Register(p Profile) error {
	if err := p.Validate(); err != nil {
		r.logger.Warn("rejecting zone profile", "scheme", p.Name, "reason", err)
		return fmt.Errorf("invalid zone profile %q: %w", p.Name, err)
	}
	r.schemes[p.Name] = p
	return nil
}

// LoadOverrides reads the override file at path. A missing, unreadable or
// malformed file must never block data retrieval: any problem is logged and
// the resolver keeps its defaults. Individually invalid entries are dropped,
// valid ones are kept.
func (r *Resolver) LoadOverrides(path string) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		r.logger.Debug("no override file, using defaults", "path", path)
		return
	}
	if err != nil {
		r.logger.Warn("override file unreadable, using defaults", "path", path, "error", err)
		return
	}

	var entries []Override
	if err := json.Unmarshal(data, &entries); err != nil {
		r.logger.Warn("override file malformed, using defaults", "path", path, "error", err)
		return
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	var kept []Override
	for i, o := range entries {
		if err := validate.Struct(o); err != nil {
			r.logger.Warn("dropping invalid override entry", "path", path, "entry", i, "error", err)
			continue
		}
		if o.Scheme != "" {
			if _, ok := r.schemes[o.Scheme]; !ok {
				r.logger.Warn("dropping override with unknown scheme", "path", path, "entry", i, "scheme", o.Scheme)
				continue
			}
		}
		kept = append(kept, o)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].EffectiveDate < kept[j].EffectiveDate
	})
	r.overrides = kept

	if len(kept) > 0 {
		r.logger.Info("loaded device overrides", "path", path, "count", len(kept))
	}
}

// Overrides returns the loaded override entries, ascending by date.
func (r *Resolver) Overrides() []Override {
	return r.overrides
}

// Resolve returns the zone profile and overridden max heart rate effective
// on the given date for the given device. Every matching override with an
// effective date at or before the query date is applied in order, so the
// most recent one wins. A returned max HR of 0 means no override applies and
// the caller should use the value reported by the remote service.
func (r *Resolver) Resolve(date, device string) (Profile, int) {
	profile := r.schemes[DefaultScheme]
	maxHR := 0

	for _, o := range r.overrides {
		if o.EffectiveDate > date {
			break
		}
		if o.Device != "" && o.Device != device {
			continue
		}
		if o.MaxHR > 0 {
			maxHR = o.MaxHR
		}
		if o.Scheme != "" {
			profile = r.schemes[o.Scheme]
		}
	}

	return profile, maxHR
}
