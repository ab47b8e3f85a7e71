package analysis

// Band is a tri-state readiness classification.
type Band string

const (
	BandGreen  Band = "green"
	BandYellow Band = "yellow"
	BandRed    Band = "red"

	// BandUnknown is returned as the overall banner when no metric has data.
	BandUnknown Band = "unknown"
)

// Metric names used in the readiness vote.
const (
	MetricHRV         = "hrv"
	MetricBodyBattery = "body_battery"
	MetricSleepScore  = "sleep_score"
	MetricRestingHR   = "resting_hr"
	MetricEnergy      = "energy"
)

// threshold holds the band boundaries for one metric. Higher-is-better
// metrics go green above Upper and red at or below Lower. Inverted metrics
// (resting HR) read the other way: green below Lower, red at or above Upper.
type threshold struct {
	Lower    float64
	Upper    float64
	Inverted bool
}

// The threshold table is the single source of band boundaries; classify is
// the only code that consults it.
var thresholds = map[string]threshold{
	MetricHRV:         {Lower: 35, Upper: 50},
	MetricBodyBattery: {Lower: 50, Upper: 75},
	MetricSleepScore:  {Lower: 60, Upper: 75},
	MetricRestingHR:   {Lower: 55, Upper: 65, Inverted: true},
	MetricEnergy:      {Lower: 4, Upper: 7},
}

func classify(metric string, value float64) Band {
	t, ok := thresholds[metric]
	if !ok {
		return BandUnknown
	}
	if t.Inverted {
		switch {
		case value < t.Lower:
			return BandGreen
		case value >= t.Upper:
			return BandRed
		default:
			return BandYellow
		}
	}
	switch {
	case value > t.Upper:
		return BandGreen
	case value <= t.Lower:
		return BandRed
	default:
		return BandYellow
	}
}

// Input carries the latest day's metrics. A nil field means no data for
// that metric; it is excluded from the vote, never defaulted.
type Input struct {
	HRV            *int
	BodyBatteryMax *int // start-of-day maximum, not the current level
	SleepScore     *int
	RestingHR      *int
}

// MetricVerdict is one metric's value and its band.
type MetricVerdict struct {
	Value float64 `json:"value"`
	Band  Band    `json:"band"`
}

// Verdict is the one-shot readiness classification. It is never persisted.
type Verdict struct {
	PerMetric      map[string]MetricVerdict `json:"per_metric"`
	Overall        Band                     `json:"overall_band"`
	EnergyGuidance map[int]Band             `json:"energy_guidance"`
}

// Evaluate classifies each available metric and fuses the bands into an
// overall banner: two or more reds dominate, otherwise any yellow with no
// red yields yellow, otherwise green. With no evaluable metric at all the
// banner is "unknown". Subjective energy joins the vote only when supplied;
// the guidance map shows what each energy value 1-10 would contribute.
func Evaluate(in Input, energy *int) Verdict {
	per := make(map[string]MetricVerdict)
	add := func(metric string, v *int) {
		if v == nil {
			return
		}
		val := float64(*v)
		per[metric] = MetricVerdict{Value: val, Band: classify(metric, val)}
	}

	add(MetricHRV, in.HRV)
	add(MetricBodyBattery, in.BodyBatteryMax)
	add(MetricSleepScore, in.SleepScore)
	add(MetricRestingHR, in.RestingHR)
	add(MetricEnergy, energy)

	return Verdict{
		PerMetric:      per,
		Overall:        overall(per),
		EnergyGuidance: EnergyGuidance(),
	}
}

func overall(per map[string]MetricVerdict) Band {
	if len(per) == 0 {
		return BandUnknown
	}

	var reds, yellows int
	for _, mv := range per {
		switch mv.Band {
		case BandRed:
			reds++
		case BandYellow:
			yellows++
		}
	}

	switch {
	case reds >= 2:
		return BandRed
	case yellows > 0 && reds == 0:
		return BandYellow
	default:
		return BandGreen
	}
}

// EnergyGuidance maps each subjective energy score 1-10 to the band it
// would contribute. Display guidance only; it is not part of the vote.
func EnergyGuidance() map[int]Band {
	g := make(map[int]Band, 10)
	for v := 1; v <= 10; v++ {
		g[v] = classify(MetricEnergy, float64(v))
	}
	return g
}
