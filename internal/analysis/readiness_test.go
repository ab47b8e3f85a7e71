package analysis

import "testing"

func intPtr(v int) *int { return &v }

func TestEvaluateOverall(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		energy  *int
		want    Band
		metrics int // expected number of evaluated metrics
	}{
		{
			name: "all green",
			input: Input{
				HRV:            intPtr(60),
				BodyBatteryMax: intPtr(90),
				SleepScore:     intPtr(85),
				RestingHR:      intPtr(50),
			},
			want:    BandGreen,
			metrics: 4,
		},
		{
			name: "two reds dominate",
			input: Input{
				HRV:            intPtr(30), // red
				BodyBatteryMax: intPtr(40), // red
				SleepScore:     intPtr(85), // green
				RestingHR:      intPtr(50), // green
			},
			want:    BandRed,
			metrics: 4,
		},
		{
			name: "single yellow with no reds",
			input: Input{
				HRV:            intPtr(40), // yellow
				BodyBatteryMax: intPtr(90), // green
				SleepScore:     intPtr(85), // green
				RestingHR:      intPtr(50), // green
			},
			want:    BandYellow,
			metrics: 4,
		},
		{
			name: "unset metric excluded from the vote",
			input: Input{
				HRV:            intPtr(60),
				BodyBatteryMax: intPtr(90),
				SleepScore:     intPtr(85),
				RestingHR:      nil,
			},
			want:    BandGreen,
			metrics: 3,
		},
		{
			name:    "no data at all",
			input:   Input{},
			want:    BandUnknown,
			metrics: 0,
		},
		{
			name: "supplied energy joins the vote",
			input: Input{
				HRV:            intPtr(30), // red
				BodyBatteryMax: intPtr(90),
				SleepScore:     intPtr(85),
				RestingHR:      intPtr(50),
			},
			energy:  intPtr(2), // red, second red tips the banner
			want:    BandRed,
			metrics: 5,
		},
		{
			name: "inverted resting hr",
			input: Input{
				RestingHR: intPtr(70), // red, but a single red does not flip the banner
			},
			want:    BandGreen,
			metrics: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(tt.input, tt.energy)
			if v.Overall != tt.want {
				t.Errorf("Overall = %s, want %s", v.Overall, tt.want)
			}
			if len(v.PerMetric) != tt.metrics {
				t.Errorf("evaluated %d metrics, want %d", len(v.PerMetric), tt.metrics)
			}
		})
	}
}

func TestEvaluateNeverDefaultsMissingMetrics(t *testing.T) {
	v := Evaluate(Input{
		HRV:            intPtr(60),
		BodyBatteryMax: intPtr(90),
		SleepScore:     intPtr(85),
	}, nil)

	if _, ok := v.PerMetric[MetricRestingHR]; ok {
		t.Error("resting_hr present in verdict despite having no data")
	}
	if _, ok := v.PerMetric[MetricEnergy]; ok {
		t.Error("energy present in verdict despite not being supplied")
	}
}

func TestMetricBands(t *testing.T) {
	tests := []struct {
		metric string
		value  float64
		want   Band
	}{
		{MetricHRV, 35, BandRed},
		{MetricHRV, 36, BandYellow},
		{MetricHRV, 50, BandYellow},
		{MetricHRV, 51, BandGreen},

		{MetricBodyBattery, 50, BandRed},
		{MetricBodyBattery, 75, BandYellow},
		{MetricBodyBattery, 76, BandGreen},

		{MetricSleepScore, 60, BandRed},
		{MetricSleepScore, 70, BandYellow},
		{MetricSleepScore, 80, BandGreen},

		// Resting HR is inverted: lower is better.
		{MetricRestingHR, 54, BandGreen},
		{MetricRestingHR, 55, BandYellow},
		{MetricRestingHR, 64, BandYellow},
		{MetricRestingHR, 65, BandRed},

		{MetricEnergy, 4, BandRed},
		{MetricEnergy, 5, BandYellow},
		{MetricEnergy, 7, BandYellow},
		{MetricEnergy, 8, BandGreen},
	}

	for _, tt := range tests {
		if got := classify(tt.metric, tt.value); got != tt.want {
			t.Errorf("classify(%s, %v) = %s, want %s", tt.metric, tt.value, got, tt.want)
		}
	}
}

func TestEnergyGuidance(t *testing.T) {
	g := EnergyGuidance()
	if len(g) != 10 {
		t.Fatalf("guidance covers %d values, want 10", len(g))
	}

	for v, want := range map[int]Band{1: BandRed, 4: BandRed, 5: BandYellow, 7: BandYellow, 8: BandGreen, 10: BandGreen} {
		if g[v] != want {
			t.Errorf("guidance[%d] = %s, want %s", v, g[v], want)
		}
	}
}

func TestVerdictAlwaysCarriesGuidance(t *testing.T) {
	v := Evaluate(Input{HRV: intPtr(60)}, nil)
	if len(v.EnergyGuidance) != 10 {
		t.Errorf("guidance covers %d values, want 10", len(v.EnergyGuidance))
	}
}
