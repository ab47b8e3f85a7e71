package service

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/stian-overasen/connectlog/internal/cache"
	"github.com/stian-overasen/connectlog/internal/zones"
)

// DailySummary is one aggregated record per calendar date. Pointer fields
// distinguish "no data" from zero so a missing metric never produces a false
// readiness signal.
type DailySummary struct {
	Date            string `json:"date"`
	RestingHR       *int   `json:"resting_hr"`
	MaxHR           *int   `json:"max_hr"`
	HRVOvernightAvg *int   `json:"hrv_overnight_avg"`
	BodyBatteryMin  *int   `json:"body_battery_min"`
	BodyBatteryMax  *int   `json:"body_battery_max"`
	Steps           *int   `json:"steps"`
	SleepSeconds    *int   `json:"sleep_duration_seconds"`
	SleepDuration   string `json:"sleep_duration_human,omitempty"`
	SleepScore      *int   `json:"sleep_score"`
	NumActivities   int    `json:"num_activities"`
}

// ZoneTime is the time spent in one labeled heart-rate zone.
type ZoneTime struct {
	Label       string  `json:"label"`
	Zone        int     `json:"zone_number"`
	TimeSeconds float64 `json:"time_seconds"`
}

// ActivityRecord is one recorded exercise session with its zone distribution
// labeled by the resolved scheme.
type ActivityRecord struct {
	ActivityID        int64      `json:"activity_id"`
	Date              string     `json:"date"`
	ActivityType      string     `json:"activity_type"`
	Duration          float64    `json:"duration"` // seconds
	Distance          float64    `json:"distance"` // meters
	HRZones           []ZoneTime `json:"hr_zones"`
	Device            string     `json:"device"`
	DeviceMaxHR       int        `json:"device_max_hr"`
	BodyBatteryImpact *int       `json:"body_battery_impact"`
}

// AggregateDaily folds the raw daily payload and the date's activities into
// one summary per calendar date, ascending. A date with no data in either
// source is omitted; there are no synthetic zero-filled rows.
func AggregateDaily(p *cache.Payload, activities []ActivityRecord) ([]DailySummary, error) {
	counts := make(map[string]int)
	for _, a := range activities {
		counts[a.Date]++
	}

	byDate := make(map[string]*DailySummary)
	for _, raw := range p.Results {
		var day RawDay
		if err := json.Unmarshal(raw, &day); err != nil {
			return nil, fmt.Errorf("decoding raw day: %w", err)
		}
		if s := summarize(day); s != nil {
			byDate[s.Date] = s
		}
	}

	for date, n := range counts {
		s, ok := byDate[date]
		if !ok {
			s = &DailySummary{Date: date}
			byDate[date] = s
		}
		s.NumActivities = n
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	summaries := make([]DailySummary, 0, len(dates))
	for _, date := range dates {
		summaries = append(summaries, *byDate[date])
	}
	return summaries, nil
}

// summarize copies whatever the raw day holds into a summary; fields stay
// nil when the source has no data. Returns nil when the whole day is empty.
func summarize(day RawDay) *DailySummary {
	s := &DailySummary{Date: day.Date}
	any := false

	if day.Stats != nil {
		s.Steps = day.Stats.TotalSteps
		s.RestingHR = day.Stats.RestingHeartRate
		s.MaxHR = day.Stats.MaxHeartRate
		any = any || s.Steps != nil || s.RestingHR != nil || s.MaxHR != nil
	}

	if avg := day.HRV.LastNightAvg(); avg != nil {
		s.HRVOvernightAvg = avg
		any = true
	}

	var levels []int
	for _, entry := range day.BodyBattery {
		levels = append(levels, entry.Levels()...)
	}
	if len(levels) > 0 {
		lo, hi := levels[0], levels[0]
		for _, v := range levels[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		s.BodyBatteryMin = &lo
		s.BodyBatteryMax = &hi
		any = true
	}

	if sec := day.Sleep.Seconds(); sec != nil {
		s.SleepSeconds = sec
		s.SleepDuration = formatSleepDuration(*sec)
		any = true
	}
	if score := day.Sleep.Score(); score != nil {
		s.SleepScore = score
		any = true
	}

	if !any {
		return nil
	}
	return s
}

// formatSleepDuration renders seconds as "7h 05m".
func formatSleepDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}

// BuildActivityRecords converts the raw activity payload into labeled
// records. Zone labels come from the profile the resolver picks for each
// activity's date and device; the device max HR prefers an override, then
// the value the detail fetch reported.
func BuildActivityRecords(p *cache.Payload, resolver *zones.Resolver) ([]ActivityRecord, error) {
	var records []ActivityRecord
	for _, raw := range p.Results {
		var ra RawActivity
		if err := json.Unmarshal(raw, &ra); err != nil {
			return nil, fmt.Errorf("decoding raw activity: %w", err)
		}

		rec := ActivityRecord{
			ActivityID:        ra.Activity.ActivityID,
			Date:              ra.Activity.Date(),
			ActivityType:      ra.Activity.ActivityType.TypeKey,
			Duration:          ra.Activity.Duration,
			Distance:          ra.Activity.Distance,
			Device:            ra.Detail.DeviceName(),
			BodyBatteryImpact: ra.Activity.DifferenceBodyBattery,
		}

		profile, maxHR := resolver.Resolve(rec.Date, rec.Device)
		if maxHR == 0 {
			maxHR = ra.Detail.DeviceMaxHR()
		}
		rec.DeviceMaxHR = maxHR

		for zone := 1; zone <= 5; zone++ {
			t := ra.Activity.TimeInZone(zone)
			if t == nil {
				continue
			}
			zt := ZoneTime{Zone: zone, TimeSeconds: *t}
			if zone <= len(profile.Bands) {
				zt.Label = profile.Bands[zone-1].Label
			}
			rec.HRZones = append(rec.HRZones, zt)
		}

		records = append(records, rec)
	}
	return records, nil
}
