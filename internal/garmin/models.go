package garmin

// DailyStats is the user summary for one calendar date.
// Connect reports nothing (null) for days the device never synced, so the
// numeric fields are pointers.
type DailyStats struct {
	CalendarDate     string `json:"calendarDate"`
	TotalSteps       *int   `json:"totalSteps"`
	RestingHeartRate *int   `json:"restingHeartRate"`
	MaxHeartRate     *int   `json:"maxHeartRate"`
}

// HRVData wraps the overnight HRV summary for one date.
type HRVData struct {
	HRVSummary *HRVSummary `json:"hrvSummary"`
}

// HRVSummary holds the overnight-averaged HRV reading.
type HRVSummary struct {
	LastNightAvg *int `json:"lastNightAvg"`
}

// LastNightAvg returns the overnight average, or nil when the summary is
// missing.
func (h *HRVData) LastNightAvg() *int {
	if h == nil || h.HRVSummary == nil {
		return nil
	}
	return h.HRVSummary.LastNightAvg
}

// BodyBatteryDay is one day's body battery report. Samples come back as
// heterogeneous arrays [timestamp, status, level, version]; the level is
// always the last element.
type BodyBatteryDay struct {
	Date                   string  `json:"date"`
	Charged                *int    `json:"charged"`
	Drained                *int    `json:"drained"`
	BodyBatteryValuesArray [][]any `json:"bodyBatteryValuesArray"`
}

// Levels extracts the 0-100 level from each sample tuple, skipping tuples
// with a non-numeric tail.
func (d BodyBatteryDay) Levels() []int {
	var levels []int
	for _, tuple := range d.BodyBatteryValuesArray {
		if len(tuple) == 0 {
			continue
		}
		if v, ok := tuple[len(tuple)-1].(float64); ok {
			levels = append(levels, int(v))
		}
	}
	return levels
}

// SleepData wraps the daily sleep DTO.
type SleepData struct {
	DailySleepDTO *DailySleepDTO `json:"dailySleepDTO"`
}

// DailySleepDTO holds the measured sleep window and its scores.
type DailySleepDTO struct {
	SleepTimeSeconds *int         `json:"sleepTimeSeconds"`
	SleepScores      *SleepScores `json:"sleepScores"`
}

// SleepScores holds the per-night score breakdown; only the overall score is
// consumed here.
type SleepScores struct {
	Overall *ScoreValue `json:"overall"`
}

// ScoreValue is a single 0-100 score.
type ScoreValue struct {
	Value *int `json:"value"`
}

// Seconds returns the measured sleep duration, or nil when absent.
func (s *SleepData) Seconds() *int {
	if s == nil || s.DailySleepDTO == nil {
		return nil
	}
	return s.DailySleepDTO.SleepTimeSeconds
}

// Score returns the overall sleep score, or nil when absent.
func (s *SleepData) Score() *int {
	if s == nil || s.DailySleepDTO == nil || s.DailySleepDTO.SleepScores == nil || s.DailySleepDTO.SleepScores.Overall == nil {
		return nil
	}
	return s.DailySleepDTO.SleepScores.Overall.Value
}

// Activity is one entry from the activity search endpoint.
type Activity struct {
	ActivityID            int64        `json:"activityId"`
	ActivityType          ActivityType `json:"activityType"`
	StartTimeLocal        string       `json:"startTimeLocal"` // "2006-01-02 15:04:05"
	Duration              float64      `json:"duration"`       // seconds
	Distance              float64      `json:"distance"`       // meters
	HRTimeInZone1         *float64     `json:"hrTimeInZone_1"`
	HRTimeInZone2         *float64     `json:"hrTimeInZone_2"`
	HRTimeInZone3         *float64     `json:"hrTimeInZone_3"`
	HRTimeInZone4         *float64     `json:"hrTimeInZone_4"`
	HRTimeInZone5         *float64     `json:"hrTimeInZone_5"`
	DifferenceBodyBattery *int         `json:"differenceBodyBattery"`
	DeviceID              *int64       `json:"deviceId"`
}

// ActivityType carries the machine-readable type key ("running", "walking").
type ActivityType struct {
	TypeKey string `json:"typeKey"`
}

// Date returns the local calendar date of the activity start.
func (a Activity) Date() string {
	if len(a.StartTimeLocal) < 10 {
		return a.StartTimeLocal
	}
	return a.StartTimeLocal[:10]
}

// TimeInZone returns the seconds spent in HR zone n (1-5), or nil when the
// activity has no data for that zone.
func (a Activity) TimeInZone(n int) *float64 {
	switch n {
	case 1:
		return a.HRTimeInZone1
	case 2:
		return a.HRTimeInZone2
	case 3:
		return a.HRTimeInZone3
	case 4:
		return a.HRTimeInZone4
	case 5:
		return a.HRTimeInZone5
	}
	return nil
}

// ActivityDetail is the per-activity detail response; it carries the
// recording device, which the search endpoint omits.
type ActivityDetail struct {
	ActivityID  int64          `json:"activityId"`
	SummaryDTO  *DetailSummary `json:"summaryDTO"`
	MetadataDTO *Metadata      `json:"metadataDTO"`
}

// DetailSummary is the subset of summaryDTO consumed here.
type DetailSummary struct {
	MaxHR *float64 `json:"maxHR"`
}

// Metadata identifies the device that recorded the activity.
type Metadata struct {
	DeviceName         string `json:"deviceName"`
	DeviceMaxHeartRate *int   `json:"deviceMaxHeartRate"`
}

// DeviceName returns the recording device name, or "" when unknown.
func (d *ActivityDetail) DeviceName() string {
	if d == nil || d.MetadataDTO == nil {
		return ""
	}
	return d.MetadataDTO.DeviceName
}

// DeviceMaxHR returns the device's configured max heart rate, or 0 when the
// detail payload does not report one.
func (d *ActivityDetail) DeviceMaxHR() int {
	if d == nil || d.MetadataDTO == nil || d.MetadataDTO.DeviceMaxHeartRate == nil {
		return 0
	}
	return *d.MetadataDTO.DeviceMaxHeartRate
}
