package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/stian-overasen/connectlog/internal/cache"
	"github.com/stian-overasen/connectlog/internal/garmin"
)

// GarminAPI is the slice of the Connect client the fetch pipeline consumes.
// An interface so tests can inject a fake adapter.
type GarminAPI interface {
	DailyStats(ctx context.Context, date string) (*garmin.DailyStats, error)
	HRV(ctx context.Context, date string) (*garmin.HRVData, error)
	BodyBattery(ctx context.Context, date string) ([]garmin.BodyBatteryDay, error)
	Sleep(ctx context.Context, date string) (*garmin.SleepData, error)
	ActivitiesByDate(ctx context.Context, start, end string) ([]garmin.Activity, error)
	ActivityDetail(ctx context.Context, activityID int64) (*garmin.ActivityDetail, error)
}

// Progress reports incremental fetch progress to an observer. It has no
// semantic effect on the output.
type Progress struct {
	Phase     string // "daily" or "activities"
	Total     int
	Completed int
	Current   string // date or activity id being fetched
}

// RawDay is the unaggregated result of one date's fetch. Feeds that failed
// or returned nothing stay nil.
type RawDay struct {
	Date        string                  `json:"date"`
	Stats       *garmin.DailyStats      `json:"stats,omitempty"`
	HRV         *garmin.HRVData         `json:"hrv,omitempty"`
	BodyBattery []garmin.BodyBatteryDay `json:"body_battery,omitempty"`
	Sleep       *garmin.SleepData       `json:"sleep,omitempty"`
}

// RawActivity pairs an activity search result with its detail fetch.
type RawActivity struct {
	Activity garmin.Activity        `json:"activity"`
	Detail   *garmin.ActivityDetail `json:"detail,omitempty"`
}

// Fetcher populates the cache from the Connect API, one item at a time in a
// deterministic loop. Per-item failures are recorded in the payload's error
// manifest and never abort the remaining items.
type Fetcher struct {
	api    GarminAPI
	store  cache.Store
	logger *slog.Logger
}

// NewFetcher creates a fetcher over the given adapter and cache store.
func NewFetcher(api GarminAPI, store cache.Store, logger *slog.Logger) *Fetcher {
	return &Fetcher{api: api, store: store, logger: logger}
}

// FetchDaily returns the daily payload for the range. A cache hit returns
// the stored payload verbatim with no remote calls. On a miss every date in
// the range is attempted; the accumulated payload is written to the store
// even when some dates failed, since partial data is valid and useful.
func (f *Fetcher) FetchDaily(ctx context.Context, rng DateRange, progress chan<- Progress) (*cache.Payload, error) {
	key := cache.NewKey(cache.KindDaily, rng.Start, rng.End)

	hit, err := f.store.Exists(key)
	if err != nil {
		return nil, fmt.Errorf("checking cache: %w", err)
	}
	if hit {
		p, err := f.store.Read(key)
		if err != nil && !errors.Is(err, cache.ErrNotFound) {
			return nil, fmt.Errorf("reading cache: %w", err)
		}
		if err == nil {
			f.logger.Info("daily cache hit", "key", key.String())
			return p, nil
		}
	}

	dates := rng.Dates()
	payload := &cache.Payload{}

	for i, date := range dates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if progress != nil {
			progress <- Progress{Phase: "daily", Total: len(dates), Completed: i, Current: date}
		}

		day, itemErr := f.fetchDay(ctx, date)
		if itemErr != nil {
			f.logger.Warn("daily fetch item failed", "date", date, "reason", itemErr.Reason)
			payload.Errors = append(payload.Errors, *itemErr)
		}
		if day != nil {
			raw, err := json.Marshal(day)
			if err != nil {
				return nil, fmt.Errorf("encoding day %s: %w", date, err)
			}
			payload.Results = append(payload.Results, raw)
		}
	}

	if progress != nil {
		progress <- Progress{Phase: "daily", Total: len(dates), Completed: len(dates)}
	}

	if err := f.store.Write(key, payload); err != nil {
		return nil, fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	f.logger.Info("daily range fetched", "key", key.String(),
		"results", len(payload.Results), "failures", len(payload.Errors))
	return payload, nil
}

// fetchDay calls each feed once for the date. A feed failure never stops the
// remaining feeds; all failing feeds are folded into one recorded failure
// keyed by the date. Returns a nil day when no feed produced data.
func (f *Fetcher) fetchDay(ctx context.Context, date string) (*RawDay, *cache.FetchError) {
	day := &RawDay{Date: date}
	var reasons []string
	any := false

	if stats, err := f.api.DailyStats(ctx, date); err != nil {
		reasons = append(reasons, "stats: "+err.Error())
	} else if stats != nil {
		day.Stats = stats
		any = true
	}

	if hrv, err := f.api.HRV(ctx, date); err != nil {
		reasons = append(reasons, "hrv: "+err.Error())
	} else if hrv != nil {
		day.HRV = hrv
		any = true
	}

	if bb, err := f.api.BodyBattery(ctx, date); err != nil {
		reasons = append(reasons, "body battery: "+err.Error())
	} else if len(bb) > 0 {
		day.BodyBattery = bb
		any = true
	}

	if sleep, err := f.api.Sleep(ctx, date); err != nil {
		reasons = append(reasons, "sleep: "+err.Error())
	} else if sleep != nil {
		day.Sleep = sleep
		any = true
	}

	var itemErr *cache.FetchError
	if len(reasons) > 0 {
		itemErr = &cache.FetchError{Key: date, Reason: strings.Join(reasons, "; ")}
	}
	if !any {
		return nil, itemErr
	}
	return day, itemErr
}

// FetchActivities returns the activity payload for the range: one search
// call for the whole range, then one detail call per activity. A failed
// detail fetch is recorded against the activity id and the activity is kept
// with search data only.
func (f *Fetcher) FetchActivities(ctx context.Context, rng DateRange, progress chan<- Progress) (*cache.Payload, error) {
	key := cache.NewKey(cache.KindActivities, rng.Start, rng.End)

	hit, err := f.store.Exists(key)
	if err != nil {
		return nil, fmt.Errorf("checking cache: %w", err)
	}
	if hit {
		p, err := f.store.Read(key)
		if err != nil && !errors.Is(err, cache.ErrNotFound) {
			return nil, fmt.Errorf("reading cache: %w", err)
		}
		if err == nil {
			f.logger.Info("activities cache hit", "key", key.String())
			return p, nil
		}
	}

	payload := &cache.Payload{}

	activities, err := f.api.ActivitiesByDate(ctx, rng.Start.Format(dateFormat), rng.End.Format(dateFormat))
	if err != nil {
		f.logger.Warn("activity search failed", "key", key.String(), "error", err)
		payload.Errors = append(payload.Errors, cache.FetchError{
			Key:    key.String(),
			Reason: "activity search: " + err.Error(),
		})
	}

	for i, a := range activities {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		id := strconv.FormatInt(a.ActivityID, 10)
		if progress != nil {
			progress <- Progress{Phase: "activities", Total: len(activities), Completed: i, Current: id}
		}

		ra := RawActivity{Activity: a}
		detail, err := f.api.ActivityDetail(ctx, a.ActivityID)
		if err != nil {
			f.logger.Warn("activity detail failed", "activity_id", id, "reason", err)
			payload.Errors = append(payload.Errors, cache.FetchError{Key: id, Reason: "detail: " + err.Error()})
		} else {
			ra.Detail = detail
		}

		raw, err := json.Marshal(ra)
		if err != nil {
			return nil, fmt.Errorf("encoding activity %s: %w", id, err)
		}
		payload.Results = append(payload.Results, raw)
	}

	if progress != nil {
		progress <- Progress{Phase: "activities", Total: len(activities), Completed: len(activities)}
	}

	if err := f.store.Write(key, payload); err != nil {
		return nil, fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	f.logger.Info("activity range fetched", "key", key.String(),
		"results", len(payload.Results), "failures", len(payload.Errors))
	return payload, nil
}

// Invalidate drops both cache entries for the range so the next request does
// a full re-fetch. This is the only refresh mechanism.
func (f *Fetcher) Invalidate(rng DateRange) error {
	for _, kind := range []string{cache.KindDaily, cache.KindActivities} {
		key := cache.NewKey(kind, rng.Start, rng.End)
		if err := f.store.Invalidate(key); err != nil {
			return fmt.Errorf("invalidating %s: %w", key, err)
		}
	}
	return nil
}
