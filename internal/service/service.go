package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stian-overasen/connectlog/internal/analysis"
	"github.com/stian-overasen/connectlog/internal/cache"
	"github.com/stian-overasen/connectlog/internal/zones"
)

// Service ties the fetch pipeline, aggregation and readiness scoring
// together for the transport layer.
type Service struct {
	fetcher  *Fetcher
	resolver *zones.Resolver
	logger   *slog.Logger
	now      func() time.Time
}

// New creates the service.
func New(api GarminAPI, store cache.Store, resolver *zones.Resolver, logger *slog.Logger) *Service {
	return &Service{
		fetcher:  NewFetcher(api, store, logger),
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
	}
}

// SummaryResponse carries the aggregated summaries plus the manifest of what
// could not be fetched. Failures are never silently dropped.
type SummaryResponse struct {
	Summaries []DailySummary     `json:"summaries"`
	Failures  []cache.FetchError `json:"failures,omitempty"`
}

// ActivitiesResponse carries the labeled activity records plus the failure
// manifest.
type ActivitiesResponse struct {
	Activities []ActivityRecord   `json:"activities"`
	Failures   []cache.FetchError `json:"failures,omitempty"`
}

// Summary returns one aggregated record per date over the last months.
func (s *Service) Summary(ctx context.Context, months int) (*SummaryResponse, error) {
	rng := RangeFromMonths(months, s.now())

	daily, err := s.fetcher.FetchDaily(ctx, rng, nil)
	if err != nil {
		return nil, err
	}
	acts, err := s.fetcher.FetchActivities(ctx, rng, nil)
	if err != nil {
		return nil, err
	}

	records, err := BuildActivityRecords(acts, s.resolver)
	if err != nil {
		return nil, fmt.Errorf("building activity records: %w", err)
	}
	summaries, err := AggregateDaily(daily, records)
	if err != nil {
		return nil, fmt.Errorf("aggregating daily records: %w", err)
	}

	resp := &SummaryResponse{Summaries: summaries}
	resp.Failures = append(resp.Failures, daily.Errors...)
	resp.Failures = append(resp.Failures, acts.Errors...)
	return resp, nil
}

// Activities returns the labeled activity records over the last months.
func (s *Service) Activities(ctx context.Context, months int) (*ActivitiesResponse, error) {
	rng := RangeFromMonths(months, s.now())

	acts, err := s.fetcher.FetchActivities(ctx, rng, nil)
	if err != nil {
		return nil, err
	}
	records, err := BuildActivityRecords(acts, s.resolver)
	if err != nil {
		return nil, fmt.Errorf("building activity records: %w", err)
	}

	return &ActivitiesResponse{Activities: records, Failures: acts.Errors}, nil
}

// Readiness classifies the most recent day with data against the threshold
// table. A nil energy means no subjective score was supplied; the verdict
// then carries guidance only.
func (s *Service) Readiness(ctx context.Context, energy *int) (*analysis.Verdict, error) {
	resp, err := s.Summary(ctx, DefaultMonths)
	if err != nil {
		return nil, err
	}

	var input analysis.Input
	// Walk backwards to the most recent day that has any metric set.
	for i := len(resp.Summaries) - 1; i >= 0; i-- {
		d := resp.Summaries[i]
		if d.HRVOvernightAvg == nil && d.BodyBatteryMax == nil && d.SleepScore == nil && d.RestingHR == nil {
			continue
		}
		input = analysis.Input{
			HRV:            d.HRVOvernightAvg,
			BodyBatteryMax: d.BodyBatteryMax,
			SleepScore:     d.SleepScore,
			RestingHR:      d.RestingHR,
		}
		break
	}

	verdict := analysis.Evaluate(input, energy)
	return &verdict, nil
}

// Refresh invalidates the cached entries for the last months and fetches
// them again. This is the scheduled-refresh entry point; it is an explicit
// caller-side invalidation, not a cache TTL.
func (s *Service) Refresh(ctx context.Context, months int) error {
	rng := RangeFromMonths(months, s.now())
	if err := s.fetcher.Invalidate(rng); err != nil {
		return err
	}
	if _, err := s.fetcher.FetchDaily(ctx, rng, nil); err != nil {
		return fmt.Errorf("refreshing daily range: %w", err)
	}
	if _, err := s.fetcher.FetchActivities(ctx, rng, nil); err != nil {
		return fmt.Errorf("refreshing activity range: %w", err)
	}
	return nil
}
