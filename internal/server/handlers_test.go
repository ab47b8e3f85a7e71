package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stian-overasen/connectlog/internal/cache"
	"github.com/stian-overasen/connectlog/internal/garmin"
	"github.com/stian-overasen/connectlog/internal/service"
	"github.com/stian-overasen/connectlog/internal/zones"
)

// stubAPI serves fixed data for every date so handler tests exercise the
// full pipeline without the network.
type stubAPI struct{}

func intPtr(v int) *int { return &v }

func (stubAPI) DailyStats(_ context.Context, date string) (*garmin.DailyStats, error) {
	return &garmin.DailyStats{
		CalendarDate:     date,
		TotalSteps:       intPtr(5000),
		RestingHeartRate: intPtr(52),
	}, nil
}

func (stubAPI) HRV(_ context.Context, _ string) (*garmin.HRVData, error) {
	return &garmin.HRVData{HRVSummary: &garmin.HRVSummary{LastNightAvg: intPtr(55)}}, nil
}

func (stubAPI) BodyBattery(_ context.Context, _ string) ([]garmin.BodyBatteryDay, error) {
	return nil, nil
}

func (stubAPI) Sleep(_ context.Context, _ string) (*garmin.SleepData, error) {
	return nil, nil
}

func (stubAPI) ActivitiesByDate(_ context.Context, _, _ string) ([]garmin.Activity, error) {
	return []garmin.Activity{
		{ActivityID: 101, StartTimeLocal: "2026-08-02 07:30:00", Duration: 1800},
	}, nil
}

func (stubAPI) ActivityDetail(_ context.Context, id int64) (*garmin.ActivityDetail, error) {
	return &garmin.ActivityDetail{ActivityID: id}, nil
}

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(stubAPI{}, cache.NewMemStore(), zones.NewResolver(logger), logger)
	return New(svc, Logger(logger))
}

func do(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return rec, body
}

func TestIndex(t *testing.T) {
	rec, body := do(t, testServer(t), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "endpoints")
}

func TestGetSummary(t *testing.T) {
	rec, body := do(t, testServer(t), "/api/summary?months=1")
	require.Equal(t, http.StatusOK, rec.Code)

	summaries, ok := body["summaries"].([]any)
	require.True(t, ok, "summaries missing: %v", body)
	assert.NotEmpty(t, summaries)

	first := summaries[0].(map[string]any)
	assert.Contains(t, first, "date")
	assert.EqualValues(t, 5000, first["steps"])
}

func TestGetSummaryRejectsBadMonths(t *testing.T) {
	s := testServer(t)
	for _, q := range []string{"months=abc", "months=0", "months=-2"} {
		rec, body := do(t, s, "/api/summary?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Contains(t, body, "error")
	}
}

func TestGetActivities(t *testing.T) {
	rec, body := do(t, testServer(t), "/api/activities?months=1")
	require.Equal(t, http.StatusOK, rec.Code)

	activities, ok := body["activities"].([]any)
	require.True(t, ok, "activities missing: %v", body)
	require.Len(t, activities, 1)
	assert.EqualValues(t, 101, activities[0].(map[string]any)["activity_id"])
}

func TestGetReadiness(t *testing.T) {
	rec, body := do(t, testServer(t), "/api/readiness")
	require.Equal(t, http.StatusOK, rec.Code)

	// stubAPI: HRV 55 (green), resting HR 52 (green), no sleep or body battery.
	assert.Equal(t, "green", body["overall_band"])
	assert.Contains(t, body, "energy_guidance")

	per, ok := body["per_metric"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, per, 2)
}

func TestGetReadinessWithEnergy(t *testing.T) {
	rec, body := do(t, testServer(t), "/api/readiness?energy=3")
	require.Equal(t, http.StatusOK, rec.Code)

	per := body["per_metric"].(map[string]any)
	energy, ok := per["energy"].(map[string]any)
	require.True(t, ok, "energy missing from per_metric: %v", per)
	assert.Equal(t, "red", energy["band"])
}

func TestGetReadinessRejectsBadEnergy(t *testing.T) {
	s := testServer(t)
	for _, q := range []string{"energy=0", "energy=11", "energy=high"} {
		rec, body := do(t, s, "/api/readiness?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Contains(t, body, "error")
	}
}
