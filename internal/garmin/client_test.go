package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

// testClient points the client at a local server with no request spacing.
func testClient(srv *httptest.Server) *Client {
	return &Client{
		httpClient: srv.Client(),
		limiter:    &Limiter{minInterval: 0},
		baseURL:    srv.URL,
	}
}

func TestDailyStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/usersummary-service/usersummary/daily" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("calendarDate"); got != "2026-08-20" {
			t.Errorf("calendarDate = %q", got)
		}
		fmt.Fprint(w, `{"calendarDate": "2026-08-20", "totalSteps": 4200, "restingHeartRate": 52}`)
	}))
	defer srv.Close()

	stats, err := testClient(srv).DailyStats(context.Background(), "2026-08-20")
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSteps == nil || *stats.TotalSteps != 4200 {
		t.Errorf("TotalSteps = %v, want 4200", stats.TotalSteps)
	}
	if stats.MaxHeartRate != nil {
		t.Errorf("MaxHeartRate = %v, want nil for an absent field", *stats.MaxHeartRate)
	}
}

func TestActivitiesByDatePaging(t *testing.T) {
	// First page full (100), second page short; the client must stop after
	// the short page.
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		offset, _ := strconv.Atoi(r.URL.Query().Get("start"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		n := limit
		if offset >= 100 {
			n = 3
		}
		page := make([]Activity, n)
		for i := range page {
			page[i] = Activity{ActivityID: int64(offset + i)}
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	activities, err := testClient(srv).ActivitiesByDate(context.Background(), "2026-06-24", "2026-08-23")
	if err != nil {
		t.Fatal(err)
	}
	if requests != 2 {
		t.Errorf("made %d requests, want 2", requests)
	}
	if len(activities) != 103 {
		t.Errorf("got %d activities, want 103", len(activities))
	}
	if activities[100].ActivityID != 100 {
		t.Errorf("second page starts at id %d, want 100", activities[100].ActivityID)
	}
}

func TestGetErrorIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv).HRV(context.Background(), "2026-08-20")
	if err == nil {
		t.Fatal("want error for non-200 response")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error = %v, want status and body included", err)
	}
}

func TestLimiterSpacesRequests(t *testing.T) {
	l := &Limiter{minInterval: 30 * time.Millisecond}

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("3 requests took %v, want at least 60ms of spacing", elapsed)
	}
}

func TestLimiterHonorsCancellation(t *testing.T) {
	l := &Limiter{minInterval: time.Hour}
	if err := l.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("want context error while waiting out the interval")
	}
}
