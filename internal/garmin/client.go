package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/oauth2"
)

const BaseURL = "https://connectapi.garmin.com"

// Client is a Garmin Connect API client
type Client struct {
	httpClient *http.Client
	limiter    *Limiter
	baseURL    string
}

// NewClient creates a new Connect API client authenticated by the given
// token source
func NewClient(tokenSource oauth2.TokenSource) *Client {
	return &Client{
		httpClient: oauth2.NewClient(context.Background(), tokenSource),
		limiter:    NewLimiter(),
		baseURL:    BaseURL,
	}
}

// DailyStats fetches the daily user summary (steps, resting HR, max HR) for
// a date
func (c *Client) DailyStats(ctx context.Context, date string) (*DailyStats, error) {
	params := url.Values{}
	params.Set("calendarDate", date)

	resp, err := c.get(ctx, "/usersummary-service/usersummary/daily", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var stats DailyStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("decoding daily stats: %w", err)
	}
	return &stats, nil
}

// HRV fetches the overnight HRV summary for a date
func (c *Client) HRV(ctx context.Context, date string) (*HRVData, error) {
	resp, err := c.get(ctx, "/hrv-service/hrv/"+date, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var hrv HRVData
	if err := json.NewDecoder(resp.Body).Decode(&hrv); err != nil {
		return nil, fmt.Errorf("decoding hrv data: %w", err)
	}
	return &hrv, nil
}

// BodyBattery fetches the hourly body battery report for a date
func (c *Client) BodyBattery(ctx context.Context, date string) ([]BodyBatteryDay, error) {
	params := url.Values{}
	params.Set("startDate", date)
	params.Set("endDate", date)

	resp, err := c.get(ctx, "/wellness-service/wellness/bodyBattery/reports/daily", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var days []BodyBatteryDay
	if err := json.NewDecoder(resp.Body).Decode(&days); err != nil {
		return nil, fmt.Errorf("decoding body battery report: %w", err)
	}
	return days, nil
}

// Sleep fetches the daily sleep data for a date
func (c *Client) Sleep(ctx context.Context, date string) (*SleepData, error) {
	params := url.Values{}
	params.Set("date", date)

	resp, err := c.get(ctx, "/wellness-service/wellness/dailySleepData", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sleep SleepData
	if err := json.NewDecoder(resp.Body).Decode(&sleep); err != nil {
		return nil, fmt.Errorf("decoding sleep data: %w", err)
	}
	return &sleep, nil
}

// ActivitiesByDate fetches all activities recorded between start and end
// (inclusive, YYYY-MM-DD). It pages through the search endpoint until a
// short page signals the end.
func (c *Client) ActivitiesByDate(ctx context.Context, start, end string) ([]Activity, error) {
	var all []Activity
	offset := 0
	limit := 100

	for {
		params := url.Values{}
		params.Set("startDate", start)
		params.Set("endDate", end)
		params.Set("start", strconv.Itoa(offset))
		params.Set("limit", strconv.Itoa(limit))

		resp, err := c.get(ctx, "/activitylist-service/activities/search/activities", params)
		if err != nil {
			return all, fmt.Errorf("fetching activities at offset %d: %w", offset, err)
		}

		var page []Activity
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return all, fmt.Errorf("decoding activities: %w", err)
		}

		all = append(all, page...)

		if len(page) < limit {
			break // Last page
		}
		offset += limit
	}

	return all, nil
}

// ActivityDetail fetches the detail payload for one activity
func (c *Client) ActivityDetail(ctx context.Context, activityID int64) (*ActivityDetail, error) {
	path := fmt.Sprintf("/activity-service/activity/%d", activityID)
	resp, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var detail ActivityDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("decoding activity detail: %w", err)
	}
	return &detail, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
