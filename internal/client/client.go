// internal/client/client.go
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sportcenter/internal/facility"
	"sportcenter/internal/httpx"
	"sportcenter/internal/reservations"
	"sportcenter/internal/stats"
)

// Client talks to a running sportcenter API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Stats fetches the summary figures.
func (c *Client) Stats(ctx context.Context) (stats.Summary, error) {
	var sum stats.Summary
	if err := c.get(ctx, "/stats", nil, &sum); err != nil {
		return stats.Summary{}, err
	}
	return sum, nil
}

// Admission asks whether one more reservation of activityID fits on day.
func (c *Client) Admission(ctx context.Context, activityID int64, day time.Time) (reservations.AdmissionResponse, error) {
	q := url.Values{}
	q.Set("activity_id", strconv.FormatInt(activityID, 10))
	q.Set("date", facility.FormatDay(day))

	var resp reservations.AdmissionResponse
	if err := c.get(ctx, "/admission", q, &resp); err != nil {
		return reservations.AdmissionResponse{}, err
	}
	return resp, nil
}

// Bookings lists reservations, newest day first.
func (c *Client) Bookings(ctx context.Context) ([]facility.Booking, error) {
	var list []facility.Booking
	if err := c.get(ctx, "/reservations", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body httpx.ErrorBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
			return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, body.Error)
		}
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
