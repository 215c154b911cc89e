package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sundialhq/sundial/internal/domain"
)

const (
	googleEventsURL = "https://www.googleapis.com/calendar/v3/calendars/primary/events"
	// Event times are naive local wall-clock; the calendar stores them in
	// the user's primary timezone.
	googleTimeLayout = "2006-01-02T15:04:05"
)

// GoogleClient talks to the Google Calendar REST API on the user's
// primary calendar. The OAuth access token is supplied per call.
type GoogleClient struct {
	httpClient *http.Client
}

func NewGoogleClient() *GoogleClient {
	return &GoogleClient{httpClient: &http.Client{}}
}

type googleEventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

type googleEvent struct {
	ID      string          `json:"id,omitempty"`
	Summary string          `json:"summary"`
	Start   googleEventTime `json:"start"`
	End     googleEventTime `json:"end"`
}

type googleEventList struct {
	Items []googleEvent `json:"items"`
}

type googleError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *GoogleClient) do(ctx context.Context, token, method, rawURL string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create calendar request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read calendar response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr googleError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("calendar API error: %s", apiErr.Error.Message)
		}
		return nil, fmt.Errorf("calendar API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

func (c *GoogleClient) CreateEvent(ctx context.Context, token string, ev domain.CalendarEvent) (*domain.CalendarEvent, error) {
	body, err := json.Marshal(googleEvent{
		Summary: ev.Title,
		Start:   googleEventTime{DateTime: ev.Start.Format(googleTimeLayout)},
		End:     googleEventTime{DateTime: ev.End.Format(googleTimeLayout)},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal calendar event: %w", err)
	}

	respBody, err := c.do(ctx, token, http.MethodPost, googleEventsURL, body)
	if err != nil {
		return nil, err
	}

	var created googleEvent
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, fmt.Errorf("unmarshal created event: %w", err)
	}

	return &domain.CalendarEvent{
		ID:    created.ID,
		Title: created.Summary,
		Start: ev.Start,
		End:   ev.End,
	}, nil
}

func (c *GoogleClient) ListEvents(ctx context.Context, token string, date time.Time) ([]domain.CalendarEvent, error) {
	y, m, d := date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	q := url.Values{}
	q.Set("timeMin", dayStart.Format(time.RFC3339))
	q.Set("timeMax", dayEnd.Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")

	respBody, err := c.do(ctx, token, http.MethodGet, googleEventsURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var list googleEventList
	if err := json.Unmarshal(respBody, &list); err != nil {
		return nil, fmt.Errorf("unmarshal event list: %w", err)
	}

	events := make([]domain.CalendarEvent, 0, len(list.Items))
	for _, item := range list.Items {
		start, _ := parseGoogleTime(item.Start.DateTime)
		end, _ := parseGoogleTime(item.End.DateTime)
		events = append(events, domain.CalendarEvent{
			ID:    item.ID,
			Title: item.Summary,
			Start: start,
			End:   end,
		})
	}
	return events, nil
}

func (c *GoogleClient) DeleteEvent(ctx context.Context, token string, eventID string) error {
	_, err := c.do(ctx, token, http.MethodDelete, googleEventsURL+"/"+url.PathEscape(eventID), nil)
	return err
}

func parseGoogleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(googleTimeLayout, s)
}
