package firebase

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/go-resty/resty/v2"
)

const measurementProtocolURL = "https://www.google-analytics.com/mp/collect"

var eventNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,39}$`)

// AnalyticsEvent is a GA4 event.
type AnalyticsEvent struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

type mpPayload struct {
	ClientID string           `json:"client_id"`
	UserID   string           `json:"user_id,omitempty"`
	Events   []AnalyticsEvent `json:"events"`
}

// Analytics sends events through the GA4 Measurement Protocol.
type Analytics struct {
	measurementID string
	apiSecret     string
	endpoint      string
	http          *resty.Client
}

func NewAnalytics(measurementID, apiSecret string) *Analytics {
	return &Analytics{
		measurementID: measurementID,
		apiSecret:     apiSecret,
		endpoint:      measurementProtocolURL,
		http:          resty.New().SetTimeout(10 * time.Second),
	}
}

func (a *Analytics) WithEndpoint(u string) *Analytics {
	a.endpoint = u
	return a
}

func (a *Analytics) MeasurementID() string { return a.measurementID }

// LogEvents sends up to 25 events for one client. Event names must start with
// a letter and contain only letters, digits and underscores (max 40).
func (a *Analytics) LogEvents(ctx context.Context, clientID, userID string, events ...AnalyticsEvent) error {
	if clientID == "" {
		return fmt.Errorf("%w: client id is required", ErrInvalidEvent)
	}
	if len(events) == 0 || len(events) > 25 {
		return fmt.Errorf("%w: need 1 to 25 events, got %d", ErrInvalidEvent, len(events))
	}
	for _, e := range events {
		if !eventNameRe.MatchString(e.Name) {
			return fmt.Errorf("%w: bad name %q", ErrInvalidEvent, e.Name)
		}
	}

	resp, err := a.http.R().
		SetContext(ctx).
		SetQueryParam("measurement_id", a.measurementID).
		SetQueryParam("api_secret", a.apiSecret).
		SetHeader("Content-Type", "application/json").
		SetBody(mpPayload{ClientID: clientID, UserID: userID, Events: events}).
		Post(a.endpoint)
	if err != nil {
		return fmt.Errorf("send analytics events: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("send analytics events: http %d", resp.StatusCode())
	}
	return nil
}
