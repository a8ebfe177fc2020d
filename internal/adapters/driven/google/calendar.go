// Package google fetches upcoming events from the Google Calendar API.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driven"
)

// Ensure CalendarClient implements both fetch variants.
var (
	_ driven.CalendarAPI      = (*CalendarClient)(nil)
	_ driven.KeyedCalendarAPI = (*CalendarClient)(nil)
)

// CalendarClient lists upcoming events from Google Calendar. Each call
// builds a service around the exact credential it was handed, so token
// refresh stays with the caller instead of the transport.
type CalendarClient struct {
	limiter *RateLimiter
	opts    []option.ClientOption
	now     func() time.Time
}

// Option customises a CalendarClient.
type Option func(*CalendarClient)

// WithEndpoint overrides the API base URL.
func WithEndpoint(url string) Option {
	return func(c *CalendarClient) {
		c.opts = append(c.opts, option.WithEndpoint(url))
	}
}

// WithClock overrides the time source for the lower bound of the query
// window.
func WithClock(now func() time.Time) Option {
	return func(c *CalendarClient) {
		c.now = now
	}
}

// NewCalendarClient creates a calendar client.
func NewCalendarClient(opts ...Option) *CalendarClient {
	c := &CalendarClient{
		limiter: NewRateLimiter(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListEvents fetches upcoming events using a bearer access token.
// The token is used exactly as given; an expired one surfaces as
// domain.ErrNotAuthorized rather than being refreshed here.
func (c *CalendarClient) ListEvents(ctx context.Context, accessToken string, req domain.SyncRequest) (domain.SyncResult, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	opts := append([]option.ClientOption{option.WithTokenSource(source)}, c.opts...)

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create calendar service: %v", domain.ErrTransport, err)
	}
	return c.list(ctx, svc, req)
}

// ListEventsByKey fetches upcoming events using a plain API key. Only
// public calendars are reachable this way.
func (c *CalendarClient) ListEventsByKey(ctx context.Context, apiKey string, req domain.SyncRequest) (domain.SyncResult, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, c.opts...)

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create calendar service: %v", domain.ErrTransport, err)
	}
	return c.list(ctx, svc, req)
}

// list runs the events query: upcoming only, recurring expanded,
// ordered by start time.
func (c *CalendarClient) list(ctx context.Context, svc *calendar.Service, req domain.SyncRequest) (domain.SyncResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	events, err := svc.Events.List(req.CalendarID).
		TimeMin(c.now().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(req.MaxResults).
		Context(ctx).
		Do()
	if err != nil {
		mapped := WrapError(err)
		if retryAfter, limited := RetryAfter(err); limited {
			c.limiter.RecordRateLimitError(retryAfter)
		}
		return nil, mapped
	}

	result := make(domain.SyncResult, 0, len(events.Items))
	for _, item := range events.Items {
		event, err := toCalendarEvent(item)
		if err != nil {
			return nil, fmt.Errorf("%w: decode event %s: %v", domain.ErrInvalidResponse, item.Id, err)
		}
		result = append(result, event)
	}
	return result, nil
}

// toCalendarEvent converts an API event to the opaque domain shape.
// Going through JSON keeps every provider field, named exactly as the
// wire names it, without the sync layer knowing the schema.
func toCalendarEvent(item *calendar.Event) (domain.CalendarEvent, error) {
	raw, err := item.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var event domain.CalendarEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, err
	}
	return event, nil
}
