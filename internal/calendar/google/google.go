package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"carbone/internal/plan"

	ports "carbone/internal/calendar"

	gcal "google.golang.org/api/calendar/v3"
	goption "google.golang.org/api/option"
)

const eventDuration = time.Hour

// reminderMinutes is seven days ahead of the event start.
const reminderMinutes = 7 * 24 * 60

type Client struct {
	svc        *gcal.Service
	calendarID string
	exporter   ports.Exporter
}

// Ensure interface conformance
var _ ports.ActionPublisher = (*Client)(nil)

// NewFromEnv creates a Calendar client using environment variables.
// Required: GOOGLE_CALENDAR_ID (use "primary" for the account's default
// calendar). Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	calendarID := strings.TrimSpace(os.Getenv("GOOGLE_CALENDAR_ID"))
	if calendarID == "" {
		return nil, errors.New("missing GOOGLE_CALENDAR_ID")
	}

	svc, err := newCalendarService(ctx)
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}

	return &Client{
		svc:        svc,
		calendarID: calendarID,
		exporter: ports.Exporter{
			AppName: strings.TrimSpace(os.Getenv("APP_NAME")),
			AppURL:  strings.TrimSpace(os.Getenv("APP_URL")),
		},
	}, nil
}

// newCalendarService initializes a Calendar Service using Service Account credentials.
func newCalendarService(ctx context.Context) (*gcal.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gcal.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gcal.CalendarEventsScope))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	slog.InfoContext(ctx, "Google Calendar service created", "calendar_id", "configured")
	return service, nil
}

// PublishActions inserts one event per action and returns the created
// event IDs. Insertion stops at the first failure so callers can retry
// the remainder without duplicating events.
func (c *Client) PublishActions(ctx context.Context, actions []plan.Action) ([]string, error) {
	if c.svc == nil {
		return nil, errors.New("calendar service not initialized")
	}

	ids := make([]string, 0, len(actions))
	for _, a := range actions {
		start := a.TargetDate.UTC()
		event := &gcal.Event{
			Summary:     c.exporter.EventTitle(a),
			Description: c.exporter.EventDescription(a),
			Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
			End:         &gcal.EventDateTime{DateTime: start.Add(eventDuration).Format(time.RFC3339)},
			Reminders: &gcal.EventReminders{
				UseDefault: false,
				Overrides: []*gcal.EventReminder{
					{Method: "popup", Minutes: reminderMinutes},
				},
				ForceSendFields: []string{"UseDefault"},
			},
		}

		created, err := c.svc.Events.Insert(c.calendarID, event).Context(ctx).Do()
		if err != nil {
			return ids, fmt.Errorf("insert event for action %s: %w", a.ID, err)
		}
		ids = append(ids, created.Id)
	}
	return ids, nil
}
