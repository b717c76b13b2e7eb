package calendar

import (
	"context"

	"carbone/internal/plan"
)

// Ports for outbound calendar adapters.
type (
	// ActionPublisher creates one calendar event per plan action and
	// returns the created event identifiers.
	ActionPublisher interface {
		PublishActions(ctx context.Context, actions []plan.Action) ([]string, error)
	}
)
