package services

import (
	"context"
	"fmt"
	"log/slog"

	"carbone/internal/calendar"
	"carbone/internal/core"
	"carbone/internal/plan"
)

// PlanService builds reduction action plans and exports them as calendar
// events. The publisher is optional; without one only ICS export works.
type PlanService struct {
	generator *plan.Generator
	exporter  calendar.Exporter
	publisher calendar.ActionPublisher
}

func NewPlanService(exporter calendar.Exporter, publisher calendar.ActionPublisher) *PlanService {
	return &PlanService{
		generator: plan.NewGenerator(),
		exporter:  exporter,
		publisher: publisher,
	}
}

// BuildPlan generates a prioritized action plan from emission records.
func (s *PlanService) BuildPlan(ctx context.Context, records []core.EmissionRecord, lang string, maxActions int) (*plan.Plan, error) {
	if maxActions <= 0 {
		maxActions = plan.DefaultMaxActions
	}

	p, err := s.generator.Generate(records, language(lang), maxActions)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	slog.InfoContext(ctx, "Action plan generated",
		"actions", len(p.Actions),
		"lang", lang,
		"quick_wins", len(p.Summary.QuickWins))

	return p, nil
}

// RenderICS renders actions as an iCalendar document.
func (s *PlanService) RenderICS(actions []plan.Action) []byte {
	return s.exporter.RenderICS(actions)
}

// PublishActions pushes actions to the configured calendar backend and
// returns the created event IDs.
func (s *PlanService) PublishActions(ctx context.Context, actions []plan.Action) ([]string, error) {
	if s.publisher == nil {
		return nil, fmt.Errorf("no calendar backend configured")
	}

	ids, err := s.publisher.PublishActions(ctx, actions)
	if err != nil {
		return ids, fmt.Errorf("publish calendar events: %w", err)
	}

	slog.InfoContext(ctx, "Calendar events published", "events", len(ids))
	return ids, nil
}
