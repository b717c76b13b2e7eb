package services

import (
	"context"
	"strings"
	"testing"

	"carbone/internal/calendar"
	"carbone/internal/calendar/memory"
)

func TestPlanService_BuildPlan(t *testing.T) {
	svc := NewPlanService(calendar.Exporter{}, nil)

	p, err := svc.BuildPlan(context.Background(), testRecords(), "en", 0)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	// Only energie carries action templates in this data set.
	if len(p.Actions) != 4 {
		t.Fatalf("BuildPlan() returned %d actions, want 4", len(p.Actions))
	}
	for _, a := range p.Actions {
		if a.Category != "energie" {
			t.Errorf("BuildPlan() action category = %v, want energie", a.Category)
		}
		if a.Status != "pending" {
			t.Errorf("BuildPlan() action status = %v, want pending", a.Status)
		}
	}
}

func TestPlanService_BuildPlan_UnknownLanguageFallsBackToFrench(t *testing.T) {
	svc := NewPlanService(calendar.Exporter{}, nil)

	p, err := svc.BuildPlan(context.Background(), testRecords(), "de", 5)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	if p.Language != "fr" {
		t.Errorf("BuildPlan() language = %v, want fr", p.Language)
	}
}

func TestPlanService_RenderICS(t *testing.T) {
	svc := NewPlanService(calendar.Exporter{}, nil)

	p, err := svc.BuildPlan(context.Background(), testRecords(), "en", 3)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	ics := string(svc.RenderICS(p.Actions))
	if !strings.Contains(ics, "BEGIN:VCALENDAR") || !strings.Contains(ics, "END:VCALENDAR") {
		t.Error("RenderICS() missing calendar envelope")
	}
	if strings.Count(ics, "BEGIN:VEVENT") != len(p.Actions) {
		t.Errorf("RenderICS() has %d events, want %d", strings.Count(ics, "BEGIN:VEVENT"), len(p.Actions))
	}
}

func TestPlanService_PublishActions(t *testing.T) {
	store := memory.New()
	svc := NewPlanService(calendar.Exporter{}, store)

	p, err := svc.BuildPlan(context.Background(), testRecords(), "fr", 4)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}

	ids, err := svc.PublishActions(context.Background(), p.Actions)
	if err != nil {
		t.Fatalf("PublishActions() error = %v", err)
	}
	if len(ids) != len(p.Actions) {
		t.Errorf("PublishActions() returned %d ids, want %d", len(ids), len(p.Actions))
	}
	if len(store.Published()) != len(p.Actions) {
		t.Errorf("store holds %d actions, want %d", len(store.Published()), len(p.Actions))
	}
}

func TestPlanService_PublishActions_NoBackend(t *testing.T) {
	svc := NewPlanService(calendar.Exporter{}, nil)

	if _, err := svc.PublishActions(context.Background(), nil); err == nil {
		t.Error("PublishActions() error = nil, want error without backend")
	}
}
