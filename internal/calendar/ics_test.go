package calendar

import (
	"strings"
	"testing"
	"time"

	"carbone/internal/plan"
)

func sampleAction() plan.Action {
	return plan.Action{
		ID:                 "energie_0",
		Category:           "energie",
		Title:              "Switch to green electricity",
		Description:        "Subscribe to a 100% renewable electricity contract.",
		Impact:             plan.ImpactHigh,
		Feasibility:        plan.FeasibilityEasy,
		EstimatedReduction: 640,
		Priority:           plan.PriorityHigh,
		CreatedAt:          time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC),
		TargetDate:         time.Date(2024, time.August, 30, 9, 0, 0, 0, time.UTC),
	}
}

func TestRenderICS(t *testing.T) {
	ics := string(Exporter{}.RenderICS([]plan.Action{sampleAction()}))

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:energie_0@Carbone",
		"DTSTART:20240830T090000Z",
		"DTEND:20240830T100000Z",
		"SUMMARY:[Carbone] Switch to green electricity",
		"CATEGORIES:High Priority,Climate Action",
		"TRIGGER:-P7D",
		"END:VCALENDAR",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("ICS output missing %q", want)
		}
	}

	for _, line := range strings.Split(ics, "\r\n") {
		if strings.ContainsRune(line, '\n') {
			t.Fatalf("unfolded newline inside content line %q", line)
		}
	}
}

func TestEventDescription(t *testing.T) {
	desc := Exporter{}.EventDescription(sampleAction())

	for _, want := range []string{
		"🎯 Priority: HIGH",
		"⚡ Impact: HIGH",
		"🔧 Feasibility: EASY",
		"🌱 Estimated reduction: 640.00 kg CO₂e",
		"📂 Category: energie",
		"🔗 Track in Carbone: http://localhost:8080",
	} {
		if !strings.Contains(desc, want) {
			t.Errorf("description missing %q", want)
		}
	}
}

func TestEventDescriptionSkipsZeroReduction(t *testing.T) {
	a := sampleAction()
	a.EstimatedReduction = 0
	if strings.Contains(Exporter{}.EventDescription(a), "Estimated reduction") {
		t.Error("expected no reduction line for compensation actions")
	}
}

func TestGoogleLink(t *testing.T) {
	link := Exporter{}.GoogleLink(sampleAction())

	if !strings.HasPrefix(link, "https://calendar.google.com/calendar/render?") {
		t.Fatalf("unexpected link prefix: %s", link)
	}
	if !strings.Contains(link, "action=TEMPLATE") {
		t.Error("link missing action=TEMPLATE")
	}
	if !strings.Contains(link, "dates=20240830T090000%2F20240830T100000") {
		t.Errorf("link missing encoded date range: %s", link)
	}
}

func TestCustomAppName(t *testing.T) {
	e := Exporter{AppName: "Green App", AppURL: "https://green.example"}
	if got := e.EventTitle(sampleAction()); got != "[Green App] Switch to green electricity" {
		t.Errorf("unexpected title: %q", got)
	}
	if !strings.Contains(e.EventDescription(sampleAction()), "https://green.example") {
		t.Error("description missing custom app URL")
	}
}
