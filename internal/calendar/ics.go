// Package calendar exports action plans to calendar systems, either
// as downloadable .ics files or through the Google Calendar API.
package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"carbone/internal/plan"
)

const (
	DefaultAppName = "Carbone"
	DefaultAppURL  = "http://localhost:8080"
)

const eventDuration = time.Hour

// Exporter renders plan actions as calendar payloads. The zero value
// uses the default application name and URL.
type Exporter struct {
	AppName string
	AppURL  string
}

func (e Exporter) appName() string {
	if e.AppName == "" {
		return DefaultAppName
	}
	return e.AppName
}

func (e Exporter) appURL() string {
	if e.AppURL == "" {
		return DefaultAppURL
	}
	return e.AppURL
}

// RenderICS builds an iCalendar document with one event per action.
// Events start at the action's target date, last one hour and carry a
// reminder seven days ahead.
func (e Exporter) RenderICS(actions []plan.Action) []byte {
	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:-//"+e.appName()+"//Action Plan//EN")
	writeLine(&b, "CALSCALE:GREGORIAN")

	for _, a := range actions {
		start := a.TargetDate.UTC()
		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, "UID:"+a.ID+"@"+e.appName())
		writeLine(&b, "DTSTAMP:"+icsTime(a.CreatedAt.UTC()))
		writeLine(&b, "DTSTART:"+icsTime(start))
		writeLine(&b, "DTEND:"+icsTime(start.Add(eventDuration)))
		writeLine(&b, "SUMMARY:"+escapeICS(e.EventTitle(a)))
		writeLine(&b, "DESCRIPTION:"+escapeICS(e.EventDescription(a)))
		writeLine(&b, "URL:"+e.actionURL(a))
		writeLine(&b, "CATEGORIES:"+escapeICS(priorityCategory(a.Priority))+",Climate Action")
		writeLine(&b, "BEGIN:VALARM")
		writeLine(&b, "ACTION:DISPLAY")
		writeLine(&b, "DESCRIPTION:"+escapeICS(e.EventTitle(a)))
		writeLine(&b, "TRIGGER:-P7D")
		writeLine(&b, "END:VALARM")
		writeLine(&b, "END:VEVENT")
	}

	writeLine(&b, "END:VCALENDAR")
	return []byte(b.String())
}

// EventTitle prefixes the action title with the application name.
func (e Exporter) EventTitle(a plan.Action) string {
	return fmt.Sprintf("[%s] %s", e.appName(), a.Title)
}

// EventDescription formats an action as a calendar event body.
func (e Exporter) EventDescription(a plan.Action) string {
	lines := []string{
		"📋 " + a.Description,
		"",
		"🎯 Priority: " + strings.ToUpper(a.Priority),
		"⚡ Impact: " + strings.ToUpper(string(a.Impact)),
		"🔧 Feasibility: " + strings.ToUpper(string(a.Feasibility)),
		"",
	}
	if a.EstimatedReduction > 0 {
		lines = append(lines,
			fmt.Sprintf("🌱 Estimated reduction: %.2f kg CO₂e", a.EstimatedReduction),
			"")
	}
	if a.Category != "" {
		lines = append(lines, "📂 Category: "+a.Category, "")
	}
	lines = append(lines, fmt.Sprintf("🔗 Track in %s: %s", e.appName(), e.appURL()))
	return strings.Join(lines, "\n")
}

// GoogleLink builds a Google Calendar "add event" URL for one action.
func (e Exporter) GoogleLink(a plan.Action) string {
	start := a.TargetDate.UTC()
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", e.EventTitle(a))
	q.Set("dates", linkTime(start)+"/"+linkTime(start.Add(eventDuration)))
	q.Set("details", e.EventDescription(a))
	q.Set("location", e.appURL())
	return "https://calendar.google.com/calendar/render?" + q.Encode()
}

// OutlookLink builds an Outlook web "add event" URL for one action.
func (e Exporter) OutlookLink(a plan.Action) string {
	start := a.TargetDate.UTC()
	q := url.Values{}
	q.Set("path", "/calendar/action/compose")
	q.Set("rru", "addevent")
	q.Set("subject", e.EventTitle(a))
	q.Set("body", e.EventDescription(a))
	q.Set("startdt", start.Format(time.RFC3339))
	q.Set("enddt", start.Add(eventDuration).Format(time.RFC3339))
	return "https://outlook.live.com/calendar/0/deeplink/compose?" + q.Encode()
}

func (e Exporter) actionURL(a plan.Action) string {
	return e.appURL() + "/actions?id=" + url.QueryEscape(a.ID)
}

func priorityCategory(priority string) string {
	switch priority {
	case plan.PriorityHigh:
		return "High Priority"
	case plan.PriorityMedium:
		return "Medium Priority"
	default:
		return "Low Priority"
	}
}

func icsTime(t time.Time) string {
	return t.Format("20060102T150405Z")
}

func linkTime(t time.Time) string {
	return t.Format("20060102T150405")
}

// writeLine appends an iCalendar content line with CRLF termination.
func writeLine(b *strings.Builder, line string) {
	b.WriteString(line)
	b.WriteString("\r\n")
}

func escapeICS(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return r.Replace(s)
}
