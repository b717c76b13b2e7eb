package core

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityWarning  Severity = "warning"
	SeverityOnTrack  Severity = "on_track"
)

// Severity grades how far a forecast deviates above its budget.
type Severity string

// severityLevels maps a deviation percentage to a severity. Bounds are
// exclusive: exactly 20.0 classifies as high, not critical.
var severityLevels = []struct {
	Above float64
	Level Severity
}{
	{20, SeverityCritical},
	{10, SeverityHigh},
	{5, SeverityMedium},
	{0, SeverityWarning},
}

// ClassifyDeviation maps a budget deviation percentage to its severity.
func ClassifyDeviation(differencePct float64) Severity {
	for _, l := range severityLevels {
		if differencePct > l.Above {
			return l.Level
		}
	}
	return SeverityOnTrack
}

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityWarning:  3,
	SeverityOnTrack:  4,
}

// Rank returns the presentation order of s, critical first. Unknown
// severities sort last.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// Actionable reports whether s demands immediate action.
func (s Severity) Actionable() bool {
	return s == SeverityCritical || s == SeverityHigh
}
