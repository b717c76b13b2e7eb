package core

import "testing"

func TestClassifyDeviation(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
		want Severity
	}{
		{"far over budget", 45.2, SeverityCritical},
		{"just over critical bound", 20.0001, SeverityCritical},
		{"exactly twenty is high", 20.0, SeverityHigh},
		{"fifteen percent over", 15.0, SeverityHigh},
		{"exactly ten is medium", 10.0, SeverityMedium},
		{"seven percent over", 7.3, SeverityMedium},
		{"exactly five is warning", 5.0, SeverityWarning},
		{"barely over", 0.1, SeverityWarning},
		{"exactly on budget", 0.0, SeverityOnTrack},
		{"under budget", -12.5, SeverityOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDeviation(tt.pct)
			if got != tt.want {
				t.Errorf("ClassifyDeviation(%v) = %v, want %v", tt.pct, got, tt.want)
			}
		})
	}
}

func TestSeverityRank(t *testing.T) {
	ordered := []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityWarning, SeverityOnTrack}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("%s should rank before %s", ordered[i-1], ordered[i])
		}
	}
	if Severity("bogus").Rank() <= SeverityOnTrack.Rank() {
		t.Errorf("unknown severity should sort last")
	}
}

func TestSeverityActionable(t *testing.T) {
	if !SeverityCritical.Actionable() || !SeverityHigh.Actionable() {
		t.Errorf("critical and high must be actionable")
	}
	if SeverityMedium.Actionable() || SeverityWarning.Actionable() || SeverityOnTrack.Actionable() {
		t.Errorf("medium, warning and on_track must not be actionable")
	}
}
