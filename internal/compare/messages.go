package compare

import (
	"fmt"

	"carbone/internal/core"
)

// alertTemplates holds the bilingual alert wording per severity. Templates
// take the category name and the absolute deviation percentage.
var alertTemplates = map[core.Severity]core.LocalizedMessage{
	core.SeverityCritical: {
		FR: "⚠️ ALERTE CRITIQUE: %s dépasse le budget de %.1f%%",
		EN: "⚠️ CRITICAL ALERT: %s exceeds budget by %.1f%%",
	},
	core.SeverityHigh: {
		FR: "⚠️ ALERTE: %s dépasse le budget de %.1f%%",
		EN: "⚠️ ALERT: %s exceeds budget by %.1f%%",
	},
	core.SeverityMedium: {
		FR: "⚠️ Attention: %s dépasse le budget de %.1f%%",
		EN: "⚠️ Warning: %s exceeds budget by %.1f%%",
	},
	core.SeverityWarning: {
		FR: "ℹ️ Surveillance: %s approche du budget (+%.1f%%)",
		EN: "ℹ️ Watch: %s approaching budget (+%.1f%%)",
	},
}

// onTrackMessage has no percentage parameter.
var onTrackMessage = core.LocalizedMessage{
	FR: "✓ %s dans les limites du budget",
	EN: "✓ %s within budget",
}

func alertMessage(cat core.Category, severity core.Severity, diffPct float64) core.LocalizedMessage {
	tmpl, ok := alertTemplates[severity]
	if !ok {
		return core.LocalizedMessage{
			FR: fmt.Sprintf(onTrackMessage.FR, cat.Name()),
			EN: fmt.Sprintf(onTrackMessage.EN, cat.Name()),
		}
	}
	abs := diffPct
	if abs < 0 {
		abs = -abs
	}
	return core.LocalizedMessage{
		FR: fmt.Sprintf(tmpl.FR, cat.Name(), abs),
		EN: fmt.Sprintf(tmpl.EN, cat.Name(), abs),
	}
}
