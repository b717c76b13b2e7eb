package compare

import (
	"fmt"

	"carbone/internal/core"
)

const (
	LangFR = "fr"
	LangEN = "en"
)

type actionSet struct {
	fr []string
	en []string
}

// categoryActions is the fixed lookup table of reduction actions. Unknown
// categories fall back to the overall set.
var categoryActions = map[string]actionSet{
	core.OverallName: {
		fr: []string{
			"Réviser la stratégie globale de réduction carbone",
			"Prioriser les catégories avec le plus grand impact",
			"Mettre en place un suivi mensuel des émissions",
		},
		en: []string{
			"Review overall carbon reduction strategy",
			"Prioritize categories with greatest impact",
			"Implement monthly emissions tracking",
		},
	},
	"voyages_aeriens": {
		fr: []string{
			"Privilégier les visioconférences quand possible",
			"Choisir des vols directs",
			"Compenser les émissions carbone",
		},
		en: []string{
			"Prefer video conferences when possible",
			"Choose direct flights",
			"Offset carbon emissions",
		},
	},
	"transport_routier": {
		fr: []string{
			"Optimiser les trajets et le covoiturage",
			"Passer à des véhicules électriques",
			"Encourager les transports en commun",
		},
		en: []string{
			"Optimize routes and carpooling",
			"Switch to electric vehicles",
			"Encourage public transportation",
		},
	},
	"energie": {
		fr: []string{
			"Améliorer l'efficacité énergétique",
			"Passer aux énergies renouvelables",
			"Optimiser le chauffage/climatisation",
		},
		en: []string{
			"Improve energy efficiency",
			"Switch to renewable energy",
			"Optimize heating/cooling",
		},
	},
	"materiaux": {
		fr: []string{
			"Privilégier les matériaux recyclés",
			"Réduire le gaspillage",
			"Choisir des fournisseurs locaux",
		},
		en: []string{
			"Prefer recycled materials",
			"Reduce waste",
			"Choose local suppliers",
		},
	},
}

// Recommendations builds a localized action list for every critical or high
// alert in the report. The priority label mirrors the alert severity:
// critical maps to high priority, high to medium.
func Recommendations(report *core.ComparisonReport, lang string) []core.Recommendation {
	if lang != LangEN {
		lang = LangFR
	}

	var recs []core.Recommendation
	for _, alert := range report.Alerts {
		if !alert.Severity.Actionable() {
			continue
		}

		diffPct := alert.DifferencePct
		if diffPct < 0 {
			diffPct = -diffPct
		}

		rec := core.Recommendation{
			Category: alert.Category,
			Actions:  actionsFor(alert.Category, lang),
		}
		if lang == LangEN {
			rec.Title = fmt.Sprintf("Reduce emissions: %s", alert.Category.Name())
			rec.Description = fmt.Sprintf("Forecast exceeds budget by %.1f%%. Recommended actions to reduce emissions in this category.", diffPct)
			if alert.Severity == core.SeverityCritical {
				rec.Priority = "high"
			} else {
				rec.Priority = "medium"
			}
		} else {
			rec.Title = fmt.Sprintf("Réduire les émissions: %s", alert.Category.Name())
			rec.Description = fmt.Sprintf("Les prévisions dépassent le budget de %.1f%%. Actions recommandées pour réduire les émissions dans cette catégorie.", diffPct)
			if alert.Severity == core.SeverityCritical {
				rec.Priority = "haute"
			} else {
				rec.Priority = "moyenne"
			}
		}
		recs = append(recs, rec)
	}
	return recs
}

func actionsFor(cat core.Category, lang string) []string {
	set, ok := categoryActions[cat.Name()]
	if !ok {
		set = categoryActions[core.OverallName]
	}
	if lang == LangEN {
		return set.en
	}
	return set.fr
}
