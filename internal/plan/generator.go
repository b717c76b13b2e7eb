// Package plan turns emission records into a prioritized climate
// action plan built from per-category action templates.
package plan

import (
	"fmt"
	"math"
	"sort"
	"time"

	"carbone/internal/core"
)

const (
	LangFR = "fr"
	LangEN = "en"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Categories holding less than this share of total emissions get no
// dedicated actions.
const minSharePercent = 5.0

// DefaultMaxActions caps a generated plan when the caller passes no limit.
const DefaultMaxActions = 15

const targetDays = 90

// CategoryShare is the analyzed footprint of one emission category.
type CategoryShare struct {
	Category    string  `json:"category"`
	EmissionsKg float64 `json:"emissions_kg"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"`
}

// Action is one prioritized item of the plan.
type Action struct {
	ID                 string      `json:"id"`
	Category           string      `json:"category"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Impact             Impact      `json:"impact"`
	Feasibility        Feasibility `json:"feasibility"`
	ReductionPercent   float64     `json:"reduction_percent"`
	EstimatedReduction float64     `json:"estimated_reduction"`
	PriorityScore      float64     `json:"priority_score"`
	Priority           string      `json:"priority"`
	CategoryEmissions  float64     `json:"category_emissions"`
	CategoryPercentage float64     `json:"category_percentage"`
	Status             string      `json:"status"`
	CreatedAt          time.Time   `json:"created_at"`
	TargetDate         time.Time   `json:"target_date"`
}

// CategoryPlan aggregates the plan's actions for one category.
type CategoryPlan struct {
	Count              int     `json:"count"`
	PotentialReduction float64 `json:"potential_reduction"`
}

// Summary is the roll-up of a generated plan.
type Summary struct {
	CurrentEmissions    float64                 `json:"current_emissions"`
	PotentialReduction  float64                 `json:"potential_reduction"`
	ReductionPercentage float64                 `json:"reduction_percentage"`
	TotalActions        int                     `json:"total_actions"`
	HighPriority        int                     `json:"high_priority"`
	MediumPriority      int                     `json:"medium_priority"`
	LowPriority         int                     `json:"low_priority"`
	ByCategory          map[string]CategoryPlan `json:"by_category"`
	QuickWins           []Action                `json:"quick_wins"`
}

// Plan is a complete action plan with its summary.
type Plan struct {
	Actions     []Action  `json:"actions"`
	Summary     Summary   `json:"summary"`
	Language    string    `json:"language"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Generator builds action plans. The zero value is not usable, call
// NewGenerator.
type Generator struct {
	now func() time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Generate analyzes records: shares per category, actions from the
// matching templates scored and sorted by priority, then a summary.
// maxActions <= 0 applies DefaultMaxActions.
func (g *Generator) Generate(records []core.EmissionRecord, lang string, maxActions int) (*Plan, error) {
	if lang != LangFR && lang != LangEN {
		return nil, fmt.Errorf("plan: unsupported language %q", lang)
	}
	if maxActions <= 0 {
		maxActions = DefaultMaxActions
	}

	shares, total := AnalyzeEmissions(records)
	now := g.now()

	var actions []Action
	for _, share := range shares {
		if share.Percentage < minSharePercent {
			continue
		}
		for _, tpl := range actionTemplates[share.Category][lang] {
			a := Action{
				ID:                 fmt.Sprintf("%s_%d", share.Category, len(actions)),
				Category:           share.Category,
				Title:              tpl.Title,
				Description:        tpl.Description,
				Impact:             tpl.Impact,
				Feasibility:        tpl.Feasibility,
				ReductionPercent:   tpl.ReductionPercent,
				CategoryEmissions:  round2(share.EmissionsKg),
				CategoryPercentage: round1(share.Percentage),
				Status:             "pending",
				CreatedAt:          now,
				TargetDate:         now.AddDate(0, 0, targetDays),
			}
			if tpl.ReductionPercent > 0 {
				a.EstimatedReduction = round2(share.EmissionsKg * tpl.ReductionPercent / 100)
			}
			a.PriorityScore = priorityScore(share.Percentage, tpl.Impact, tpl.Feasibility, tpl.ReductionPercent)
			a.Priority = priorityLevel(a.PriorityScore)
			actions = append(actions, a)
		}
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].PriorityScore > actions[j].PriorityScore
	})
	if len(actions) > maxActions {
		actions = actions[:maxActions]
	}

	return &Plan{
		Actions:     actions,
		Summary:     summarize(actions, total),
		Language:    lang,
		GeneratedAt: now,
	}, nil
}

// AnalyzeEmissions sums records per category and computes each
// category's share of the total, sorted by emissions descending.
func AnalyzeEmissions(records []core.EmissionRecord) (shares []CategoryShare, totalKg float64) {
	sums := make(map[string]*CategoryShare)
	for _, r := range records {
		cat := r.Category
		if cat == "" {
			cat = core.UncategorizedName
		}
		s, ok := sums[cat]
		if !ok {
			s = &CategoryShare{Category: cat}
			sums[cat] = s
		}
		s.EmissionsKg += r.EmissionsKg
		s.Count++
		totalKg += r.EmissionsKg
	}

	shares = make([]CategoryShare, 0, len(sums))
	for _, s := range sums {
		if totalKg > 0 {
			s.Percentage = s.EmissionsKg / totalKg * 100
		}
		shares = append(shares, *s)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].EmissionsKg != shares[j].EmissionsKg {
			return shares[i].EmissionsKg > shares[j].EmissionsKg
		}
		return shares[i].Category < shares[j].Category
	})
	return shares, totalKg
}

// priorityScore weighs an action 0-100: category share capped at 40,
// impact up to 30, feasibility up to 20, reduction percent up to 10.
func priorityScore(sharePct float64, impact Impact, feasibility Feasibility, reductionPct float64) float64 {
	score := min(sharePct, 40)

	switch impact {
	case ImpactHigh:
		score += 30
	case ImpactMedium:
		score += 20
	default:
		score += 10
	}

	switch feasibility {
	case FeasibilityEasy:
		score += 20
	case FeasibilityMedium:
		score += 12
	case FeasibilityHard:
		score += 5
	default:
		score += 10
	}

	score += min(reductionPct/10, 10)
	return round2(score)
}

func priorityLevel(score float64) string {
	switch {
	case score >= 80:
		return PriorityHigh
	case score >= 50:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func summarize(actions []Action, totalKg float64) Summary {
	s := Summary{
		CurrentEmissions: round2(totalKg),
		TotalActions:     len(actions),
		ByCategory:       make(map[string]CategoryPlan),
		QuickWins:        []Action{},
	}

	var reduction float64
	for _, a := range actions {
		reduction += a.EstimatedReduction

		switch a.Priority {
		case PriorityHigh:
			s.HighPriority++
		case PriorityMedium:
			s.MediumPriority++
		default:
			s.LowPriority++
		}

		cp := s.ByCategory[a.Category]
		cp.Count++
		cp.PotentialReduction = round2(cp.PotentialReduction + a.EstimatedReduction)
		s.ByCategory[a.Category] = cp

		if a.Feasibility == FeasibilityEasy && (a.Impact == ImpactHigh || a.Impact == ImpactMedium) && len(s.QuickWins) < 5 {
			s.QuickWins = append(s.QuickWins, a)
		}
	}

	s.PotentialReduction = round2(reduction)
	if totalKg > 0 {
		s.ReductionPercentage = round1(reduction / totalKg * 100)
	}
	return s
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
