package budget

import (
	"fmt"
	"strconv"
	"strings"

	"carbone/internal/core"
)

// categoryHeaders are the accepted names for the category column.
var categoryHeaders = []string{"Categorie", "Category"}

// Normalizer validates a budget source and loads it at a requested
// granularity. The source granularity is a per-file setting inferred from
// the budget column's name, never per-row.
type Normalizer struct {
	src Source
}

func New(src Source) *Normalizer {
	return &Normalizer{src: src}
}

// Validate checks the structure of the source and returns every violation
// found in one pass. It never short-circuits: a file with three problems
// reports all three.
func (n *Normalizer) Validate() (bool, []string) {
	var problems []string

	headers := n.src.Headers()
	catCol := categoryColumn(headers)
	if catCol < 0 {
		problems = append(problems, fmt.Sprintf("Missing required columns: %s", strings.Join(categoryHeaders, " or ")))
	}

	budgetCol := budgetColumn(headers)
	if budgetCol < 0 {
		problems = append(problems, "No budget column found. Expected columns like 'Budget_mensuel', 'Budget_annuel', or 'Budget'")
	}

	rows := n.src.Rows()
	if len(rows) == 0 {
		problems = append(problems, "Budget file is empty")
	}

	if catCol >= 0 {
		seen := make(map[core.Category]bool)
		var dups []string
		for _, row := range rows {
			cat := core.CategoryOf(cell(row, catCol))
			if seen[cat] {
				dups = append(dups, cat.Name())
			}
			seen[cat] = true
		}
		if len(dups) > 0 {
			problems = append(problems, fmt.Sprintf("Duplicate categories found: %s", strings.Join(dups, ", ")))
		}
	}

	if catCol >= 0 && budgetCol >= 0 {
		for _, row := range rows {
			raw := strings.TrimSpace(cell(row, budgetCol))
			if v, err := strconv.ParseFloat(raw, 64); err != nil || v < 0 {
				problems = append(problems, fmt.Sprintf("Invalid budget value for category '%s': %s",
					core.CategoryOf(cell(row, catCol)).Name(), raw))
			}
		}
	}

	return len(problems) == 0, problems
}

// Load validates the source and returns budgets normalized to target.
// Filter limits the output to the named categories; the synthesized overall
// entry is always present and always equals the sum of all per-category
// normalized values, filtered or not.
func (n *Normalizer) Load(target core.Granularity, filter []string) (*core.Budget, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("invalid granularity %q", target)
	}

	ok, problems := n.Validate()
	if !ok {
		return nil, &core.BudgetValidationError{Problems: problems}
	}

	headers := n.src.Headers()
	catCol := categoryColumn(headers)
	budgetCol := budgetColumn(headers)
	from := detectGranularity(headers[budgetCol])

	normalized := make(map[core.Category]float64)
	var total float64
	for _, row := range n.src.Rows() {
		cat := core.CategoryOf(cell(row, catCol))
		raw, _ := strconv.ParseFloat(strings.TrimSpace(cell(row, budgetCol)), 64)
		value := Convert(raw, from, target)
		normalized[cat] = value
		total += value
	}

	values := make(map[core.Category]float64)
	if len(filter) == 0 {
		for cat, v := range normalized {
			values[cat] = v
		}
	} else {
		for _, name := range filter {
			cat := core.CategoryOf(name)
			if v, ok := normalized[cat]; ok {
				values[cat] = v
			}
		}
	}
	values[core.Overall()] = total

	return &core.Budget{Granularity: target, Values: values}, nil
}

// Convert rescales value between granularities using exact factors; the
// annual↔monthly round trip is lossless.
func Convert(value float64, from, to core.Granularity) float64 {
	switch from {
	case core.Monthly:
		switch to {
		case core.Quarterly:
			return value * 3
		case core.Annual:
			return value * 12
		}
	case core.Quarterly:
		switch to {
		case core.Monthly:
			return value / 3
		case core.Annual:
			return value * 4
		}
	case core.Annual:
		switch to {
		case core.Monthly:
			return value / 12
		case core.Quarterly:
			return value / 4
		}
	}
	return value
}

func categoryColumn(headers []string) int {
	for i, h := range headers {
		for _, want := range categoryHeaders {
			if strings.EqualFold(strings.TrimSpace(h), want) {
				return i
			}
		}
	}
	return -1
}

// budgetColumn returns the first column whose name contains "budget",
// case-insensitively.
func budgetColumn(headers []string) int {
	for i, h := range headers {
		if strings.Contains(strings.ToLower(h), "budget") {
			return i
		}
	}
	return -1
}

// detectGranularity infers the file's granularity from the budget column
// name. Ambiguous names default to annual.
func detectGranularity(header string) core.Granularity {
	h := strings.ToLower(header)
	switch {
	case strings.Contains(h, "mensuel") || strings.Contains(h, "monthly"):
		return core.Monthly
	case strings.Contains(h, "trimestriel") || strings.Contains(h, "quarterly"):
		return core.Quarterly
	case strings.Contains(h, "annuel") || strings.Contains(h, "annual") || strings.Contains(h, "yearly"):
		return core.Annual
	default:
		return core.Annual
	}
}
