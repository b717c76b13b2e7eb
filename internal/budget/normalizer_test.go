package budget

import (
	"errors"
	"math"
	"strings"
	"testing"

	"carbone/internal/core"
)

func monthlyTable() *Table {
	return &Table{
		Cols: []string{"Categorie", "Budget_mensuel"},
		Data: [][]string{
			{"energie", "100"},
			{"transport_routier", "50"},
			{"voyages_aeriens", "30"},
		},
	}
}

func TestValidateCleanFile(t *testing.T) {
	ok, problems := New(monthlyTable()).Validate()
	if !ok {
		t.Fatalf("Validate() = false, problems: %v", problems)
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	src := &Table{
		Cols: []string{"Libelle", "Montant"},
		Data: nil,
	}

	ok, problems := New(src).Validate()
	if ok {
		t.Fatalf("Validate() = true for broken file")
	}
	if len(problems) != 3 {
		t.Fatalf("problems = %d (%v), want 3", len(problems), problems)
	}

	joined := strings.Join(problems, "\n")
	for _, want := range []string{"Missing required columns", "No budget column found", "empty"} {
		if !strings.Contains(joined, want) {
			t.Errorf("problems missing %q: %v", want, problems)
		}
	}
}

func TestValidateMissingBudgetColumn(t *testing.T) {
	src := &Table{
		Cols: []string{"Categorie", "Montant"},
		Data: [][]string{{"energie", "100"}},
	}

	ok, problems := New(src).Validate()
	if ok {
		t.Fatalf("Validate() = true without a budget column")
	}
	found := false
	for _, p := range problems {
		if strings.Contains(p, "No budget column found") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'No budget column found' in %v", problems)
	}
}

func TestValidateDuplicateCategories(t *testing.T) {
	src := &Table{
		Cols: []string{"Categorie", "Budget"},
		Data: [][]string{
			{"energie", "100"},
			{"energie", "200"},
		},
	}

	ok, problems := New(src).Validate()
	if ok {
		t.Fatalf("Validate() = true with duplicate categories")
	}
	if len(problems) != 1 || !strings.Contains(problems[0], "Duplicate categories found: energie") {
		t.Errorf("problems = %v", problems)
	}
}

func TestValidateRejectsNonNumericValues(t *testing.T) {
	src := &Table{
		Cols: []string{"Categorie", "Budget_annuel"},
		Data: [][]string{
			{"energie", "not-a-number"},
			{"transport_routier", "-5"},
			{"voyages_aeriens", "120"},
		},
	}

	ok, problems := New(src).Validate()
	if ok {
		t.Fatalf("Validate() = true with bad values")
	}
	if len(problems) != 2 {
		t.Errorf("problems = %v, want 2 invalid-value reports", problems)
	}
}

func TestLoadNormalizesMonthlyToQuarterly(t *testing.T) {
	b, err := New(monthlyTable()).Load(core.Quarterly, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := b.Values[core.CategoryOf("energie")]; got != 300 {
		t.Errorf("energie = %v, want 300", got)
	}
	if got := b.Values[core.Overall()]; got != 540 {
		t.Errorf("overall = %v, want 540", got)
	}
	if b.Granularity != core.Quarterly {
		t.Errorf("granularity = %v, want quarterly", b.Granularity)
	}
}

func TestLoadDetectsAnnualGranularity(t *testing.T) {
	src := &Table{
		Cols: []string{"Categorie", "Budget_annuel"},
		Data: [][]string{{"energie", "1200"}},
	}

	b, err := New(src).Load(core.Monthly, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := b.Values[core.CategoryOf("energie")]; got != 100 {
		t.Errorf("energie = %v, want 100 (1200/12)", got)
	}
}

func TestLoadDefaultsToAnnualWhenAmbiguous(t *testing.T) {
	src := &Table{
		Cols: []string{"Categorie", "Budget"},
		Data: [][]string{{"energie", "240"}},
	}

	b, err := New(src).Load(core.Monthly, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := b.Values[core.CategoryOf("energie")]; got != 20 {
		t.Errorf("energie = %v, want 20 (240/12)", got)
	}
}

func TestLoadFilterKeepsOverall(t *testing.T) {
	b, err := New(monthlyTable()).Load(core.Monthly, []string{"energie"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, ok := b.Values[core.CategoryOf("transport_routier")]; ok {
		t.Errorf("filtered category still present")
	}
	if got := b.Values[core.CategoryOf("energie")]; got != 100 {
		t.Errorf("energie = %v, want 100", got)
	}
	// Overall stays the sum of all categories, not only the filtered ones.
	if got := b.Values[core.Overall()]; got != 180 {
		t.Errorf("overall = %v, want 180", got)
	}
}

func TestLoadInvalidSourceReturnsValidationError(t *testing.T) {
	src := &Table{Cols: []string{"Nope"}}

	_, err := New(src).Load(core.Monthly, nil)
	var verr *core.BudgetValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Load() error = %v, want BudgetValidationError", err)
	}
	if len(verr.Problems) < 2 {
		t.Errorf("problems = %v, want all violations collected", verr.Problems)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, 100, 123.45, 0.07} {
		annual := Convert(v, core.Monthly, core.Annual)
		back := Convert(annual, core.Annual, core.Monthly)
		if back != v {
			t.Errorf("monthly %v -> annual -> monthly = %v, want exact round trip", v, back)
		}
	}
}

func TestConvertFactors(t *testing.T) {
	tests := []struct {
		name     string
		from, to core.Granularity
		in, want float64
	}{
		{"monthly to quarterly", core.Monthly, core.Quarterly, 10, 30},
		{"monthly to annual", core.Monthly, core.Annual, 10, 120},
		{"quarterly to monthly", core.Quarterly, core.Monthly, 30, 10},
		{"quarterly to annual", core.Quarterly, core.Annual, 30, 120},
		{"annual to monthly", core.Annual, core.Monthly, 120, 10},
		{"annual to quarterly", core.Annual, core.Quarterly, 120, 30},
		{"identity", core.Monthly, core.Monthly, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Convert(tt.in, tt.from, tt.to); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Convert(%v, %v, %v) = %v, want %v", tt.in, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestFromCSV(t *testing.T) {
	csvData := "Categorie,Budget_mensuel\nenergie,100\ntransport_routier,50\n"

	table, err := FromCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("FromCSV() error = %v", err)
	}
	if len(table.Headers()) != 2 || table.Headers()[1] != "Budget_mensuel" {
		t.Errorf("headers = %v", table.Headers())
	}
	if len(table.Rows()) != 2 {
		t.Errorf("rows = %d, want 2", len(table.Rows()))
	}
}
