package recipe

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Recipe is a single catalog recipe as shown in the pool, favorites and the
// meal plan. Instances are immutable once fetched; collections copy them.
type Recipe struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Image          string   `json:"image"`
	Tags           []string `json:"tags,omitempty"`
	ReadyInMinutes int      `json:"readyInMinutes"`
	Servings       int      `json:"servings"`
	Summary        string   `json:"summary,omitempty"`
}

// Detail is the full record for a recipe, fetched lazily per selection.
// Absence is a valid state; callers fall back to Recipe.Summary.
type Detail struct {
	Recipe
	Ingredients  []string         `json:"ingredients,omitempty"`
	Instructions []InstructionSet `json:"instructions,omitempty"`
	Nutrients    []Nutrient       `json:"nutrients,omitempty"`
}

// InstructionSet is one named group of ordered preparation steps.
type InstructionSet struct {
	Name  string `json:"name,omitempty"`
	Steps []Step `json:"steps"`
}

// Step is a single numbered instruction.
type Step struct {
	Number int    `json:"number"`
	Text   string `json:"step"`
}

// Nutrient is one row of the per-serving nutrition table.
type Nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// PlainSummary returns the summary with any embedded markup stripped, for
// text-only surfaces. The raw Summary stays untouched for surfaces that
// render markup verbatim.
func (r Recipe) PlainSummary() string {
	if !strings.Contains(r.Summary, "<") {
		return strings.TrimSpace(r.Summary)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(r.Summary))
	if err != nil {
		return strings.TrimSpace(r.Summary)
	}
	return strings.TrimSpace(doc.Text())
}

// Day is a weekday bucket of the meal plan.
type Day string

const (
	Monday    Day = "Mon"
	Tuesday   Day = "Tue"
	Wednesday Day = "Wed"
	Thursday  Day = "Thu"
	Friday    Day = "Fri"
	Saturday  Day = "Sat"
	Sunday    Day = "Sun"
)

// Week lists the plan days in display order.
var Week = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseDay validates a day key (case-insensitive, accepts full names).
func ParseDay(s string) (Day, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if len(key) > 3 {
		key = key[:3]
	}
	for _, d := range Week {
		if strings.ToLower(string(d)) == key {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown day %q", s)
}
