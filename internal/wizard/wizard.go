// Package wizard collects a new scenario definition interactively and
// renders it to YAML.
package wizard

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ScenarioSpec holds all fields collected during the interactive wizard.
type ScenarioSpec struct {
	ID            string
	Destination   string
	StartDate     string
	EndDate       string
	BudgetCeiling float64
	RootSeed      int64
	Amenities     []string
	Cuisines      []string
	PetFriendly   bool
}

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

const scenarioTemplate = `id: {{ .ID }}
root_seed: {{ .RootSeed }}
brief:
  destination: {{ .Destination }}
  start_date: "{{ .StartDate }}"
  end_date: "{{ .EndDate }}"
  budget_ceiling: {{ .BudgetCeiling }}
{{- if .PetFriendly }}
  pet_friendly: true
{{- end }}
{{- if .Amenities }}
  required_amenities:
{{- range .Amenities }}
    - {{ . }}
{{- end }}
{{- end }}
{{- if .Cuisines }}
  preferred_cuisines:
{{- range .Cuisines }}
    - {{ . }}
{{- end }}
{{- end }}
`

// RunScenarioWizard runs an interactive huh form to collect scenario
// fields. If initialID is non-empty, it pre-populates the ID field.
func RunScenarioWizard(in io.Reader, out io.Writer, initialID string) (*ScenarioSpec, error) {
	var (
		id          = initialID
		destination string
		startDate   string
		endDate     string
		budgetRaw   string
		seedRaw     string
		amenities   string
		cuisines    string
		petFriendly bool
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Scenario ID").
				Description("Kebab-case identifier for this scenario").
				Placeholder("paris-spring-trip").
				Value(&id).
				Validate(func(s string) error {
					if !idPattern.MatchString(strings.TrimSpace(s)) {
						return fmt.Errorf("must be lowercase letters, digits, and hyphens")
					}
					return nil
				}),
			huh.NewInput().
				Title("Destination").
				Placeholder("Paris").
				Value(&destination).
				Validate(required("destination")),
			huh.NewInput().
				Title("Start date").
				Placeholder("2026-05-10").
				Value(&startDate).
				Validate(validDate),
			huh.NewInput().
				Title("End date").
				Placeholder("2026-05-15").
				Value(&endDate).
				Validate(validDate),
			huh.NewInput().
				Title("Budget ceiling").
				Description("Total trip budget in USD").
				Placeholder("3000").
				Value(&budgetRaw).
				Validate(positiveNumber),
			huh.NewInput().
				Title("Root seed").
				Description("Positive integer controlling fixture generation").
				Placeholder("42").
				Value(&seedRaw).
				Validate(positiveInteger),
			huh.NewInput().
				Title("Required amenities").
				Description("Comma-separated, e.g. wifi, parking").
				Value(&amenities),
			huh.NewInput().
				Title("Preferred cuisines").
				Description("Comma-separated, e.g. italian, thai").
				Value(&cuisines),
			huh.NewConfirm().
				Title("Traveling with a pet?").
				Value(&petFriendly),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	budget, _ := strconv.ParseFloat(strings.TrimSpace(budgetRaw), 64)
	seedVal, _ := strconv.ParseInt(strings.TrimSpace(seedRaw), 10, 64)

	return &ScenarioSpec{
		ID:            strings.TrimSpace(id),
		Destination:   strings.TrimSpace(destination),
		StartDate:     strings.TrimSpace(startDate),
		EndDate:       strings.TrimSpace(endDate),
		BudgetCeiling: budget,
		RootSeed:      seedVal,
		Amenities:     splitAndTrim(amenities),
		Cuisines:      splitAndTrim(cuisines),
		PetFriendly:   petFriendly,
	}, nil
}

// GenerateScenarioYAML renders a scenario file from the given spec.
func GenerateScenarioYAML(spec *ScenarioSpec) (string, error) {
	tmpl, err := template.New("scenario").Parse(scenarioTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, spec); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validDate(s string) error {
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("must be YYYY-MM-DD")
	}
	return nil
}

func positiveNumber(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func positiveInteger(s string) error {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
