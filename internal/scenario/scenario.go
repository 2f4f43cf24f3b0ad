// Package scenario defines the multi-turn conversation scripts the harness
// drives against the chatbot, and loads user-authored scripts from YAML.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category tags group scenarios into the fixed set of workflow families.
const (
	CategoryFire          = "fire_emergency_flow"
	CategoryMedical       = "medical_emergency_flow"
	CategorySecurity      = "security_emergency_flow"
	CategoryCorrection    = "user_correction_flow"
	CategoryAuthenticated = "authenticated_user_flow"
	CategoryEdgeCase      = "edge_case_flow"
)

// Categories lists every valid category tag in display order.
func Categories() []string {
	return []string{
		CategoryFire,
		CategoryMedical,
		CategorySecurity,
		CategoryCorrection,
		CategoryAuthenticated,
		CategoryEdgeCase,
	}
}

// Turn is one scripted exchange: the user message to send and the declared
// expectations for the bot's reply. Immutable once built.
type Turn struct {
	UserMessage        string         `json:"user_message" yaml:"user-message"`
	ExpectedActions    []string       `json:"expected_bot_actions" yaml:"expected-actions"`
	ExpectedExtract    map[string]any `json:"expected_extractions" yaml:"expected-extractions"`
	ExpectedNextStep   string         `json:"expected_next_step" yaml:"expected-next-step"`
	ValidationCriteria []string       `json:"validation_criteria" yaml:"validation-criteria"`
}

// Scenario is a named multi-turn conversation script with its expected
// end state. Read-only during evaluation.
type Scenario struct {
	ID                 string         `json:"id" yaml:"id"`
	Name               string         `json:"name" yaml:"name"`
	Description        string         `json:"description" yaml:"description"`
	Category           string         `json:"category" yaml:"category"`
	Turns              []Turn         `json:"turns" yaml:"turns"`
	ExpectedFinalState map[string]any `json:"expected_final_state" yaml:"expected-final-state"`
	IsAuthenticated    bool           `json:"is_authenticated" yaml:"is-authenticated"`
	UserMemory         map[string]any `json:"user_memory,omitempty" yaml:"user-memory"`
	ShouldCreateTicket bool           `json:"should_create_ticket" yaml:"should-create-ticket"`
	Metadata           map[string]any `json:"metadata,omitempty" yaml:"metadata"`
}

// ExpectsSkippedPhone reports whether the expected final state declares that
// phone collection must be skipped (authenticated users with a saved phone).
func (s *Scenario) ExpectsSkippedPhone() bool {
	v, ok := s.ExpectedFinalState["skippedPhoneCollection"]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// Load reads one scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &sc, nil
}

// LoadDir reads every *.yml / *.yaml scenario under dir, sorted by file name.
// A malformed file is a configuration error and fails the whole load.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		sc, err := Load(p)
		if err != nil {
			return nil, err
		}
		if err := Validate(sc); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// Validate checks required fields. Validation failures are fatal
// configuration errors, not per-scenario evaluation failures.
func Validate(sc *Scenario) error {
	if sc.ID == "" {
		return errors.New("scenario id is required")
	}
	if sc.Name == "" {
		return errors.New("scenario name is required")
	}
	if !validCategory(sc.Category) {
		return fmt.Errorf("unknown category %q", sc.Category)
	}
	if len(sc.Turns) == 0 {
		return errors.New("scenario must have at least one turn")
	}
	for i, turn := range sc.Turns {
		if strings.TrimSpace(turn.UserMessage) == "" {
			return fmt.Errorf("turn %d: user message is required", i+1)
		}
	}
	return nil
}

func validCategory(category string) bool {
	for _, c := range Categories() {
		if c == category {
			return true
		}
	}
	return false
}

// Filter returns the scenarios whose category is in categories, preserving
// order. An empty categories list keeps everything.
func Filter(scenarios []*Scenario, categories []string) []*Scenario {
	if len(categories) == 0 {
		return scenarios
	}
	want := make(map[string]bool, len(categories))
	for _, c := range categories {
		want[strings.TrimSpace(c)] = true
	}
	out := make([]*Scenario, 0, len(scenarios))
	for _, sc := range scenarios {
		if want[sc.Category] {
			out = append(out, sc)
		}
	}
	return out
}
