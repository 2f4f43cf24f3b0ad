package scenario_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/callcenter112/chatbench/internal/scenario"
)

func validScenario() *scenario.Scenario {
	return &scenario.Scenario{
		ID:       "MULTI_FIRE_001",
		Name:     "Complete Fire Emergency Flow",
		Category: scenario.CategoryFire,
		Turns: []scenario.Turn{
			{UserMessage: "Cháy nhà!"},
		},
		ShouldCreateTicket: true,
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*scenario.Scenario)
		wantErr string
	}{
		{name: "valid", mutate: func(sc *scenario.Scenario) {}},
		{
			name:    "missing id",
			mutate:  func(sc *scenario.Scenario) { sc.ID = "" },
			wantErr: "id is required",
		},
		{
			name:    "missing name",
			mutate:  func(sc *scenario.Scenario) { sc.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "unknown category",
			mutate:  func(sc *scenario.Scenario) { sc.Category = "traffic_flow" },
			wantErr: "unknown category",
		},
		{
			name:    "no turns",
			mutate:  func(sc *scenario.Scenario) { sc.Turns = nil },
			wantErr: "at least one turn",
		},
		{
			name:    "blank user message",
			mutate:  func(sc *scenario.Scenario) { sc.Turns[0].UserMessage = "   " },
			wantErr: "user message is required",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			sc := validScenario()
			tc.mutate(sc)
			err := scenario.Validate(sc)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()

	writeFile := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	writeFile("b_second.yaml", `
id: MULTI_MED_001
name: Medical Flow
category: medical_emergency_flow
turns:
  - user-message: "Có người bị thương!"
`)
	writeFile("a_first.yml", `
id: MULTI_FIRE_001
name: Fire Flow
category: fire_emergency_flow
should-create-ticket: true
expected-final-state:
  skippedPhoneCollection: true
turns:
  - user-message: "Cháy nhà!"
    expected-next-step: first_aid_then_location
    validation-criteria:
      - "Should detect FIRE_RESCUE emergency"
`)
	writeFile("notes.txt", "not a scenario")

	scenarios, err := scenario.LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	// Sorted by file name, not declaration order.
	require.Equal(t, "MULTI_FIRE_001", scenarios[0].ID)
	require.Equal(t, "MULTI_MED_001", scenarios[1].ID)
	require.True(t, scenarios[0].ShouldCreateTicket)
	require.True(t, scenarios[0].ExpectsSkippedPhone())
	require.Equal(t, "first_aid_then_location", scenarios[0].Turns[0].ExpectedNextStep)
	require.Equal(t, []string{"Should detect FIRE_RESCUE emergency"}, scenarios[0].Turns[0].ValidationCriteria)
}

func TestLoadDirRejectsInvalidScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(`
id: BAD_001
name: Bad
category: not_a_category
turns:
  - user-message: "hi"
`), 0o644))

	_, err := scenario.LoadDir(dir)
	require.ErrorContains(t, err, "unknown category")
}

func TestLoadDirRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("turns: ["), 0o644))

	_, err := scenario.LoadDir(dir)
	require.Error(t, err)
}

func TestExpectsSkippedPhone(t *testing.T) {
	sc := validScenario()
	require.False(t, sc.ExpectsSkippedPhone())

	sc.ExpectedFinalState = map[string]any{"skippedPhoneCollection": false}
	require.False(t, sc.ExpectsSkippedPhone())

	sc.ExpectedFinalState["skippedPhoneCollection"] = true
	require.True(t, sc.ExpectsSkippedPhone())

	sc.ExpectedFinalState["skippedPhoneCollection"] = "yes"
	require.False(t, sc.ExpectsSkippedPhone())
}

func TestFilter(t *testing.T) {
	scenarios := []*scenario.Scenario{
		{ID: "A", Category: scenario.CategoryFire},
		{ID: "B", Category: scenario.CategoryMedical},
		{ID: "C", Category: scenario.CategoryFire},
	}

	require.Equal(t, scenarios, scenario.Filter(scenarios, nil))

	got := scenario.Filter(scenarios, []string{scenario.CategoryFire})
	require.Len(t, got, 2)
	require.Equal(t, "A", got[0].ID)
	require.Equal(t, "C", got[1].ID)

	got = scenario.Filter(scenarios, []string{" " + scenario.CategoryMedical + " "})
	require.Len(t, got, 1)
	require.Equal(t, "B", got[0].ID)

	require.Empty(t, scenario.Filter(scenarios, []string{"nope"}))
}

func TestCategories(t *testing.T) {
	cats := scenario.Categories()
	require.Len(t, cats, 6)
	seen := map[string]bool{}
	for _, c := range cats {
		require.False(t, seen[c], "duplicate category %s", c)
		seen[c] = true
	}
}
