package corpus_test

import (
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/callcenter112/chatbench/internal/corpus"
	"github.com/callcenter112/chatbench/internal/scenario"
)

func TestGenerateAllCounts(t *testing.T) {
	all := corpus.NewGenerator(112).GenerateAll()
	require.Len(t, all, 42)

	counts := map[string]int{}
	for _, sc := range all {
		counts[sc.Category]++
	}
	require.Equal(t, map[string]int{
		scenario.CategoryFire:          10,
		scenario.CategoryMedical:       10,
		scenario.CategorySecurity:      8,
		scenario.CategoryCorrection:    4,
		scenario.CategoryAuthenticated: 5,
		scenario.CategoryEdgeCase:      5,
	}, counts)
}

func TestGenerateAllScenariosAreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, sc := range corpus.NewGenerator(112).GenerateAll() {
		require.NoError(t, scenario.Validate(sc), "scenario %s", sc.ID)
		require.False(t, seen[sc.ID], "duplicate id %s", sc.ID)
		seen[sc.ID] = true
	}
}

func TestGenerateAllDeterministic(t *testing.T) {
	a := corpus.NewGenerator(7).GenerateAll()
	b := corpus.NewGenerator(7).GenerateAll()
	require.Equal(t, a, b)

	c := corpus.NewGenerator(8).GenerateAll()
	require.NotEqual(t, a, c)
}

func TestFireFlowScript(t *testing.T) {
	all := corpus.NewGenerator(112).GenerateAll()

	var fire *scenario.Scenario
	for _, sc := range all {
		if sc.ID == "MULTI_FIRE_001" {
			fire = sc
			break
		}
	}
	require.NotNil(t, fire)
	require.Equal(t, scenario.CategoryFire, fire.Category)
	require.Len(t, fire.Turns, 5)
	require.Equal(t, "Cháy nhà! Nhà tôi đang cháy lớn lắm!", fire.Turns[0].UserMessage)
	require.Equal(t, "3 người trong nhà", fire.Turns[3].UserMessage)
	require.Equal(t, "Đúng rồi, xác nhận", fire.Turns[4].UserMessage)
	require.Equal(t, "complete", fire.Turns[4].ExpectedNextStep)
	require.True(t, fire.ShouldCreateTicket)
	require.Equal(t, []string{"FIRE_RESCUE"}, fire.ExpectedFinalState["emergencyTypes"])
	require.Equal(t, true, fire.ExpectedFinalState["ticketCreated"])
}

func TestAuthenticatedFlowsSkipPhone(t *testing.T) {
	phoneRe := regexp.MustCompile(`^0\d{9}$`)
	for _, sc := range corpus.NewGenerator(112).AuthenticatedFlows() {
		require.True(t, sc.IsAuthenticated, "scenario %s", sc.ID)
		require.True(t, sc.ExpectsSkippedPhone(), "scenario %s", sc.ID)
		saved, ok := sc.UserMemory["savedPhone"].(string)
		require.True(t, ok, "scenario %s", sc.ID)
		require.Regexp(t, phoneRe, saved)
		// No scripted turn sends the phone number.
		for _, turn := range sc.Turns {
			require.NotContains(t, turn.UserMessage, saved)
		}
	}
}

func TestGeneratedPhonesAreValid(t *testing.T) {
	g := corpus.NewGenerator(3)
	phoneRe := regexp.MustCompile(`0\d{9}`)
	for _, sc := range g.CorrectionFlows() {
		for _, turn := range sc.Turns {
			for _, m := range phoneRe.FindAllString(turn.UserMessage, -1) {
				require.Len(t, m, 10)
			}
		}
	}
}

func TestSingleCases(t *testing.T) {
	cases := corpus.NewGenerator(112).SingleCases()
	require.Len(t, cases, 18)

	categories := map[string]bool{}
	for _, tc := range cases {
		require.NotEmpty(t, tc.ID)
		require.NotEmpty(t, tc.Input)
		categories[tc.Category] = true
	}
	for _, want := range []string{
		"emergency_type_detection", "first_aid_guidance", "conversation_flow",
		"affected_people", "confirmation", "authenticated_user", "edge_cases",
	} {
		require.True(t, categories[want], "missing category %s", want)
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus", "scenarios.json")
	all := corpus.NewGenerator(112).GenerateAll()

	require.NoError(t, corpus.ExportJSON(all, path))
	require.FileExists(t, path)
}
