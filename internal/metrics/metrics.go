// Package metrics wraps the external LLM-judge metrics scored against full
// conversation transcripts. Judges are opaque scoring oracles: text in,
// 0..1 score out, compared against a per-metric threshold. The rubric text
// is configuration, not logic.
package metrics

import "context"

// Pass thresholds. Multi-turn judgment is noisier than single-turn, so the
// conversation-level threshold is deliberately looser.
const (
	MultiTurnThreshold  = 0.6
	SingleTurnThreshold = 0.7
)

// TestCase carries the transcript-shaped inputs a judge scores.
type TestCase struct {
	Input          string // flattened conversation transcript
	ActualOutput   string // final bot message
	ExpectedOutput string // JSON-encoded expected final state
	Context        string // JSON-encoded scenario definition
}

// Judge scores one test case against a metric rubric. Implementations do
// not retry; failure isolation happens at the call site.
type Judge interface {
	Measure(ctx context.Context, metric Metric, tc TestCase) (float64, error)
}

// Metric is one named judging rubric with its pass threshold.
type Metric struct {
	Name      string
	Rubric    string
	Threshold float64
}

// ConversationMetrics returns the conversation-level metric set applied to
// every multi-turn scenario.
func ConversationMetrics() []Metric {
	return []Metric{
		{
			Name:      "workflow_completion",
			Threshold: MultiTurnThreshold,
			Rubric: `Evaluate if the conversation completed the emergency reporting workflow correctly.

Expected workflow steps (in order):
1. Emergency type detection and classification
2. First aid guidance provision (for medical/fire emergencies)
3. Location collection (address, ward, district, city)
4. Phone number collection (skip for authenticated users with saved phone)
5. Affected people count collection
6. Information confirmation summary
7. Ticket creation after user confirms

Score 1.0 if the workflow completed correctly, 0.5 for minor issues,
0.0 if the workflow failed or was incomplete.`,
		},
		{
			Name:      "conversation_coherence",
			Threshold: MultiTurnThreshold,
			Rubric: `Evaluate the coherence of the multi-turn conversation. A coherent
conversation maintains context from previous turns, does not repeat
answered questions, references previously provided information correctly,
progresses logically through the workflow, handles corrections without
confusion, and keeps a consistent tone and language.`,
		},
		{
			Name:      "state_transition",
			Threshold: MultiTurnThreshold,
			Rubric: `Evaluate if the chatbot correctly transitions between conversation states.

Valid transitions:
START -> COLLECT_EMERGENCY -> FIRST_AID -> COLLECT_LOCATION ->
COLLECT_PHONE (skipped when authenticated) -> COLLECT_PEOPLE ->
CONFIRMATION -> CREATE_TICKET -> COMPLETE, with
CONFIRMATION <-> CORRECTION loops when the user corrects information.

Score 1.0 for fully correct transitions, 0.5 for minor issues, 0.0 for
major transition errors.`,
		},
		{
			Name:      "information_extraction",
			Threshold: MultiTurnThreshold,
			Rubric: `Evaluate if the chatbot correctly extracted all required information:
emergency type(s) (FIRE_RESCUE, MEDICAL, SECURITY), location (address,
ward, district, city), a valid Vietnamese phone number, and the affected
people count. Extracted values must match what the user provided, with
corrections properly applied, and the final ticket must contain the
correct information.`,
		},
		{
			Name:      "correction_handling",
			Threshold: MultiTurnThreshold,
			Rubric: `Evaluate how well the chatbot handles user corrections: identifying that
a correction is being made, extracting the corrected value, updating only
the relevant fields, showing an updated confirmation, not re-asking for
information unnecessarily, and not confusing a correction with a
confirmation.`,
		},
		{
			Name:      "first_aid_guidance",
			Threshold: MultiTurnThreshold,
			Rubric: `Evaluate the first aid guidance provided during the conversation. Good
guidance is given after the emergency type is identified, is relevant to
the specific emergency, is based on verified medical knowledge, and is
actionable. It must not tell the user to call emergency services (they
already are) or to go to a hospital (responders are being dispatched).`,
		},
	}
}

// SingleTurnMetrics returns the judge set for single-turn cases, keyed by
// corpus category.
func SingleTurnMetrics(category string) []Metric {
	base := Metric{
		Name:      "response_quality",
		Threshold: SingleTurnThreshold,
		Rubric: `Evaluate whether the chatbot reply is an appropriate, safe, and fluent
Vietnamese response for a 112 emergency call. The reply must address the
caller's message, follow the intake workflow, and never give harmful
advice.`,
	}
	switch category {
	case "emergency_type_detection":
		return []Metric{base, {
			Name:      "emergency_type_accuracy",
			Threshold: SingleTurnThreshold,
			Rubric: `Evaluate whether the reply correctly identifies the emergency type(s)
described in the caller's message: FIRE_RESCUE, MEDICAL, or SECURITY.`,
		}}
	case "first_aid_guidance":
		return []Metric{base, {
			Name:      "first_aid_relevance",
			Threshold: SingleTurnThreshold,
			Rubric: `Evaluate whether the first aid instructions in the reply are relevant to
the reported emergency and medically sound.`,
		}}
	default:
		return []Metric{base}
	}
}
