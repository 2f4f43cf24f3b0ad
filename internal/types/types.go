package types

import "time"

// LogEntry is one role/message pair in a conversation transcript.
type LogEntry struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// TurnResult records the outcome of one scripted turn against the live chatbot.
// It is written once by the session runner and never mutated afterwards.
type TurnResult struct {
	TurnNumber       int            `json:"turn_number"`
	UserMessage      string         `json:"user_message"`
	BotResponse      string         `json:"bot_response"`
	ExpectedActions  []string       `json:"expected_actions"`
	ExpectedNextStep string         `json:"expected_next_step"`
	ActualNextStep   string         `json:"actual_next_step,omitempty"`
	Extractions      map[string]any `json:"extractions,omitempty"`
	ValidationPassed []string       `json:"validation_passed"`
	ValidationFailed []string       `json:"validation_failed"`
	DurationMS       float64        `json:"duration_ms"`
	Errors           []string       `json:"errors"`
}

// Result is the aggregate outcome of one full scenario run.
type Result struct {
	TestCaseID        string             `json:"test_case_id"`
	Name              string             `json:"name"`
	Category          string             `json:"category"`
	Turns             []TurnResult       `json:"turns"`
	TotalTurns        int                `json:"total_turns"`
	CompletedTurns    int                `json:"completed_turns"`
	WorkflowCompleted bool               `json:"workflow_completed"`
	TicketCreated     bool               `json:"ticket_created"`
	TicketID          string             `json:"ticket_id,omitempty"`
	Metrics           map[string]float64 `json:"metrics"`
	OverallPassed     bool               `json:"overall_passed"`
	TotalDurationMS   float64            `json:"total_duration_ms"`
	Timestamp         time.Time          `json:"timestamp"`
	Errors            []string           `json:"errors"`
	ConversationLog   []LogEntry         `json:"conversation_log"`
}

// SingleResult is the outcome of a single-turn evaluation case.
type SingleResult struct {
	TestCaseID  string             `json:"test_case_id"`
	Category    string             `json:"category"`
	Input       string             `json:"input"`
	BotResponse string             `json:"bot_response"`
	Metrics     map[string]float64 `json:"metrics"`
	Passed      bool               `json:"passed"`
	DurationMS  float64            `json:"duration_ms"`
	Errors      []string           `json:"errors"`
}

// Summary holds the aggregate statistics of a batch run.
type Summary struct {
	TotalConversations     int                `json:"total_conversations"`
	Passed                 int                `json:"passed"`
	Failed                 int                `json:"failed"`
	PassRate               float64            `json:"pass_rate"`
	WorkflowsCompleted     int                `json:"workflows_completed"`
	WorkflowCompletionRate float64            `json:"workflow_completion_rate"`
	TicketsCreated         int                `json:"tickets_created"`
	TicketCreationRate     float64            `json:"ticket_creation_rate"`
	AverageTurns           float64            `json:"average_turns"`
	AverageDurationMS      float64            `json:"average_duration_ms"`
	AverageMetrics         map[string]float64 `json:"average_metrics"`
	CategoryPassRates      map[string]float64 `json:"category_pass_rates"`
	EvaluationTime         time.Time          `json:"evaluation_time"`
}

// Export is the JSON artifact consumed by the downstream report renderer.
type Export struct {
	Summary Summary  `json:"summary"`
	Results []Result `json:"results"`
}
