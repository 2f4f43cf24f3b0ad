package metrics

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultJudgeModel = "gpt-4o"

const judgeSystemPrompt = `You are a strict evaluation judge for a Vietnamese
emergency-call chatbot. Score the conversation against the rubric on a scale
from 0.0 to 1.0. Respond with the numeric score only.`

// OpenAIJudge scores test cases with a chat-completion model. Stateless
// across invocations apart from the model configured at construction.
type OpenAIJudge struct {
	client openai.Client
	model  string
}

// OpenAIOption configures an OpenAIJudge.
type OpenAIOption func(*OpenAIJudge)

// WithModel overrides the judging model.
func WithModel(model string) OpenAIOption {
	return func(j *OpenAIJudge) {
		if model != "" {
			j.model = model
		}
	}
}

// NewOpenAIJudge builds a judge using the ambient OPENAI_API_KEY. Pass
// request options (for example option.WithBaseURL) through clientOpts.
func NewOpenAIJudge(clientOpts []option.RequestOption, opts ...OpenAIOption) *OpenAIJudge {
	j := &OpenAIJudge{
		client: openai.NewClient(clientOpts...),
		model:  defaultJudgeModel,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Measure implements Judge.
func (j *OpenAIJudge) Measure(ctx context.Context, metric Metric, tc TestCase) (float64, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Rubric (%s):\n%s\n\n", metric.Name, metric.Rubric)
	fmt.Fprintf(&sb, "Conversation:\n%s\n\n", tc.Input)
	if tc.ActualOutput != "" {
		fmt.Fprintf(&sb, "Final bot reply:\n%s\n\n", tc.ActualOutput)
	}
	if tc.ExpectedOutput != "" {
		fmt.Fprintf(&sb, "Expected final state:\n%s\n\n", tc.ExpectedOutput)
	}
	if tc.Context != "" {
		fmt.Fprintf(&sb, "Scenario definition:\n%s\n", tc.Context)
	}

	completion, err := j.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(j.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(judgeSystemPrompt),
			openai.UserMessage(sb.String()),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return 0, fmt.Errorf("judge %s: %w", metric.Name, err)
	}
	if len(completion.Choices) == 0 {
		return 0, fmt.Errorf("judge %s: empty completion", metric.Name)
	}
	return ParseScore(completion.Choices[0].Message.Content)
}

var scoreRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParseScore extracts the first number from a judge reply and clamps it to
// [0, 1]. Judges occasionally wrap the score in prose despite instructions.
func ParseScore(s string) (float64, error) {
	match := scoreRe.FindString(s)
	if match == "" {
		return 0, fmt.Errorf("no score in judge reply %q", strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v, nil
}
