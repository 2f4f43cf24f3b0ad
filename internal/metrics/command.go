package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	shellwords "github.com/mattn/go-shellwords"
)

// CommandJudge delegates scoring to an external program, for offline runs
// or judges that are not reachable over the OpenAI API. The command gets a
// JSON payload on stdin and must print a 0..1 score on stdout.
type CommandJudge struct {
	argv []string
}

type commandPayload struct {
	Metric         string `json:"metric"`
	Rubric         string `json:"rubric"`
	Input          string `json:"input"`
	ActualOutput   string `json:"actual_output,omitempty"`
	ExpectedOutput string `json:"expected_output,omitempty"`
	Context        string `json:"context,omitempty"`
}

// NewCommandJudge parses a shell-style command line into the argv to run
// per measurement.
func NewCommandJudge(commandLine string) (*CommandJudge, error) {
	argv, err := shellwords.Parse(commandLine)
	if err != nil {
		return nil, fmt.Errorf("parse judge command: %w", err)
	}
	if len(argv) == 0 {
		return nil, errors.New("judge command is empty")
	}
	return &CommandJudge{argv: argv}, nil
}

// Measure implements Judge.
func (j *CommandJudge) Measure(ctx context.Context, metric Metric, tc TestCase) (float64, error) {
	payload, err := json.Marshal(commandPayload{
		Metric:         metric.Name,
		Rubric:         metric.Rubric,
		Input:          tc.Input,
		ActualOutput:   tc.ActualOutput,
		ExpectedOutput: tc.ExpectedOutput,
		Context:        tc.Context,
	})
	if err != nil {
		return 0, err
	}

	cmd := exec.CommandContext(ctx, j.argv[0], j.argv[1:]...)
	cmd.Stdin = bytes.NewReader(payload)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("judge command %s: %w", j.argv[0], err)
	}
	return ParseScore(string(out))
}
