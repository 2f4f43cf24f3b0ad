package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/callcenter112/chatbench/internal/corpus"
	"github.com/callcenter112/chatbench/internal/log"
	"github.com/callcenter112/chatbench/internal/metrics"
	"github.com/callcenter112/chatbench/internal/types"
)

// RunSingle sends one standalone message on a fresh session and scores the
// reply with the category's single-turn metric set. Mirrors Run's failure
// handling: transport and judge problems become data on the result.
func (r *Runner) RunSingle(ctx context.Context, tc corpus.SingleCase) *types.SingleResult {
	sessionID := newSessionID()
	started := time.Now()

	res := &types.SingleResult{
		TestCaseID: tc.ID,
		Category:   tc.Category,
		Input:      tc.Input,
		Metrics:    map[string]float64{},
		Errors:     []string{},
	}

	reply := r.transport.Send(ctx, tc.Input, sessionID, "")
	r.transport.Clear(sessionID)

	res.BotResponse = reply.Data.Response
	if !reply.Success {
		res.Errors = append(res.Errors, reply.Error)
	}

	set := metrics.SingleTurnMetrics(tc.Category)
	res.Passed = reply.Success
	if r.judge != nil {
		judgeCase := metrics.TestCase{
			Input:        tc.Input,
			ActualOutput: reply.Data.Response,
		}
		for _, m := range set {
			score, err := r.judge.Measure(ctx, m, judgeCase)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Metric %s error: %v", m.Name, err))
				res.Metrics[m.Name] = 0.0
				res.Passed = false
				continue
			}
			res.Metrics[m.Name] = score
			if score < m.Threshold {
				res.Passed = false
			}
		}
	}

	res.DurationMS = float64(time.Since(started)) / float64(time.Millisecond)
	log.Debugf("single case %s: passed=%v", tc.ID, res.Passed)
	return res
}
