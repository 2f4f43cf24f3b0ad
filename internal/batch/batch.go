// Package batch runs many scenarios through the session runner and collects
// their results for summary and export.
package batch

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/callcenter112/chatbench/internal/log"
	"github.com/callcenter112/chatbench/internal/scenario"
	"github.com/callcenter112/chatbench/internal/types"
)

// Options select and schedule the scenarios of one batch.
type Options struct {
	// Categories filters scenarios by category tag; empty keeps all.
	Categories []string
	// MaxCases truncates the filtered list; zero means no limit.
	MaxCases int
	// Concurrency bounds parallel scenario execution. The default of 1
	// keeps runs strictly sequential: conversation state lives server-side
	// and the shared chatbot has no documented safe concurrency, so going
	// wider is opt-in. Scenarios never share mutable state either way.
	Concurrency int
}

// Runner is the per-scenario execution dependency.
type Runner interface {
	Run(ctx context.Context, sc *scenario.Scenario) *types.Result
}

// Run evaluates the selected scenarios and returns their results in input
// order. Individual scenario failures are data on the result records; Run
// itself fails only on configuration errors.
func Run(ctx context.Context, r Runner, scenarios []*scenario.Scenario, opts Options) ([]types.Result, error) {
	if r == nil {
		return nil, errors.New("runner is required")
	}

	selected := scenario.Filter(scenarios, opts.Categories)
	if opts.MaxCases > 0 && len(selected) > opts.MaxCases {
		selected = selected[:opts.MaxCases]
	}
	if len(selected) == 0 {
		return nil, nil
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	log.Infof("evaluating %d scenario(s), concurrency %d", len(selected), concurrency)

	results := make([]types.Result, len(selected))
	if concurrency == 1 {
		for i, sc := range selected {
			log.Infof("[%d/%d] %s: %s", i+1, len(selected), sc.ID, sc.Name)
			res := r.Run(ctx, sc)
			results[i] = *res
			log.Infof("  workflow=%v ticket=%v passed=%v", res.WorkflowCompleted, res.TicketCreated, res.OverallPassed)
			if err := ctx.Err(); err != nil {
				return results[:i+1], err
			}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, sc := range selected {
		i, sc := i, sc
		g.Go(func() error {
			log.Infof("%s: %s", sc.ID, sc.Name)
			results[i] = *r.Run(gctx, sc)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
