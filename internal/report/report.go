// Package report aggregates batch results into summary statistics and
// writes the JSON artifact consumed by the downstream report renderer.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/callcenter112/chatbench/internal/types"
)

// Summarize computes the aggregate statistics over one batch of results.
func Summarize(results []types.Result) types.Summary {
	s := types.Summary{
		TotalConversations: len(results),
		AverageMetrics:     map[string]float64{},
		CategoryPassRates:  map[string]float64{},
		EvaluationTime:     time.Now(),
	}
	if len(results) == 0 {
		return s
	}

	metricScores := map[string][]float64{}
	categoryTotals := map[string]int{}
	categoryPassed := map[string]int{}
	turnSum := 0
	durationSum := 0.0

	for _, r := range results {
		if r.OverallPassed {
			s.Passed++
		}
		if r.WorkflowCompleted {
			s.WorkflowsCompleted++
		}
		if r.TicketCreated {
			s.TicketsCreated++
		}
		turnSum += r.CompletedTurns
		durationSum += r.TotalDurationMS
		categoryTotals[r.Category]++
		if r.OverallPassed {
			categoryPassed[r.Category]++
		}
		for name, score := range r.Metrics {
			metricScores[name] = append(metricScores[name], score)
		}
	}

	total := float64(len(results))
	s.Failed = s.TotalConversations - s.Passed
	s.PassRate = float64(s.Passed) / total * 100
	s.WorkflowCompletionRate = float64(s.WorkflowsCompleted) / total * 100
	s.TicketCreationRate = float64(s.TicketsCreated) / total * 100
	s.AverageTurns = float64(turnSum) / total
	s.AverageDurationMS = durationSum / total

	for name, scores := range metricScores {
		s.AverageMetrics[name] = avgOrZero(scores)
	}
	for cat, n := range categoryTotals {
		s.CategoryPassRates[cat] = float64(categoryPassed[cat]) / float64(n) * 100
	}
	return s
}

// Export writes the full results plus their summary as a JSON document.
// Every TurnResult field survives round-tripping; the exported file is the
// contract with the HTML renderer.
func Export(results []types.Result, path string) error {
	doc := types.Export{
		Summary: Summarize(results),
		Results: results,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadExport reads a previously exported results document.
func LoadExport(path string) (*types.Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc types.Export
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}

// WriteCSV writes one row per category plus a totals row for spreadsheet
// consumption.
func WriteCSV(w io.Writer, summary types.Summary) error {
	if w == nil {
		return errors.New("writer is nil")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"category", "pass_rate"}); err != nil {
		return err
	}

	categories := make([]string, 0, len(summary.CategoryPassRates))
	for cat := range summary.CategoryPassRates {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		if err := cw.Write([]string{cat, formatFloat(summary.CategoryPassRates[cat])}); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"total", formatFloat(summary.PassRate)}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// PrintSummary writes the human-readable wrap-up to w.
func PrintSummary(w io.Writer, summary types.Summary) {
	fmt.Fprintf(w, "Total conversations: %d\n", summary.TotalConversations)
	fmt.Fprintf(w, "Passed: %d (%s%%)\n", summary.Passed, formatFloat(summary.PassRate))
	fmt.Fprintf(w, "Workflow completion: %s%%\n", formatFloat(summary.WorkflowCompletionRate))
	fmt.Fprintf(w, "Ticket creation: %s%%\n", formatFloat(summary.TicketCreationRate))
	fmt.Fprintf(w, "Average turns: %s\n", formatFloat(summary.AverageTurns))
	fmt.Fprintf(w, "Average duration: %.0fms\n", summary.AverageDurationMS)
	if len(summary.AverageMetrics) > 0 {
		fmt.Fprintln(w, "Metric scores:")
		names := make([]string, 0, len(summary.AverageMetrics))
		for name := range summary.AverageMetrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  - %s: %s\n", name, formatFloat(summary.AverageMetrics[name]))
		}
	}
}

func avgOrZero(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func formatFloat(v float64) string {
	// Compensate for binary floating-point representation so values like
	// 1.005 reliably round to 1.01 at 2 decimal places.
	rounded := math.Round((v+math.Copysign(1e-9, v))*100) / 100
	if rounded == 0 {
		return "0"
	}
	s := strconv.FormatFloat(rounded, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
