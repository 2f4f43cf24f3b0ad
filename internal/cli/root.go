// Package cli wires the evaluation harness into a cobra command tree.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/callcenter112/chatbench/internal/batch"
	"github.com/callcenter112/chatbench/internal/chat"
	"github.com/callcenter112/chatbench/internal/corpus"
	"github.com/callcenter112/chatbench/internal/log"
	"github.com/callcenter112/chatbench/internal/metrics"
	"github.com/callcenter112/chatbench/internal/report"
	"github.com/callcenter112/chatbench/internal/runner"
	"github.com/callcenter112/chatbench/internal/scenario"
	"github.com/callcenter112/chatbench/internal/types"
)

const (
	defaultChatbotURL = "http://localhost:5000"
	quickCaseLimit    = 10
	healthTimeout     = 5 * time.Second
)

// Execute runs the CLI.
func Execute() error {
	root := silenceUsageAndErrors(&cobra.Command{
		Use:   "chatbench",
		Short: "Evaluate the 112 emergency-call chatbot with scripted conversations.",
	})

	var debug bool
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if debug {
			log.SetDebug()
		}
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newSingleCmd())
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newSummaryCmd())
	executed, err := root.ExecuteC()
	if err != nil {
		maybePrintUsage(executed, root, err)
	}
	return err
}

// targetFlags are the connection options shared by the evaluation commands.
type targetFlags struct {
	chatbotURL string
	force      bool
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.chatbotURL, "chatbot-url", defaultChatbotURL, "base URL of the chatbot under test")
	cmd.Flags().BoolVar(&f.force, "force", false, "run even if the health check fails")
}

// client health-gates the target and returns a ready chat client.
func (f *targetFlags) client(ctx context.Context) (*chat.Client, error) {
	c := chat.NewClient(f.chatbotURL)
	hctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if !c.Healthy(hctx) {
		if !f.force {
			return nil, fmt.Errorf("chatbot at %s failed the health check (use --force to run anyway)", f.chatbotURL)
		}
		log.Warnf("chatbot at %s failed the health check, continuing under --force", f.chatbotURL)
	}
	return c, nil
}

// judgeFlags select the scoring oracle: an OpenAI model by default, an
// external command when --judge-cmd is set, or nothing under --no-judge.
type judgeFlags struct {
	judgeCmd   string
	judgeModel string
	noJudge    bool
}

func (f *judgeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.judgeCmd, "judge-cmd", "", "external judge command reading a JSON case on stdin and printing a 0..1 score")
	cmd.Flags().StringVar(&f.judgeModel, "judge-model", "", "judge model name (default gpt-4o, or CHATBENCH_JUDGE_MODEL)")
	cmd.Flags().BoolVar(&f.noJudge, "no-judge", false, "skip metric scoring; pass/fail reduces to workflow completion")
}

func (f *judgeFlags) build() (metrics.Judge, error) {
	if f.noJudge {
		return nil, nil
	}
	if f.judgeCmd != "" {
		return metrics.NewCommandJudge(f.judgeCmd)
	}
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil, errors.New("OPENAI_API_KEY is not set; set it, pass --judge-cmd, or pass --no-judge")
	}
	model := f.judgeModel
	if model == "" {
		model = os.Getenv("CHATBENCH_JUDGE_MODEL")
	}
	return metrics.NewOpenAIJudge(nil, metrics.WithModel(model)), nil
}

func newRunCmd() *cobra.Command {
	target := &targetFlags{}
	judge := &judgeFlags{}
	var categories []string
	var maxCases int
	var quick bool
	var output string
	var concurrency int
	var scenariosDir string
	var seed int64

	cmd := silenceUsageAndErrors(&cobra.Command{
		Use:   "run",
		Short: "Run the multi-turn conversation evaluation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			scenarios, err := loadScenarios(scenariosDir, seed)
			if err != nil {
				return err
			}

			client, err := target.client(ctx)
			if err != nil {
				return err
			}
			j, err := judge.build()
			if err != nil {
				return err
			}

			opts := []runner.Option{}
			if j != nil {
				opts = append(opts, runner.WithJudge(j, metrics.ConversationMetrics()))
			}
			r := runner.New(client, opts...)

			limit := maxCases
			if quick && (limit == 0 || limit > quickCaseLimit) {
				limit = quickCaseLimit
			}
			results, err := batch.Run(ctx, r, scenarios, batch.Options{
				Categories:  categories,
				MaxCases:    limit,
				Concurrency: concurrency,
			})
			summary := report.Summarize(results)
			if len(results) > 0 {
				report.PrintSummary(cmd.OutOrStdout(), summary)
				if output != "" {
					if werr := report.Export(results, output); werr != nil {
						return werr
					}
					log.Infof("results written to %s", output)
				}
			}
			if err != nil {
				return err
			}
			// Failed conversations are report data, not a run failure.
			if summary.Failed > 0 {
				log.Warnf("%d of %d conversation(s) failed", summary.Failed, summary.TotalConversations)
			}
			return nil
		},
	})
	target.register(cmd)
	judge.register(cmd)
	cmd.Flags().StringSliceVar(&categories, "category", nil, "only run scenarios in these categories")
	cmd.Flags().IntVar(&maxCases, "max-cases", 0, "limit the number of scenarios (0 = all)")
	cmd.Flags().BoolVar(&quick, "quick", false, fmt.Sprintf("cap the run at %d scenarios", quickCaseLimit))
	cmd.Flags().StringVar(&output, "output", "", "write the full results JSON to this path")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "scenarios evaluated in parallel")
	cmd.Flags().StringVar(&scenariosDir, "scenarios-dir", "", "load scenarios from YAML files instead of the generated corpus")
	cmd.Flags().Int64Var(&seed, "seed", 112, "corpus generation seed")
	return cmd
}

func newSingleCmd() *cobra.Command {
	target := &targetFlags{}
	judge := &judgeFlags{}
	var output string
	var seed int64

	cmd := silenceUsageAndErrors(&cobra.Command{
		Use:   "single",
		Short: "Run the single-turn evaluation cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := target.client(ctx)
			if err != nil {
				return err
			}
			j, err := judge.build()
			if err != nil {
				return err
			}

			opts := []runner.Option{}
			if j != nil {
				// Metric selection is per-case for single turns; installing
				// the judge alone is enough.
				opts = append(opts, runner.WithJudge(j, nil))
			}
			r := runner.New(client, opts...)

			cases := corpus.NewGenerator(seed).SingleCases()
			results := make([]types.SingleResult, 0, len(cases))
			passed := 0
			for i, tc := range cases {
				log.Infof("[%d/%d] %s", i+1, len(cases), tc.ID)
				res := r.RunSingle(ctx, tc)
				results = append(results, *res)
				if res.Passed {
					passed++
				}
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Single-turn cases: %d, passed: %d\n", len(results), passed)
			if output != "" {
				if err := writeJSON(output, results); err != nil {
					return err
				}
				log.Infof("results written to %s", output)
			}
			if passed < len(results) {
				log.Warnf("%d of %d single-turn case(s) failed", len(results)-passed, len(results))
			}
			return nil
		},
	})
	target.register(cmd)
	judge.register(cmd)
	cmd.Flags().StringVar(&output, "output", "", "write the results JSON to this path")
	cmd.Flags().Int64Var(&seed, "seed", 112, "corpus generation seed")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var output string
	var seed int64

	cmd := silenceUsageAndErrors(&cobra.Command{
		Use:   "generate",
		Short: "Generate the scenario corpus and write it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios := corpus.NewGenerator(seed).GenerateAll()
			if err := corpus.ExportJSON(scenarios, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d scenarios to %s\n", len(scenarios), output)
			return nil
		},
	})
	cmd.Flags().StringVar(&output, "output", "scenarios.json", "output path for the generated corpus")
	cmd.Flags().Int64Var(&seed, "seed", 112, "corpus generation seed")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var csvPath string

	cmd := silenceUsageAndErrors(&cobra.Command{
		Use:   "summary <results.json>",
		Short: "Print the summary of an exported results file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := report.LoadExport(args[0])
			if err != nil {
				return err
			}
			report.PrintSummary(cmd.OutOrStdout(), doc.Summary)
			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := report.WriteCSV(f, doc.Summary); err != nil {
					return err
				}
				log.Infof("CSV written to %s", csvPath)
			}
			return nil
		},
	})
	cmd.Flags().StringVar(&csvPath, "csv", "", "also write per-category pass rates as CSV")
	return cmd
}

// loadScenarios resolves the scenario source: a YAML directory when given,
// otherwise the generated corpus.
func loadScenarios(dir string, seed int64) ([]*scenario.Scenario, error) {
	if dir != "" {
		scenarios, err := scenario.LoadDir(dir)
		if err != nil {
			return nil, err
		}
		if len(scenarios) == 0 {
			return nil, fmt.Errorf("no scenario files under %s", dir)
		}
		return scenarios, nil
	}
	return corpus.NewGenerator(seed).GenerateAll(), nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
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

func silenceUsageAndErrors(cmd *cobra.Command) *cobra.Command {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd
}

func maybePrintUsage(cmd, root *cobra.Command, err error) {
	if err == nil {
		return
	}
	target := cmd
	if target == nil {
		target = root
	}
	if target == nil {
		return
	}
	if shouldShowUsage(err) {
		_ = target.Usage()
	}
}

func shouldShowUsage(err error) bool {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.HasPrefix(msg, "unknown command"),
		strings.HasPrefix(msg, "unknown flag"),
		strings.HasPrefix(msg, "unknown shorthand flag"),
		strings.Contains(msg, "accepts") && strings.Contains(msg, "arg"),
		strings.Contains(msg, "required flag"):
		return true
	}
	return false
}
