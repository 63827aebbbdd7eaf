package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mini-maxit/judge/internal/config"
	"github.com/mini-maxit/judge/internal/evaluator"
	"github.com/mini-maxit/judge/internal/scenario"
	"github.com/mini-maxit/judge/internal/stages/verifier"
	"github.com/mini-maxit/judge/internal/storage"
	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/solution"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

type job struct {
	path     string
	scenario scenario.Scenario
}

type report struct {
	job     job
	subID   string
	verdict solution.Verdict
	elapsed time.Duration
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "evaluate every scenario in the given files and compare with the expected status",
		ArgsUsage: "<scenarios.toml>...",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "concurrency",
				Aliases: []string{"c"},
				Usage:   "number of scenarios evaluated at once",
				Value:   defaultConcurrency,
			},
		},
		Action: runScenarios,
	}
}

func runScenarios(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return cli.Exit("at least one scenario file is required", 2)
	}

	var jobs []job
	for _, path := range paths {
		scenarios, err := scenario.Load(path)
		if err != nil {
			return err
		}
		for _, s := range scenarios {
			jobs = append(jobs, job{path: path, scenario: s})
		}
	}

	cfg := config.NewConfig()
	eval, _, err := evaluator.NewFromConfig(cfg, storage.NewRuntimeVersionCache())
	if err != nil {
		return err
	}

	reports, err := evaluateAll(ctx, eval, jobs, int(cmd.Int("concurrency")), cfg.DefaultTimeLimit)
	if err != nil {
		return err
	}

	mismatches := 0
	for _, r := range reports {
		printReport(os.Stdout, r)
		if !r.job.scenario.Matches(r.verdict) {
			mismatches++
		}
	}

	if mismatches > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d scenarios did not produce the expected status",
			mismatches, len(reports)), 1)
	}
	fmt.Fprintln(os.Stdout, color.GreenString("%d scenarios ok", len(reports)))
	return nil
}

// evaluateAll evaluates jobs with at most concurrency submissions in flight and returns the
// reports in job order.
func evaluateAll(
	ctx context.Context,
	eval evaluator.Evaluator,
	jobs []job,
	concurrency int,
	defaultTimeLimit time.Duration,
) ([]report, error) {
	reports := make([]report, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, concurrency))
	for i, j := range jobs {
		g.Go(func() error {
			sub, err := j.scenario.Submission(uuid.NewString(), defaultTimeLimit)
			if err != nil {
				return fmt.Errorf("%s: %w", j.path, err)
			}
			start := time.Now()
			verdict := eval.Evaluate(gctx, sub)
			reports[i] = report{job: j, subID: sub.ID, verdict: verdict, elapsed: time.Since(start)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func printReport(w io.Writer, r report) {
	s := r.job.scenario
	mark := color.GreenString("PASS")
	if !s.Matches(r.verdict) {
		mark = color.RedString("FAIL")
	}

	fmt.Fprintf(w, "%s %s [%s %d/%d] %s (%s)\n",
		mark, s.Description, statusColor(r.verdict.Status), r.verdict.Passed, r.verdict.Total,
		r.elapsed.Round(time.Millisecond), r.job.path)
	if !s.Matches(r.verdict) {
		fmt.Fprintf(w, "    expected %s, submission %s\n", s.Expect, r.subID)
	}

	for _, res := range r.verdict.Results {
		line := fmt.Sprintf("    test %d: %s", res.Index, res.StatusCode)
		if res.ElapsedMs != nil {
			line += fmt.Sprintf(" %dms", *res.ElapsedMs)
		}
		switch {
		case res.Passed:
			fmt.Fprintln(w, color.GreenString("%s", line))
		case res.ErrorMessage != "":
			fmt.Fprintln(w, color.RedString("%s: %s", line, res.ErrorMessage))
		default:
			fmt.Fprintln(w, color.YellowString("%s: got %s, expected %s", line, render(res.Got), render(res.Expected)))
			printDiff(w, verifier.Diff(res.Got, res.Expected))
		}
	}
}

func printDiff(w io.Writer, diff string) {
	if diff == "" {
		return
	}
	fmt.Fprintln(w, "      diff (-expected +got):")
	for _, l := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		fmt.Fprintln(w, "      "+l)
	}
}

func statusColor(status string) string {
	switch status {
	case constants.VerdictStatusAccepted:
		return color.GreenString("%s", status)
	case constants.VerdictStatusPartial:
		return color.YellowString("%s", status)
	default:
		return color.RedString("%s", status)
	}
}

func render(v solution.Value) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
