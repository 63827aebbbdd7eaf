// Package evaluator runs every test case of a submission through the strategy of its language
// and folds the outcomes into a verdict.
package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/stages/verifier"
	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/solution"
	"go.uber.org/zap"
)

// Evaluator judges submissions. Failures of any kind end up in the verdict, never as an error.
type Evaluator interface {
	Evaluate(ctx context.Context, sub solution.Submission) solution.Verdict
}

type evaluator struct {
	logger           *zap.SugaredLogger
	strategies       map[languages.Strategy]Strategy
	defaultTimeLimit time.Duration
}

func NewEvaluator(strategies map[languages.Strategy]Strategy, defaultTimeLimit time.Duration) Evaluator {
	if defaultTimeLimit <= 0 {
		defaultTimeLimit = constants.DefaultTimeLimit
	}
	logger := logger.NewNamedLogger("evaluator")
	return &evaluator{
		logger:           logger,
		strategies:       strategies,
		defaultTimeLimit: defaultTimeLimit,
	}
}

func (e *evaluator) Evaluate(ctx context.Context, sub solution.Submission) solution.Verdict {
	if sub.TimeLimit <= 0 {
		sub.TimeLimit = e.defaultTimeLimit
	}

	strategy := e.strategies[sub.Language.Strategy()]
	if strategy == nil {
		e.logger.Warnf("No strategy for language %s [MsgID: %s]", sub.Language, sub.ID)
	} else if len(sub.TestCases) > 0 && ctx.Err() == nil {
		e.prepare(ctx, strategy, sub)
	}

	results := make([]solution.TestResult, 0, len(sub.TestCases))
	for i, tc := range sub.TestCases {
		var outcome solution.Outcome
		switch {
		case strategy == nil:
			outcome = solution.Failure(
				solution.OutcomeInfrastructureError,
				constants.OutcomeMessageUnsupportedLanguage,
				nil,
			)
		case ctx.Err() != nil:
			outcome = solution.Failure(
				solution.OutcomeInfrastructureError,
				fmt.Sprintf("evaluation cancelled: %s", ctx.Err()),
				nil,
			)
		default:
			outcome = e.runTest(ctx, strategy, sub, i+1, tc)
		}

		result := verifier.EvaluateTestCase(i+1, tc, outcome)
		e.logger.Debugf("Test %d: %s [MsgID: %s]", result.Index, result.StatusCode, sub.ID)
		results = append(results, result)
	}

	verdict := verifier.Aggregate(results)
	e.logger.Infof("Evaluated %s submission: %d/%d passed, %s [MsgID: %s]",
		sub.Language, verdict.Passed, verdict.Total, verdict.Status, sub.ID)
	return verdict
}

// prepare runs the strategy's setup before the first test deadline starts. A failure is only
// logged: the tests then report it themselves.
func (e *evaluator) prepare(ctx context.Context, strategy Strategy, sub solution.Submission) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorf("Recovered from panic while preparing %s: %v [MsgID: %s]", sub.Language, r, sub.ID)
		}
	}()

	start := time.Now()
	if err := strategy.Prepare(ctx, sub.Language); err != nil {
		e.logger.Warnf("Preparing %s failed: %s [MsgID: %s]", sub.Language, err, sub.ID)
		return
	}
	e.logger.Debugf("Prepared %s in %s [MsgID: %s]", sub.Language, time.Since(start), sub.ID)
}

// runTest runs one test as its own task. A task still pending at the deadline is abandoned
// and its context cancelled; the loop does not wait for it to wind down.
func (e *evaluator) runTest(
	ctx context.Context,
	strategy Strategy,
	sub solution.Submission,
	index int,
	tc solution.TestCase,
) solution.Outcome {
	deadline := strategy.Budget(sub.TimeLimit) + constants.DeadlineGrace

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan solution.Outcome, 1)
	start := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Errorf("Recovered from panic in test %d: %v [MsgID: %s]", index, r, sub.ID)
				done <- solution.Failure(solution.OutcomeInfrastructureError, fmt.Sprintf("internal error: %v", r), nil)
			}
		}()
		done <- strategy.Run(taskCtx, sub, tc)
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case outcome := <-done:
		return outcome
	case <-timer.C:
		elapsed := time.Since(start)
		e.logger.Warnf("Test %d still running after %s, abandoning it [MsgID: %s]", index, elapsed, sub.ID)
		return solution.Failure(solution.OutcomeTimeLimitExceeded, constants.OutcomeMessageTimeLimitExceeded, &elapsed)
	case <-ctx.Done():
		return solution.Failure(
			solution.OutcomeInfrastructureError,
			fmt.Sprintf("evaluation cancelled: %s", ctx.Err()),
			nil,
		)
	}
}
