package evaluator

import (
	"context"
	"time"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/stages/executor"
	"github.com/mini-maxit/judge/internal/stages/harness"
	"github.com/mini-maxit/judge/internal/stages/remote"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/solution"
	"go.uber.org/zap"
)

// Strategy runs a single test case of a submission.
type Strategy interface {
	// Prepare does per-submission setup. Its time is not charged to any test.
	Prepare(ctx context.Context, lang languages.LanguageType) error
	Run(ctx context.Context, sub solution.Submission, tc solution.TestCase) solution.Outcome
	// Budget is how long Run may legitimately take for the given time limit.
	Budget(timeLimit time.Duration) time.Duration
}

type remoteStrategy struct {
	logger *zap.SugaredLogger
	client remote.Client
}

func NewRemoteStrategy(client remote.Client) Strategy {
	logger := logger.NewNamedLogger("remote-strategy")
	return &remoteStrategy{logger: logger, client: client}
}

// Prepare resolves the runtime version so that a slow catalog never eats into a test's deadline.
func (s *remoteStrategy) Prepare(ctx context.Context, lang languages.LanguageType) error {
	s.client.ResolveVersion(ctx, lang)
	return nil
}

func (s *remoteStrategy) Run(ctx context.Context, sub solution.Submission, tc solution.TestCase) solution.Outcome {
	files, err := harness.Synthesize(sub.Language, sub.SourceCode, tc.Input, sub.Signature)
	if err != nil {
		s.logger.Errorf("Failed to synthesize harness: %s [MsgID: %s]", err, sub.ID)
		return solution.Failure(solution.OutcomeInfrastructureError, err.Error(), nil)
	}
	return s.client.Execute(ctx, sub.Language, files, sub.TimeLimit)
}

func (s *remoteStrategy) Budget(timeLimit time.Duration) time.Duration {
	return remote.RequestTimeout(timeLimit)
}

type localStrategy struct {
	executor executor.Executor
}

func NewLocalStrategy(ex executor.Executor) Strategy {
	return &localStrategy{executor: ex}
}

func (s *localStrategy) Prepare(ctx context.Context, lang languages.LanguageType) error {
	return s.executor.Prepare(ctx, lang)
}

func (s *localStrategy) Run(ctx context.Context, sub solution.Submission, tc solution.TestCase) solution.Outcome {
	return s.executor.Execute(ctx, executor.Request{
		MessageID:  sub.ID,
		Language:   sub.Language,
		SourceCode: sub.SourceCode,
		Input:      tc.Input,
		TimeLimit:  sub.TimeLimit,
	})
}

func (s *localStrategy) Budget(timeLimit time.Duration) time.Duration {
	return timeLimit
}
