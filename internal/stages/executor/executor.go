package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/stages/harness"
	"github.com/mini-maxit/judge/pkg/constants"
	customErr "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/solution"
	"go.uber.org/zap"
)

type Request struct {
	MessageID  string
	Language   languages.LanguageType
	SourceCode string
	Input      solution.Value
	TimeLimit  time.Duration
}

// Executor runs one test case of an interpreted language in a freshly launched process.
type Executor interface {
	// Prepare readies the runtime of lang ahead of the first test.
	Prepare(ctx context.Context, lang languages.LanguageType) error
	Execute(ctx context.Context, req Request) solution.Outcome
}

type executor struct {
	logger   *zap.SugaredLogger
	launcher Launcher
}

func NewExecutor(launcher Launcher) Executor {
	logger := logger.NewNamedLogger("local-executor")
	return &executor{logger: logger, launcher: launcher}
}

func (e *executor) Prepare(ctx context.Context, lang languages.LanguageType) error {
	spec, err := lang.Spec()
	if err != nil || spec.Strategy != languages.StrategyLocal {
		return fmt.Errorf("%w: %s", customErr.ErrUnsupportedDriver, lang)
	}
	return e.launcher.Prepare(ctx, lang)
}

func (e *executor) Execute(ctx context.Context, req Request) solution.Outcome {
	spec, err := req.Language.Spec()
	if err != nil || spec.Strategy != languages.StrategyLocal {
		return solution.Failure(solution.OutcomeInfrastructureError, constants.OutcomeMessageUnsupportedLanguage, nil)
	}

	script, err := harness.Driver(req.Language, req.SourceCode, req.Input)
	if err != nil {
		e.logger.Errorf("Failed to build driver: %s [MsgID: %s]", err, req.MessageID)
		return solution.Failure(solution.OutcomeInfrastructureError, err.Error(), nil)
	}

	res, err := e.launcher.Launch(ctx, Command{
		Name:     req.MessageID,
		Language: req.Language,
		Args:     []string{spec.InterpreterFlag, script},
		Timeout:  req.TimeLimit,
	})
	if err != nil {
		e.logger.Errorf("Failed to launch %s: %s [MsgID: %s]", req.Language, err, req.MessageID)
		return solution.Failure(solution.OutcomeInfrastructureError, err.Error(), nil)
	}

	elapsed := res.Elapsed
	if res.TimedOut {
		return solution.Failure(solution.OutcomeTimeLimitExceeded, constants.OutcomeMessageTimeLimitExceeded, &elapsed)
	}

	envelope, err := harness.ParseEnvelope(string(res.Stdout))
	if err != nil {
		e.logger.Debugf("Invalid output (exit code %d): %s [MsgID: %s]", res.ExitCode, err, req.MessageID)
		return solution.Failure(solution.OutcomeProtocolError, diagnostic(res), &elapsed)
	}
	return envelope.Outcome(&elapsed)
}

// diagnostic picks the most useful text for output that is not an envelope.
func diagnostic(res RunResult) string {
	if msg := strings.TrimSpace(string(res.Stderr)); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(string(res.Stdout)); msg != "" {
		return msg
	}
	return constants.OutcomeMessageRuntimeError
}
