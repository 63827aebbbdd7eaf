package executor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/pkg/constants"
	customErr "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	"go.uber.org/zap"
)

type processLauncher struct {
	logger       *zap.SugaredLogger
	interpreters map[languages.LanguageType]string
}

func NewProcessLauncher(interpreters map[languages.LanguageType]string) Launcher {
	logger := logger.NewNamedLogger("process-launcher")
	return &processLauncher{logger: logger, interpreters: interpreters}
}

func (p *processLauncher) Prepare(_ context.Context, lang languages.LanguageType) error {
	bin := p.interpreters[lang]
	if bin == "" {
		return fmt.Errorf("%w: %s", customErr.ErrUnsupportedDriver, lang)
	}
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("interpreter for %s not found: %w", lang, err)
	}
	return nil
}

func (p *processLauncher) Launch(ctx context.Context, cmd Command) (RunResult, error) {
	bin := p.interpreters[cmd.Language]
	if bin == "" {
		return RunResult{}, fmt.Errorf("%w: %s", customErr.ErrUnsupportedDriver, cmd.Language)
	}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultTimeLimit
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stdout := newCappedBuffer(constants.MaxCapturedOutputBytes)
	stderr := newCappedBuffer(constants.MaxCapturedOutputBytes)
	c := exec.CommandContext(runCtx, bin, cmd.Args...)
	c.Stdout = stdout
	c.Stderr = stderr
	c.WaitDelay = constants.ProcessWaitDelay
	configureProcessGroup(c)

	start := time.Now()
	if err := c.Start(); err != nil {
		return RunResult{}, fmt.Errorf("failed to start %s: %w", bin, err)
	}
	// Reap anything the program left behind in its group.
	defer func() { _ = killProcessGroup(c) }()

	waitErr := c.Wait()
	res := RunResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Elapsed:  time.Since(start),
	}

	if stdout.Truncated() || stderr.Truncated() {
		p.logger.Warnf("Output of %s cut at %d bytes per stream [Name: %s]", bin, constants.MaxCapturedOutputBytes, cmd.Name)
	}

	// A program that exits on its own right at the deadline keeps its result.
	if runCtx.Err() != nil && terminatedBySignal(c.ProcessState) {
		p.logger.Infof("Killed %s after %s [Name: %s]", bin, res.Elapsed, cmd.Name)
		res.TimedOut = true
		return res, nil
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) && !errors.Is(waitErr, exec.ErrWaitDelay) {
		return res, waitErr
	}
	return res, nil
}
