package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/mini-maxit/judge/internal/docker"
	"github.com/mini-maxit/judge/pkg/constants"
	customErr "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
)

// Command is one interpreter invocation for one test case.
type Command struct {
	Name     string
	Language languages.LanguageType
	Args     []string
	Timeout  time.Duration
}

type RunResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	TimedOut bool
	Elapsed  time.Duration
}

// Launcher runs a command in a fresh process and releases it before returning, on every path.
// Returned errors mean the command could not be run at all.
type Launcher interface {
	// Prepare readies the runtime of lang. It is called outside of any test deadline.
	Prepare(ctx context.Context, lang languages.LanguageType) error
	Launch(ctx context.Context, cmd Command) (RunResult, error)
}

// NewLauncher builds the launcher named by kind.
func NewLauncher(
	kind string,
	interpreters map[languages.LanguageType]string,
	dCli docker.DockerClient,
) (Launcher, error) {
	switch kind {
	case constants.LauncherProcess:
		return NewProcessLauncher(interpreters), nil
	case constants.LauncherDocker:
		if dCli == nil {
			return nil, fmt.Errorf("%w: %s launcher needs a docker client", customErr.ErrUnknownLauncher, kind)
		}
		return NewContainerLauncher(dCli), nil
	default:
		return nil, fmt.Errorf("%w: %q", customErr.ErrUnknownLauncher, kind)
	}
}
