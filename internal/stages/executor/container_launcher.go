package executor

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/docker/docker/api/types/container"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/mini-maxit/judge/internal/docker"
	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/pkg/constants"
	customErr "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
)

var containerNameRegex = regexp.MustCompile("[^a-zA-Z0-9_.-]")

type containerLauncher struct {
	logger *zap.SugaredLogger
	docker docker.DockerClient
	// Images known to be present locally.
	ready mapset.Set[string]
	pulls singleflight.Group
}

func NewContainerLauncher(dCli docker.DockerClient) Launcher {
	logger := logger.NewNamedLogger("container-launcher")
	return &containerLauncher{logger: logger, docker: dCli, ready: mapset.NewSet[string]()}
}

func (l *containerLauncher) Prepare(ctx context.Context, lang languages.LanguageType) error {
	spec, err := lang.Spec()
	if err != nil {
		return err
	}
	if spec.RuntimeImage == "" {
		return fmt.Errorf("%w: %s", customErr.ErrUnsupportedDriver, lang)
	}
	return l.ensureImage(ctx, spec.RuntimeImage)
}

// ensureImage makes image available, sharing one pull between concurrent callers. The pull
// outlives ctx, so a test abandoned at its deadline does not abort it; the caller only stops
// waiting.
func (l *containerLauncher) ensureImage(ctx context.Context, image string) error {
	if l.ready.Contains(image) {
		return nil
	}

	result := l.pulls.DoChan(image, func() (any, error) {
		pullCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ImagePullTimeout)
		defer cancel()

		start := time.Now()
		if err := l.docker.EnsureImage(pullCtx, image); err != nil {
			return nil, err
		}
		l.ready.Add(image)
		l.logger.Infof("Image %s ready after %s", image, time.Since(start))
		return nil, nil
	})

	select {
	case res := <-result:
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("waiting for image %s: %w", image, ctx.Err())
	}
}

func (l *containerLauncher) Launch(ctx context.Context, cmd Command) (RunResult, error) {
	spec, err := cmd.Language.Spec()
	if err != nil {
		return RunResult{}, err
	}
	if spec.RuntimeImage == "" {
		return RunResult{}, fmt.Errorf("%w: %s", customErr.ErrUnsupportedDriver, cmd.Language)
	}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultTimeLimit
	}

	if err := l.ensureImage(ctx, spec.RuntimeImage); err != nil {
		return RunResult{}, err
	}

	containerName := SanitizeContainerName(cmd.Name)
	containerID, err := l.docker.CreateContainer(ctx, buildContainerConfig(spec, cmd.Args), buildHostConfig(), containerName)
	if err != nil {
		return RunResult{}, err
	}

	defer func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), constants.ContainerCleanupTimeout)
		defer cleanupCancel()
		l.docker.ContainerRemove(cleanupCtx, containerID)
	}()

	start := time.Now()
	if err := l.docker.StartContainer(ctx, containerID); err != nil {
		return RunResult{}, err
	}

	exitCode, waitErr := l.docker.WaitContainer(ctx, containerID, timeout)
	res := RunResult{ExitCode: int(exitCode), Elapsed: time.Since(start)}
	if waitErr != nil {
		if errors.Is(waitErr, customErr.ErrContainerTimeout) {
			killCtx, killCancel := context.WithTimeout(context.Background(), constants.ContainerCleanupTimeout)
			defer killCancel()
			l.docker.ContainerKill(killCtx, containerID, "SIGKILL")
			l.logger.Infof("Killed container %s after %s", containerName, res.Elapsed)
			res.TimedOut = true
			return res, nil
		}
		return res, waitErr
	}

	logsCtx, logsCancel := context.WithTimeout(context.Background(), constants.ContainerCleanupTimeout)
	defer logsCancel()
	stdout, stderr, err := l.docker.ContainerLogs(logsCtx, containerID)
	if err != nil {
		return res, err
	}
	res.Stdout = stdout
	res.Stderr = stderr
	return res, nil
}

// SanitizeContainerName builds a unique, docker-safe container name from raw.
func SanitizeContainerName(raw string) string {
	cleaned := containerNameRegex.ReplaceAllString(raw, "-")
	if cleaned == "" {
		cleaned = "untitled"
	}
	return constants.ContainerNamePrefix + cleaned + "-" + uuid.NewString()[:8]
}

func buildContainerConfig(spec languages.LanguageSpec, args []string) *container.Config {
	stopTimeout := 0

	return &container.Config{
		Image:           spec.RuntimeImage,
		Cmd:             append([]string{spec.ImageInterpreter}, args...),
		User:            "nobody",
		NetworkDisabled: true,
		StopTimeout:     &stopTimeout,
		StopSignal:      "SIGKILL",
	}
}

func buildHostConfig() *container.HostConfig {
	pidsLimit := constants.ContainerPidsLimit

	return &container.HostConfig{
		AutoRemove:  false,
		NetworkMode: container.NetworkMode("none"),
		Resources: container.Resources{
			Memory:     constants.ContainerMemoryBytes,
			MemorySwap: constants.ContainerMemoryBytes,
			PidsLimit:  &pidsLimit,
			CPUPeriod:  100_000,
			CPUQuota:   100_000,
		},
		SecurityOpt: []string{"no-new-privileges"},
		IpcMode:     container.IpcMode("private"),
		CapDrop:     []string{"ALL"},
	}
}
