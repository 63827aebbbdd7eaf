package docker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"go.uber.org/zap"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/pkg/constants"
	customErr "github.com/mini-maxit/judge/pkg/errors"
)

type DockerClient interface {
	EnsureImage(ctx context.Context, imageName string) error
	CreateContainer(
		ctx context.Context,
		containerCfg *container.Config,
		hostCfg *container.HostConfig,
		name string,
	) (string, error)
	StartContainer(ctx context.Context, containerID string) error
	WaitContainer(ctx context.Context, containerID string, timeout time.Duration) (int64, error)
	ContainerLogs(ctx context.Context, containerID string) ([]byte, []byte, error)
	ContainerKill(ctx context.Context, containerID, signal string)
	ContainerRemove(ctx context.Context, containerID string)
}

type dockerClient struct {
	cli    *client.Client
	logger *zap.SugaredLogger
}

func NewDockerClient() (DockerClient, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}

	return &dockerClient{cli: cli, logger: logger.NewNamedLogger("docker-client")}, nil
}

func (d *dockerClient) EnsureImage(ctx context.Context, imageName string) error {
	_, err := d.cli.ImageInspect(ctx, imageName)
	if err == nil {
		return nil
	}
	if !client.IsErrNotFound(err) {
		return err
	}

	d.logger.Infof("Pulling image %s", imageName)
	reader, err := d.cli.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()
	_, err = io.Copy(io.Discard, reader)
	return err
}

func (d *dockerClient) CreateContainer(
	ctx context.Context,
	containerCfg *container.Config,
	hostCfg *container.HostConfig,
	name string,
) (string, error) {
	resp, err := d.cli.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, name)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (d *dockerClient) StartContainer(ctx context.Context, containerID string) error {
	return d.cli.ContainerStart(ctx, containerID, container.StartOptions{})
}

// WaitContainer blocks until the container stops. It returns ErrContainerTimeout when the
// timeout (or ctx) expires first; the container is left running for the caller to kill.
func (d *dockerClient) WaitContainer(ctx context.Context, containerID string, timeout time.Duration) (int64, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	statusCh, errCh := d.cli.ContainerWait(waitCtx, containerID, container.WaitConditionNotRunning)
	select {
	case status := <-statusCh:
		return status.StatusCode, nil
	case err := <-errCh:
		if waitCtx.Err() != nil {
			return -1, customErr.ErrContainerTimeout
		}
		return -1, err
	case <-waitCtx.Done():
		return -1, customErr.ErrContainerTimeout
	}
}

func (d *dockerClient) ContainerLogs(ctx context.Context, containerID string) ([]byte, []byte, error) {
	reader, err := d.cli.ContainerLogs(ctx, containerID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return nil, nil, err
	}
	defer reader.Close()

	// Caps both streams together; StdCopy stops cleanly at a truncated frame.
	limited := io.LimitReader(reader, 2*constants.MaxCapturedOutputBytes)

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, limited); err != nil && !errors.Is(err, io.EOF) {
		return stdout.Bytes(), stderr.Bytes(), err
	}
	return stdout.Bytes(), stderr.Bytes(), nil
}

func (d *dockerClient) ContainerKill(ctx context.Context, containerID, signal string) {
	if err := d.cli.ContainerKill(ctx, containerID, signal); err != nil && !client.IsErrNotFound(err) {
		d.logger.Warnf("Failed to kill container %s: %s", containerID, err)
	}
}

func (d *dockerClient) ContainerRemove(ctx context.Context, containerID string) {
	err := d.cli.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true})
	if err != nil && !client.IsErrNotFound(err) {
		d.logger.Errorf("Failed to remove container %s: %s", containerID, err)
	}
}
