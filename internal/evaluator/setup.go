package evaluator

import (
	"fmt"

	"github.com/mini-maxit/judge/internal/config"
	"github.com/mini-maxit/judge/internal/docker"
	"github.com/mini-maxit/judge/internal/stages/executor"
	"github.com/mini-maxit/judge/internal/stages/remote"
	"github.com/mini-maxit/judge/internal/storage"
	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/languages"
)

// NewFromConfig wires the remote and local strategies described by cfg. The returned client
// shares versions with the remote strategy.
func NewFromConfig(cfg *config.Config, versions storage.RuntimeVersionCache) (Evaluator, remote.Client, error) {
	client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.VersionOverrides, versions)

	var dCli docker.DockerClient
	if cfg.Local.Launcher == constants.LauncherDocker {
		var err error
		dCli, err = docker.NewDockerClient()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create docker client: %w", err)
		}
	}

	launcher, err := executor.NewLauncher(cfg.Local.Launcher, cfg.Local.Interpreters(), dCli)
	if err != nil {
		return nil, nil, err
	}

	strategies := map[languages.Strategy]Strategy{
		languages.StrategyRemote: NewRemoteStrategy(client),
		languages.StrategyLocal:  NewLocalStrategy(executor.NewExecutor(launcher)),
	}
	return NewEvaluator(strategies, cfg.DefaultTimeLimit), client, nil
}
