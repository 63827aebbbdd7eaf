// Command judge evaluates scenario files against the local interpreters and the remote
// execution service without going through the queue.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mini-maxit/judge/internal/logger"
	"github.com/urfave/cli/v3"
)

func main() {
	// Log lines share stdout with the report; keep them quiet unless asked for.
	if os.Getenv("LOG_LEVEL") == "" {
		_ = os.Setenv("LOG_LEVEL", "error")
	}
	logger.InitializeLogger()
	defer logger.Sync()

	cmd := &cli.Command{
		Name:  "judge",
		Usage: "evaluate snippet submissions outside the queue",
		Commands: []*cli.Command{
			runCommand(),
			runtimesCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("judge: %s", err))
		os.Exit(1)
	}
}
