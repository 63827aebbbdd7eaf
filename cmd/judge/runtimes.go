package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mini-maxit/judge/internal/config"
	"github.com/mini-maxit/judge/internal/stages/remote"
	"github.com/mini-maxit/judge/internal/storage"
	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/urfave/cli/v3"
)

func runtimesCommand() *cli.Command {
	return &cli.Command{
		Name:  "runtimes",
		Usage: "print the runtime version used for each remotely executed language",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "catalog",
				Usage: "also print the full runtime catalog of the service",
			},
		},
		Action: listRuntimes,
	}
}

func listRuntimes(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewConfig()
	client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.VersionOverrides, storage.NewRuntimeVersionCache())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LANGUAGE\tVERSION")
	for _, lang := range languages.GetRemoteLanguages() {
		version := client.ResolveVersion(ctx, lang)
		if version == constants.DefaultRuntimeVersion {
			version = color.YellowString("%s (unresolved)", version)
		}
		fmt.Fprintf(w, "%s\t%s\n", lang, version)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !cmd.Bool("catalog") {
		return nil
	}

	runtimes, err := client.Runtimes(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout)
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUNTIME\tVERSION\tALIASES")
	for _, r := range runtimes {
		fmt.Fprintf(w, "%s\t%s\t%v\n", r.Language, r.Version, r.Aliases)
	}
	return w.Flush()
}
