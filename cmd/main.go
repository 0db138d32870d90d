package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"QuickFindr/internal"
	"QuickFindr/internal/favorites"
)

func main() {
	app := &cli.App{
		Name:      "quickfindr",
		Usage:     "Search file names and contents under a directory, streaming matches as they are found",
		ArgsUsage: "QUERY [ROOT]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Match mode: auto, literal, wildcard, regex (auto = wildcard when query contains * or ?)",
				Value: "auto",
			},
			&cli.BoolFlag{
				Name:    "case-sensitive",
				Aliases: []string{"s"},
				Usage:   "Match case exactly (default folds case)",
			},
			&cli.BoolFlag{
				Name:    "content",
				Aliases: []string{"c"},
				Usage:   "Also search file contents, reporting the first matching line",
			},
			&cli.StringSliceFlag{
				Name:  "exclude-ext",
				Usage: "Extensions to skip entirely (comma separated, with or without dot)",
			},
			&cli.BoolFlag{
				Name:  "no-ignore-file",
				Usage: "Do not honor .gitignore rules during traversal",
			},
			&cli.IntFlag{
				Name:  "threads",
				Usage: "Max concurrent file workers (default scales with CPU)",
			},
			&cli.IntFlag{
				Name:  "depth",
				Usage: "Max directory depth (0 - unlimited)",
			},
			&cli.BoolFlag{
				Name:  "archives",
				Usage: "Also search inside archives (.zip,.tar,.gz,...)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Global timeout for the scan (e.g. 30s, 10m)",
			},
			&cli.StringFlag{
				Name:  "logfile",
				Usage: "Write logs into file instead of stderr",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
				Value: "warn",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Disable the live progress display",
			},
			&cli.StringFlag{
				Name:  "favorites-file",
				Usage: "Path to the favorites/recents store",
				Value: favorites.DefaultPath(),
			},
			&cli.BoolFlag{
				Name:  "no-remember",
				Usage: "Do not record the chosen root in recents",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func run(c *cli.Context) error {
	internal.InitLogger(c.String("logfile"), c.String("log-level"))

	if c.NArg() < 1 {
		return cli.Exit("usage: quickfindr QUERY [ROOT]", 1)
	}
	queryText := c.Args().Get(0)

	mode, err := internal.ParseMode(c.String("mode"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	store := favorites.Load(c.String("favorites-file"))
	root := c.Args().Get(1)
	if root == "" {
		if root = store.MostRecent(); root == "" {
			if root, err = os.Getwd(); err != nil {
				return cli.Exit(err.Error(), 1)
			}
		}
		logrus.Infof("No root given, searching %s", root)
	}

	base := context.Background()
	var cancel context.CancelFunc
	if t := c.Duration("timeout"); t > 0 {
		base, cancel = context.WithTimeout(base, t)
	} else {
		base, cancel = context.WithCancel(base)
	}
	defer cancel()
	ctx, stop := signal.NotifyContext(base, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	query := internal.Query{
		Text:          queryText,
		Mode:          mode,
		CaseSensitive: c.Bool("case-sensitive"),
		SearchContent: c.Bool("content"),
	}
	opts := internal.ScanOptions{
		Root:              root,
		RespectIgnoreFile: !c.Bool("no-ignore-file"),
		ExcludeExts:       c.StringSlice("exclude-ext"),
		SearchContent:     c.Bool("content"),
		Threads:           c.Int("threads"),
		Depth:             c.Int("depth"),
		Archives:          c.Bool("archives"),
	}

	sink := newConsoleSink(!c.Bool("no-progress"))
	handle := internal.NewScanner().Start(ctx, opts, query, sink)
	handle.Wait()

	if handle.State() == internal.StateCancelled {
		if err := handle.Err(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return cli.Exit(fmt.Sprintf("scan failed: %v", err), 1)
		}
		logrus.Warn("Scan cancelled")
		return nil
	}

	if !c.Bool("no-remember") {
		store.AddRecent(root)
	}
	return nil
}
