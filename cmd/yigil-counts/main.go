package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/yigil-travel/yigil-counts/counter"
	"github.com/yigil-travel/yigil-counts/internal/config"
	"github.com/yigil-travel/yigil-counts/internal/logging"
	"github.com/yigil-travel/yigil-counts/pkg/di"
	"github.com/yigil-travel/yigil-counts/store"
	"go.uber.org/zap"
)

var ErrMissingTarget = errors.New("either --id or --all is required")

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	return newApp(os.Stdout).Run(context.Background(), os.Args)
}

// newApp builds the command tree. Command output goes to out.
func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "yigil-counts",
		Usage:  "Inspect and maintain the cached follow, favor, comment, reply and spot counts",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Print the count of one subject",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "Counter kind, see 'kinds'", Required: true},
					&cli.IntFlag{Name: "id", Usage: "Subject id", Required: true},
					&cli.BoolFlag{Name: "refresh", Usage: "Skip the cache and recompute the count"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withContainer(ctx, c, func(container *di.Container) error {
						cnt, err := container.Registry().Lookup(c.String("kind"))
						if err != nil {
							return err
						}

						if c.Bool("refresh") {
							ctx = counter.WithRefresh(ctx)
						}

						record, err := cnt.EnsureCountByID(ctx, int64(c.Int("id")))
						if err != nil {
							return fmt.Errorf("failed to get %s: %w", cnt.Kind(), err)
						}

						enc := json.NewEncoder(out)
						return enc.Encode(record)
					})
				},
			},
			{
				Name:  "invalidate",
				Usage: "Drop cached counts so they are recomputed on the next read",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "Counter kind, see 'kinds'", Required: true},
					&cli.IntFlag{Name: "id", Usage: "Subject id"},
					&cli.BoolFlag{Name: "all", Usage: "Drop every count of the kind"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if !c.IsSet("id") && !c.Bool("all") {
						return ErrMissingTarget
					}

					return withContainer(ctx, c, func(container *di.Container) error {
						cnt, err := container.Registry().Lookup(c.String("kind"))
						if err != nil {
							return err
						}

						if c.Bool("all") {
							return cnt.InvalidateAll(ctx)
						}
						return cnt.InvalidateByID(ctx, int64(c.Int("id")))
					})
				},
			},
			{
				Name:  "kinds",
				Usage: "List the counter kinds",
				Action: func(ctx context.Context, c *cli.Command) error {
					for _, kind := range counter.Kinds() {
						if _, err := fmt.Fprintln(out, kind); err != nil {
							return err
						}
					}
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "Create the tables and indexes the counters read from",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withContainer(ctx, c, func(container *di.Container) error {
						return store.CreateSchema(ctx, container.DB())
					})
				},
			},
		},
	}
}

// withContainer loads the configuration, builds the container, runs fn and
// releases everything afterwards.
func withContainer(ctx context.Context, c *cli.Command, fn func(*di.Container) error) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	container, err := di.NewContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Warn("Failed to close container", zap.Error(err))
		}
	}()

	return fn(container)
}
