package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mkenv/internal/commands"
	"github.com/hay-kot/mkenv/internal/core"
	"github.com/hay-kot/mkenv/pkgs/cll"
	"github.com/hay-kot/mkenv/pkgs/printer"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "v0.1.0-develop"
	commit  = "HEAD"
	date    = time.Now().Format(time.DateTime)
)

var envvars = cll.EnvWithPrefix(core.EnvPrefix)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	flags := &core.Flags{}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "mkenv",
		Usage:                 "Create backend/.env from the project template with a fresh encryption key.",
		Version:               build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Aliases:     []string{"l"},
				Usage:       "set the logging verbosity level",
				Value:       "info",
				Sources:     envvars("LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to an optional mkenv configuration file",
				Value:       core.DefaultConfigPath,
				Sources:     envvars("CONFIG_PATH"),
				Destination: &flags.ConfigFilePath,
			},
			&cli.StringFlag{
				Name:        "dir",
				Usage:       "directory the env file is written to (default: " + core.DefaultDir + ")",
				Sources:     envvars("DIR"),
				Destination: &flags.Dir,
			},
			&cli.StringFlag{
				Name:        "file",
				Usage:       "name of the env file (default: " + core.DefaultFile + ")",
				Sources:     envvars("FILE"),
				Destination: &flags.File,
			},
			&cli.StringFlag{
				Name:        "template",
				Usage:       "path to a template to use instead of the built-in one",
				Sources:     envvars("TEMPLATE"),
				Destination: &flags.TemplatePath,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "answer yes to overwrite prompts",
				Destination: &flags.AssumeYes,
			},
			&cli.BoolFlag{
				Name:        "form",
				Usage:       "ask overwrite questions with an interactive form when attached to a terminal",
				Destination: &flags.Form,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(flags.LogLevel)
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)

			log.Debug().
				Str("log-level", flags.LogLevel).
				Str("config", flags.ConfigFilePath).
				Str("dir", flags.Dir).
				Str("file", flags.File).
				Msg("global flags")

			return ctx, nil
		},
		OnUsageError: func(ctx context.Context, cmd *cli.Command, err error, isSubcommand bool) error {
			return err
		},
	}

	app = cll.Register(app,
		commands.NewGenerateCmd(flags),
		commands.NewKeyCmd(flags),
		commands.NewCheckCmd(flags),
		commands.NewEncryptCmd(flags),
	)

	if err := app.Run(context.Background(), os.Args); err != nil {
		printer.FatalError(err)
		os.Exit(1)
	}
}
