package commands

import (
	"context"
	"fmt"

	"github.com/hay-kot/mkenv/internal/core"
	"github.com/hay-kot/mkenv/internal/envtmpl"
	"github.com/hay-kot/mkenv/internal/keygen"
	"github.com/urfave/cli/v3"
)

type KeyCmd struct {
	coreFlags *core.Flags
	flags     struct {
		Line bool
	}
}

func NewKeyCmd(coreFlags *core.Flags) *KeyCmd {
	return &KeyCmd{coreFlags: coreFlags}
}

func (kc *KeyCmd) Register(app *cli.Command) *cli.Command {
	cmd := &cli.Command{
		Name:  "key",
		Usage: "print a new encryption key without touching any file",
		Description: `Prints a freshly generated key, handy when rotating ENCRYPTION_KEY by hand.

Examples:
	mkenv key
	mkenv key --line >> backend/.env.local`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "line",
				Usage:       "print as an ENCRYPTION_KEY=<key> line",
				Destination: &kc.flags.Line,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return kc.run(ctx)
		},
	}

	app.Commands = append(app.Commands, cmd)
	return app
}

func (kc *KeyCmd) run(ctx context.Context) error {
	key, err := keygen.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate encryption key: %w", err)
	}

	w := stdout(ctx)
	if kc.flags.Line {
		_, err = fmt.Fprintf(w, "%s=%s\n", envtmpl.KeyName, key)
	} else {
		_, err = fmt.Fprintln(w, key)
	}

	return err
}
